/*
 * © 2023 wenzdey
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package checkov

import (
	"encoding/json"
	"fmt"
)

// scanOutput is one check-type section of the engine's JSON report. The
// engine emits a single object when one framework matched the file and an
// array when several did.
type scanOutput struct {
	CheckType string       `json:"check_type"`
	Results   checkResults `json:"results"`
	Summary   scanSummary  `json:"summary"`
}

type checkResults struct {
	FailedChecks []failedCheck `json:"failed_checks"`
}

type scanSummary struct {
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	CheckovVersion string `json:"checkov_version"`
}

type failedCheck struct {
	CheckID         string           `json:"check_id"`
	BcCheckID       string           `json:"bc_check_id"`
	CheckName       string           `json:"check_name"`
	FilePath        string           `json:"file_path"`
	FileLineRange   []int            `json:"file_line_range"`
	Resource        string           `json:"resource"`
	Severity        string           `json:"severity"`
	Guideline       string           `json:"guideline"`
	FixedDefinition string           `json:"fixed_definition"`
	CodeBlock       []codeBlockEntry `json:"code_block"`
}

// codeBlockEntry is a [lineNumber, lineText] pair as serialized by the
// engine.
type codeBlockEntry struct {
	Number int
	Text   string
}

func (e *codeBlockEntry) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("code block entry has %d elements, expected 2", len(pair))
	}
	number, ok := pair[0].(float64)
	if !ok {
		return fmt.Errorf("code block entry line number is %T, expected a number", pair[0])
	}
	text, ok := pair[1].(string)
	if !ok {
		return fmt.Errorf("code block entry text is %T, expected a string", pair[1])
	}
	e.Number = int(number)
	e.Text = text
	return nil
}

func (c failedCheck) startLine() int {
	if len(c.FileLineRange) > 0 {
		return c.FileLineRange[0]
	}
	return 1
}

func (c failedCheck) endLine() int {
	if len(c.FileLineRange) > 1 {
		return c.FileLineRange[1]
	}
	return c.startLine()
}
