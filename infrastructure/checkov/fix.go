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
	"strings"

	"github.com/wenzdey/checkov-vscode/domain/scan"
)

// SynthesizeFix turns an engine-suggested fixed definition into a text edit
// replacing the finding's code block. The block is re-validated against the
// current document text: when any anchored line has drifted the fix is
// withheld and nil is returned. A withheld fix is not an error, the
// diagnostic stays visible without a quick fix.
func SynthesizeFix(issue scan.Issue, documentText string) *scan.TextEdit {
	if !issue.HasFix() {
		return nil
	}
	lines := scan.DocumentLines(documentText)

	firstLine := issue.CodeBlock[0].Number
	lastLine := firstLine
	for _, codeLine := range issue.CodeBlock {
		index := codeLine.Number - 1
		if index < 0 || index >= len(lines) {
			return nil
		}
		if lines[index] != strings.TrimRight(codeLine.Text, "\n") {
			return nil
		}
		if codeLine.Number < firstLine {
			firstLine = codeLine.Number
		}
		if codeLine.Number > lastLine {
			lastLine = codeLine.Number
		}
	}

	return &scan.TextEdit{
		Range: scan.Range{
			Start: scan.Position{Line: firstLine - 1, Character: 0},
			End:   scan.Position{Line: lastLine - 1, Character: len(lines[lastLine-1])},
		},
		NewText: strings.TrimSuffix(issue.FixedDefinition, "\n"),
	}
}
