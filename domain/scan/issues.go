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

package scan

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Issue models a policy violation found by Checkov, bound to a position in
// a document. It is the editor-agnostic projection of a Finding.
type Issue struct {
	// ID is the Checkov check id (or the Bridgecrew id when the scan ran
	// with platform ids enabled), e.g. CKV_AWS_18.
	ID               string
	Range            Range
	Message          string
	FormattedMessage string
	Severity         Severity
	AffectedFilePath string
	Resource         string
	GuidelineURL     *url.URL
	CodeActions      []CodeAction

	// FixedDefinition holds the engine-suggested replacement for the
	// resource block, when the engine knows a deterministic fix.
	FixedDefinition string
	// CodeBlock is the block of source lines the finding refers to, as the
	// engine saw them. It anchors fix re-validation against a live document.
	CodeBlock []CodeLine
}

// CodeLine is a single 1-based source line as reported by the engine.
type CodeLine struct {
	Number int
	Text   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s, ID: %s, Range: %s", i.AffectedFilePath, i.ID, i.Range)
}

func (i Issue) HasFix() bool {
	return i.FixedDefinition != "" && len(i.CodeBlock) > 0
}

type IssuesByFile map[string][]Issue

type CodeAction struct {
	// A short, human-readable, title for this code action.
	Title string

	// Marks this as a preferred action. Preferred actions are applied by
	// auto-fix keybindings.
	IsPreferred bool

	// The workspace edit this code action performs, if it could be computed
	// eagerly.
	Edit *WorkspaceEdit

	// Uuid identifies an action whose edit is computed lazily at resolve
	// time.
	Uuid *uuid.UUID

	// Command to execute instead of (or in addition to) an edit.
	Command *Command
}

type Command struct {
	Title     string
	Command   string
	Arguments []any
}

const OpenBrowserCommand = "checkov.openBrowser"
