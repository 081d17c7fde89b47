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

package converter

import (
	sglsp "github.com/sourcegraph/go-lsp"

	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/internal/uri"
)

const diagnosticSource = "checkov"

func FromPosition(pos scan.Position) sglsp.Position {
	return sglsp.Position{Line: pos.Line, Character: pos.Character}
}

func FromRange(r scan.Range) sglsp.Range {
	return sglsp.Range{Start: FromPosition(r.Start), End: FromPosition(r.End)}
}

func ToPosition(pos sglsp.Position) scan.Position {
	return scan.Position{Line: pos.Line, Character: pos.Character}
}

func ToRange(r sglsp.Range) scan.Range {
	return scan.Range{Start: ToPosition(r.Start), End: ToPosition(r.End)}
}

func FromSeverity(severity scan.Severity) sglsp.DiagnosticSeverity {
	switch severity {
	case scan.Critical:
		return sglsp.Error
	case scan.High:
		return sglsp.Error
	case scan.Medium:
		return sglsp.Warning
	case scan.Low:
		return sglsp.Information
	default:
		return sglsp.Information
	}
}

// ToDiagnostic maps one issue onto the LSP diagnostic published to the
// editor.
func ToDiagnostic(issue scan.Issue) sglsp.Diagnostic {
	return sglsp.Diagnostic{
		Source:   diagnosticSource,
		Range:    FromRange(issue.Range),
		Message:  issue.FormattedMessage,
		Code:     issue.ID,
		Severity: FromSeverity(issue.Severity),
	}
}

func ToDiagnostics(issues []scan.Issue) []sglsp.Diagnostic {
	diagnostics := make([]sglsp.Diagnostic, 0, len(issues))
	for _, issue := range issues {
		diagnostics = append(diagnostics, ToDiagnostic(issue))
	}
	return diagnostics
}

// ToPublishParams builds the notification payload replacing the previous
// diagnostic set of the document. An empty issue list clears it.
func ToPublishParams(filePath string, issues []scan.Issue) sglsp.PublishDiagnosticsParams {
	return sglsp.PublishDiagnosticsParams{
		URI:         uri.PathToUri(filePath),
		Diagnostics: ToDiagnostics(issues),
	}
}
