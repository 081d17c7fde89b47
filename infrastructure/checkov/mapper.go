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
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/wenzdey/checkov-vscode/domain/scan"
)

// ToIssues projects a scan result onto editor-agnostic issues for one
// document. Findings are ordered by (file, start line, rule id), duplicates
// collapse onto one issue, and out-of-range line numbers are clamped to the
// document instead of being dropped.
func ToIssues(result *scan.Result, displayPath string, documentText string, useBcIDs bool) []scan.Issue {
	if result == nil {
		return nil
	}
	lines := scan.DocumentLines(documentText)

	issues := make([]scan.Issue, 0, len(result.FailedChecks))
	seen := map[string]bool{}
	for _, finding := range result.FailedChecks {
		issue := toIssue(finding, displayPath, lines, useBcIDs)
		key := fmt.Sprintf("%s|%s|%d", issue.ID, issue.AffectedFilePath, issue.Range.Start.Line)
		if seen[key] {
			continue
		}
		seen[key] = true
		issues = append(issues, issue)
	}

	sort.Slice(issues, func(a, b int) bool {
		if issues[a].AffectedFilePath != issues[b].AffectedFilePath {
			return issues[a].AffectedFilePath < issues[b].AffectedFilePath
		}
		if issues[a].Range.Start.Line != issues[b].Range.Start.Line {
			return issues[a].Range.Start.Line < issues[b].Range.Start.Line
		}
		return issues[a].ID < issues[b].ID
	})
	return issues
}

func toIssue(finding scan.Finding, displayPath string, lines []string, useBcIDs bool) scan.Issue {
	id := finding.CheckID
	if useBcIDs && finding.BcCheckID != "" {
		id = finding.BcCheckID
	}

	issue := scan.Issue{
		ID:               id,
		Range:            issueRange(finding, lines),
		Message:          finding.CheckName,
		FormattedMessage: formatMessage(id, finding),
		Severity:         issueSeverity(finding.Severity),
		AffectedFilePath: displayPath,
		Resource:         finding.Resource,
		FixedDefinition:  finding.FixedDefinition,
		CodeBlock:        finding.CodeBlock,
	}

	if guidelineURL := parseGuidelineURL(finding.Guideline); guidelineURL != nil {
		issue.GuidelineURL = guidelineURL
		issue.CodeActions = append(issue.CodeActions, scan.CodeAction{
			Title: fmt.Sprintf("Open guideline for %s in browser", id),
			Command: &scan.Command{
				Title:     "Open guideline in browser",
				Command:   scan.OpenBrowserCommand,
				Arguments: []any{guidelineURL.String()},
			},
		})
	}
	return issue
}

// issueRange converts the finding's 1-based line span to a zero-based range.
// The start character skips the line's indentation, the end character covers
// the whole end line.
func issueRange(finding scan.Finding, lines []string) scan.Range {
	lastLine := len(lines) - 1
	if lastLine < 0 {
		lastLine = 0
	}

	startLine := clamp(finding.StartLine-1, 0, lastLine)
	endLine := clamp(finding.EndLine-1, 0, lastLine)
	if endLine < startLine {
		endLine = startLine
	}

	startChar := 0
	endChar := 0
	if startLine < len(lines) {
		startChar = len(lines[startLine]) - len(strings.TrimLeft(lines[startLine], " \t"))
	}
	if endLine < len(lines) {
		endChar = len(lines[endLine])
	}

	return scan.Range{
		Start: scan.Position{Line: startLine, Character: startChar},
		End:   scan.Position{Line: endLine, Character: endChar},
	}
}

func clamp(value int, minimum int, maximum int) int {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}

func formatMessage(id string, finding scan.Finding) string {
	if finding.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", id, finding.CheckName, finding.Resource)
	}
	return fmt.Sprintf("%s: %s", id, finding.CheckName)
}

func issueSeverity(severity string) scan.Severity {
	switch strings.ToUpper(severity) {
	case "CRITICAL":
		return scan.Critical
	case "HIGH":
		return scan.High
	case "LOW":
		return scan.Low
	default:
		return scan.Medium
	}
}

func parseGuidelineURL(guideline string) *url.URL {
	if guideline == "" {
		return nil
	}
	parsed, err := url.Parse(guideline)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil
	}
	return parsed
}
