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
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/infrastructure/cli"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
)

var supportedExtensions = map[string]bool{
	".tf":   true,
	".yaml": true,
	".yml":  true,
	".json": true,
}

// IsSupportedFile reports whether the engine can scan the given path.
func IsSupportedFile(path string) bool {
	if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	base := filepath.Base(path)
	return base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile.")
}

// Scanner runs the engine against a single file and parses its JSON report.
type Scanner struct {
	c             *config.Config
	executor      cli.Executor
	errorReporter error_reporting.ErrorReporter
}

func NewScanner(c *config.Config, executor cli.Executor, errorReporter error_reporting.ErrorReporter) *Scanner {
	return &Scanner{
		c:             c,
		executor:      executor,
		errorReporter: errorReporter,
	}
}

// Scan invokes the engine for one request. Cancellation is checked before
// the process is dispatched and again after it returns, so a scan that was
// superseded mid-flight yields context.Canceled rather than a result.
func (s *Scanner) Scan(ctx context.Context, req scan.Request) (*scan.Result, error) {
	logger := s.c.Logger().With().Str("method", "checkov.Scan").Logger()

	if ctx.Err() != nil {
		logger.Debug().Msg("cancelled before dispatch")
		return nil, context.Canceled
	}

	cmd := []string{s.c.EngineSettings().Path(), "-f", req.FilePath, "-o", "json", "-s"}
	cmd = s.executor.ExpandParametersFromConfig(cmd)

	output, err := s.executor.Execute(ctx, cmd, filepath.Dir(req.FilePath), s.environment(req))
	if ctx.Err() != nil {
		logger.Debug().Msg("cancelled during engine run")
		return nil, context.Canceled
	}
	if err != nil {
		var exitError *exec.ExitError
		// exit code 1 still carries a parseable report when soft fail is off
		// for a subset of checks, anything above that is a real failure
		if !errors.As(err, &exitError) || exitError.ExitCode() > 1 || len(bytes.TrimSpace(output)) == 0 {
			return nil, s.executionError(req, output, err)
		}
	}

	result, err := parseOutput(output)
	if err != nil {
		s.errorReporter.CaptureError(err)
		return nil, s.executionError(req, output, err)
	}
	if result.EngineVersion == "" {
		result.EngineVersion = req.EngineVersion
	}
	logger.Debug().Str("path", req.DisplayPath).Int("failed", len(result.FailedChecks)).Msg("scan finished")
	return result, nil
}

// environment returns the credential variables for one engine run. The
// token travels here and must never be appended to the command line.
func (s *Scanner) environment(req scan.Request) []string {
	var env []string
	if req.Token != "" {
		env = append(env, "BC_API_KEY="+req.Token)
	}
	if req.BackendURL != "" {
		env = append(env, "BC_API_URL="+req.BackendURL)
	}
	return env
}

func (s *Scanner) executionError(req scan.Request, output []byte, cause error) error {
	exitCode := -1
	var exitError *exec.ExitError
	if errors.As(cause, &exitError) {
		exitCode = exitError.ExitCode()
		if len(output) == 0 {
			output = exitError.Stderr
		}
	}
	return &scan.ExecutionError{
		ExitCode: exitCode,
		Output:   sanitizeOutput(string(output), req.Token),
		Cause:    errors.Wrap(cause, "checkov execution failed"),
	}
}

// sanitizeOutput strips credential material from engine output before it can
// reach logs or user-facing messages.
func sanitizeOutput(output string, token string) string {
	if token == "" {
		return output
	}
	return strings.ReplaceAll(output, token, "<redacted>")
}

// parseOutput accepts both report shapes the engine produces: a single
// object for one matched framework and an array for several.
func parseOutput(output []byte) (*scan.Result, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return &scan.Result{}, nil
	}

	var sections []scanOutput
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &sections); err != nil {
			return nil, errors.Wrap(err, "couldn't parse checkov output")
		}
	} else {
		var single scanOutput
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, errors.Wrap(err, "couldn't parse checkov output")
		}
		sections = append(sections, single)
	}

	result := &scan.Result{}
	for _, section := range sections {
		if result.EngineVersion == "" {
			result.EngineVersion = section.Summary.CheckovVersion
		}
		result.PassedCount += section.Summary.Passed
		for _, check := range section.Results.FailedChecks {
			finding := scan.Finding{
				CheckID:         check.CheckID,
				BcCheckID:       check.BcCheckID,
				CheckName:       check.CheckName,
				FilePath:        check.FilePath,
				StartLine:       check.startLine(),
				EndLine:         check.endLine(),
				Resource:        check.Resource,
				Severity:        check.Severity,
				Guideline:       check.Guideline,
				FixedDefinition: check.FixedDefinition,
			}
			for _, entry := range check.CodeBlock {
				finding.CodeBlock = append(finding.CodeBlock, scan.CodeLine{Number: entry.Number, Text: entry.Text})
			}
			result.FailedChecks = append(result.FailedChecks, finding)
		}
	}
	return result, nil
}
