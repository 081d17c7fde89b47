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

package cli

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
)

type Executor interface {
	// Execute runs the engine binary. extraEnv entries are appended to the
	// process environment; credentials travel there, never in cmd.
	Execute(ctx context.Context, cmd []string, workingDir string, extraEnv []string) (resp []byte, err error)
	ExpandParametersFromConfig(base []string) []string
}

type CheckovCli struct {
	c             *config.Config
	errorReporter error_reporting.ErrorReporter
	semaphore     chan int
}

var _ Executor = (*CheckovCli)(nil)

func NewExecutor(c *config.Config, errorReporter error_reporting.ErrorReporter) Executor {
	concurrencyLimit := 2
	return &CheckovCli{
		c:             c,
		errorReporter: errorReporter,
		semaphore:     make(chan int, concurrencyLimit),
	}
}

func (c *CheckovCli) Execute(ctx context.Context, cmd []string, workingDir string, extraEnv []string) (resp []byte, err error) {
	method := "CheckovCli.Execute"
	c.c.Logger().Debug().Str("method", method).Interface("cmd", cmd).Str("workingDir", workingDir).Msg("calling checkov")

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// an upper bound so a hanging engine cannot block the document forever
	ctx, cancel := context.WithDeadline(ctx, time.Now().Add(c.c.EngineSettings().Timeout()))
	defer cancel()

	// handle concurrency limit, and when context is canceled
	select {
	case c.semaphore <- 1:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	output, err := c.doExecute(ctx, cmd, workingDir, extraEnv)
	c.c.Logger().Trace().Str("method", method).Str("response", string(output)).Send()
	return output, err
}

func (c *CheckovCli) doExecute(ctx context.Context, cmd []string, workingDir string, extraEnv []string) ([]byte, error) {
	command := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	command.Dir = workingDir
	command.Env = append(os.Environ(), extraEnv...)
	c.c.Logger().Trace().Str("method", "doExecute").Interface("command.Args", command.Args).Send()
	return command.Output()
}

// ExpandParametersFromConfig adds configuration-derived parameters to the
// base command.
func (c *CheckovCli) ExpandParametersFromConfig(base []string) []string {
	expandedParams := base
	if ca := c.c.CertificateAuthority(); ca != "" {
		expandedParams = append(expandedParams, "--ca-certificate", ca)
	}
	if c.c.UseBcIDs() {
		expandedParams = append(expandedParams, "--output-bc-ids")
	}
	if dir := c.c.ExternalChecksDir(); dir != "" {
		expandedParams = append(expandedParams, "--external-checks-dir", dir)
	}
	return expandedParams
}

// Version returns the engine's reported version string, or "" when the
// binary can't be run.
func Version(ctx context.Context, c *config.Config, executor Executor) string {
	cmd := []string{c.EngineSettings().Path(), "--version"}
	output, err := executor.Execute(ctx, cmd, "", nil)
	if err != nil {
		c.Logger().Error().Err(err).Msg("failed to run version command")
		return ""
	}
	return strings.Trim(string(output), "\n")
}
