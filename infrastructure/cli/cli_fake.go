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
	"sync"
	"time"

	"github.com/wenzdey/checkov-vscode/application/config"
)

// TestExecutor is a fake executor that records invocations.
type TestExecutor struct {
	c               *config.Config
	mutex           sync.Mutex
	wasExecuted     bool
	commands        [][]string
	envs            [][]string
	ExecuteResponse []byte
	ExecuteErr      error
	ExecuteDuration time.Duration
}

var _ Executor = (*TestExecutor)(nil)

func NewTestExecutor(c *config.Config) *TestExecutor {
	return &TestExecutor{c: c, ExecuteResponse: []byte("{}")}
}

func (t *TestExecutor) Execute(ctx context.Context, cmd []string, _ string, extraEnv []string) ([]byte, error) {
	if ctx.Err() != nil { // cancellation wins over execution
		return nil, ctx.Err()
	}

	if t.ExecuteDuration > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.ExecuteDuration):
		}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.wasExecuted = true
	t.commands = append(t.commands, cmd)
	t.envs = append(t.envs, extraEnv)
	return t.ExecuteResponse, t.ExecuteErr
}

func (t *TestExecutor) ExpandParametersFromConfig(base []string) []string {
	return base
}

func (t *TestExecutor) WasExecuted() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.wasExecuted
}

func (t *TestExecutor) Commands() [][]string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([][]string{}, t.commands...)
}

func (t *TestExecutor) Envs() [][]string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([][]string{}, t.envs...)
}
