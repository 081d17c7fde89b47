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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
	"github.com/wenzdey/checkov-vscode/internal/testutil"
)

func Test_ExpandParametersFromConfig(t *testing.T) {
	c := testutil.UnitTest(t)
	c.SetCertificateAuthority("/etc/ssl/corp-ca.pem")
	c.SetUseBcIDs(true)
	c.SetExternalChecksDir("/work/custom-checks")
	executor := NewExecutor(c, error_reporting.NewTestErrorReporter())

	cmd := executor.ExpandParametersFromConfig([]string{"checkov", "-f", "main.tf"})

	assert.Equal(t, []string{
		"checkov", "-f", "main.tf",
		"--ca-certificate", "/etc/ssl/corp-ca.pem",
		"--output-bc-ids",
		"--external-checks-dir", "/work/custom-checks",
	}, cmd)
}

func Test_ExpandParametersFromConfig_NothingConfigured(t *testing.T) {
	c := testutil.UnitTest(t)
	executor := NewExecutor(c, error_reporting.NewTestErrorReporter())

	cmd := executor.ExpandParametersFromConfig([]string{"checkov", "-f", "main.tf"})

	assert.Equal(t, []string{"checkov", "-f", "main.tf"}, cmd)
}

func Test_Execute_HonorsCancelledContext(t *testing.T) {
	c := testutil.UnitTest(t)
	c.EngineSettings().SetTimeout(time.Minute)
	executor := NewExecutor(c, error_reporting.NewTestErrorReporter())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.Execute(ctx, []string{"checkov", "--version"}, "", nil)

	assert.ErrorIs(t, err, context.Canceled)
}
