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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/infrastructure/cli"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
	"github.com/wenzdey/checkov-vscode/internal/testutil"
)

const sampleOutput = `{
  "check_type": "terraform",
  "results": {
    "failed_checks": [
      {
        "check_id": "CKV_AWS_18",
        "bc_check_id": "BC_AWS_S3_13",
        "check_name": "Ensure the S3 bucket has access logging enabled",
        "file_path": "/main.tf",
        "file_line_range": [1, 3],
        "resource": "aws_s3_bucket.data",
        "severity": "MEDIUM",
        "guideline": "https://docs.bridgecrew.io/docs/s3_13-enable-logging",
        "fixed_definition": "resource \"aws_s3_bucket\" \"data\" {\n  bucket = \"data\"\n  logging {}\n}",
        "code_block": [
          [1, "resource \"aws_s3_bucket\" \"data\" {"],
          [2, "  bucket = \"data\""],
          [3, "}"]
        ]
      }
    ]
  },
  "summary": {"passed": 4, "failed": 1, "checkov_version": "2.3.155"}
}`

func setupScanner(t *testing.T) (*Scanner, *cli.TestExecutor) {
	t.Helper()
	c := testutil.UnitTest(t)
	executor := cli.NewTestExecutor(c)
	scanner := NewScanner(c, executor, error_reporting.NewTestErrorReporter())
	return scanner, executor
}

func Test_Scan_BuildsCommandAndKeepsTokenOutOfArgv(t *testing.T) {
	scanner, executor := setupScanner(t)
	executor.ExecuteResponse = []byte(sampleOutput)

	token := "00000000-0000-0000-0000-000000000001"
	_, err := scanner.Scan(context.Background(), scan.Request{
		FilePath:    "/tmp/main.tf",
		DisplayPath: "/tmp/main.tf",
		Token:       token,
		BackendURL:  "https://bridgecrew.example.com",
	})
	require.NoError(t, err)

	commands := executor.Commands()
	require.Len(t, commands, 1)
	cmd := commands[0]
	assert.Contains(t, cmd, "-f")
	assert.Contains(t, cmd, "/tmp/main.tf")
	assert.Contains(t, cmd, "-o")
	assert.Contains(t, cmd, "json")
	assert.Contains(t, cmd, "-s")
	for _, arg := range cmd {
		assert.NotContains(t, arg, token)
	}

	envs := executor.Envs()
	require.Len(t, envs, 1)
	assert.Contains(t, envs[0], "BC_API_KEY="+token)
	assert.Contains(t, envs[0], "BC_API_URL=https://bridgecrew.example.com")
}

func Test_Scan_ParsesSingleObjectOutput(t *testing.T) {
	scanner, executor := setupScanner(t)
	executor.ExecuteResponse = []byte(sampleOutput)

	result, err := scanner.Scan(context.Background(), scan.Request{FilePath: "/tmp/main.tf", DisplayPath: "/tmp/main.tf"})

	require.NoError(t, err)
	assert.Equal(t, "2.3.155", result.EngineVersion)
	assert.Equal(t, 4, result.PassedCount)
	require.Len(t, result.FailedChecks, 1)

	finding := result.FailedChecks[0]
	assert.Equal(t, "CKV_AWS_18", finding.CheckID)
	assert.Equal(t, "BC_AWS_S3_13", finding.BcCheckID)
	assert.Equal(t, 1, finding.StartLine)
	assert.Equal(t, 3, finding.EndLine)
	require.Len(t, finding.CodeBlock, 3)
	assert.Equal(t, 2, finding.CodeBlock[1].Number)
	assert.Equal(t, "  bucket = \"data\"", finding.CodeBlock[1].Text)
}

func Test_Scan_ParsesArrayOutput(t *testing.T) {
	scanner, executor := setupScanner(t)
	executor.ExecuteResponse = []byte("[" + sampleOutput + "," + sampleOutput + "]")

	result, err := scanner.Scan(context.Background(), scan.Request{FilePath: "/tmp/main.tf", DisplayPath: "/tmp/main.tf"})

	require.NoError(t, err)
	assert.Len(t, result.FailedChecks, 2)
	assert.Equal(t, 8, result.PassedCount)
}

func Test_Scan_CancelledBeforeDispatch(t *testing.T) {
	scanner, executor := setupScanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.Scan(ctx, scan.Request{FilePath: "/tmp/main.tf", DisplayPath: "/tmp/main.tf"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, executor.WasExecuted())
}

func Test_Scan_ExecutionFailureRedactsToken(t *testing.T) {
	scanner, executor := setupScanner(t)
	token := "super-secret-token"
	executor.ExecuteResponse = []byte("engine rejected credentials super-secret-token for backend")
	executor.ExecuteErr = errors.New("exit status 2")

	_, err := scanner.Scan(context.Background(), scan.Request{FilePath: "/tmp/main.tf", DisplayPath: "/tmp/main.tf", Token: token})

	var executionError *scan.ExecutionError
	require.ErrorAs(t, err, &executionError)
	assert.NotContains(t, executionError.Output, token)
	assert.Contains(t, executionError.Output, "<redacted>")
	assert.NotContains(t, executionError.Error(), token)
}

func Test_Scan_EmptyOutputYieldsEmptyResult(t *testing.T) {
	scanner, executor := setupScanner(t)
	executor.ExecuteResponse = []byte("\n")

	result, err := scanner.Scan(context.Background(), scan.Request{FilePath: "/tmp/main.tf", DisplayPath: "/tmp/main.tf"})

	require.NoError(t, err)
	assert.Empty(t, result.FailedChecks)
}

func Test_IsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("/work/main.tf"))
	assert.True(t, IsSupportedFile("/work/template.yaml"))
	assert.True(t, IsSupportedFile("/work/template.yml"))
	assert.True(t, IsSupportedFile("/work/cfn.json"))
	assert.True(t, IsSupportedFile("/work/Dockerfile"))
	assert.True(t, IsSupportedFile("/work/Dockerfile.prod"))
	assert.False(t, IsSupportedFile("/work/main.go"))
	assert.False(t, IsSupportedFile("/work/README.md"))
}
