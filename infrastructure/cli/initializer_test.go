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
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/infrastructure/cli/install"
	"github.com/wenzdey/checkov-vscode/internal/notification"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
	"github.com/wenzdey/checkov-vscode/internal/testutil"
)

func setupInitializer(t *testing.T) (*Initializer, *install.FakeInstaller, *notification.MockNotifier) {
	t.Helper()
	c := testutil.UnitTest(t)
	c.SetManageBinariesAutomatically(true)
	c.EngineSettings().SetPath(filepath.Join(t.TempDir(), "checkov"))

	installer := install.NewFakeInstaller(c)
	notifier := notification.NewMockNotifier()
	initializer := NewInitializer(c, error_reporting.NewTestErrorReporter(), notifier, installer, NewTestExecutor(c))
	return initializer, installer, notifier
}

func Test_EnsureInstalled_DownloadsWhenMissing(t *testing.T) {
	initializer, installer, notifier := setupInitializer(t)
	installer.FindErr = errors.New("not found")

	err := initializer.EnsureInstalled(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Ready, initializer.State())
	assert.Equal(t, 1, installer.Installs())

	var available *notification.CheckovIsAvailable
	for _, msg := range notifier.SentMessages() {
		if m, ok := msg.(notification.CheckovIsAvailable); ok {
			available = &m
		}
	}
	require.NotNil(t, available)
	assert.NotEmpty(t, available.Path)
}

func Test_EnsureInstalled_ConcurrentCallsInstallOnce(t *testing.T) {
	initializer, installer, _ := setupInitializer(t)
	installer.FindErr = errors.New("not found")

	var wg sync.WaitGroup
	for j := 0; j < 5; j++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, initializer.EnsureInstalled(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, installer.Installs())
	assert.Equal(t, Ready, initializer.State())
}

func Test_EnsureInstalled_FailureStaysFailedUntilRetry(t *testing.T) {
	initializer, installer, _ := setupInitializer(t)
	installer.FindErr = errors.New("not found")
	installer.InstallErr = errors.New("download interrupted")

	err := initializer.EnsureInstalled(context.Background())

	var installationError *scan.InstallationError
	require.ErrorAs(t, err, &installationError)
	assert.Equal(t, Failed, initializer.State())

	// no automatic retry, the failure is returned as-is
	err = initializer.EnsureInstalled(context.Background())
	require.ErrorAs(t, err, &installationError)
	assert.Equal(t, 0, installer.Installs())

	installer.InstallErr = nil
	initializer.Retry()

	err = initializer.EnsureInstalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Ready, initializer.State())
	assert.Equal(t, 1, installer.Installs())
}

func Test_EnsureInstalled_RejectedVersionDoesNotStick(t *testing.T) {
	initializer, installer, _ := setupInitializer(t)
	require.Error(t, initializer.c.SetCheckovVersion("1.0.800"))

	err := initializer.EnsureInstalled(context.Background())
	require.NoError(t, err) // rejected version never replaced the configured one
	assert.LessOrEqual(t, installer.Installs(), 1)
}

func Test_EnsureInstalled_ManagedBinariesDisabledWithoutBinary(t *testing.T) {
	initializer, installer, _ := setupInitializer(t)
	initializer.c.SetManageBinariesAutomatically(false)
	installer.FindErr = errors.New("not found")

	err := initializer.EnsureInstalled(context.Background())

	var installationError *scan.InstallationError
	require.ErrorAs(t, err, &installationError)
	assert.Equal(t, Failed, initializer.State())
	assert.Equal(t, 0, installer.Installs())
}

func Test_EnsureInstalled_ReadyCallbackFires(t *testing.T) {
	initializer, installer, _ := setupInitializer(t)
	installer.FindErr = errors.New("not found")

	ready := make(chan struct{})
	initializer.SetReadyCallback(func() { close(ready) })

	require.NoError(t, initializer.EnsureInstalled(context.Background()))
	<-ready
}
