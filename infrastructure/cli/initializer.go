/*
 * Copyright 2023 wenzdey
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
	"os"
	"strings"
	"sync"
	"time"

	sglsp "github.com/sourcegraph/go-lsp"
	"golang.org/x/sync/singleflight"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/infrastructure/cli/install"
	"github.com/wenzdey/checkov-vscode/internal/notification"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
)

type InstallationState int8

const (
	Uninstalled InstallationState = iota
	Installing
	Ready
	Failed
)

func (s InstallationState) String() string {
	switch s {
	case Installing:
		return "installing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninstalled"
	}
}

// Initializer makes sure a usable engine binary is in place before scans
// run. Installation runs single-flight: concurrent callers share one
// outcome instead of racing downloads.
type Initializer struct {
	c             *config.Config
	errorReporter error_reporting.ErrorReporter
	notifier      notification.Notifier
	installer     install.Installer
	executor      Executor

	group         singleflight.Group
	mutex         sync.Mutex
	state         InstallationState
	version       string
	lastErr       error
	readyCallback func()
}

func NewInitializer(
	c *config.Config,
	errorReporter error_reporting.ErrorReporter,
	notifier notification.Notifier,
	installer install.Installer,
	executor Executor,
) *Initializer {
	return &Initializer{
		c:             c,
		errorReporter: errorReporter,
		notifier:      notifier,
		installer:     installer,
		executor:      executor,
		state:         Uninstalled,
	}
}

// SetReadyCallback registers a hook invoked after the engine becomes
// usable, e.g. to rescan the focused document.
func (i *Initializer) SetReadyCallback(callback func()) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.readyCallback = callback
}

func (i *Initializer) State() InstallationState {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.state
}

// Version reports the engine version once the state is Ready.
func (i *Initializer) Version() string {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.version
}

func (i *Initializer) LastError() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.lastErr
}

// EnsureInstalled blocks until the engine is usable or installation fails.
// A second caller while an installation is in flight awaits the first
// outcome instead of starting a parallel install. After a failure the state
// stays Failed and every call returns the installation error until Retry.
func (i *Initializer) EnsureInstalled(ctx context.Context) error {
	requested := i.c.CheckovVersion()
	if err := config.ValidateCheckovVersion(requested); err != nil {
		return err
	}

	i.mutex.Lock()
	switch i.state {
	case Ready:
		if requested == config.LatestVersion || requested == i.version {
			i.mutex.Unlock()
			return nil
		}
	case Failed:
		lastErr := i.lastErr
		i.mutex.Unlock()
		return &scan.InstallationError{Cause: lastErr}
	default:
	}
	i.mutex.Unlock()

	result, err, _ := i.group.Do("install", func() (any, error) {
		return nil, i.ensure(ctx, requested)
	})
	_ = result
	return err
}

// Retry clears a failed state so the next EnsureInstalled attempts again.
// Retries are manual, never automatic.
func (i *Initializer) Retry() {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if i.state == Failed {
		i.state = Uninstalled
		i.lastErr = nil
	}
}

func (i *Initializer) ensure(ctx context.Context, requested string) error {
	logger := i.c.Logger().With().Str("method", "cli.ensure").Logger()
	i.transition(Installing, "", nil)

	path, err := i.resolveBinary(ctx, requested)
	if err != nil {
		i.transition(Failed, "", err)
		i.errorReporter.CaptureError(err)
		i.notifier.SendShowMessage(sglsp.MTWarning, "Failed to install checkov. Scanning is disabled until a retry succeeds.")
		return &scan.InstallationError{Cause: err}
	}

	i.c.EngineSettings().SetPath(path)
	version := i.installer.InstalledVersion()
	if version == "" {
		version = Version(ctx, i.c, i.executor)
	}

	i.transition(Ready, version, nil)
	logger.Info().Str("path", path).Str("version", version).Msg("checkov is available")
	i.notifier.Send(notification.CheckovIsAvailable{Path: path, Version: version})

	i.mutex.Lock()
	callback := i.readyCallback
	i.mutex.Unlock()
	if callback != nil {
		go callback()
	}

	if requested == config.LatestVersion && i.isOutdatedBinary(path) {
		go i.update(context.Background())
	}
	return nil
}

func (i *Initializer) resolveBinary(ctx context.Context, requested string) (string, error) {
	logger := i.c.Logger().With().Str("method", "cli.resolveBinary").Logger()

	if i.c.EngineSettings().IsPathDefined() && i.c.EngineSettings().Installed() {
		return i.c.EngineSettings().Path(), nil
	}

	if !i.c.ManageBinariesAutomatically() {
		path, err := i.installer.Find()
		if err != nil {
			return "", errors.New("automatic downloads are disabled and no checkov binary was found; enable automatic downloads or configure a valid path")
		}
		return path, nil
	}

	path, err := i.installer.Find()
	if err == nil && (requested == config.LatestVersion || requested == i.installer.InstalledVersion()) {
		logger.Info().Str("path", path).Msg("found existing checkov binary")
		return path, nil
	}

	i.notifier.SendShowMessage(sglsp.Info, "Checkov will be downloaded to run infrastructure-as-code scans.")
	path, err = i.installer.Install(ctx, requested)
	if err != nil {
		logger.Err(err).Msg("could not download checkov")
		i.handleInstallerError(err)
		return "", err
	}
	i.notifier.SendShowMessage(sglsp.Info, "Checkov has been downloaded.")
	return path, nil
}

func (i *Initializer) handleInstallerError(err error) {
	// concurrent downloads resolve themselves, no need to report those
	if !strings.Contains(err.Error(), "installer lockfile from ") {
		i.errorReporter.CaptureError(err)
	}
}

func (i *Initializer) update(ctx context.Context) {
	_, err, _ := i.group.Do("update", func() (any, error) {
		updated, updateErr := i.installer.Update(ctx)
		if updateErr != nil {
			i.c.Logger().Err(updateErr).Str("method", "cli.update").Msg("failed to update checkov")
			i.handleInstallerError(updateErr)
			return nil, updateErr
		}
		if updated {
			i.c.Logger().Info().Str("method", "cli.update").Msg("checkov updated")
			i.mutex.Lock()
			i.version = i.installer.InstalledVersion()
			i.mutex.Unlock()
		} else {
			i.c.Logger().Info().Str("method", "cli.update").Msg("checkov is latest")
		}
		return nil, nil
	})
	_ = err
}

func (i *Initializer) isOutdatedBinary(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	fourDaysAgo := time.Now().Add(-time.Hour * 24 * 4)
	return fileInfo.ModTime().Before(fourDaysAgo)
}

func (i *Initializer) transition(state InstallationState, version string, err error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.c.Logger().Debug().
		Str("method", "cli.transition").
		Str("from", i.state.String()).
		Str("to", state.String()).
		Msg("installation state change")
	i.state = state
	i.version = version
	i.lastErr = err
}
