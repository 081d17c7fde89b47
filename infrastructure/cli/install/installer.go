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

package install

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
)

const versionMarkerName = "checkov.version"

type Installer interface {
	Find() (string, error)
	Install(ctx context.Context, version string) (string, error)
	Update(ctx context.Context) (bool, error)
	InstalledVersion() string
}

type Install struct {
	c             *config.Config
	errorReporter error_reporting.ErrorReporter
	httpClient    func() *http.Client
}

var _ Installer = (*Install)(nil)

func NewInstaller(c *config.Config, errorReporter error_reporting.ErrorReporter, client func() *http.Client) *Install {
	return &Install{
		c:             c,
		errorReporter: errorReporter,
		httpClient:    client,
	}
}

func (i *Install) Find() (string, error) {
	d := &Discovery{}
	execPath, _ := d.LookConfigPath(i.c)
	if execPath != "" {
		return execPath, nil
	}
	execPath, _ = d.LookUserDir(i.c)
	if execPath != "" {
		return execPath, nil
	}
	execPath, err := d.LookPath()
	if err != nil {
		return "", err
	}
	return execPath, nil
}

func (i *Install) Install(ctx context.Context, version string) (string, error) {
	r := NewEngineRelease(i.httpClient)
	release, err := r.GetRelease(ctx, version)
	if err != nil {
		return "", err
	}
	return i.installRelease(release)
}

func (i *Install) installRelease(release *Release) (string, error) {
	d := NewDownloader(i.c, i.errorReporter, i.httpClient)
	lockFileName, err := i.createLockFile(d)
	if err != nil {
		return "", err
	}
	defer func(name string) { i.cleanupLockFile(name) }(lockFileName)

	err = d.Download(release, DefaultDownloadBaseURL, false)
	if err != nil {
		return "", err
	}
	i.writeVersionMarker(release.Version)

	return i.Find()
}

func (i *Install) Update(ctx context.Context) (bool, error) {
	r := NewEngineRelease(i.httpClient)
	latestRelease, err := r.GetLatestRelease(ctx)
	if err != nil {
		return false, err
	}
	return i.updateFromRelease(latestRelease)
}

func (i *Install) updateFromRelease(r *Release) (bool, error) {
	if i.InstalledVersion() == r.Version {
		// already current, nothing to swap
		return false, nil
	}

	d := NewDownloader(i.c, i.errorReporter, i.httpClient)
	lockFileName, err := i.createLockFile(d)
	if err != nil {
		return false, err
	}
	defer func(name string) { i.cleanupLockFile(name) }(lockFileName)

	err = d.Download(r, DefaultDownloadBaseURL, true)
	if err != nil {
		return false, err
	}

	err = i.replaceOutdatedBinary()
	if err != nil {
		return false, err
	}
	i.writeVersionMarker(r.Version)
	return true, nil
}

func (i *Install) replaceOutdatedBinary() error {
	logger := i.c.Logger().With().Str("method", "replaceOutdatedBinary").Logger()
	logger.Info().Msg("replacing outdated checkov with latest")

	discovery := Discovery{}
	binaryPath := i.c.EngineSettings().Path()
	latestFile := filepath.Join(filepath.Dir(binaryPath), discovery.ExecutableName(true))

	if runtime.GOOS == "windows" {
		// Windows can't replace a running executable in place, but allows
		// renaming it even with an open file handle.
		tildeName := binaryPath + "~"
		if _, err := os.Lstat(tildeName); err == nil {
			if err = os.Remove(tildeName); err != nil {
				logger.Warn().Err(err).Msg("couldn't remove old binary on Windows")
			}
		}
		if err := os.Rename(binaryPath, tildeName); err != nil {
			logger.Warn().Err(err).Msg("couldn't rename current binary on Windows")
			return err
		}
		if err := os.Rename(latestFile, binaryPath); err != nil {
			logger.Warn().Err(err).Msg("couldn't move latest binary on Windows")
			return err
		}
		_ = os.Remove(tildeName)
		return nil
	}

	// Unix systems keep the executable in memory, fine to move.
	err := os.Rename(latestFile, binaryPath)
	if err != nil {
		logger.Warn().Err(err).Msg("couldn't move latest binary to replace current one")
		return err
	}
	return nil
}

// InstalledVersion reads the version recorded by the last managed install.
// It is empty for binaries this integration didn't install.
func (i *Install) InstalledVersion() string {
	marker := filepath.Join(i.c.EngineSettings().DefaultBinaryInstallPath(), versionMarkerName)
	content, err := os.ReadFile(marker)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

func (i *Install) writeVersionMarker(version string) {
	marker := filepath.Join(i.c.EngineSettings().DefaultBinaryInstallPath(), versionMarkerName)
	if err := os.WriteFile(marker, []byte(version), 0644); err != nil {
		i.c.Logger().Warn().Err(err).Msg("couldn't write version marker")
	}
}

func (i *Install) createLockFile(d *Downloader) (lockfileName string, err error) {
	lockFileName := i.c.EngineDownloadLockFileName()
	fileInfo, err := os.Stat(lockFileName)
	if err == nil && (time.Since(fileInfo.ModTime()) < 10*time.Minute) {
		msg := fmt.Sprintf("installer lockfile from %v found", fileInfo.ModTime())
		i.c.Logger().Error().Str("method", "createLockFile").Str("lockfile", lockFileName).Msg(msg)
		return "", errors.New(msg)
	}
	err = d.createLockFile()
	if err != nil {
		return "", err
	}
	return lockFileName, nil
}

func (i *Install) cleanupLockFile(lockFileName string) {
	err := os.Remove(lockFileName)
	if err != nil {
		i.c.Logger().Error().Str("method", "cleanupLockFile").Str("lockfile", lockFileName).Msg("couldn't clean up lockfile")
	}
}

// FakeInstaller counts install/update calls for tests.
type FakeInstaller struct {
	c        *config.Config
	updates  int
	installs int
	// InstallErr makes Install fail when set.
	InstallErr error
	// FindErr makes Find fail when set.
	FindErr error
	version string
	mutex   sync.Mutex
}

var _ Installer = (*FakeInstaller)(nil)

func NewFakeInstaller(c *config.Config) *FakeInstaller {
	return &FakeInstaller{c: c}
}

func (t *FakeInstaller) Installs() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.installs
}

func (t *FakeInstaller) Updates() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.updates
}

func (t *FakeInstaller) Find() (string, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.FindErr != nil {
		return "", t.FindErr
	}
	return t.c.EngineSettings().Path(), nil
}

func (t *FakeInstaller) Install(_ context.Context, version string) (string, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.InstallErr != nil {
		return "", t.InstallErr
	}
	path := t.c.EngineSettings().Path()
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	err := os.WriteFile(path, []byte("fake"), 0755)
	if err != nil {
		return "", err
	}
	t.installs++
	t.version = version
	return path, nil
}

func (t *FakeInstaller) Update(_ context.Context) (bool, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.updates++
	return true, nil
}

func (t *FakeInstaller) InstalledVersion() string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.version
}
