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
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
)

type Downloader struct {
	c             *config.Config
	errorReporter error_reporting.ErrorReporter
	httpClient    func() *http.Client
}

func NewDownloader(c *config.Config, errorReporter error_reporting.ErrorReporter, httpClient func() *http.Client) *Downloader {
	return &Downloader{
		c:             c,
		errorReporter: errorReporter,
		httpClient:    httpClient,
	}
}

// Download fetches the release zip for this platform and places the
// contained binary into the install directory. With isUpdate the binary is
// written under a temporary name so the caller can swap it in.
func (d *Downloader) Download(release *Release, downloadBaseURL string, isUpdate bool) error {
	if release == nil {
		return fmt.Errorf("release cannot be nil")
	}
	logger := d.c.Logger().With().Str("method", "Download").Logger()

	downloadURL, err := release.AssetURL(downloadBaseURL)
	if err != nil {
		return err
	}
	logger.Info().Str("url", downloadURL).Msg("downloading checkov")

	resp, err := d.httpClient().Get(downloadURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download checkov from %q: %s", downloadURL, resp.Status)
	}

	installDir := d.c.EngineSettings().DefaultBinaryInstallPath()
	if err = os.MkdirAll(installDir, 0755); err != nil {
		return err
	}

	zipFile, err := os.CreateTemp(installDir, "checkov-download-*.zip")
	if err != nil {
		return err
	}
	defer func() {
		_ = zipFile.Close()
		_ = os.Remove(zipFile.Name())
	}()

	if _, err = io.Copy(zipFile, resp.Body); err != nil {
		return errors.Wrap(err, "couldn't write downloaded archive")
	}

	discovery := Discovery{}
	destination := filepath.Join(installDir, discovery.ExecutableName(isUpdate))
	return extractBinary(zipFile.Name(), discovery.ExecutableName(false), destination)
}

// extractBinary pulls the named entry out of the archive and moves it into
// place atomically.
func extractBinary(archivePath string, entryName string, destination string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "couldn't open downloaded archive")
	}
	defer func() { _ = reader.Close() }()

	for _, file := range reader.File {
		if filepath.Base(file.Name) != entryName {
			continue
		}
		source, err := file.Open()
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp(filepath.Dir(destination), "checkov-extract-*")
		if err != nil {
			_ = source.Close()
			return err
		}
		//nolint:gosec // the asset is a trusted release archive
		_, err = io.Copy(tmp, source)
		_ = source.Close()
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
			return errors.Wrap(err, "couldn't extract binary")
		}
		if err = os.Chmod(tmp.Name(), 0755); err != nil {
			_ = os.Remove(tmp.Name())
			return err
		}
		return os.Rename(tmp.Name(), destination)
	}
	return fmt.Errorf("archive %q does not contain %q", archivePath, entryName)
}

func (d *Downloader) createLockFile() error {
	lockFile := d.lockFileName()
	file, err := os.Create(lockFile)
	if err != nil {
		d.c.Logger().Err(err).Str("method", "createLockFile").Str("lockfile", lockFile).Msg("couldn't create lockfile")
		return err
	}
	return file.Close()
}

func (d *Downloader) lockFileName() string {
	return d.c.EngineDownloadLockFileName()
}
