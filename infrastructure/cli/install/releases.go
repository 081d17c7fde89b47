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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wenzdey/checkov-vscode/application/config"
)

const (
	DefaultAPIBaseURL      = "https://api.github.com/repos/bridgecrewio/checkov/releases"
	DefaultDownloadBaseURL = "https://github.com/bridgecrewio/checkov/releases/download"
)

// Release is one published engine version.
type Release struct {
	Version string `json:"tag_name"`
}

// AssetURL builds the download location for this platform's asset.
func (r *Release) AssetURL(downloadBaseURL string) (string, error) {
	d := Discovery{}
	asset, err := d.AssetName()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", downloadBaseURL, r.Version, asset), nil
}

type EngineRelease struct {
	apiBaseURL      string
	downloadBaseURL string
	httpClient      func() *http.Client
}

func NewEngineRelease(httpClient func() *http.Client) *EngineRelease {
	return &EngineRelease{
		apiBaseURL:      DefaultAPIBaseURL,
		downloadBaseURL: DefaultDownloadBaseURL,
		httpClient:      httpClient,
	}
}

// GetRelease resolves a requested version. The latest sentinel is resolved
// over the network; pinned versions are validated offline and used as-is.
func (r *EngineRelease) GetRelease(ctx context.Context, version string) (*Release, error) {
	if version == config.LatestVersion {
		return r.GetLatestRelease(ctx)
	}
	if err := config.ValidateCheckovVersion(version); err != nil {
		return nil, err
	}
	return &Release{Version: version}, nil
}

func (r *EngineRelease) GetLatestRelease(ctx context.Context) (*Release, error) {
	releaseURL := r.apiBaseURL + "/latest"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to obtain checkov release from %q: %s", releaseURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	release := Release{}
	err = json.Unmarshal(body, &release)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to unmarshal: %q", err, string(body))
	}
	release.Version = strings.TrimSpace(release.Version)
	if release.Version == "" {
		return nil, fmt.Errorf("release metadata from %q has no version tag", releaseURL)
	}
	return &release, nil
}
