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
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/internal/testutil"
)

func Test_GetRelease_PinnedVersionResolvesOffline(t *testing.T) {
	testutil.UnitTest(t)
	r := NewEngineRelease(func() *http.Client {
		t.Fatal("pinned versions must not hit the network")
		return nil
	})

	release, err := r.GetRelease(context.Background(), "2.3.155")

	require.NoError(t, err)
	assert.Equal(t, "2.3.155", release.Version)
}

func Test_GetRelease_RejectsUnsupportedVersion(t *testing.T) {
	testutil.UnitTest(t)
	r := NewEngineRelease(func() *http.Client {
		t.Fatal("rejected versions must not hit the network")
		return nil
	})

	_, err := r.GetRelease(context.Background(), "1.0.800")

	var configurationError *scan.ConfigurationError
	assert.ErrorAs(t, err, &configurationError)
}

func Test_GetLatestRelease_ParsesTagName(t *testing.T) {
	testutil.UnitTest(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name": "2.3.200"}`))
	}))
	defer server.Close()

	r := NewEngineRelease(func() *http.Client { return server.Client() })
	r.apiBaseURL = server.URL

	release, err := r.GetLatestRelease(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2.3.200", release.Version)
}

func Test_GetLatestRelease_ErrorStatus(t *testing.T) {
	testutil.UnitTest(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := NewEngineRelease(func() *http.Client { return server.Client() })
	r.apiBaseURL = server.URL

	_, err := r.GetLatestRelease(context.Background())

	assert.Error(t, err)
}

func Test_AssetURL(t *testing.T) {
	release := &Release{Version: "2.3.155"}

	assetURL, err := release.AssetURL("https://example.com/download")

	require.NoError(t, err)
	osName := runtime.GOOS
	assert.Contains(t, assetURL, "https://example.com/download/2.3.155/checkov_"+osName+"_")
	assert.Contains(t, assetURL, ".zip")
}
