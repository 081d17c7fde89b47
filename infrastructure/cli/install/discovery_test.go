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
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzdey/checkov-vscode/internal/testutil"
)

func Test_ExecutableName(t *testing.T) {
	d := Discovery{}

	name := d.ExecutableName(false)
	updateName := d.ExecutableName(true)

	if runtime.GOOS == "windows" {
		assert.Equal(t, "checkov.exe", name)
	} else {
		assert.Equal(t, "checkov", name)
	}
	assert.True(t, strings.HasSuffix(updateName, ".latest"))
}

func Test_AssetName(t *testing.T) {
	d := Discovery{}

	asset, err := d.AssetName()

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset, "checkov_"))
	assert.True(t, strings.HasSuffix(asset, ".zip"))
}

func Test_LookConfigPath(t *testing.T) {
	c := testutil.UnitTest(t)
	d := Discovery{}

	_, err := d.LookConfigPath(c)
	assert.Error(t, err) // nothing configured

	binary := filepath.Join(t.TempDir(), "checkov")
	require.NoError(t, os.WriteFile(binary, []byte("fake"), 0755))
	c.EngineSettings().SetPath(binary)

	found, err := d.LookConfigPath(c)
	require.NoError(t, err)
	assert.Equal(t, binary, found)
}
