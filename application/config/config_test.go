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

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wenzdey/checkov-vscode/domain/scan"
)

func Test_ValidateCheckovVersion(t *testing.T) {
	assert.NoError(t, ValidateCheckovVersion(LatestVersion))
	assert.NoError(t, ValidateCheckovVersion("2.0.0"))
	assert.NoError(t, ValidateCheckovVersion("2.3.288"))

	var configErr *scan.ConfigurationError
	err := ValidateCheckovVersion("1.0.712")
	assert.Error(t, err)
	assert.True(t, errors.As(err, &configErr))

	err = ValidateCheckovVersion("not-a-version")
	assert.Error(t, err)
	assert.True(t, errors.As(err, &configErr))
}

func Test_SetCheckovVersion_RejectedVersionDoesNotStick(t *testing.T) {
	c := New()
	assert.Error(t, c.SetCheckovVersion("0.1.0"))
	assert.Equal(t, LatestVersion, c.CheckovVersion())
}

func Test_SetToken_SignalsChange(t *testing.T) {
	c := New()
	c.SetToken("a-token")
	select {
	case <-c.TokenChanges():
	default:
		t.Fatal("expected token change signal")
	}

	// same token again is not a change
	c.SetToken("a-token")
	select {
	case <-c.TokenChanges():
		t.Fatal("expected no token change signal")
	default:
	}
}

func Test_EngineSettings_PathDefaultsToInstallDir(t *testing.T) {
	c := New()
	assert.False(t, c.EngineSettings().IsPathDefined())
	assert.Contains(t, c.EngineSettings().Path(), "checkov")

	c.EngineSettings().SetPath("/usr/local/bin/checkov")
	assert.True(t, c.EngineSettings().IsPathDefined())
	assert.Equal(t, "/usr/local/bin/checkov", c.EngineSettings().Path())
}
