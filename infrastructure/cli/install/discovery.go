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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/wenzdey/checkov-vscode/application/config"
)

var archNames = map[string]string{
	"amd64": "X86_64",
	"arm64": "arm64",
}

var osNames = map[string]string{
	"linux":   "linux",
	"darwin":  "darwin",
	"windows": "windows",
}

type Discovery struct{}

// ExecutableName returns the engine file name. During an update the new
// binary is downloaded next to the running one under a temporary name and
// swapped in afterwards.
func (d *Discovery) ExecutableName(isUpdate bool) string {
	name := "checkov"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if isUpdate {
		name += ".latest"
	}
	return name
}

// AssetName returns the zip asset name published for this platform.
func (d *Discovery) AssetName() (string, error) {
	osName, osSupported := osNames[runtime.GOOS]
	archName, archSupported := archNames[runtime.GOARCH]
	if !osSupported || !archSupported {
		return "", fmt.Errorf("no engine release asset for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("checkov_%s_%s.zip", osName, archName), nil
}

// LookConfigPath honors a user-configured binary location.
func (d *Discovery) LookConfigPath(c *config.Config) (string, error) {
	settings := c.EngineSettings()
	if !settings.IsPathDefined() {
		return "", fmt.Errorf("no path defined in configuration")
	}
	path := settings.Path()
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Discovery) LookUserDir(c *config.Config) (string, error) {
	path := filepath.Join(c.EngineSettings().DefaultBinaryInstallPath(), d.ExecutableName(false))
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Discovery) LookPath() (string, error) {
	return exec.LookPath("checkov")
}
