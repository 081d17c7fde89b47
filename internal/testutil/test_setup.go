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

package testutil

import (
	"os"
	"testing"

	"github.com/wenzdey/checkov-vscode/application/config"
)

// UnitTest sets up an isolated configuration for a test and returns it.
func UnitTest(t *testing.T) *config.Config {
	t.Helper()
	c := config.New()
	c.SetManageBinariesAutomatically(false)
	c.SetToken("00000000-0000-0000-0000-000000000001")
	c.SetErrorReportingEnabled(false)
	config.SetCurrentConfig(c)
	engineDownloadLockFileCleanUp(t, c)
	return c
}

func engineDownloadLockFileCleanUp(t *testing.T, c *config.Config) {
	t.Helper()
	lockFileName := c.EngineDownloadLockFileName()
	_ = os.Remove(lockFileName)
	t.Cleanup(func() {
		_ = os.Remove(lockFileName)
	})
}
