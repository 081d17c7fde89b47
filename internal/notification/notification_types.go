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

package notification

import (
	sglsp "github.com/sourcegraph/go-lsp"

	"github.com/wenzdey/checkov-vscode/domain/scan"
)

// ScanStatusParams reflects the scan lifecycle of a document in the editor
// UI (status bar).
type ScanStatusParams struct {
	URI    sglsp.DocumentURI `json:"uri"`
	Status scan.Status       `json:"status"`
}

// CheckovIsAvailable is sent once a usable engine binary is in place.
type CheckovIsAvailable struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}
