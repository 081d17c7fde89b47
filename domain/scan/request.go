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

package scan

// Request describes one engine invocation. It is immutable once built; a new
// attempt always builds a new Request.
type Request struct {
	// FilePath is the file handed to the engine. For scans of unsaved
	// content this is a temporary mirror of the document.
	FilePath string
	// DisplayPath is the path findings are reported against. Equal to
	// FilePath unless a mirror is scanned.
	DisplayPath string
	// Token authenticates against the Bridgecrew platform. It is passed to
	// the engine via the environment, never via command line arguments.
	Token string
	// UseBcIDs selects the Bridgecrew id space for reported rule ids.
	UseBcIDs      bool
	BackendURL    string
	EngineVersion string
}
