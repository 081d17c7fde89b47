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

package watcher

import (
	"github.com/puzpuzpuz/xsync/v3"
	sglsp "github.com/sourcegraph/go-lsp"
)

// FileWatcher tracks documents with unsaved changes. Quick fixes are
// suppressed for dirty documents because their ranges may no longer match
// the text on disk.
type FileWatcher struct {
	files *xsync.MapOf[sglsp.DocumentURI, bool]
}

func NewFileWatcher() *FileWatcher {
	return &FileWatcher{
		files: xsync.NewMapOf[sglsp.DocumentURI, bool](),
	}
}

// SetFileAsChanged marks a document as having unsaved changes.
func (w *FileWatcher) SetFileAsChanged(uri sglsp.DocumentURI) {
	w.files.Store(uri, true)
}

// SetFileAsSaved clears the dirty mark after the document was written to
// disk.
func (w *FileWatcher) SetFileAsSaved(uri sglsp.DocumentURI) {
	w.files.Delete(uri)
}

func (w *FileWatcher) IsDirty(uri sglsp.DocumentURI) bool {
	dirty, ok := w.files.Load(uri)
	return ok && dirty
}
