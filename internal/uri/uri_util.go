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

package uri

import (
	"path/filepath"
	"runtime"
	"strings"

	sglsp "github.com/sourcegraph/go-lsp"
)

func PathFromUri(uri sglsp.DocumentURI) string {
	var path = strings.TrimPrefix(string(uri), "file://")
	if runtime.GOOS == "windows" &&
		!strings.HasPrefix(path, "//") { // UNC path
		path = strings.TrimPrefix(path, "/") // /C:/... --> C:/...
	}
	return filepath.Clean(strings.TrimPrefix(path, "file:"))
}

func PathToUri(path string) sglsp.DocumentURI {
	return sglsp.DocumentURI("file://" + path)
}
