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
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PathFromUri(t *testing.T) {
	assert.Equal(t, "/a/b/main.tf", PathFromUri("file:///a/b/main.tf"))
}

func Test_PathToUri_RoundTrips(t *testing.T) {
	path := "/tmp/workspace/Dockerfile"
	assert.Equal(t, path, PathFromUri(PathToUri(path)))
}
