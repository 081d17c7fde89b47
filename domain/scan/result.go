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

// Finding is a single failed check as reported by the engine. Line numbers
// are 1-based, as in the engine's JSON output.
type Finding struct {
	CheckID         string
	BcCheckID       string
	CheckName       string
	FilePath        string
	StartLine       int
	EndLine         int
	Resource        string
	Severity        string
	Guideline       string
	FixedDefinition string
	CodeBlock       []CodeLine
}

// Result is the aggregated outcome of one engine invocation. It is owned by
// the scheduler for the duration of diagnostic application and discarded
// after mapping.
type Result struct {
	EngineVersion string
	FailedChecks  []Finding
	PassedCount   int
}
