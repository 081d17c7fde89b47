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

// Status is the user-visible outcome of the most recent scan of a document.
type Status string

const (
	StatusInProgress Status = "inProgress"
	// StatusPassed means the scan completed without findings.
	StatusPassed Status = "passed"
	// StatusFailed means the scan completed and reported findings.
	StatusFailed Status = "failed"
	StatusError  Status = "error"
)

// State is the scheduler-internal lifecycle state of a document. Transitions:
// Idle -> Scheduled (debounced change), Idle/Scheduled -> Running (dispatch),
// Running -> Idle (completion or supersession).
type State int8

const (
	Idle State = iota
	Scheduled
	Running
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Trigger describes what caused a scan request.
type Trigger string

const (
	TriggerChange Trigger = "documentChange"
	TriggerSave   Trigger = "documentSave"
	TriggerFocus  Trigger = "documentFocus"
	TriggerManual Trigger = "manual"
)
