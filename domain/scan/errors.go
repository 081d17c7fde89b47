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

import "fmt"

// ConfigurationError signals missing or invalid user configuration (token,
// version string). It is surfaced to the user with a remediation hint and
// never retried automatically. Cancelled scans are not errors and are
// reported as context.Canceled.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// InstallationError blocks all scanning until a manually triggered retry
// succeeds.
type InstallationError struct {
	Cause error
}

func (e *InstallationError) Error() string {
	return fmt.Sprintf("checkov installation failed: %v", e.Cause)
}

func (e *InstallationError) Unwrap() error {
	return e.Cause
}

// ExecutionError is a transient engine failure (process or network). Output
// is sanitized before construction and must never contain secret material.
type ExecutionError struct {
	ExitCode int
	Output   string
	Cause    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("checkov exited with code %d: %v", e.ExitCode, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
