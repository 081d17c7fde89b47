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
	"fmt"
	"sync"

	sglsp "github.com/sourcegraph/go-lsp"
)

// MockNotifier records everything that was sent through it.
type MockNotifier struct {
	mutex        sync.Mutex
	sentMessages []any
}

var _ Notifier = &MockNotifier{}

func NewMockNotifier() *MockNotifier { return &MockNotifier{} }

func (m *MockNotifier) SendShowMessage(messageType sglsp.MessageType, message string) {
	m.Send(sglsp.ShowMessageParams{Type: messageType, Message: message})
}

func (m *MockNotifier) Send(msg any) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sentMessages = append(m.sentMessages, msg)
}

func (m *MockNotifier) SendError(err error) {
	m.Send(sglsp.ShowMessageParams{
		Type:    sglsp.MTError,
		Message: fmt.Sprintf("Checkov encountered an error: %v", err),
	})
}

func (m *MockNotifier) Receive() (payload any, stop bool) { return nil, true }

func (m *MockNotifier) CreateListener(_ func(params any)) {}

func (m *MockNotifier) DisposeListener() {}

func (m *MockNotifier) SentMessages() []any {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]any{}, m.sentMessages...)
}

// ShowMessages returns only the user-facing popup messages.
func (m *MockNotifier) ShowMessages() []sglsp.ShowMessageParams {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var msgs []sglsp.ShowMessageParams
	for _, sent := range m.sentMessages {
		if p, ok := sent.(sglsp.ShowMessageParams); ok {
			msgs = append(msgs, p)
		}
	}
	return msgs
}

// ScanStatuses returns the scan status transitions in send order.
func (m *MockNotifier) ScanStatuses() []ScanStatusParams {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var statuses []ScanStatusParams
	for _, sent := range m.sentMessages {
		if p, ok := sent.(ScanStatusParams); ok {
			statuses = append(statuses, p)
		}
	}
	return statuses
}

// DiagnosticsFor returns the published diagnostic sets for a document in
// send order.
func (m *MockNotifier) DiagnosticsFor(uri sglsp.DocumentURI) []sglsp.PublishDiagnosticsParams {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var params []sglsp.PublishDiagnosticsParams
	for _, sent := range m.sentMessages {
		if p, ok := sent.(sglsp.PublishDiagnosticsParams); ok && p.URI == uri {
			params = append(params, p)
		}
	}
	return params
}
