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

	sglsp "github.com/sourcegraph/go-lsp"
)

// Notifier is the outbound channel towards the host editor. It should be
// passed as a dependency to the types that publish messages, so tests can
// use mocks and multiple independent instances can coexist.
type Notifier interface {
	SendShowMessage(messageType sglsp.MessageType, message string)
	Send(msg any)
	SendError(err error)
	Receive() (payload any, stop bool)
	CreateListener(callback func(params any))
	DisposeListener()
}

var _ Notifier = &notifierImpl{}

type notifierImpl struct {
	channel     chan any
	stopChannel chan bool
}

func NewNotifier() Notifier {
	return &notifierImpl{
		channel:     make(chan any, 100),
		stopChannel: make(chan bool, 1),
	}
}

func (n *notifierImpl) SendShowMessage(messageType sglsp.MessageType, message string) {
	n.channel <- sglsp.ShowMessageParams{Type: messageType, Message: message}
}

func (n *notifierImpl) Send(msg any) {
	n.channel <- msg
}

func (n *notifierImpl) SendError(err error) {
	n.SendShowMessage(sglsp.MTError, fmt.Sprintf("Checkov encountered an error: %v", err))
}

func (n *notifierImpl) Receive() (payload any, stop bool) {
	select {
	case payload = <-n.channel:
		return payload, false
	case <-n.stopChannel:
		return payload, true
	}
}

func (n *notifierImpl) CreateListener(callback func(params any)) {
	go func() {
		for {
			payload, stop := n.Receive()
			if stop {
				break
			}
			callback(payload)
		}
	}()
}

func (n *notifierImpl) DisposeListener() {
	n.stopChannel <- true
}
