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

package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid repeated triggers into one callback invocation
// after a quiet period. Scheduling replaces any pending timer.
type Debouncer struct {
	mutex    sync.Mutex
	timeout  time.Duration
	timer    *time.Timer
	callback func()
	pending  bool
}

func NewDebouncer(timeout time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		timeout:  timeout,
		callback: callback,
	}
}

func (d *Debouncer) Debounce() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.timeout, d.fire)
		return
	}
	d.timer.Stop()
	d.timer.Reset(d.timeout)
}

func (d *Debouncer) UpdateDebounceCallback(callback func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop discards a pending invocation, if any.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Flush fires a pending invocation immediately instead of waiting for the
// quiet period. Tests use it to simulate the timer deterministically.
func (d *Debouncer) Flush() {
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mutex.Unlock()
	d.fire()
}

func (d *Debouncer) fire() {
	d.mutex.Lock()
	if !d.pending {
		d.mutex.Unlock()
		return
	}
	d.pending = false
	callback := d.callback
	d.mutex.Unlock()
	callback()
}
