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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Debounce_CoalescesRapidTriggers(t *testing.T) {
	var calls int32
	d := NewDebouncer(time.Hour, func() { atomic.AddInt32(&calls, 1) })

	d.Debounce()
	d.Debounce()
	d.Debounce()
	d.Flush()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func Test_Flush_WithoutPendingTrigger_DoesNothing(t *testing.T) {
	var calls int32
	d := NewDebouncer(time.Hour, func() { atomic.AddInt32(&calls, 1) })

	d.Flush()

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func Test_Stop_DiscardsPendingTrigger(t *testing.T) {
	var calls int32
	d := NewDebouncer(time.Hour, func() { atomic.AddInt32(&calls, 1) })

	d.Debounce()
	d.Stop()
	d.Flush()

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func Test_Debounce_FiresAfterQuietPeriod(t *testing.T) {
	var calls int32
	d := NewDebouncer(10*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	d.Debounce()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, time.Millisecond)
}
