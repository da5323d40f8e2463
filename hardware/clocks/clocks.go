// This file is part of ts7200.
//
// ts7200 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ts7200 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ts7200.  If not, see <https://www.gnu.org/licenses/>.

package clocks

import (
	"math/bits"
	"sync/atomic"
	"time"
)

// The two clock sources available to the EP93xx timers. Rates are in Hz.
const (
	SlowRate = uint64(2_000)
	FastRate = uint64(508_000)
)

// Clock returns the time elapsed since an arbitrary but fixed origin.
type Clock interface {
	Now() time.Duration
}

// Wall is a Clock based on the monotonic clock of the host.
type Wall struct {
	origin time.Time
}

// NewWall is the preferred method of initialisation for the Wall type.
func NewWall() *Wall {
	return &Wall{origin: time.Now()}
}

// Now implements the Clock interface.
func (w *Wall) Now() time.Duration {
	return time.Since(w.origin)
}

// Manual is a Clock that only moves when told to. It is safe to advance the
// clock from a goroutine other than the execution loop.
type Manual struct {
	now atomic.Int64
}

// Now implements the Clock interface.
func (m *Manual) Now() time.Duration {
	return time.Duration(m.now.Load())
}

// Advance moves the clock forward by the specified duration.
func (m *Manual) Advance(d time.Duration) {
	m.now.Add(int64(d))
}

// Ticks returns the number of whole ticks of a clock running at rate (in Hz)
// in the elapsed duration. Negative durations return zero.
func Ticks(elapsed time.Duration, rate uint64) uint64 {
	if elapsed <= 0 {
		return 0
	}

	// elapsed * rate / 1e9 without overflowing
	hi, lo := bits.Mul64(uint64(elapsed), rate)
	if hi >= uint64(time.Second) {
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, uint64(time.Second))
	return q
}

// Duration is the inverse of Ticks(). It returns the duration of the number of
// ticks at the specified rate.
func Duration(ticks uint64, rate uint64) time.Duration {
	hi, lo := bits.Mul64(ticks, uint64(time.Second))
	q, _ := bits.Div64(hi, lo, rate)
	return time.Duration(q)
}
