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

package clocks_test

import (
	"testing"
	"time"

	"github.com/ts7200emu/ts7200/hardware/clocks"
	"github.com/ts7200emu/ts7200/test"
)

func TestTicks(t *testing.T) {
	test.ExpectEquality(t, clocks.Ticks(time.Second, clocks.SlowRate), 2000)
	test.ExpectEquality(t, clocks.Ticks(time.Second, clocks.FastRate), 508000)
	test.ExpectEquality(t, clocks.Ticks(time.Millisecond, clocks.SlowRate), 2)
	test.ExpectEquality(t, clocks.Ticks(499*time.Microsecond, clocks.SlowRate), 0)
	test.ExpectEquality(t, clocks.Ticks(-time.Second, clocks.SlowRate), 0)

	// a day of elapsed time at the fast rate does not overflow
	test.ExpectEquality(t, clocks.Ticks(24*time.Hour, clocks.FastRate), 508000*60*60*24)
}

func TestDuration(t *testing.T) {
	test.ExpectEquality(t, clocks.Duration(2000, clocks.SlowRate), time.Second)
	test.ExpectEquality(t, clocks.Duration(1, clocks.SlowRate), 500*time.Microsecond)
	test.ExpectEquality(t, clocks.Ticks(clocks.Duration(12345, clocks.FastRate), clocks.FastRate), 12344)
}

func TestManual(t *testing.T) {
	var m clocks.Manual
	test.ExpectEquality(t, m.Now(), 0)
	m.Advance(time.Millisecond)
	m.Advance(time.Millisecond)
	test.ExpectEquality(t, m.Now(), 2*time.Millisecond)
}
