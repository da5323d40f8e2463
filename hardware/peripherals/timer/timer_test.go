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

package timer_test

import (
	"testing"
	"time"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/hardware/peripherals/timer"
	"github.com/ts7200emu/ts7200/test"
)

// one tick of the slow clock
const slowTick = 500 * time.Microsecond

func write(t *testing.T, tmr *timer.Timer, offset uint32, data uint32) {
	t.Helper()
	test.DemandSuccess(t, tmr.Write(offset, peripherals.Word, data))
}

func value(t *testing.T, tmr *timer.Timer) uint32 {
	t.Helper()
	v, err := tmr.Read(timer.ValueOffset, peripherals.Word)
	test.DemandSuccess(t, err)
	return v
}

func TestCountdown(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)
	write(t, tmr, timer.LoadOffset, 100)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable|timer.ControlPeriodic)

	test.ExpectEquality(t, value(t, tmr), 100)

	tmr.Tick(10 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 90)
	test.ExpectFailure(t, tmr.Interrupt())

	// less than a whole tick makes no difference
	tmr.Tick(10*slowTick + slowTick/2)
	test.ExpectEquality(t, value(t, tmr), 90)

	tmr.Tick(100 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 0)
	test.ExpectFailure(t, tmr.Interrupt())

	// the tick after zero is the underflow
	tmr.Tick(101 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 100)
	test.ExpectSuccess(t, tmr.Interrupt())
}

func TestPeriodicAssertions(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)

	// a period of 10 ticks is 5ms of the slow clock
	const period = 10 * slowTick
	write(t, tmr, timer.LoadOffset, 9)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable|timer.ControlPeriodic)

	assertions := 0
	now := time.Duration(0)
	for range 50 {
		now += period
		tmr.Tick(now)
		if tmr.Interrupt() {
			assertions++
			write(t, tmr, timer.ClearOffset, 0)
		}
		test.ExpectFailure(t, tmr.Interrupt())
	}

	test.ExpectEquality(t, assertions, 50)
	test.ExpectEquality(t, tmr.Underflows(), 50)
}

func TestMultipleUnderflows(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)
	write(t, tmr, timer.LoadOffset, 9)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable|timer.ControlPeriodic)

	// three and a half periods
	tmr.Tick(35 * slowTick)
	test.ExpectEquality(t, tmr.Underflows(), 3)
	test.ExpectEquality(t, value(t, tmr), 4)
	test.ExpectSuccess(t, tmr.Interrupt())
}

func TestFreeRunning(t *testing.T) {
	tmr := timer.NewTimer("timer2", 16)
	write(t, tmr, timer.LoadOffset, 5)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable)

	tmr.Tick(7 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 0xfffe)
	test.ExpectSuccess(t, tmr.Interrupt())

	// the 32 bit timer wraps at the 32 bit boundary
	tmr = timer.NewTimer("timer3", 32)
	write(t, tmr, timer.LoadOffset, 0)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable)
	tmr.Tick(2 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 0xfffffffe)
}

func TestFastClock(t *testing.T) {
	tmr := timer.NewTimer("timer3", 32)
	write(t, tmr, timer.LoadOffset, 1_000_000)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable|timer.ControlClockSelect)

	tmr.Tick(time.Second)
	test.ExpectEquality(t, value(t, tmr), 1_000_000-508_000)
}

func TestLoadIsMasked(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)
	write(t, tmr, timer.LoadOffset, 0x12345)
	v, err := tmr.Read(timer.LoadOffset, peripherals.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x2345)
}

func TestEnableWithoutLoad(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)
	err := tmr.Write(timer.ControlOffset, peripherals.Word, timer.ControlEnable)
	test.ExpectSuccess(t, faults.IsFatal(err))

	v, err := tmr.Read(timer.ControlOffset, peripherals.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0)
}

func TestDisableFreezes(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)
	write(t, tmr, timer.LoadOffset, 100)
	write(t, tmr, timer.ControlOffset, timer.ControlEnable|timer.ControlPeriodic)

	tmr.Tick(30 * slowTick)
	write(t, tmr, timer.ControlOffset, timer.ControlPeriodic)
	test.ExpectEquality(t, value(t, tmr), 70)

	tmr.Tick(80 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 70)

	// counting resumes from the frozen value when re-enabled
	write(t, tmr, timer.ControlOffset, timer.ControlEnable|timer.ControlPeriodic)
	tmr.Tick(90 * slowTick)
	test.ExpectEquality(t, value(t, tmr), 60)
}

func TestRegisterContracts(t *testing.T) {
	tmr := timer.NewTimer("timer1", 16)

	_, err := tmr.Read(timer.ClearOffset, peripherals.Word)
	test.ExpectSuccess(t, faults.IsViolation(err))

	err = tmr.Write(timer.ValueOffset, peripherals.Word, 10)
	test.ExpectSuccess(t, faults.IsViolation(err))

	// a byte write to the load register still takes effect
	err = tmr.Write(timer.LoadOffset, peripherals.Byte, 0x42)
	test.ExpectSuccess(t, faults.IsViolation(err))
	v, err := tmr.Read(timer.LoadOffset, peripherals.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x42)

	test.ExpectSuccess(t, faults.IsFatal(tmr.Write(0x10, peripherals.Word, 0)))

	_, err = tmr.Read(0x10, peripherals.Word)
	test.ExpectSuccess(t, faults.IsViolation(err))

	test.DemandImplements[peripherals.Ticker](t, tmr)
}
