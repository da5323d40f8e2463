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

// Package timer implements the EP93xx interval timers. The board has three:
// two with a 16 bit counter and one with a 32 bit counter.
//
// The counter is not stepped once per instruction. Instead, the number of
// ticks elapsed since the timer was last resolved is computed from the time
// passed to the Tick() function. The bus calls Tick() before every device
// access so a read of the Value register always sees an up to date counter.
package timer

import (
	"fmt"
	"time"

	"github.com/ts7200emu/ts7200/hardware/clocks"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// Register offsets.
const (
	LoadOffset    = 0x00
	ValueOffset   = 0x04
	ControlOffset = 0x08
	ClearOffset   = 0x0c
)

// Bits in the Control register.
const (
	ControlEnable      = 0x80
	ControlPeriodic    = 0x40
	ControlClockSelect = 0x08

	controlMask = ControlEnable | ControlPeriodic | ControlClockSelect
)

// Timer is a single EP93xx timer.
type Timer struct {
	label string
	max   uint32

	load        uint32
	loadWritten bool
	control     uint32
	value       uint32

	// the interrupt line. asserted on underflow and cleared by a write to
	// the Clear register
	pending bool

	// the most recent time seen by Tick()
	now time.Duration

	// the time from which ticks are counted and the number of ticks since
	// then that have been applied to the counter
	base     time.Duration
	consumed uint64

	underflows uint64
}

// NewTimer is the preferred method of initialisation for the Timer type. The
// bits argument should be 16 or 32.
func NewTimer(label string, bits int) *Timer {
	t := &Timer{label: label}
	if bits >= 32 {
		t.max = 0xffffffff
	} else {
		t.max = 1<<bits - 1
	}
	return t
}

func (t *Timer) String() string {
	return fmt.Sprintf("%s: load=%#x value=%#x ctrl=%#02x pending=%v", t.label, t.load, t.value, t.control, t.pending)
}

// Label implements the peripherals.Device interface.
func (t *Timer) Label() string {
	return t.label
}

// Kind implements the peripherals.Device interface.
func (t *Timer) Kind() string {
	return "Timer"
}

// RegisterName implements the peripherals.Device interface.
func (t *Timer) RegisterName(offset uint32) string {
	switch offset {
	case LoadOffset:
		return "LDR"
	case ValueOffset:
		return "VAL"
	case ControlOffset:
		return "CTRL"
	case ClearOffset:
		return "CLR"
	}
	return ""
}

func (t *Timer) enabled() bool {
	return t.control&ControlEnable == ControlEnable
}

func (t *Timer) rate() uint64 {
	if t.control&ControlClockSelect == ControlClockSelect {
		return clocks.FastRate
	}
	return clocks.SlowRate
}

// Tick implements the peripherals.Ticker interface.
func (t *Timer) Tick(now time.Duration) {
	t.now = now
	t.resolve()
}

// rebase the tick count to the current time. any fraction of a tick already
// elapsed is kept.
func (t *Timer) rebase() {
	t.base += clocks.Duration(t.consumed, t.rate())
	t.consumed = 0
	if t.base > t.now {
		t.base = t.now
	}
}

// resolve applies the ticks elapsed since the last call to resolve.
func (t *Timer) resolve() {
	if !t.enabled() {
		return
	}

	total := clocks.Ticks(t.now-t.base, t.rate())
	delta := total - t.consumed
	t.consumed = total

	// keep the tick count small so that the fraction of a tick is never lost
	// to rounding in rebase()
	if t.consumed > 1<<32 {
		t.rebase()
	}

	if delta == 0 {
		return
	}

	if delta <= uint64(t.value) {
		t.value -= uint32(delta)
		return
	}

	// the counter wraps when it passes zero. in periodic mode the counter
	// reloads from the Load register. in free-running mode it reloads with
	// the maximum value for the width of the counter
	reload := t.max
	if t.control&ControlPeriodic == ControlPeriodic {
		reload = t.load
	}
	period := uint64(reload) + 1

	d := delta - uint64(t.value) - 1
	t.underflows += 1 + d/period
	t.value = reload - uint32(d%period)
	t.pending = true
}

// Interrupt returns the state of the interrupt line.
func (t *Timer) Interrupt() bool {
	return t.pending
}

// Underflows returns the number of times the counter has passed zero since
// the timer was created.
func (t *Timer) Underflows() uint64 {
	return t.underflows
}

// Read implements the peripherals.Device interface.
func (t *Timer) Read(offset uint32, width peripherals.Width) (uint32, error) {
	reg, err := peripherals.WordRegister(t, offset, width)

	var v uint32
	switch reg {
	case LoadOffset:
		v = t.load
	case ValueOffset:
		t.resolve()
		v = t.value
	case ControlOffset:
		v = t.control
	case ClearOffset:
		return 0, peripherals.Worst(err, peripherals.WriteOnly(t, reg))
	default:
		v, rerr := peripherals.UnknownRead(t, offset, width)
		return v, peripherals.Worst(err, rerr)
	}

	return peripherals.ReadLane(v, offset, width), err
}

// Write implements the peripherals.Device interface.
func (t *Timer) Write(offset uint32, width peripherals.Width, data uint32) error {
	reg, err := peripherals.WordRegister(t, offset, width)
	if err != nil {
		data = peripherals.WriteLane(data, offset, width)
	}

	switch reg {
	case LoadOffset:
		t.resolve()
		t.load = data & t.max
		t.loadWritten = true
		t.value = t.load
		t.base = t.now
		t.consumed = 0
	case ValueOffset:
		return peripherals.Worst(err, peripherals.ReadOnly(t, reg))
	case ControlOffset:
		return peripherals.Worst(err, t.writeControl(data))
	case ClearOffset:
		t.pending = false
	default:
		return peripherals.Worst(err, peripherals.UnknownWrite(t, offset, width, data))
	}

	return err
}

func (t *Timer) writeControl(data uint32) error {
	data &= controlMask

	if data&ControlEnable == ControlEnable && !t.loadWritten {
		return faults.Fatal("%s enabled without a load value", t.label)
	}

	// bring the counter up to date using the current settings before
	// applying the new ones
	t.resolve()
	wasEnabled := t.enabled()
	if wasEnabled {
		t.rebase()
	}

	t.control = data

	if !wasEnabled && t.enabled() {
		t.base = t.now
		t.consumed = 0
	}

	return nil
}
