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

package cpu_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/hardware/cpu/arm"
	"github.com/ts7200emu/ts7200/hardware/cpu/arm/asm"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/test"
)

var errBad = errors.New("bad address")

// flat memory with a single address that always fails
type fakeBus struct {
	data [0x2000]byte
	bad  uint32
}

func (b *fakeBus) Read(address uint32, width peripherals.Width) (uint32, error) {
	if address == b.bad {
		return 0, errBad
	}
	v := binary.LittleEndian.Uint32(b.data[address:])
	return v & width.Mask(), nil
}

func (b *fakeBus) Write(address uint32, width peripherals.Width, data uint32) error {
	if address == b.bad {
		return errBad
	}
	for i := range uint32(width) {
		b.data[address+i] = uint8(data >> (i * 8))
	}
	return nil
}

func setup(t *testing.T, p *asm.Program, handler cpu.ErrorHandler) (*cpu.Adapter, *fakeBus) {
	t.Helper()
	b := &fakeBus{bad: 0x1ffc}
	copy(b.data[:], p.MustAssemble())
	return cpu.NewAdapter(arm.NewARM(), b, handler), b
}

func TestSoftwareInterruptEntered(t *testing.T) {
	p := asm.New(0)
	p.SWI(0)
	a, _ := setup(t, p, nil)

	o, err := a.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, cpu.SWI)
	test.ExpectEquality(t, a.Core().Register(cpu.PC), 0x08)
	test.ExpectEquality(t, a.Core().Mode(), cpu.Supervisor)
	test.ExpectEquality(t, a.Exceptions(cpu.SoftwareInterrupt), 1)
	test.ExpectEquality(t, a.Instructions(), 1)
}

func TestAccessesRecorded(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x1000)
	p.MOV(0, 0xab)
	p.STRB(0, 1, 3)
	p.LDR(2, 1, 0)
	a, _ := setup(t, p, nil)

	for range 2 {
		_, err := a.Step()
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, len(a.Accesses()), 0)
	}

	_, err := a.Step()
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(a.Accesses()), 1)
	test.ExpectEquality(t, a.Accesses()[0], cpu.Access{Address: 0x1003, Width: peripherals.Byte, Write: true, Data: 0xab})

	_, err = a.Step()
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(a.Accesses()), 1)
	test.ExpectEquality(t, a.Accesses()[0], cpu.Access{Address: 0x1000, Width: peripherals.Word, Data: 0xab000000})
	test.ExpectEquality(t, a.Core().Register(2), 0xab000000)
}

func TestErrorHandler(t *testing.T) {
	var seen []uint32
	handler := func(err error, pc uint32) error {
		seen = append(seen, pc)
		return err
	}

	p := asm.New(0)
	p.MOV(1, 0x1000)
	p.LDR(0, 1, 0xffc)
	a, _ := setup(t, p, handler)

	_, err := a.Step()
	test.ExpectSuccess(t, err)

	_, err = a.Step()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, errors.Is(err, errBad))
	test.DemandEquality(t, len(seen), 1)
	test.ExpectEquality(t, seen[0], 0x04)
}

func TestErrorsIgnoredWithoutHandler(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x1000)
	p.STR(0, 1, 0xffc)
	a, _ := setup(t, p, nil)

	for range 2 {
		_, err := a.Step()
		test.ExpectSuccess(t, err)
	}
}

func TestMisalignedAccessAborts(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x1002)
	p.LDR(0, 1, 0)
	a, _ := setup(t, p, nil)

	_, err := a.Step()
	test.ExpectSuccess(t, err)
	o, err := a.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, cpu.Aborted)
	test.ExpectEquality(t, a.Core().Mode(), cpu.Abort)
	test.ExpectEquality(t, a.Core().Register(cpu.PC), 0x10)
	test.ExpectEquality(t, a.Exceptions(cpu.DataAbort), 1)
	test.ExpectEquality(t, len(a.Accesses()), 0)
}

func TestInterruptMasking(t *testing.T) {
	p := asm.New(0)
	p.MSRControl(0x13)
	a, _ := setup(t, p, nil)

	// reset state has both interrupts disabled
	test.ExpectFailure(t, a.Interrupt(true, true))

	_, err := a.Step()
	test.ExpectSuccess(t, err)

	test.ExpectFailure(t, a.Interrupt(false, false))
	test.ExpectSuccess(t, a.Interrupt(true, true))
	test.ExpectEquality(t, a.Core().Mode(), cpu.FIQ)
	test.ExpectEquality(t, a.Exceptions(cpu.FastInterrupt), 1)

	// FIQ entry disables both
	test.ExpectFailure(t, a.Interrupt(true, true))
}

func TestIRQOnly(t *testing.T) {
	p := asm.New(0)
	p.MSRControl(0x53)
	a, _ := setup(t, p, nil)

	_, err := a.Step()
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, a.Interrupt(true, true))
	test.ExpectEquality(t, a.Core().Mode(), cpu.IRQ)
	test.ExpectEquality(t, a.Core().Register(cpu.PC), 0x18)
	test.ExpectEquality(t, a.Core().Register(cpu.LR), 0x08)
}

func TestModeValid(t *testing.T) {
	test.ExpectSuccess(t, cpu.Supervisor.Valid())
	test.ExpectFailure(t, cpu.Mode(0x15).Valid())
	test.ExpectEquality(t, cpu.IRQ.String(), "irq")
}
