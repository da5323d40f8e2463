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

package hardware_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ts7200emu/ts7200/debugger/govern"
	"github.com/ts7200emu/ts7200/hardware"
	"github.com/ts7200emu/ts7200/hardware/clocks"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/hardware/cpu/arm/asm"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/memory/memorymap"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/hardware/peripherals/syscon"
	"github.com/ts7200emu/ts7200/hardware/peripherals/timer"
	"github.com/ts7200emu/ts7200/hardware/peripherals/vic"
	"github.com/ts7200emu/ts7200/test"
)

// one tick of the slow clock
const slowTick = 500 * time.Microsecond

type channel struct {
	in  []byte
	out []byte
}

func (c *channel) TryRecv() (byte, bool) {
	if len(c.in) == 0 {
		return 0, false
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, true
}

func (c *channel) Send(b byte) {
	c.out = append(c.out, b)
}

func newBoard(t *testing.T, cfg hardware.Config, p *asm.Program) *hardware.Board {
	t.Helper()
	b := hardware.NewBoard(cfg)
	err := b.Load([]hardware.Segment{{Address: p.Origin(), Data: p.MustAssemble()}},
		[]hardware.RegisterValue{{Register: cpu.PC, Value: p.Origin()}})
	test.DemandSuccess(t, err)
	return b
}

func step(t *testing.T, b *hardware.Board, n int) {
	t.Helper()
	for range n {
		_, err := b.Step()
		test.DemandSuccess(t, err)
	}
}

// vectors adds an exception vector table that branches to the start and irq
// labels
func vectors(p *asm.Program) {
	p.B("start")
	for range 5 {
		p.Word(0)
	}
	p.B("irq")
	p.Word(0)
	p.Label("start")
}

func TestTimerInterrupt(t *testing.T) {
	p := asm.New(0)
	vectors(p)
	p.LDRLiteral(4, memorymap.OriginTimer1)
	p.LDRLiteral(5, memorymap.OriginVIC1)
	p.MOV(0, 9)
	p.STR(0, 4, timer.LoadOffset)
	p.MOV(0, timer.ControlEnable|timer.ControlPeriodic)
	p.STR(0, 4, timer.ControlOffset)
	p.MOV(0, 1<<4)
	p.STR(0, 5, vic.IntEnableOffset)
	p.MOV(6, 0)
	p.MSRControl(0x13)
	p.Label("loop")
	p.B("loop")
	p.Label("irq")
	p.LDR(1, 5, vic.IRQStatusOffset)
	p.STR(0, 4, timer.ClearOffset)
	p.ADD(6, 6, 1)
	p.SUBS(asm.PC, asm.LR, 4)

	clk := &clocks.Manual{}
	b := newBoard(t, hardware.Config{Clock: clk}, p)
	core := b.CPU.Core()

	// no time passes so the timer never underflows
	step(t, b, 20)
	test.ExpectEquality(t, core.Register(6), 0)
	test.ExpectFailure(t, b.IRQ())

	for n := range 3 {
		clk.Advance(10 * slowTick)

		step(t, b, 1)
		test.ExpectEquality(t, core.Mode(), cpu.IRQ)
		test.ExpectEquality(t, core.Register(cpu.PC), 0x18)

		step(t, b, 5)
		test.ExpectEquality(t, core.Mode(), cpu.Supervisor)
		test.ExpectEquality(t, core.Register(6), uint32(n+1))
		test.ExpectEquality(t, core.Register(1), 1<<4)
		test.ExpectFailure(t, b.Timer1.Interrupt())

		// nothing more happens until the next period has elapsed
		step(t, b, 10)
		test.ExpectEquality(t, core.Register(6), uint32(n+1))
	}

	test.ExpectEquality(t, b.CPU.Exceptions(cpu.Interrupt), 3)
}

func TestHalt(t *testing.T) {
	p := asm.New(0)
	p.LDRLiteral(7, memorymap.OriginSyscon)
	p.MOV(0, syscon.UnlockCode)
	p.STR(0, 7, syscon.SysSWLockOffset)
	p.LDRLiteral(0, syscon.DeviceCfgReset|syscon.DeviceCfgSHena)
	p.STR(0, 7, syscon.DeviceCfgOffset)
	p.LDR(1, 7, syscon.HaltOffset)
	p.MOV(8, 1)
	p.Label("end")
	p.B("end")

	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}}, p)
	core := b.CPU.Core()

	step(t, b, 6)
	test.DemandSuccess(t, b.Halted())

	for range 3 {
		executed, err := b.Step()
		test.ExpectSuccess(t, err)
		test.ExpectFailure(t, executed)
	}
	test.ExpectEquality(t, core.Register(8), 0)

	// a pending interrupt ends the halt even though the CPSR disables IRQ
	test.DemandSuccess(t, b.Bus.Write(memorymap.OriginVIC1+vic.IntEnableOffset, peripherals.Word, 1<<3))
	test.DemandSuccess(t, b.Bus.Write(memorymap.OriginVIC1+vic.SoftIntOffset, peripherals.Word, 1<<3))

	executed, err := b.Step()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, executed)
	test.ExpectFailure(t, b.Halted())

	executed, err = b.Step()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, executed)
	test.ExpectEquality(t, core.Register(8), 1)
	test.ExpectEquality(t, core.Mode(), cpu.Supervisor)
}

func TestUARTTransmit(t *testing.T) {
	p := asm.New(0)
	p.LDRLiteral(4, memorymap.OriginUART1)
	p.MOV(0, 'h')
	p.STR(0, 4, 0)
	p.MOV(0, 'i')
	p.STR(0, 4, 0)
	p.Label("end")
	p.B("end")

	ch := &channel{}
	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}, UART1: ch}, p)

	step(t, b, 3)
	test.ExpectEquality(t, string(ch.out), "h")
	step(t, b, 2)
	test.ExpectEquality(t, string(ch.out), "hi")
}

func TestUARTReceive(t *testing.T) {
	p := asm.New(0)
	p.LDRLiteral(4, memorymap.OriginUART2)
	p.LDR(0, 4, 0)
	p.Label("end")
	p.B("end")

	ch := &channel{in: []byte("x")}
	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}, UART2: ch}, p)

	// the byte is received during the first step and is read by the second
	step(t, b, 2)
	test.ExpectEquality(t, b.CPU.Core().Register(0), 'x')
}

func TestViolationRecorded(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x10000)
	p.LDR(0, 1, 0)
	p.LDR(0, 1, 0)

	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}}, p)
	step(t, b, 3)

	test.DemandEquality(t, len(b.Faults.List), 2)
	e := b.Faults.List[0]
	test.ExpectEquality(t, e.Category, faults.CategoryViolation)
	test.ExpectEquality(t, e.AccessAddr, 0x10000)
	test.ExpectEquality(t, e.InstructionAddr, 0x04)
	test.ExpectEquality(t, b.Faults.List[1].InstructionAddr, 0x08)
}

func TestStrict(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x10000)
	p.LDR(0, 1, 0)

	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}, Strict: true}, p)
	step(t, b, 1)

	_, err := b.Step()
	test.ExpectSuccess(t, faults.IsFatal(err))
	test.DemandEquality(t, len(b.Faults.List), 1)
	test.ExpectEquality(t, b.Faults.List[0].Category, faults.CategoryFatal)
}

func TestDiagnostics(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x10000)
	p.Label("loop")
	p.LDR(0, 1, 0)
	p.B("loop")

	w := &test.Writer{}
	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}, Diagnostics: w}, p)
	step(t, b, 5)

	// the repeated violation is reported once, as it happens
	test.ExpectEquality(t, strings.Count(w.String(), "\n"), 1)
	test.ExpectSuccess(t, strings.HasPrefix(w.String(), "* "+string(faults.CategoryViolation)))
	test.ExpectSuccess(t, strings.Contains(w.String(), "PC: 00000004"))
	test.ExpectEquality(t, b.Faults.Total(), 2)
}

func TestUnmappedWriteIsFatal(t *testing.T) {
	p := asm.New(0)
	p.MOV(1, 0x90000000)
	p.STR(0, 1, 0)

	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}}, p)
	step(t, b, 1)

	_, err := b.Step()
	test.ExpectSuccess(t, faults.IsFatal(err))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "90000000"))
}

func TestLoadOutsideSDRAM(t *testing.T) {
	b := hardware.NewBoard(hardware.Config{Clock: &clocks.Manual{}})
	err := b.Load([]hardware.Segment{{Address: memorymap.OriginUART1, Data: []byte{1}}}, nil)
	test.ExpectFailure(t, err)
}

func TestLoadRegisters(t *testing.T) {
	b := hardware.NewBoard(hardware.Config{Clock: &clocks.Manual{}})
	err := b.Load(nil, []hardware.RegisterValue{
		{Register: cpu.CPSR, Value: 0xd2},
		{Register: cpu.SP, Value: 0x4000},
		{Register: cpu.CPSR, Value: 0xd3},
		{Register: cpu.SP, Value: 0x8000},
	})
	test.DemandSuccess(t, err)

	core := b.CPU.Core()
	test.ExpectEquality(t, core.Register(cpu.SP), 0x8000)
	core.SetRegister(cpu.CPSR, 0xd2)
	test.ExpectEquality(t, core.Register(cpu.SP), 0x4000)
}

func TestRun(t *testing.T) {
	p := asm.New(0)
	p.Label("loop")
	p.ADD(0, 0, 1)
	p.B("loop")

	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}}, p)

	n := 0
	err := b.Run(func() (govern.State, error) {
		n++
		if n == 10 {
			return govern.Stopped, nil
		}
		return govern.Running, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b.CPU.Instructions(), 10)
	test.ExpectEquality(t, b.CPU.Core().Register(0), 5)
}

func TestSnapshot(t *testing.T) {
	p := asm.New(0)
	p.MOV(3, 0x33)
	p.Label("end")
	p.B("end")

	b := newBoard(t, hardware.Config{Clock: &clocks.Manual{}}, p)
	step(t, b, 2)

	s := b.Snapshot()
	test.ExpectEquality(t, s.CPU.Mode, "svc")
	test.ExpectEquality(t, s.CPU.Registers[3], 0x33)
	test.ExpectEquality(t, s.CPU.Instructions, 2)
	test.ExpectEquality(t, len(s.Devices), 7)
	test.ExpectEquality(t, len(s.Lines), int(vic.NumLines))
	test.ExpectFailure(t, s.Lines[vic.Timer1.String()])
	test.ExpectEquality(t, s.VIC1.Enabled, 1<<vic.ChainSlot)
	test.ExpectSuccess(t, strings.Contains(s.String(), "r3  00000033"))

	w := &test.Writer{}
	b.DumpState(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "digraph"))
}
