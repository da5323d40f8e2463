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

package hardware

import (
	"fmt"
	"io"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/hardware/clocks"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/hardware/cpu/arm"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/memory/bus"
	"github.com/ts7200emu/ts7200/hardware/memory/memorymap"
	"github.com/ts7200emu/ts7200/hardware/memory/ram"
	"github.com/ts7200emu/ts7200/hardware/peripherals/gpio"
	"github.com/ts7200emu/ts7200/hardware/peripherals/syscon"
	"github.com/ts7200emu/ts7200/hardware/peripherals/timer"
	"github.com/ts7200emu/ts7200/hardware/peripherals/uart"
	"github.com/ts7200emu/ts7200/hardware/peripherals/vic"
	"github.com/ts7200emu/ts7200/logger"
)

// Config carries the runtime options of the board.
type Config struct {
	// clock used to derive timer values. the wall clock is used if Clock is
	// nil
	Clock clocks.Clock

	// the terminal channels for the two UARTs. a nil channel is a
	// disconnected line
	UART1 uart.Channel
	UART2 uart.Channel

	// promote every ContractViolation to a FatalFault
	Strict bool

	// the first occurrence of every fault is written to Diagnostics as it
	// happens. usually stderr
	Diagnostics io.Writer
}

// Board is the TS-7200 single board computer.
type Board struct {
	Clock clocks.Clock
	Bus   *bus.Bus
	RAM   *ram.RAM

	Timer1 *timer.Timer
	Timer2 *timer.Timer
	Timer3 *timer.Timer
	UART1  *uart.UART
	UART2  *uart.UART
	Syscon *syscon.Syscon
	GPIO   *gpio.GPIO
	VIC    *vic.Chain

	CPU *cpu.Adapter

	// record of every ContractViolation and FatalFault
	Faults *faults.Log

	strict      bool
	diagnostics io.Writer

	// the source of every interrupt line, indexed by vic.LineID
	lines [vic.NumLines]func() bool
}

// NewBoard creates a new board and everything associated with the hardware.
// Devices are in the state left by the boot loader.
func NewBoard(cfg Config) *Board {
	clk := cfg.Clock
	if clk == nil {
		clk = clocks.NewWall()
	}

	b := &Board{
		Clock:  clk,
		RAM:    ram.NewRAM(memorymap.SizeSDRAM),
		Timer1: timer.NewTimer("timer1", 16),
		Timer2: timer.NewTimer("timer2", 16),
		Timer3: timer.NewTimer("timer3", 32),
		UART1:  uart.NewUART("uart1", true, cfg.UART1),
		UART2:  uart.NewUART("uart2", false, cfg.UART2),
		Syscon: syscon.NewSyscon(),
		GPIO:   gpio.NewGPIO(),
		VIC:    vic.NewChain(),
		Faults: faults.NewLog(),
		strict: cfg.Strict,

		diagnostics: cfg.Diagnostics,
	}

	b.Bus = bus.NewBus(clk, b.RAM)
	b.Bus.Attach(memorymap.VIC, b.VIC)
	b.Bus.Attach(memorymap.Timer1, b.Timer1)
	b.Bus.Attach(memorymap.Timer2, b.Timer2)
	b.Bus.Attach(memorymap.Timer3, b.Timer3)
	b.Bus.Attach(memorymap.GPIO, b.GPIO)
	b.Bus.Attach(memorymap.UART1, b.UART1)
	b.Bus.Attach(memorymap.UART2, b.UART2)
	b.Bus.Attach(memorymap.Syscon, b.Syscon)

	b.lines = [vic.NumLines]func() bool{
		vic.Timer1:  b.Timer1.Interrupt,
		vic.Timer2:  b.Timer2.Interrupt,
		vic.Timer3:  b.Timer3.Interrupt,
		vic.UART1Rx: b.UART1.RxInterrupt,
		vic.UART1Tx: b.UART1.TxInterrupt,
		vic.UART1:   b.UART1.Interrupt,
		vic.UART2Rx: b.UART2.RxInterrupt,
		vic.UART2Tx: b.UART2.TxInterrupt,
		vic.UART2:   b.UART2.Interrupt,
	}

	b.CPU = cpu.NewAdapter(arm.NewARM(), b.Bus, b.handleError)

	return b
}

func (b *Board) String() string {
	return fmt.Sprintf("%s\n%s\n%s", b.CPU.Core(), b.VIC.VIC1, b.VIC.VIC2)
}

// Segment is a block of bytes placed in SDRAM before execution begins.
type Segment struct {
	Address uint32
	Data    []byte
}

// RegisterValue is the initial value of a CPU register.
type RegisterValue struct {
	Register int
	Value    uint32
}

// Load places the segments in SDRAM and sets the CPU registers. Registers are
// set in order. A change to the CPSR switches register banks so later values
// apply to the new mode.
func (b *Board) Load(segments []Segment, registers []RegisterValue) error {
	for _, s := range segments {
		area, offset := memorymap.MapAddress(s.Address)
		if area != memorymap.SDRAM {
			return curated.Errorf("board: load: segment at %08x is not in sdram", s.Address)
		}
		if err := b.RAM.BulkWrite(offset, s.Data); err != nil {
			return curated.Errorf("board: load: %v", err)
		}
	}
	for _, r := range registers {
		b.CPU.Core().SetRegister(r.Register, r.Value)
	}
	return nil
}

// Propagate reads every interrupt line and forwards it to its VIC slot.
func (b *Board) Propagate() {
	for id, line := range b.lines {
		b.VIC.SetLine(vic.LineID(id), line())
	}
}

// Service moves bytes between the UARTs and their terminal channels.
func (b *Board) Service() error {
	err1 := b.UART1.Service()
	err2 := b.UART2.Service()
	if err1 != nil {
		return curated.Errorf("uart1: %v", err1)
	}
	if err2 != nil {
		return curated.Errorf("uart2: %v", err2)
	}
	return nil
}

// IRQ returns true if an IRQ is pending at the CPU.
func (b *Board) IRQ() bool {
	return b.VIC.IRQ()
}

// FIQ returns true if an FIQ is pending at the CPU.
func (b *Board) FIQ() bool {
	return b.VIC.FIQ()
}

// PC returns the address of the next instruction.
func (b *Board) PC() uint32 {
	return b.CPU.Core().Register(cpu.PC)
}

// handleError is the error handler for the CPU adapter. violations are
// recorded and execution continues. fatal faults, and violations in strict
// mode, are returned
func (b *Board) handleError(err error, pc uint32) error {
	category := faults.CategoryViolation
	switch {
	case faults.IsFatal(err):
		category = faults.CategoryFatal
	case b.strict:
		err = curated.Errorf(faults.FatalFault, err)
		category = faults.CategoryFatal
	}

	// the address of the most recent data access is the best guess at the
	// address that caused the fault. errors during the instruction fetch
	// happen before any data access
	addr := pc
	if acc := b.CPU.Accesses(); len(acc) > 0 {
		addr = acc[len(acc)-1].Address
	}

	if b.Faults.NewEntry(category, err.Error(), pc, addr) {
		probe := b.Bus.Probe(addr)
		logger.Logf(logger.Allow, string(category), "%v (PC: %08x) [%s]", err, pc, probe)
		if b.diagnostics != nil {
			fmt.Fprintf(b.diagnostics, "* %s: %v (PC: %08x) [%s]\n", category, err, pc, probe)
		}
	}

	if category == faults.CategoryFatal {
		return err
	}
	return nil
}
