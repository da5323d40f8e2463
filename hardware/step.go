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
	"github.com/ts7200emu/ts7200/hardware/peripherals/syscon"
	"github.com/ts7200emu/ts7200/logger"
)

// Halted returns true if the CPU is in the halt power state.
func (b *Board) Halted() bool {
	return b.Syscon.PowerState() != syscon.Run
}

// Step moves the emulation forward by one instruction. The order of
// operation is:
//
//  1. execute one instruction. memory mapped accesses made by the instruction
//     advance device time as they happen
//  2. advance device time, so that timers progress even when the program
//     makes no device access
//  3. move bytes between the UARTs and their terminal channels
//  4. forward every interrupt line to the VICs
//  5. enter the IRQ or FIQ exception if the VIC output is asserted and the
//     CPSR does not disable it
//
// When the CPU is halted step 1 is skipped. The halt ends when an interrupt is
// pending at the VIC output, whether or not the CPSR disables it.
//
// Returns true if an instruction was executed. A returned error is a fatal
// fault and the emulation should not continue.
func (b *Board) Step() (bool, error) {
	if b.Halted() {
		stop := b.tick()
		if b.IRQ() || b.FIQ() {
			b.Syscon.Wake()
			logger.Logf(logger.Allow, "syscon", "woken from halt at %08x", b.PC())
			b.CPU.Interrupt(b.IRQ(), b.FIQ())
		}
		return false, stop
	}

	_, err := b.CPU.Step()

	if stop := b.tick(); err == nil {
		err = stop
	}

	b.CPU.Interrupt(b.IRQ(), b.FIQ())

	return true, err
}

// tick covers steps 2 to 4 of Step()
func (b *Board) tick() error {
	var stop error
	b.Bus.Advance()
	if err := b.Service(); err != nil {
		stop = b.handleError(err, b.PC())
	}
	b.Propagate()
	return stop
}
