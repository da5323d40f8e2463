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

package cpu

import (
	"github.com/ts7200emu/ts7200/hardware/memory/bus"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// Access is a data access made by an instruction. Instruction fetches are not
// recorded.
type Access struct {
	Address uint32
	Width   peripherals.Width
	Write   bool
	Data    uint32
}

// ErrorHandler is called with every error returned by the bus during an
// instruction, along with the address of the instruction. Returning a non-nil
// error stops emulation once the instruction has completed.
type ErrorHandler func(err error, pc uint32) error

// Adapter joins a Core to the memory bus.
type Adapter struct {
	core    Core
	bus     bus.CPUBus
	handler ErrorHandler

	// address of the instruction being executed
	pc uint32

	accesses []Access
	stop     error

	instructions uint64
	exceptions   [FastInterrupt + 1]uint64
}

// NewAdapter is the preferred method of initialisation for the Adapter type.
// A nil handler ignores every error.
func NewAdapter(core Core, b bus.CPUBus, handler ErrorHandler) *Adapter {
	if handler == nil {
		handler = func(error, uint32) error { return nil }
	}
	return &Adapter{
		core:     core,
		bus:      b,
		handler:  handler,
		accesses: make([]Access, 0, 16),
	}
}

// Core returns the core driven by the adapter.
func (a *Adapter) Core() Core {
	return a.core
}

// Accesses returns the data accesses made by the most recent call to Step().
// The slice is reused by the next call to Step().
func (a *Adapter) Accesses() []Access {
	return a.accesses
}

// Instructions returns the number of instructions stepped.
func (a *Adapter) Instructions() uint64 {
	return a.instructions
}

// Exceptions returns the number of times the exception has been entered.
func (a *Adapter) Exceptions(e Exception) uint64 {
	return a.exceptions[e]
}

func (a *Adapter) enter(e Exception) {
	a.exceptions[e]++
	a.core.Exception(e)
}

// Step executes one instruction. Exceptions caused by the instruction are
// entered before Step returns. The returned error is the first error the
// ErrorHandler chose to stop on.
func (a *Adapter) Step() (Outcome, error) {
	a.accesses = a.accesses[:0]
	a.stop = nil
	a.pc = a.core.Register(PC)

	o := a.core.Step(sniffer{a})
	a.instructions++

	switch o {
	case Unrecognised:
		a.enter(UndefinedInstruction)
	case SWI:
		a.enter(SoftwareInterrupt)
	case Aborted:
		a.enter(DataAbort)
	}

	return o, a.stop
}

// Interrupt enters the FIQ or IRQ exception if the signal is raised and not
// disabled in the CPSR. FIQ takes priority. Returns true if an exception was
// entered.
func (a *Adapter) Interrupt(irq bool, fiq bool) bool {
	cpsr := a.core.Register(CPSR)
	if fiq && cpsr&DisableFIQ == 0 {
		a.enter(FastInterrupt)
		return true
	}
	if irq && cpsr&DisableIRQ == 0 {
		a.enter(Interrupt)
		return true
	}
	return false
}

func (a *Adapter) handle(err error) {
	if err == nil {
		return
	}
	if stop := a.handler(err, a.pc); stop != nil && a.stop == nil {
		a.stop = stop
	}
}

// sniffer implements the Memory interface for the core
type sniffer struct {
	a *Adapter
}

func (s sniffer) Fetch(address uint32) uint32 {
	v, err := s.a.bus.Read(address, peripherals.Word)
	s.a.handle(err)
	return v
}

func (s sniffer) Read(address uint32, width peripherals.Width) uint32 {
	v, err := s.a.bus.Read(address, width)
	s.a.accesses = append(s.a.accesses, Access{Address: address, Width: width, Data: v})
	s.a.handle(err)
	return v
}

func (s sniffer) Write(address uint32, width peripherals.Width, data uint32) {
	err := s.a.bus.Write(address, width, data)
	s.a.accesses = append(s.a.accesses, Access{Address: address, Width: width, Write: true, Data: data})
	s.a.handle(err)
}
