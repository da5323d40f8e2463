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
	"fmt"

	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// Mode is the processor mode in the lower bits of the CPSR.
type Mode uint32

// List of valid Mode values.
const (
	User       Mode = 0x10
	FIQ        Mode = 0x11
	IRQ        Mode = 0x12
	Supervisor Mode = 0x13
	Abort      Mode = 0x17
	Undefined  Mode = 0x1b
	System     Mode = 0x1f
)

func (m Mode) String() string {
	switch m {
	case User:
		return "usr"
	case FIQ:
		return "fiq"
	case IRQ:
		return "irq"
	case Supervisor:
		return "svc"
	case Abort:
		return "abt"
	case Undefined:
		return "und"
	case System:
		return "sys"
	}
	return fmt.Sprintf("mode(%#02x)", uint32(m))
}

// Valid returns true if the mode is one of the defined modes.
func (m Mode) Valid() bool {
	switch m {
	case User, FIQ, IRQ, Supervisor, Abort, Undefined, System:
		return true
	}
	return false
}

// Bits in the CPSR.
const (
	FlagN      = uint32(1 << 31)
	FlagZ      = uint32(1 << 30)
	FlagC      = uint32(1 << 29)
	FlagV      = uint32(1 << 28)
	DisableIRQ = uint32(0x80)
	DisableFIQ = uint32(0x40)
	Thumb      = uint32(0x20)
	ModeMask   = uint32(0x1f)
)

// Register numbers. Numbers 0 to 15 are the general purpose registers of the
// current mode.
const (
	SP   = 13
	LR   = 14
	PC   = 15
	CPSR = 16
	SPSR = 17
)

// Exception is an architecturally defined exception.
type Exception int

// List of valid Exception values.
const (
	Reset Exception = iota
	UndefinedInstruction
	SoftwareInterrupt
	PrefetchAbort
	DataAbort
	Interrupt
	FastInterrupt
)

func (e Exception) String() string {
	switch e {
	case Reset:
		return "reset"
	case UndefinedInstruction:
		return "undefined instruction"
	case SoftwareInterrupt:
		return "software interrupt"
	case PrefetchAbort:
		return "prefetch abort"
	case DataAbort:
		return "data abort"
	case Interrupt:
		return "irq"
	case FastInterrupt:
		return "fiq"
	}
	return "unknown exception"
}

// Vector returns the address of the exception vector.
func (e Exception) Vector() uint32 {
	switch e {
	case UndefinedInstruction:
		return 0x04
	case SoftwareInterrupt:
		return 0x08
	case PrefetchAbort:
		return 0x0c
	case DataAbort:
		return 0x10
	case Interrupt:
		return 0x18
	case FastInterrupt:
		return 0x1c
	}
	return 0x00
}

// Mode returns the processor mode the exception is handled in.
func (e Exception) Mode() Mode {
	switch e {
	case UndefinedInstruction:
		return Undefined
	case PrefetchAbort, DataAbort:
		return Abort
	case Interrupt:
		return IRQ
	case FastInterrupt:
		return FIQ
	}
	return Supervisor
}

// Outcome is the result of executing a single instruction.
type Outcome int

// List of valid Outcome values.
const (
	Executed Outcome = iota
	Skipped
	Unrecognised
	SWI
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Executed:
		return "executed"
	case Skipped:
		return "skipped"
	case Unrecognised:
		return "undefined"
	case SWI:
		return "swi"
	case Aborted:
		return "aborted"
	}
	return "unknown outcome"
}

// Memory is the view of memory given to a core. Accesses never fail from the
// point of view of the core.
type Memory interface {
	Fetch(address uint32) uint32
	Read(address uint32, width peripherals.Width) uint32
	Write(address uint32, width peripherals.Width, data uint32)
}

// Core is a CPU core that can be driven by the Adapter.
type Core interface {
	// Step executes the instruction at the current program counter
	Step(mem Memory) Outcome

	// Register and SetRegister access the registers of the current mode. The
	// PC register is the address of the next instruction to be executed
	Register(n int) uint32
	SetRegister(n int, value uint32)

	// Exception enters the exception. For interrupts the exception is taken
	// before the instruction at the current program counter is executed
	Exception(e Exception)

	// Mode returns the current processor mode
	Mode() Mode
}
