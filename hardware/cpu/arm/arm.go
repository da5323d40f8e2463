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

package arm

import (
	"fmt"
	"strings"

	"github.com/ts7200emu/ts7200/hardware/cpu"
)

// MainID is the value of the CP15 main ID register for an ARM920T.
const MainID = 0x41129200

// indexes into the banked register arrays
const (
	bankUser = iota
	bankFIQ
	bankIRQ
	bankSupervisor
	bankAbort
	bankUndefined
	numBanks
)

func bank(m cpu.Mode) int {
	switch m {
	case cpu.FIQ:
		return bankFIQ
	case cpu.IRQ:
		return bankIRQ
	case cpu.Supervisor:
		return bankSupervisor
	case cpu.Abort:
		return bankAbort
	case cpu.Undefined:
		return bankUndefined
	}
	return bankUser
}

// ARM implements the cpu.Core interface.
type ARM struct {
	// registers of the current mode. reg[15] is the address of the next
	// instruction to be executed
	reg [16]uint32

	mode   cpu.Mode
	status status

	// r8 to r12 are banked only for FIQ mode. the registers not in use are
	// stored here
	userHigh [5]uint32
	fiqHigh  [5]uint32

	// r13 and r14 for each bank not currently in use
	bankedSP [numBanks]uint32
	bankedLR [numBanks]uint32

	// the user bank has no SPSR
	spsr [numBanks]uint32

	// address of the instruction being executed
	executing uint32

	// CP15 fault status and fault address. updated on data abort
	faultStatus  uint32
	faultAddress uint32
}

// NewARM is the preferred method of initialisation for the ARM type. The core
// is in the reset state: supervisor mode with interrupts disabled and the PC
// at zero.
func NewARM() *ARM {
	a := &ARM{mode: cpu.Supervisor}
	a.status.disableIRQ = true
	a.status.disableFIQ = true
	return a
}

func (a *ARM) String() string {
	s := strings.Builder{}
	for i := range 16 {
		s.WriteString(fmt.Sprintf("R%-2d=%08x ", i, a.reg[i]))
		if i%4 == 3 {
			s.WriteString("\n")
		}
	}
	s.WriteString(fmt.Sprintf("%s %s", a.mode, a.status))
	return s.String()
}

// Mode implements the cpu.Core interface.
func (a *ARM) Mode() cpu.Mode {
	return a.mode
}

func (a *ARM) cpsr() uint32 {
	return a.status.value() | uint32(a.mode)
}

// setCPSR changes mode if the mode bits are valid. an invalid mode leaves the
// mode unchanged
func (a *ARM) setCPSR(v uint32) {
	if m := cpu.Mode(v & cpu.ModeMask); m.Valid() {
		a.switchMode(m)
	}
	a.status.setFlags(v)
	a.status.setControl(v)
}

func (a *ARM) switchMode(m cpu.Mode) {
	from, to := bank(a.mode), bank(m)
	a.mode = m
	if from == to {
		return
	}

	if from == bankFIQ {
		copy(a.fiqHigh[:], a.reg[8:13])
		copy(a.reg[8:13], a.userHigh[:])
	} else if to == bankFIQ {
		copy(a.userHigh[:], a.reg[8:13])
		copy(a.reg[8:13], a.fiqHigh[:])
	}

	a.bankedSP[from], a.bankedLR[from] = a.reg[13], a.reg[14]
	a.reg[13], a.reg[14] = a.bankedSP[to], a.bankedLR[to]
}

// restoreCPSR copies the SPSR of the current mode to the CPSR. used when
// returning from an exception. does nothing in user or system mode
func (a *ARM) restoreCPSR() {
	if b := bank(a.mode); b != bankUser {
		a.setCPSR(a.spsr[b])
	}
}

// Register implements the cpu.Core interface.
func (a *ARM) Register(n int) uint32 {
	switch {
	case n >= 0 && n < 16:
		return a.reg[n]
	case n == cpu.CPSR:
		return a.cpsr()
	case n == cpu.SPSR:
		return a.spsr[bank(a.mode)]
	}
	return 0
}

// SetRegister implements the cpu.Core interface.
func (a *ARM) SetRegister(n int, value uint32) {
	switch {
	case n >= 0 && n < 16:
		a.setReg(uint32(n), value)
	case n == cpu.CPSR:
		a.setCPSR(value)
	case n == cpu.SPSR:
		if b := bank(a.mode); b != bankUser {
			a.spsr[b] = value
		}
	}
}

func (a *ARM) setReg(n uint32, v uint32) {
	if n == 15 {
		v &^= 3
	}
	a.reg[n] = v
}

// operand returns the value of a register as seen by an instruction
func (a *ARM) operand(n uint32) uint32 {
	if n == 15 {
		return a.executing + 8
	}
	return a.reg[n]
}

// userRegister returns the user mode register regardless of the current mode
func (a *ARM) userRegister(n uint32) uint32 {
	b := bank(a.mode)
	switch {
	case n >= 8 && n <= 12 && b == bankFIQ:
		return a.userHigh[n-8]
	case n == 13 && b != bankUser:
		return a.bankedSP[bankUser]
	case n == 14 && b != bankUser:
		return a.bankedLR[bankUser]
	}
	return a.operand(n)
}

func (a *ARM) setUserRegister(n uint32, v uint32) {
	b := bank(a.mode)
	switch {
	case n >= 8 && n <= 12 && b == bankFIQ:
		a.userHigh[n-8] = v
	case n == 13 && b != bankUser:
		a.bankedSP[bankUser] = v
	case n == 14 && b != bankUser:
		a.bankedLR[bankUser] = v
	default:
		a.setReg(n, v)
	}
}

// Exception implements the cpu.Core interface.
func (a *ARM) Exception(e cpu.Exception) {
	saved := a.cpsr()

	// the return address is such that the handler can return with the
	// conventional SUBS PC, LR, #4 for interrupts and MOVS PC, LR for SWI and
	// undefined instructions
	ret := a.reg[15]
	switch e {
	case cpu.Interrupt, cpu.FastInterrupt, cpu.DataAbort:
		ret += 4
	}

	a.switchMode(e.Mode())
	a.spsr[bank(a.mode)] = saved
	a.reg[14] = ret
	a.status.thumb = false
	a.status.disableIRQ = true
	if e == cpu.Reset || e == cpu.FastInterrupt {
		a.status.disableFIQ = true
	}
	a.reg[15] = e.Vector()
}

// Step implements the cpu.Core interface.
func (a *ARM) Step(mem cpu.Memory) cpu.Outcome {
	a.executing = a.reg[15]
	instr := mem.Fetch(a.executing)
	a.reg[15] = a.executing + 4

	if !a.status.condition(instr >> 28) {
		return cpu.Skipped
	}

	return a.execute(mem, instr)
}

// decoding follows "A3.1 Instruction set encoding" in the ARM Architecture
// Reference Manual
func (a *ARM) execute(mem cpu.Memory, instr uint32) cpu.Outcome {
	switch (instr >> 25) & 0x07 {
	case 0b000:
		switch {
		case instr&0x0ffffff0 == 0x012fff10:
			return a.branchExchange(instr)
		case instr&0x0fc000f0 == 0x00000090:
			return a.multiply(instr)
		case instr&0x0f8000f0 == 0x00800090:
			return a.multiplyLong(instr)
		case instr&0x0fb00ff0 == 0x01000090:
			return a.swap(mem, instr)
		case instr&0x00000090 == 0x00000090:
			return a.halfwordTransfer(mem, instr)
		case instr&0x01900000 == 0x01000000:
			return a.statusTransfer(instr)
		}
		return a.dataProcessing(instr)

	case 0b001:
		if instr&0x01900000 == 0x01000000 {
			return a.statusTransfer(instr)
		}
		return a.dataProcessing(instr)

	case 0b010:
		return a.singleTransfer(mem, instr)

	case 0b011:
		if instr&0x10 == 0x10 {
			return cpu.Unrecognised
		}
		return a.singleTransfer(mem, instr)

	case 0b100:
		return a.blockTransfer(mem, instr)

	case 0b101:
		return a.branch(instr)

	case 0b110:
		// coprocessor load and store
		return cpu.Unrecognised
	}

	if instr&0x01000000 == 0x01000000 {
		return cpu.SWI
	}
	if instr&0x10 == 0x10 {
		return a.coprocessorTransfer(instr)
	}

	// coprocessor data operation
	return cpu.Unrecognised
}

// abort records the fault for CP15 and returns the data abort outcome
func (a *ARM) abort(address uint32) cpu.Outcome {
	// alignment fault
	a.faultStatus = 0x01
	a.faultAddress = address
	return cpu.Aborted
}

func (a *ARM) branch(instr uint32) cpu.Outcome {
	// sign extend the 24 bit offset and multiply by four
	offset := uint32(int32(instr<<8) >> 6)
	if instr&0x01000000 == 0x01000000 {
		a.reg[14] = a.executing + 4
	}
	a.reg[15] = a.executing + 8 + offset
	return cpu.Executed
}

func (a *ARM) branchExchange(instr uint32) cpu.Outcome {
	target := a.operand(instr & 0x0f)
	if target&0x01 == 0x01 {
		return cpu.Unrecognised
	}
	a.setReg(15, target)
	return cpu.Executed
}

func (a *ARM) coprocessorTransfer(instr uint32) cpu.Outcome {
	if (instr>>8)&0x0f != 15 {
		return cpu.Unrecognised
	}

	// MCR
	if instr&0x00100000 == 0 {
		return cpu.Executed
	}

	// MRC
	var v uint32
	switch (instr >> 16) & 0x0f {
	case 0:
		if (instr>>5)&0x07 == 0 {
			v = MainID
		}
	case 5:
		v = a.faultStatus
	case 6:
		v = a.faultAddress
	}

	rd := (instr >> 12) & 0x0f
	if rd == 15 {
		a.status.setFlags(v)
	} else {
		a.reg[rd] = v
	}

	return cpu.Executed
}
