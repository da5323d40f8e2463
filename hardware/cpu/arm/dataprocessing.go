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
	"math/bits"

	"github.com/ts7200emu/ts7200/hardware/cpu"
)

// shift types in bits 5 and 6 of the instruction
const (
	shiftLSL = iota
	shiftLSR
	shiftASR
	shiftROR
)

// addWithCarry returns x + y + carry, along with the carry and overflow flags
func addWithCarry(x uint32, y uint32, carry bool) (uint32, bool, bool) {
	var c uint64
	if carry {
		c = 1
	}
	sum := uint64(x) + uint64(y) + c
	result := uint32(sum)
	overflow := (^(x^y)&(x^result))&0x80000000 == 0x80000000
	return result, sum>>32 != 0, overflow
}

// shift a value by a register specified amount. the lower byte of the amount
// is used
func (a *ARM) shift(typ uint32, v uint32, amount uint32) (uint32, bool) {
	amount &= 0xff
	if amount == 0 {
		return v, a.status.carry
	}

	switch typ {
	case shiftLSL:
		switch {
		case amount < 32:
			return v << amount, v&(1<<(32-amount)) != 0
		case amount == 32:
			return 0, v&0x01 == 0x01
		}
		return 0, false

	case shiftLSR:
		switch {
		case amount < 32:
			return v >> amount, v&(1<<(amount-1)) != 0
		case amount == 32:
			return 0, v&0x80000000 == 0x80000000
		}
		return 0, false

	case shiftASR:
		if amount >= 32 {
			if v&0x80000000 == 0x80000000 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(v) >> amount), v&(1<<(amount-1)) != 0
	}

	// ROR
	r := bits.RotateLeft32(v, -int(amount&0x1f))
	return r, r&0x80000000 == 0x80000000
}

// shiftImmediate applies the special meanings of a zero shift amount in the
// immediate shift forms
func (a *ARM) shiftImmediate(typ uint32, v uint32, amount uint32) (uint32, bool) {
	if amount == 0 {
		switch typ {
		case shiftLSL:
			return v, a.status.carry
		case shiftLSR, shiftASR:
			return a.shift(typ, v, 32)
		}

		// RRX
		r := v >> 1
		if a.status.carry {
			r |= 0x80000000
		}
		return r, v&0x01 == 0x01
	}
	return a.shift(typ, v, amount)
}

// rotatedImmediate decodes the 8 bit immediate and 4 bit rotation used by data
// processing and MSR instructions
func (a *ARM) rotatedImmediate(instr uint32) (uint32, bool) {
	imm := instr & 0xff
	rot := ((instr >> 8) & 0x0f) * 2
	if rot == 0 {
		return imm, a.status.carry
	}
	v := bits.RotateLeft32(imm, -int(rot))
	return v, v&0x80000000 == 0x80000000
}

// shifterOperand returns the second operand of a data processing instruction
// and the carry out of the shifter
func (a *ARM) shifterOperand(instr uint32) (uint32, bool) {
	if instr&0x02000000 == 0x02000000 {
		return a.rotatedImmediate(instr)
	}

	rm := instr & 0x0f
	typ := (instr >> 5) & 0x03

	if instr&0x10 == 0 {
		return a.shiftImmediate(typ, a.operand(rm), (instr>>7)&0x1f)
	}

	// R15 reads one instruction further ahead when the shift amount is in a
	// register
	v := a.operand(rm)
	if rm == 15 {
		v += 4
	}
	return a.shift(typ, v, a.reg[(instr>>8)&0x0f])
}

func (a *ARM) dataProcessing(instr uint32) cpu.Outcome {
	opcode := (instr >> 21) & 0x0f
	setFlags := instr&0x00100000 == 0x00100000
	rn := (instr >> 16) & 0x0f
	rd := (instr >> 12) & 0x0f

	op2, shiftCarry := a.shifterOperand(instr)
	op1 := a.operand(rn)
	if rn == 15 && instr&0x02000010 == 0x10 {
		op1 += 4
	}

	var result uint32
	carry := shiftCarry
	overflow := a.status.overflow
	write := true

	switch opcode {
	case 0b0000:
		// AND
		result = op1 & op2
	case 0b0001:
		// EOR
		result = op1 ^ op2
	case 0b0010:
		// SUB
		result, carry, overflow = addWithCarry(op1, ^op2, true)
	case 0b0011:
		// RSB
		result, carry, overflow = addWithCarry(op2, ^op1, true)
	case 0b0100:
		// ADD
		result, carry, overflow = addWithCarry(op1, op2, false)
	case 0b0101:
		// ADC
		result, carry, overflow = addWithCarry(op1, op2, a.status.carry)
	case 0b0110:
		// SBC
		result, carry, overflow = addWithCarry(op1, ^op2, a.status.carry)
	case 0b0111:
		// RSC
		result, carry, overflow = addWithCarry(op2, ^op1, a.status.carry)
	case 0b1000:
		// TST
		result = op1 & op2
		write = false
	case 0b1001:
		// TEQ
		result = op1 ^ op2
		write = false
	case 0b1010:
		// CMP
		result, carry, overflow = addWithCarry(op1, ^op2, true)
		write = false
	case 0b1011:
		// CMN
		result, carry, overflow = addWithCarry(op1, op2, false)
		write = false
	case 0b1100:
		// ORR
		result = op1 | op2
	case 0b1101:
		// MOV
		result = op2
	case 0b1110:
		// BIC
		result = op1 &^ op2
	case 0b1111:
		// MVN
		result = ^op2
	}

	if write && rd == 15 {
		// with the S bit this is a return from exception
		if setFlags {
			a.restoreCPSR()
		}
		a.setReg(15, result)
		return cpu.Executed
	}

	if write {
		a.reg[rd] = result
	}

	if setFlags {
		a.status.isNegative(result)
		a.status.isZero(result)
		a.status.carry = carry
		a.status.overflow = overflow
	}

	return cpu.Executed
}

// statusTransfer implements MRS and MSR
func (a *ARM) statusTransfer(instr uint32) cpu.Outcome {
	useSPSR := instr&0x00400000 == 0x00400000

	// MRS
	if instr&0x00200000 == 0 {
		if instr&0x0fbf0fff != 0x010f0000 {
			return cpu.Unrecognised
		}
		rd := (instr >> 12) & 0x0f
		v := a.cpsr()
		if useSPSR {
			v = a.spsr[bank(a.mode)]
		}
		a.setReg(rd, v)
		return cpu.Executed
	}

	// MSR
	if instr&0x0000f000 != 0x0000f000 {
		return cpu.Unrecognised
	}

	var operand uint32
	if instr&0x02000000 == 0x02000000 {
		operand, _ = a.rotatedImmediate(instr)
	} else {
		if instr&0x00000ff0 != 0 {
			return cpu.Unrecognised
		}
		operand = a.operand(instr & 0x0f)
	}

	var mask uint32
	if instr&0x00010000 == 0x00010000 {
		mask |= 0x000000ff
	}
	if instr&0x00020000 == 0x00020000 {
		mask |= 0x0000ff00
	}
	if instr&0x00040000 == 0x00040000 {
		mask |= 0x00ff0000
	}
	if instr&0x00080000 == 0x00080000 {
		mask |= 0xff000000
	}

	if useSPSR {
		if b := bank(a.mode); b != bankUser {
			a.spsr[b] = a.spsr[b]&^mask | operand&mask
		}
		return cpu.Executed
	}

	// only the flags can be changed in user mode and the T bit is never
	// changed by MSR
	if a.mode == cpu.User {
		mask &= 0xff000000
	}
	mask &^= cpu.Thumb
	a.setCPSR(a.cpsr()&^mask | operand&mask)

	return cpu.Executed
}

func (a *ARM) multiply(instr uint32) cpu.Outcome {
	rd := (instr >> 16) & 0x0f
	rn := (instr >> 12) & 0x0f
	rs := (instr >> 8) & 0x0f
	rm := instr & 0x0f

	result := a.reg[rm] * a.reg[rs]
	if instr&0x00200000 == 0x00200000 {
		result += a.reg[rn]
	}
	a.setReg(rd, result)

	// the carry flag is unpredictable after a multiply and is left unchanged
	if instr&0x00100000 == 0x00100000 {
		a.status.isNegative(result)
		a.status.isZero(result)
	}

	return cpu.Executed
}

func (a *ARM) multiplyLong(instr uint32) cpu.Outcome {
	rdHi := (instr >> 16) & 0x0f
	rdLo := (instr >> 12) & 0x0f
	rs := (instr >> 8) & 0x0f
	rm := instr & 0x0f

	var result uint64
	if instr&0x00400000 == 0x00400000 {
		result = uint64(int64(int32(a.reg[rm])) * int64(int32(a.reg[rs])))
	} else {
		result = uint64(a.reg[rm]) * uint64(a.reg[rs])
	}
	if instr&0x00200000 == 0x00200000 {
		result += uint64(a.reg[rdHi])<<32 | uint64(a.reg[rdLo])
	}

	a.setReg(rdLo, uint32(result))
	a.setReg(rdHi, uint32(result>>32))

	if instr&0x00100000 == 0x00100000 {
		a.status.negative = result&(1<<63) != 0
		a.status.zero = result == 0
	}

	return cpu.Executed
}
