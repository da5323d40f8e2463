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
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// offsetAddress applies the offset to the base in the direction given by the U
// bit of the instruction
func offsetAddress(instr uint32, base uint32, offset uint32) uint32 {
	if instr&0x00800000 == 0x00800000 {
		return base + offset
	}
	return base - offset
}

// singleTransfer implements LDR, STR, LDRB and STRB
func (a *ARM) singleTransfer(mem cpu.Memory, instr uint32) cpu.Outcome {
	pre := instr&0x01000000 == 0x01000000
	writeback := instr&0x00200000 == 0x00200000 || !pre
	load := instr&0x00100000 == 0x00100000
	rn := (instr >> 16) & 0x0f
	rd := (instr >> 12) & 0x0f

	width := peripherals.Word
	if instr&0x00400000 == 0x00400000 {
		width = peripherals.Byte
	}

	var offset uint32
	if instr&0x02000000 == 0 {
		offset = instr & 0xfff
	} else {
		offset, _ = a.shiftImmediate((instr>>5)&0x03, a.operand(instr&0x0f), (instr>>7)&0x1f)
	}

	base := a.operand(rn)
	updated := offsetAddress(instr, base, offset)
	address := base
	if pre {
		address = updated
	}

	if width == peripherals.Word && address&0x03 != 0 {
		return a.abort(address)
	}

	if load {
		v := mem.Read(address, width)
		if writeback && rn != 15 {
			a.reg[rn] = updated
		}
		a.setReg(rd, v)
		return cpu.Executed
	}

	mem.Write(address, width, a.operand(rd))
	if writeback && rn != 15 {
		a.reg[rn] = updated
	}

	return cpu.Executed
}

// halfwordTransfer implements LDRH, STRH, LDRSB and LDRSH
func (a *ARM) halfwordTransfer(mem cpu.Memory, instr uint32) cpu.Outcome {
	sh := (instr >> 5) & 0x03
	load := instr&0x00100000 == 0x00100000

	// only STRH exists in the store forms on ARMv4
	if sh == 0 || (!load && sh != 1) {
		return cpu.Unrecognised
	}

	pre := instr&0x01000000 == 0x01000000
	writeback := instr&0x00200000 == 0x00200000 || !pre
	rn := (instr >> 16) & 0x0f
	rd := (instr >> 12) & 0x0f

	var offset uint32
	if instr&0x00400000 == 0x00400000 {
		offset = (instr>>4)&0xf0 | instr&0x0f
	} else {
		offset = a.operand(instr & 0x0f)
	}

	base := a.operand(rn)
	updated := offsetAddress(instr, base, offset)
	address := base
	if pre {
		address = updated
	}

	width := peripherals.Half
	if sh == 2 {
		width = peripherals.Byte
	}

	if width == peripherals.Half && address&0x01 != 0 {
		return a.abort(address)
	}

	if !load {
		mem.Write(address, width, a.operand(rd))
		if writeback && rn != 15 {
			a.reg[rn] = updated
		}
		return cpu.Executed
	}

	v := mem.Read(address, width)
	switch sh {
	case 2:
		v = uint32(int32(int8(v)))
	case 3:
		v = uint32(int32(int16(v)))
	}
	if writeback && rn != 15 {
		a.reg[rn] = updated
	}
	a.setReg(rd, v)

	return cpu.Executed
}

// blockTransfer implements LDM and STM
func (a *ARM) blockTransfer(mem cpu.Memory, instr uint32) cpu.Outcome {
	list := instr & 0xffff
	if list == 0 {
		return cpu.Unrecognised
	}

	pre := instr&0x01000000 == 0x01000000
	up := instr&0x00800000 == 0x00800000
	psr := instr&0x00400000 == 0x00400000
	writeback := instr&0x00200000 == 0x00200000
	load := instr&0x00100000 == 0x00100000
	rn := (instr >> 16) & 0x0f

	n := uint32(bits.OnesCount32(list))
	base := a.reg[rn]

	// registers are always transferred lowest first to the lowest address
	var address, final uint32
	if up {
		address = base
		final = base + 4*n
		if pre {
			address += 4
		}
	} else {
		address = base - 4*n
		final = address
		if !pre {
			address += 4
		}
	}

	if address&0x03 != 0 {
		return a.abort(address)
	}

	// with the S bit set the user bank is transferred, except for an LDM
	// that includes the PC, which is a return from exception
	withPC := list&0x8000 == 0x8000
	userBank := psr && !(load && withPC)

	if load {
		// loading the base register takes precedence over writeback
		if writeback {
			a.reg[rn] = final
		}
		for i := range uint32(16) {
			if list&(1<<i) == 0 {
				continue
			}
			v := mem.Read(address, peripherals.Word)
			address += 4
			if userBank {
				a.setUserRegister(i, v)
			} else {
				a.setReg(i, v)
			}
		}
		if psr && withPC {
			a.restoreCPSR()
		}
		return cpu.Executed
	}

	for i := range uint32(16) {
		if list&(1<<i) == 0 {
			continue
		}
		var v uint32
		if userBank {
			v = a.userRegister(i)
		} else {
			v = a.operand(i)
		}
		mem.Write(address, peripherals.Word, v)
		address += 4
	}
	if writeback {
		a.reg[rn] = final
	}

	return cpu.Executed
}

// swap implements SWP and SWPB
func (a *ARM) swap(mem cpu.Memory, instr uint32) cpu.Outcome {
	rn := (instr >> 16) & 0x0f
	rd := (instr >> 12) & 0x0f
	rm := instr & 0x0f

	width := peripherals.Word
	if instr&0x00400000 == 0x00400000 {
		width = peripherals.Byte
	}

	address := a.reg[rn]
	if width == peripherals.Word && address&0x03 != 0 {
		return a.abort(address)
	}

	v := mem.Read(address, width)
	mem.Write(address, width, a.reg[rm])
	a.setReg(rd, v)

	return cpu.Executed
}
