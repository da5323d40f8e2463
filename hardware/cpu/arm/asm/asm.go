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

package asm

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/ts7200emu/ts7200/curated"
)

// Sentinal error patterns.
const (
	UnknownLabel       = "asm: unknown label: %s"
	BadImmediate       = "asm: immediate value %#x can not be encoded"
	LiteralOutOfRange  = "asm: literal for instruction at %#08x is out of range"
	OffsetOutOfRange   = "asm: offset %d is out of range"
	DuplicateLabel     = "asm: duplicate label: %s"
	BranchOutOfRange   = "asm: branch to %s is out of range"
	maxLiteralDistance = 4095
)

// Condition codes.
const (
	EQ = 0x0
	NE = 0x1
	CS = 0x2
	CC = 0x3
	MI = 0x4
	PL = 0x5
	VS = 0x6
	VC = 0x7
	HI = 0x8
	LS = 0x9
	GE = 0xa
	LT = 0xb
	GT = 0xc
	LE = 0xd
	AL = 0xe
)

// Register aliases.
const (
	SP = 13
	LR = 14
	PC = 15
)

// Data processing opcodes.
const (
	opAND = 0x0
	opEOR = 0x1
	opSUB = 0x2
	opRSB = 0x3
	opADD = 0x4
	opTST = 0x8
	opTEQ = 0x9
	opCMP = 0xa
	opORR = 0xc
	opMOV = 0xd
	opBIC = 0xe
	opMVN = 0xf
)

type fixupKind int

const (
	fixupBranch fixupKind = iota
	fixupLiteral
)

type fixup struct {
	kind  fixupKind
	index int
	label string
	value uint32
}

// Program is an ARM program under construction.
type Program struct {
	origin uint32
	words  []uint32
	labels map[string]uint32
	fixups []fixup
	cond   uint32
	err    error
}

// New is the preferred method of initialisation for the Program type.
func New(origin uint32) *Program {
	return &Program{
		origin: origin,
		labels: make(map[string]uint32),
		cond:   AL,
	}
}

// Origin returns the address of the first instruction.
func (p *Program) Origin() uint32 {
	return p.origin
}

// Here returns the address of the next instruction.
func (p *Program) Here() uint32 {
	return p.origin + uint32(len(p.words))*4
}

// Address returns the address of a label. Returns false if the label has not
// been defined.
func (p *Program) Address(label string) (uint32, bool) {
	a, ok := p.labels[label]
	return a, ok
}

func (p *Program) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Label marks the address of the next instruction.
func (p *Program) Label(name string) {
	if _, ok := p.labels[name]; ok {
		p.fail(curated.Errorf(DuplicateLabel, name))
		return
	}
	p.labels[name] = p.Here()
}

// Cond sets the condition of the next instruction.
func (p *Program) Cond(cond uint32) {
	p.cond = cond & 0x0f
}

// Word adds a data word to the program.
func (p *Program) Word(v uint32) {
	p.words = append(p.words, v)
}

// Instr adds an instruction to the program. The condition field of the
// instruction is replaced by the condition set with Cond().
func (p *Program) Instr(v uint32) {
	p.words = append(p.words, v&0x0fffffff|p.cond<<28)
	p.cond = AL
}

// encodeImmediate finds the rotation for an immediate operand
func encodeImmediate(v uint32) (uint32, bool) {
	for rot := uint32(0); rot < 16; rot++ {
		imm := bits.RotateLeft32(v, int(rot*2))
		if imm <= 0xff {
			return rot<<8 | imm, true
		}
	}
	return 0, false
}

func (p *Program) dataImmediate(op uint32, setFlags bool, rd uint32, rn uint32, imm uint32) {
	enc, ok := encodeImmediate(imm)
	if !ok {
		p.fail(curated.Errorf(BadImmediate, imm))
		enc = 0
	}
	instr := 0x02000000 | op<<21 | rn<<16 | rd<<12 | enc
	if setFlags {
		instr |= 0x00100000
	}
	p.Instr(instr)
}

func (p *Program) dataRegister(op uint32, setFlags bool, rd uint32, rn uint32, rm uint32) {
	instr := op<<21 | rn<<16 | rd<<12 | rm
	if setFlags {
		instr |= 0x00100000
	}
	p.Instr(instr)
}

// MOV rd, #imm
func (p *Program) MOV(rd uint32, imm uint32) {
	p.dataImmediate(opMOV, false, rd, 0, imm)
}

// MOVReg rd, rm
func (p *Program) MOVReg(rd uint32, rm uint32) {
	p.dataRegister(opMOV, false, rd, 0, rm)
}

// MOVS rd, rm. With rd as the PC this returns from an exception.
func (p *Program) MOVS(rd uint32, rm uint32) {
	p.dataRegister(opMOV, true, rd, 0, rm)
}

// MVN rd, #imm
func (p *Program) MVN(rd uint32, imm uint32) {
	p.dataImmediate(opMVN, false, rd, 0, imm)
}

// ADD rd, rn, #imm
func (p *Program) ADD(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opADD, false, rd, rn, imm)
}

// ADDReg rd, rn, rm
func (p *Program) ADDReg(rd uint32, rn uint32, rm uint32) {
	p.dataRegister(opADD, false, rd, rn, rm)
}

// SUB rd, rn, #imm
func (p *Program) SUB(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opSUB, false, rd, rn, imm)
}

// SUBS rd, rn, #imm. With rd as the PC this returns from an exception.
func (p *Program) SUBS(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opSUB, true, rd, rn, imm)
}

// RSB rd, rn, #imm
func (p *Program) RSB(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opRSB, false, rd, rn, imm)
}

// AND rd, rn, #imm
func (p *Program) AND(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opAND, false, rd, rn, imm)
}

// EOR rd, rn, #imm
func (p *Program) EOR(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opEOR, false, rd, rn, imm)
}

// ORR rd, rn, #imm
func (p *Program) ORR(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opORR, false, rd, rn, imm)
}

// BIC rd, rn, #imm
func (p *Program) BIC(rd uint32, rn uint32, imm uint32) {
	p.dataImmediate(opBIC, false, rd, rn, imm)
}

// CMP rn, #imm
func (p *Program) CMP(rn uint32, imm uint32) {
	p.dataImmediate(opCMP, true, 0, rn, imm)
}

// CMPReg rn, rm
func (p *Program) CMPReg(rn uint32, rm uint32) {
	p.dataRegister(opCMP, true, 0, rn, rm)
}

// TST rn, #imm
func (p *Program) TST(rn uint32, imm uint32) {
	p.dataImmediate(opTST, true, 0, rn, imm)
}

// TEQ rn, #imm
func (p *Program) TEQ(rn uint32, imm uint32) {
	p.dataImmediate(opTEQ, true, 0, rn, imm)
}

// MUL rd, rm, rs
func (p *Program) MUL(rd uint32, rm uint32, rs uint32) {
	p.Instr(rd<<16 | rs<<8 | 0x90 | rm)
}

// MRS rd, CPSR
func (p *Program) MRS(rd uint32) {
	p.Instr(0x010f0000 | rd<<12)
}

// MSRControl sets the control field of the CPSR from an immediate. MSR
// CPSR_c, #imm
func (p *Program) MSRControl(imm uint32) {
	p.Instr(0x0321f000 | imm&0xff)
}

// MSR CPSR_fc, rm
func (p *Program) MSR(rm uint32) {
	p.Instr(0x0129f000 | rm)
}

func (p *Program) transfer(load bool, byteWidth bool, rd uint32, rn uint32, offset int32) {
	instr := uint32(0x05000000) | rn<<16 | rd<<12
	if load {
		instr |= 0x00100000
	}
	if byteWidth {
		instr |= 0x00400000
	}
	if offset >= 0 {
		instr |= 0x00800000
	} else {
		offset = -offset
	}
	if offset > 0xfff {
		p.fail(curated.Errorf(OffsetOutOfRange, offset))
		offset = 0
	}
	p.Instr(instr | uint32(offset))
}

// LDR rd, [rn, #offset]
func (p *Program) LDR(rd uint32, rn uint32, offset int32) {
	p.transfer(true, false, rd, rn, offset)
}

// STR rd, [rn, #offset]
func (p *Program) STR(rd uint32, rn uint32, offset int32) {
	p.transfer(false, false, rd, rn, offset)
}

// LDRB rd, [rn, #offset]
func (p *Program) LDRB(rd uint32, rn uint32, offset int32) {
	p.transfer(true, true, rd, rn, offset)
}

// STRB rd, [rn, #offset]
func (p *Program) STRB(rd uint32, rn uint32, offset int32) {
	p.transfer(false, true, rd, rn, offset)
}

func (p *Program) halfword(load bool, sh uint32, rd uint32, rn uint32, offset int32) {
	instr := uint32(0x01400090) | sh<<5 | rn<<16 | rd<<12
	if load {
		instr |= 0x00100000
	}
	if offset >= 0 {
		instr |= 0x00800000
	} else {
		offset = -offset
	}
	if offset > 0xff {
		p.fail(curated.Errorf(OffsetOutOfRange, offset))
		offset = 0
	}
	p.Instr(instr | uint32(offset&0xf0)<<4 | uint32(offset&0x0f))
}

// LDRH rd, [rn, #offset]
func (p *Program) LDRH(rd uint32, rn uint32, offset int32) {
	p.halfword(true, 1, rd, rn, offset)
}

// STRH rd, [rn, #offset]
func (p *Program) STRH(rd uint32, rn uint32, offset int32) {
	p.halfword(false, 1, rd, rn, offset)
}

// LDRSB rd, [rn, #offset]
func (p *Program) LDRSB(rd uint32, rn uint32, offset int32) {
	p.halfword(true, 2, rd, rn, offset)
}

// LDRSH rd, [rn, #offset]
func (p *Program) LDRSH(rd uint32, rn uint32, offset int32) {
	p.halfword(true, 3, rd, rn, offset)
}

// LDRLiteral loads a 32 bit value into a register. The value is placed in a
// literal pool after the last instruction. LDR rd, =value
func (p *Program) LDRLiteral(rd uint32, value uint32) {
	p.fixups = append(p.fixups, fixup{kind: fixupLiteral, index: len(p.words), value: value})
	p.Instr(0x051f0000 | rd<<12)
}

func registerList(regs []uint32) uint32 {
	var list uint32
	for _, r := range regs {
		list |= 1 << r
	}
	return list
}

// PUSH {regs}. Equivalent to STMDB sp!, {regs}
func (p *Program) PUSH(regs ...uint32) {
	p.Instr(0x092d0000 | registerList(regs))
}

// POP {regs}. Equivalent to LDMIA sp!, {regs}
func (p *Program) POP(regs ...uint32) {
	p.Instr(0x08bd0000 | registerList(regs))
}

// LDMIA rn, {regs}. With writeback the base register is updated.
func (p *Program) LDMIA(rn uint32, writeback bool, regs ...uint32) {
	instr := 0x08900000 | rn<<16 | registerList(regs)
	if writeback {
		instr |= 0x00200000
	}
	p.Instr(instr)
}

// STMIA rn, {regs}. With writeback the base register is updated.
func (p *Program) STMIA(rn uint32, writeback bool, regs ...uint32) {
	instr := 0x08800000 | rn<<16 | registerList(regs)
	if writeback {
		instr |= 0x00200000
	}
	p.Instr(instr)
}

// SWP rd, rm, [rn]
func (p *Program) SWP(rd uint32, rm uint32, rn uint32) {
	p.Instr(0x01000090 | rn<<16 | rd<<12 | rm)
}

func (p *Program) branch(link bool, label string) {
	p.fixups = append(p.fixups, fixup{kind: fixupBranch, index: len(p.words), label: label})
	instr := uint32(0x0a000000)
	if link {
		instr |= 0x01000000
	}
	p.Instr(instr)
}

// B label
func (p *Program) B(label string) {
	p.branch(false, label)
}

// BL label
func (p *Program) BL(label string) {
	p.branch(true, label)
}

// BX rm
func (p *Program) BX(rm uint32) {
	p.Instr(0x012fff10 | rm)
}

// SWI #comment
func (p *Program) SWI(comment uint32) {
	p.Instr(0x0f000000 | comment&0x00ffffff)
}

// MRC p15, 0, rd, crn, c0, 0
func (p *Program) MRC(rd uint32, crn uint32) {
	p.Instr(0x0e100f10 | crn<<16 | rd<<12)
}

// MCR p15, 0, rd, crn, c0, 0
func (p *Program) MCR(rd uint32, crn uint32) {
	p.Instr(0x0e000f10 | crn<<16 | rd<<12)
}

// Assemble resolves labels and literals and returns the program as little
// endian bytes.
func (p *Program) Assemble() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}

	words := make([]uint32, len(p.words), len(p.words)+len(p.fixups))
	copy(words, p.words)

	// literal pool. identical values share an entry
	pool := make(map[uint32]int)

	for _, f := range p.fixups {
		address := p.origin + uint32(f.index)*4

		switch f.kind {
		case fixupBranch:
			target, ok := p.labels[f.label]
			if !ok {
				return nil, curated.Errorf(UnknownLabel, f.label)
			}
			offset := (int64(target) - int64(address) - 8) >> 2
			if offset < -(1<<23) || offset >= 1<<23 {
				return nil, curated.Errorf(BranchOutOfRange, f.label)
			}
			words[f.index] |= uint32(offset) & 0x00ffffff

		case fixupLiteral:
			idx, ok := pool[f.value]
			if !ok {
				idx = len(words)
				words = append(words, f.value)
				pool[f.value] = idx
			}
			distance := int64(idx-f.index)*4 - 8
			if distance > maxLiteralDistance {
				return nil, curated.Errorf(LiteralOutOfRange, address)
			}
			if distance >= 0 {
				words[f.index] |= 0x00800000 | uint32(distance)
			} else {
				words[f.index] |= uint32(-distance)
			}
		}
	}

	b := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b, nil
}

// MustAssemble is like Assemble but panics on error.
func (p *Program) MustAssemble() []byte {
	b, err := p.Assemble()
	if err != nil {
		panic(fmt.Sprintf("asm: %v", err))
	}
	return b
}
