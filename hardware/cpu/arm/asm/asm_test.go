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

package asm_test

import (
	"encoding/binary"
	"testing"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/hardware/cpu/arm/asm"
	"github.com/ts7200emu/ts7200/test"
)

func words(t *testing.T, p *asm.Program) []uint32 {
	t.Helper()
	b, err := p.Assemble()
	test.DemandSuccess(t, err)
	w := make([]uint32, len(b)/4)
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return w
}

func TestEncodings(t *testing.T) {
	p := asm.New(0)
	p.LDR(asm.PC, asm.PC, 0x18)
	p.MOV(0, 0x80000000)
	p.SUBS(1, 2, 1)
	p.STR(3, asm.SP, -4)
	p.PUSH(0, 1, asm.LR)
	p.BX(asm.LR)
	p.SWI(0x123456)
	p.Cond(asm.NE)
	p.MOV(0, 1)
	p.MOV(0, 1)

	w := words(t, p)
	test.DemandEquality(t, len(w), 9)
	test.ExpectEquality(t, w[0], 0xe59ff018)
	test.ExpectEquality(t, w[1], 0xe3a00102)
	test.ExpectEquality(t, w[2], 0xe2521001)
	test.ExpectEquality(t, w[3], 0xe50d3004)
	test.ExpectEquality(t, w[4], 0xe92d4003)
	test.ExpectEquality(t, w[5], 0xe12fff1e)
	test.ExpectEquality(t, w[6], 0xef123456)
	test.ExpectEquality(t, w[7], 0x13a00001)
	test.ExpectEquality(t, w[8], 0xe3a00001)
}

func TestBranches(t *testing.T) {
	p := asm.New(0x8000)
	p.Label("top")
	p.MOV(0, 0)
	p.B("top")
	p.BL("bottom")
	p.Label("bottom")
	p.B("bottom")

	w := words(t, p)
	test.ExpectEquality(t, w[1], 0xeafffffd)
	test.ExpectEquality(t, w[2], 0xebffffff)
	test.ExpectEquality(t, w[3], 0xeafffffe)

	a, ok := p.Address("bottom")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, a, 0x800c)
	test.ExpectEquality(t, p.Here(), 0x8010)
}

func TestLiteralPool(t *testing.T) {
	p := asm.New(0)
	p.LDRLiteral(0, 0xdeadbeef)
	p.LDRLiteral(1, 0xdeadbeef)
	p.LDRLiteral(2, 0x12345678)

	w := words(t, p)
	test.DemandEquality(t, len(w), 5)

	// first literal is directly after the instructions. the PC reads eight
	// bytes ahead so the offset of the first load is 12 - 8
	test.ExpectEquality(t, w[0], 0xe59f0004)
	test.ExpectEquality(t, w[1], 0xe59f1000)
	test.ExpectEquality(t, w[2], 0xe59f2000)
	test.ExpectEquality(t, w[3], 0xdeadbeef)
	test.ExpectEquality(t, w[4], 0x12345678)
}

func TestBackwardLiteral(t *testing.T) {
	p := asm.New(0)
	p.LDRLiteral(0, 0xcafe)

	w := words(t, p)
	test.DemandEquality(t, len(w), 2)
	test.ExpectEquality(t, w[0], 0xe51f0004)
}

func TestErrors(t *testing.T) {
	p := asm.New(0)
	p.B("nowhere")
	_, err := p.Assemble()
	test.ExpectSuccess(t, curated.Is(err, asm.UnknownLabel))

	p = asm.New(0)
	p.MOV(0, 0x101)
	_, err = p.Assemble()
	test.ExpectSuccess(t, curated.Is(err, asm.BadImmediate))

	p = asm.New(0)
	p.LDR(0, 1, 0x1000)
	_, err = p.Assemble()
	test.ExpectSuccess(t, curated.Is(err, asm.OffsetOutOfRange))

	p = asm.New(0)
	p.Label("a")
	p.Label("a")
	_, err = p.Assemble()
	test.ExpectSuccess(t, curated.Is(err, asm.DuplicateLabel))
}
