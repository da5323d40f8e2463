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

// Package asm builds small ARM programs in memory. It is used to construct the
// exception vector table when booting without the boot loader and to write
// test programs.
//
// Instructions are added by calling the method with the mnemonic's name. The
// condition for the next instruction only can be set with Cond(). Errors, such
// as an immediate value that can not be encoded, are sticky and returned by
// Assemble().
//
//	p := asm.New(0x10000)
//	p.MOV(0, 10)
//	p.Label("loop")
//	p.SUBS(0, 0, 1)
//	p.Cond(asm.NE)
//	p.B("loop")
//	p.SWI(0)
//	b, err := p.Assemble()
package asm
