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

// Package arm is an interpreter for the ARMv4 instruction set as implemented
// by the ARM920T core of the EP9302.
//
// Only the 32 bit ARM state is supported. A BX instruction to a Thumb address
// is treated as an undefined instruction.
//
// The value of the PC register as seen by Register() is the address of the
// next instruction to execute. As an operand inside an instruction, R15 reads
// as the address of the instruction plus eight.
//
// Alignment checking is always enabled. A halfword or word access to an
// unaligned address causes a data abort and the instruction has no effect.
//
// Of the coprocessors, only the system control coprocessor (CP15) is
// recognised. MCR instructions to CP15 are ignored and MRC instructions
// return the main ID register for c0, the fault status and address for c5
// and c6 and zero for everything else.
package arm
