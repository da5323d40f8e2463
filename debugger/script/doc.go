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

// Package script runs a Lua script against the emulation before it starts.
// The script can prepare memory and registers, and set breakpoints. The
// following functions are available to the script:
//
//	peek(address [, width])		read memory. width is 1, 2 or 4 (the default)
//	poke(address, value [, width])	write memory
//	reg(register)			read a register
//	setreg(register, value)		write a register
//	breakpoint(address)		add a breakpoint
//	log(...)			write to the central log
//
// Registers are named r0 to r15, sp, lr, pc and cpsr, or are given as a
// number.
package script
