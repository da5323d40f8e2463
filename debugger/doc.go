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

// Package debugger implements the execution loop of the emulation. The loop
// steps the board, checks for breakpoints and watches, and accepts commands
// from other goroutines between instructions.
//
// The Debugger type owns the hardware.Board once Run() has been called. Other
// goroutines, such as the gdb bridge, must access the board through the
// methods of the Debugger type, which pass the work to the emulation
// goroutine with the Call() function.
//
// Initialisation of the debugger is done with the NewDebugger() function
//
//	dbg := debugger.NewDebugger(board, debugger.Options{Mode: govern.ModeDebug})
//
// In the Run mode the emulation starts immediately and continues until it
// is stopped with Quit() or the program returns to the bootloader. In the
// Debug mode the emulation starts in the Stepping state and waits for a
// command.
package debugger
