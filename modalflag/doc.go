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

// Package modalflag wraps the flag package of the standard library so that
// the command line can be split into modes. The emulator uses a top level
// mode to select between running a kernel freely (RUN) and running it under
// the control of a remote debugger (DEBUG). Each mode then has its own set of
// flags.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "DEBUG")
//	p, err := md.Parse()
//	...
//	switch md.Mode() {
//	case "DEBUG":
//		md.NewMode()
//		port := md.AddInt("gdb", 9001, "remote debugger port")
//		p, err := md.Parse()
//		...
//	}
//
// The first sub-mode added is the default. If the first non-flag argument is
// not one of the listed sub-modes then the default is chosen and the argument
// is left for the next call to Parse().
package modalflag
