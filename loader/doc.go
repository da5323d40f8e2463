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

// Package loader reads a kernel executable and prepares the state that the
// board's boot loader would leave behind.
//
// Only high level emulation of the boot loader is supported. The low level
// initialisation performed by the real boot loader is skipped and the kernel
// is placed directly into SDRAM, with the CPU registers set as they would be
// when the boot loader jumps to the kernel entry point.
package loader
