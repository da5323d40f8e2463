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

// Package memorymap describes the physical address space of the TS-7200 board.
// Only the areas used by kernel code are mapped. Everything else is
// considered unmapped and an access to it is reported by the bus.
//
// The values in this package are the bit exact contract that kernel code
// depends on. They are taken from the EP93xx User's Guide and the ts7200.h
// header distributed with the board.
package memorymap
