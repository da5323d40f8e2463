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

// Package vic implements the two daisy-chained PL190 vectored interrupt
// controllers of the EP93xx.
//
// Devices do not know which controller slot they are wired to. Instead, the
// Wiring table maps a LineID to a controller and slot, and the owner of the
// devices calls Chain.SetLine() with the level of each line after every
// change.
//
// The IRQ output of VIC2 is an input to slot 0 of VIC1. The enable bit for
// that slot cannot be cleared by IntEnClear, so an interrupt raised in VIC2
// reaches the CPU as long as it is enabled in VIC2.
//
// Reading the VectAddr register marks the selected slot as in service, but
// the slot is not masked from later priority decisions until VectAddr is
// written. This is a known inaccuracy and may cause the same source to be
// selected again.
package vic
