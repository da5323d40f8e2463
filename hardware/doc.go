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

// Package hardware is the base package for the TS-7200 emulation. The Board
// type owns every component of the emulated machine: the SDRAM, the device bus
// and the devices attached to it, the chained interrupt controllers and the
// CPU.
//
// The Board is the only place where components are connected to one another.
// Devices never hold references to other devices. Interrupt lines are read
// from the devices after every instruction and forwarded to the VIC slots
// named in the vic.Wiring table.
//
// A Board is driven one instruction at a time with Step(), or continuously
// with Run(). Neither function is safe to call from more than one goroutine.
package hardware
