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

// Package bus routes physical addresses to the SDRAM and to the memory mapped
// devices.
//
// Accesses to SDRAM go directly to the RAM. Accesses to a device are preceded
// by a call to Advance(), which samples the clock and forwards the time to
// every device that implements the peripherals.Ticker interface. A device
// therefore always sees up to date time when a register is accessed.
//
// Errors from a device are wrapped with the access type and address. The
// underlying ContractViolation or FatalFault can be detected with the
// functions in the faults package.
package bus
