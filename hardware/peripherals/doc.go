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

// Package peripherals defines the contract between the bus and the devices
// attached to it. Each device is in its own sub-package.
//
// A device owns its register state exclusively. Devices never read the state
// of another device. The only way for a device to influence the rest of the
// board is through its interrupt lines, which are read by the board and
// forwarded to the interrupt controllers according to a fixed wiring table.
package peripherals
