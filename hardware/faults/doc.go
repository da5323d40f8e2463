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

// Package faults classifies host level errors raised by the emulated hardware
// and keeps a record of them.
//
// There are two kinds of host level error. A ContractViolation is misuse of
// the hardware that has a safe fallback. For example, reading the UART data
// register when no byte has been received. The violation is logged and
// emulation continues with the fallback value. A FatalFault is misuse that
// has no safe fallback. For example, enabling a timer that has never been
// given a load value. Emulation stops when a FatalFault is raised.
//
// Neither is the same as an exception of the emulated CPU. A data abort or
// an undefined instruction is handled by the kernel and never becomes a Go
// error.
package faults
