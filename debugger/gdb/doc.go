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

// Package gdb is a bridge between the GNU debugger remote serial protocol and
// the debugger package. A single client is accepted and served until it
// detaches, kills the emulation, or the connection is lost.
//
// Errors in requests are reported to the client with one of three error
// replies and never stop the emulation:
//
//	E01	the request is malformed
//	E02	the register does not exist
//	E03	the address is not mapped
//
// Requests that are not supported receive the empty reply, as the protocol
// requires.
package gdb
