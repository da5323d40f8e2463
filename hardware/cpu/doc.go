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

// Package cpu defines the interface between a CPU core and the rest of the
// board, and implements the Adapter that joins a core to the memory bus.
//
// The core never sees Go errors. Memory accesses always return a value (the
// sentinel value if the bus reported a problem) and the Adapter decides what
// to do with the error after the instruction has completed. Architectural
// exceptions raised by an instruction are reported as an Outcome and are
// injected back into the core by the Adapter.
package cpu
