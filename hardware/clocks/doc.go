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

// Package clocks is the source of time for the emulated board. The timers on
// the board count at a fixed real-time rate and so their value is computed
// from elapsed wall-clock time rather than from the number of instructions
// executed. This makes timer accuracy independent of host emulation speed.
//
// The Wall clock is used when running a kernel. The Manual clock is used by
// tests so that the passage of time is explicit.
package clocks
