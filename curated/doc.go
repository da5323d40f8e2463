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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a pattern,
// placeholder values and returns an error. The pattern is remembered so that
// errors can be classified later without string matching on the message:
//
//	e := curated.Errorf("timer: enabled with no load value (%s)", name)
//
//	if curated.Is(e, "timer: enabled with no load value (%s)") {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain. The chain includes curated errors passed as placeholder
// values and errors wrapped with the %w verb of fmt.Errorf().
//
// The Error() function ensures that the error chain does not contain duplicate
// adjacent parts. For the purposes of this package chains are composed of
// parts separated by the sub-string ': '. For example:
//
//	bus: bus: unmapped write
//
// is normalised to:
//
//	bus: unmapped write
//
// Sentinel patterns should be stored as a const string, suitably named and
// commented. The hardware/faults package defines the two sentinels used by
// the emulation.
package curated
