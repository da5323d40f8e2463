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

package govern

// State indicates the state of the execution loop.
type State int

// List of possible emulation states.
//
// Running is the default state. Halted is entered when the CPU requests the
// halt power state and is left when an interrupt becomes pending.
//
// Stepping means the loop is waiting for a command from the debugger. Stepping
// and Stopped can have a meaningful Reason.
const (
	Running State = iota
	Halted
	Stepping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	case Stepping:
		return "Stepping"
	case Stopped:
		return "Stopped"
	}

	return ""
}

// Reason gives more detail for the Stepping and Stopped states. NoReason
// indicates that there is no more information to impart about the state.
type Reason int

// List of possible reasons.
const (
	NoReason Reason = iota
	Attached
	SingleStep
	Breakpoint
	Watchpoint
	UserInterrupt
	Killed
	Detached
	ReturnedToBootloader
	Fault
)

func (r Reason) String() string {
	switch r {
	case Attached:
		return "attached"
	case SingleStep:
		return "single step"
	case Breakpoint:
		return "breakpoint"
	case Watchpoint:
		return "watchpoint"
	case UserInterrupt:
		return "user interrupt"
	case Killed:
		return "killed"
	case Detached:
		return "detached"
	case ReturnedToBootloader:
		return "returned to bootloader"
	case Fault:
		return "fault"
	}
	return ""
}

// StateIntegrity checks whether the combination of state and reason makes
// sense.
//
// Rules:
//
//  1. NoReason can coexist with any state
//
//  2. Attached, SingleStep, Breakpoint and Watchpoint can only be paired with
//     the Stepping state
//
//  3. UserInterrupt can be paired with Stepping (a debugger is attached) or
//     Stopped (free running)
//
//  4. Killed, Detached, ReturnedToBootloader and Fault can only be paired with
//     the Stopped state
func StateIntegrity(state State, reason Reason) bool {
	if reason == NoReason {
		return true
	}
	switch reason {
	case Attached, SingleStep, Breakpoint, Watchpoint:
		return state == Stepping
	case UserInterrupt:
		return state == Stepping || state == Stopped
	case Killed, Detached, ReturnedToBootloader, Fault:
		return state == Stopped
	}
	return false
}
