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

package debugger

import (
	"github.com/ts7200emu/ts7200/debugger/govern"
)

// haltCoordination decides whether the most recent step should move the
// emulation to the Stepping state.
type haltCoordination struct {
	dbg *Debugger

	breakpoints *breakpoints
	watches     *watches

	// stop after the next step
	singleStep bool

	// the watch that caused the most recent Watchpoint stop and the address
	// of the access that matched it
	triggered        Watch
	triggeredAddress uint32

	// state of the CPU before the step
	instructions uint64
	pc           uint32
}

func newHaltCoordination(dbg *Debugger) *haltCoordination {
	return &haltCoordination{
		dbg:         dbg,
		breakpoints: newBreakpoints(),
		watches:     newWatches(),
	}
}

// prepare is called before every step
func (h *haltCoordination) prepare() {
	h.instructions = h.dbg.board.CPU.Instructions()
	h.pc = h.dbg.board.PC()
}

// check is called after every step. returns NoReason if the emulation should
// continue.
//
// a breakpoint matches the address of the next instruction. it does not match
// again when the CPU is halted and the PC has not changed
func (h *haltCoordination) check() govern.Reason {
	adapter := h.dbg.board.CPU
	executed := adapter.Instructions() != h.instructions

	if executed {
		if w, addr, ok := h.watches.check(adapter.Accesses()); ok {
			h.triggered = w
			h.triggeredAddress = addr
			return govern.Watchpoint
		}
	}

	pc := h.dbg.board.PC()
	if (executed || pc != h.pc) && h.breakpoints.check(pc) {
		h.singleStep = false
		return govern.Breakpoint
	}

	if h.singleStep {
		h.singleStep = false
		return govern.SingleStep
	}

	return govern.NoReason
}
