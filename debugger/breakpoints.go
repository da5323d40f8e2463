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
	"fmt"
	"sort"
	"strings"
)

// breakpoints is the set of instruction addresses that stop the emulation
type breakpoints struct {
	addresses map[uint32]bool
}

func newBreakpoints() *breakpoints {
	bp := &breakpoints{}
	bp.clear()
	return bp
}

func (bp *breakpoints) clear() {
	bp.addresses = make(map[uint32]bool)
}

func (bp *breakpoints) add(address uint32) {
	bp.addresses[address] = true
}

// drop returns false if there is no breakpoint at the address
func (bp *breakpoints) drop(address uint32) bool {
	if !bp.addresses[address] {
		return false
	}
	delete(bp.addresses, address)
	return true
}

func (bp *breakpoints) check(pc uint32) bool {
	return bp.addresses[pc]
}

func (bp *breakpoints) String() string {
	if len(bp.addresses) == 0 {
		return "no breakpoints"
	}
	l := make([]uint32, 0, len(bp.addresses))
	for a := range bp.addresses {
		l = append(l, a)
	}
	sort.Slice(l, func(i, j int) bool { return l[i] < l[j] })

	s := strings.Builder{}
	for i, a := range l {
		s.WriteString(fmt.Sprintf("% 2d: %08x\n", i, a))
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// AddBreakpoint stops the emulation before the instruction at the address is
// executed.
func (dbg *Debugger) AddBreakpoint(address uint32) error {
	return dbg.Call(func() {
		dbg.halt.breakpoints.add(address)
	})
}

// DropBreakpoint removes the breakpoint at the address. It is not an error to
// remove a breakpoint that does not exist.
func (dbg *Debugger) DropBreakpoint(address uint32) error {
	return dbg.Call(func() {
		dbg.halt.breakpoints.drop(address)
	})
}

// Breakpoints returns a printable list of the breakpoints.
func (dbg *Debugger) Breakpoints() (string, error) {
	var s string
	err := dbg.Call(func() {
		s = dbg.halt.breakpoints.String()
	})
	return s, err
}
