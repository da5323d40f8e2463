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

	"github.com/ts7200emu/ts7200/hardware/cpu"
)

// WatchEvent is the kind of access that triggers a watch.
type WatchEvent int

// List of valid WatchEvent values.
const (
	WatchWrite WatchEvent = iota
	WatchRead
	WatchAny
)

func (ev WatchEvent) String() string {
	switch ev {
	case WatchRead:
		return "read-only"
	case WatchWrite:
		return "write-only"
	}
	return "any"
}

// Watch is a range of memory that stops the emulation when it is accessed by
// an instruction.
type Watch struct {
	Event   WatchEvent
	Address uint32
	Length  uint32
}

func (w Watch) String() string {
	return fmt.Sprintf("%08x+%d %s", w.Address, w.Length, w.Event)
}

func (w Watch) match(acc cpu.Access) bool {
	switch w.Event {
	case WatchRead:
		if acc.Write {
			return false
		}
	case WatchWrite:
		if !acc.Write {
			return false
		}
	}

	// overlap of the two ranges
	start := uint64(acc.Address)
	end := start + uint64(acc.Width)
	return start < uint64(w.Address)+uint64(w.Length) && uint64(w.Address) < end
}

type watches struct {
	watches []Watch
}

func newWatches() *watches {
	wtc := &watches{}
	wtc.clear()
	return wtc
}

func (wtc *watches) clear() {
	wtc.watches = make([]Watch, 0, 10)
}

func (wtc *watches) add(w Watch) {
	if w.Length == 0 {
		w.Length = 1
	}
	for _, e := range wtc.watches {
		if e == w {
			return
		}
	}
	wtc.watches = append(wtc.watches, w)
}

// drop returns false if the watch does not exist
func (wtc *watches) drop(w Watch) bool {
	if w.Length == 0 {
		w.Length = 1
	}
	for i, e := range wtc.watches {
		if e == w {
			wtc.watches = append(wtc.watches[:i], wtc.watches[i+1:]...)
			return true
		}
	}
	return false
}

// check returns the first watch matched by the accesses and the address of
// the access that matched it
func (wtc *watches) check(accesses []cpu.Access) (Watch, uint32, bool) {
	for _, acc := range accesses {
		for _, w := range wtc.watches {
			if w.match(acc) {
				return w, acc.Address, true
			}
		}
	}
	return Watch{}, 0, false
}

// AddWatch stops the emulation after an instruction accesses the watched
// memory.
func (dbg *Debugger) AddWatch(w Watch) error {
	return dbg.Call(func() {
		dbg.halt.watches.add(w)
	})
}

// DropWatch removes a watch. It is not an error to remove a watch that does
// not exist.
func (dbg *Debugger) DropWatch(w Watch) error {
	return dbg.Call(func() {
		dbg.halt.watches.drop(w)
	})
}
