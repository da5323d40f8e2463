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

package hardware

import (
	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/debugger/govern"
)

// Run sets the emulation running as quickly as possible. continueCheck is
// called after every call to Step() and the emulation continues for as long
// as it returns the Running or Halted state.
func (b *Board) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state != govern.Stopped && state != govern.Stepping {
		switch state {
		case govern.Running, govern.Halted:
			if _, err := b.Step(); err != nil {
				return err
			}
		default:
			return curated.Errorf("board: unsupported emulation state (%d) in Run() function", state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}
