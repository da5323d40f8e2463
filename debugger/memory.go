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
	"encoding/binary"

	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// width of the access to use for the next part of a memory transfer. word
// aligned runs of four bytes or more are accessed as words so that device
// registers see the access width the CPU would use
func chunk(address uint32, remaining int) peripherals.Width {
	if address&3 == 0 && remaining >= 4 {
		return peripherals.Word
	}
	return peripherals.Byte
}

// ReadMemory reads length bytes starting at the address. Reads of device
// registers have the same side effects as a read by the CPU.
func (dbg *Debugger) ReadMemory(address uint32, length int) ([]byte, error) {
	data := make([]byte, 0, length)

	var err error
	callErr := dbg.Call(func() {
		for len(data) < length {
			a := address + uint32(len(data))
			w := chunk(a, length-len(data))

			var v uint32
			v, err = dbg.board.Peek(a, w)
			if err != nil {
				return
			}

			if w == peripherals.Word {
				data = binary.LittleEndian.AppendUint32(data, v)
			} else {
				data = append(data, uint8(v))
			}
		}
	})
	if callErr != nil {
		return nil, callErr
	}

	return data, err
}

// WriteMemory writes the data starting at the address.
func (dbg *Debugger) WriteMemory(address uint32, data []byte) error {
	var err error
	callErr := dbg.Call(func() {
		for i := 0; i < len(data); {
			a := address + uint32(i)
			w := chunk(a, len(data)-i)

			var v uint32
			if w == peripherals.Word {
				v = binary.LittleEndian.Uint32(data[i:])
			} else {
				v = uint32(data[i])
			}

			err = dbg.board.Poke(a, w, v)
			if err != nil {
				return
			}
			i += int(w)
		}
	})
	if callErr != nil {
		return callErr
	}
	return err
}
