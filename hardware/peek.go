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
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/memory/memorymap"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/logger"
)

// UnmappedAddress is the error pattern returned by Peek() and Poke() for an
// address with nothing attached.
const UnmappedAddress = "board: nothing mapped at %08x"

// Peek reads memory on behalf of a debugger. SDRAM is read without reporting
// uninitialised bytes. Device registers are read through the bus and so have
// the same side effects as a read by the CPU.
//
// ContractViolations caused by the read are logged but not returned.
func (b *Board) Peek(address uint32, width peripherals.Width) (uint32, error) {
	area, offset := memorymap.MapAddress(address)

	if area == memorymap.SDRAM {
		v, ok := b.RAM.Peek(offset, width)
		if !ok {
			return 0, curated.Errorf(UnmappedAddress, address)
		}
		return v, nil
	}

	if b.Bus.Device(area) == nil {
		return 0, curated.Errorf(UnmappedAddress, address)
	}

	v, err := b.Bus.Read(address, width)
	if err != nil {
		if faults.IsFatal(err) {
			return 0, err
		}
		logger.Logf(logger.Allow, "peek", "%v", err)
	}
	return v, nil
}

// Poke writes memory on behalf of a debugger. Writes to SDRAM mark the memory
// as initialised. Writes to device registers go through the bus.
//
// ContractViolations caused by the write are logged but not returned.
func (b *Board) Poke(address uint32, width peripherals.Width, data uint32) error {
	area, _ := memorymap.MapAddress(address)

	if area != memorymap.SDRAM && b.Bus.Device(area) == nil {
		return curated.Errorf(UnmappedAddress, address)
	}

	if err := b.Bus.Write(address, width, data); err != nil {
		if faults.IsFatal(err) {
			return err
		}
		logger.Logf(logger.Allow, "poke", "%v", err)
	}

	// a poke may change an interrupt line
	b.Propagate()

	return nil
}
