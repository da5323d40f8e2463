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

// Package ram implements the SDRAM of the board. Bytes that have never been
// written hold the sentinel value and are tracked so that a read of them can
// be reported as a contract violation.
package ram

import (
	"encoding/binary"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// RAM is a contiguous block of memory starting at offset zero.
type RAM struct {
	data []byte

	// one bit per byte of data. a set bit means the byte has been written to
	initialised []uint64
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM(size uint32) *RAM {
	r := &RAM{
		data:        make([]byte, size),
		initialised: make([]uint64, (size+63)/64),
	}
	for i := range r.data {
		r.data[i] = peripherals.SentinelByte
	}
	return r
}

// Label implements the peripherals.Device interface.
func (r *RAM) Label() string {
	return "sdram"
}

// Kind implements the peripherals.Device interface.
func (r *RAM) Kind() string {
	return "SDRAM"
}

// RegisterName implements the peripherals.Device interface.
func (r *RAM) RegisterName(offset uint32) string {
	return ""
}

// Size returns the number of bytes in RAM.
func (r *RAM) Size() uint32 {
	return uint32(len(r.data))
}

func (r *RAM) isInitialised(offset uint32, width peripherals.Width) bool {
	for i := offset; i < offset+uint32(width); i++ {
		if r.initialised[i>>6]&(1<<(i&63)) == 0 {
			return false
		}
	}
	return true
}

func (r *RAM) markInitialised(offset uint32, n uint32) {
	for i := offset; i < offset+n; i++ {
		r.initialised[i>>6] |= 1 << (i & 63)
	}
}

func (r *RAM) inRange(offset uint32, width peripherals.Width) bool {
	return uint64(offset)+uint64(width) <= uint64(len(r.data))
}

// Read implements the peripherals.Device interface. A read of memory that has
// not been written returns the sentinel value with a ContractViolation.
func (r *RAM) Read(offset uint32, width peripherals.Width) (uint32, error) {
	if !r.inRange(offset, width) {
		return peripherals.Sentinel(width), faults.Violation("%s read beyond end of sdram at %#08x", width, offset)
	}

	v := r.peek(offset, width)

	if !r.isInitialised(offset, width) {
		return v, faults.Violation("%s read of uninitialised sdram at %#08x", width, offset)
	}

	return v, nil
}

func (r *RAM) peek(offset uint32, width peripherals.Width) uint32 {
	switch width {
	case peripherals.Byte:
		return uint32(r.data[offset])
	case peripherals.Half:
		return uint32(binary.LittleEndian.Uint16(r.data[offset:]))
	}
	return binary.LittleEndian.Uint32(r.data[offset:])
}

// Write implements the peripherals.Device interface.
func (r *RAM) Write(offset uint32, width peripherals.Width, data uint32) error {
	if !r.inRange(offset, width) {
		return faults.Fatal("%s write beyond end of sdram at %#08x", width, offset)
	}

	switch width {
	case peripherals.Byte:
		r.data[offset] = uint8(data)
	case peripherals.Half:
		binary.LittleEndian.PutUint16(r.data[offset:], uint16(data))
	default:
		binary.LittleEndian.PutUint32(r.data[offset:], data)
	}
	r.markInitialised(offset, uint32(width))

	return nil
}

// Peek reads memory without reporting uninitialised bytes. Out of range reads
// return false.
func (r *RAM) Peek(offset uint32, width peripherals.Width) (uint32, bool) {
	if !r.inRange(offset, width) {
		return 0, false
	}
	return r.peek(offset, width), true
}

// BulkWrite copies data into RAM at the offset. Used by the loader.
func (r *RAM) BulkWrite(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(r.data)) {
		return faults.Fatal("bulk write of %d bytes at %#08x does not fit in sdram", len(data), offset)
	}
	copy(r.data[offset:], data)
	r.markInitialised(offset, uint32(len(data)))
	return nil
}

// Initialised returns the number of bytes that have been written to.
func (r *RAM) Initialised() int {
	n := 0
	for _, w := range r.initialised {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}
