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

package peripherals

import (
	"time"

	"github.com/ts7200emu/ts7200/hardware/faults"
)

// Width of a bus access in bytes.
type Width int

// List of valid Width values.
const (
	Byte Width = 1
	Half Width = 2
	Word Width = 4
)

func (w Width) String() string {
	switch w {
	case Byte:
		return "byte"
	case Half:
		return "halfword"
	case Word:
		return "word"
	}
	return "invalid width"
}

// Mask returns a value with the lower bits set for the width.
func (w Width) Mask() uint32 {
	switch w {
	case Byte:
		return 0xff
	case Half:
		return 0xffff
	}
	return 0xffffffff
}

// Valid returns true if the width is one of the three defined values.
func (w Width) Valid() bool {
	return w == Byte || w == Half || w == Word
}

// SentinelByte is the value used to fill memory that has never been written
// to. It is also the fallback value for reads that have no meaningful result.
// The value is the ASCII code for '-', which is easy to spot in a memory dump.
const SentinelByte = 0x2d

// Sentinel returns the fallback value for a read of the specified width.
func Sentinel(width Width) uint32 {
	return 0x2d2d2d2d & width.Mask()
}

// Device is implemented by every memory mapped device on the board. The offset
// is relative to the origin of the device's area in the memory map.
//
// Read and Write return errors created by the faults package. In the case of
// a ContractViolation the access has still taken effect, using the best effort
// interpretation of the access, and for reads the value returned is
// meaningful.
type Device interface {
	// Label is the name of the device instance. eg. "uart1"
	Label() string

	// Kind is the name of the device type. eg. "UART"
	Kind() string

	Read(offset uint32, width Width) (uint32, error)
	Write(offset uint32, width Width, data uint32) error

	// RegisterName returns the name of the register at the offset or the empty
	// string if there is no register at that offset
	RegisterName(offset uint32) string
}

// Ticker is implemented by devices whose state depends on the passage of
// time. The now argument is the time since the board was created.
type Ticker interface {
	Tick(now time.Duration)
}

// WordRegister normalises an access to a device whose registers are all 32 bit
// wide. It returns the offset of the register and a ContractViolation if the
// access is not a word access.
func WordRegister(dev Device, offset uint32, width Width) (uint32, error) {
	reg := offset &^ 3
	if width == Word && offset == reg {
		return reg, nil
	}
	return reg, faults.Violation("%s access to word register %s at offset %#02x", width, RegisterPath(dev, reg), offset)
}

// ReadLane returns the part of a 32 bit register value visible to a sub-word
// read at the offset. The result is zero extended.
func ReadLane(value uint32, offset uint32, width Width) uint32 {
	return (value >> ((offset & 3) * 8)) & width.Mask()
}

// WriteLane returns the value written to a 32 bit register by a sub-word
// write at the offset. Bytes outside the lane are zero.
func WriteLane(data uint32, offset uint32, width Width) uint32 {
	return (data & width.Mask()) << ((offset & 3) * 8)
}

// RegisterPath returns a string describing the device and register, in the
// form "uart1 > FLAG".
func RegisterPath(dev Device, offset uint32) string {
	reg := dev.RegisterName(offset)
	if reg == "" {
		reg = "unknown"
	}
	return dev.Label() + " > " + reg
}

// UnknownRead returns the fallback value and a ContractViolation for a read
// from an offset that is inside the device's area but has no register.
func UnknownRead(dev Device, offset uint32, width Width) (uint32, error) {
	return Sentinel(width), faults.Violation("%s read from %s offset %#x with no register", width, dev.Label(), offset)
}

// UnknownWrite returns a FatalFault for a write to an offset that is inside the
// device's area but has no register.
func UnknownWrite(dev Device, offset uint32, width Width, data uint32) error {
	return faults.Fatal("%s write of %#x to %s offset %#x with no register", width, data, dev.Label(), offset)
}

// ReadOnly returns a ContractViolation for a write to a read only register.
func ReadOnly(dev Device, offset uint32) error {
	return faults.Violation("write to read only register %s", RegisterPath(dev, offset))
}

// WriteOnly returns a ContractViolation for a read from a write only register.
func WriteOnly(dev Device, offset uint32) error {
	return faults.Violation("read from write only register %s", RegisterPath(dev, offset))
}

// Worst returns the most severe of the errors. A FatalFault is more severe than
// a ContractViolation. If the errors are of equal severity the first non-nil
// error is returned.
func Worst(errs ...error) error {
	var worst error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if faults.IsFatal(err) {
			return err
		}
		if worst == nil {
			worst = err
		}
	}
	return worst
}
