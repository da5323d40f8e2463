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

package vic

import "fmt"

// Register offsets within a single VIC.
const (
	IRQStatusOffset    = 0x00
	FIQStatusOffset    = 0x04
	RawIntrOffset      = 0x08
	IntSelectOffset    = 0x0c
	IntEnableOffset    = 0x10
	IntEnClearOffset   = 0x14
	SoftIntOffset      = 0x18
	SoftIntClearOffset = 0x1c
	ProtectionOffset   = 0x20
	VectAddrOffset     = 0x30
	DefVectAddrOffset  = 0x34
	VectAddr0Offset    = 0x100
	VectCntl0Offset    = 0x200
	PeriphID0Offset    = 0xfe0
)

// NumVectors is the number of vectored interrupt slots in each VIC.
const NumVectors = 16

// Bits in a VectCntl register.
const (
	VectCntlEnable = 0x20
	VectCntlSource = 0x1f
)

var periphID = [4]uint32{0x90, 0x11, 0x04, 0x00}

var registerNames = map[uint32]string{
	IRQStatusOffset:    "IRQStatus",
	FIQStatusOffset:    "FIQStatus",
	RawIntrOffset:      "RawIntr",
	IntSelectOffset:    "IntSelect",
	IntEnableOffset:    "IntEnable",
	IntEnClearOffset:   "IntEnClear",
	SoftIntOffset:      "SoftInt",
	SoftIntClearOffset: "SoftIntClear",
	ProtectionOffset:   "Protection",
	VectAddrOffset:     "VectAddr",
	DefVectAddrOffset:  "DefVectAddr",
}

func registerName(offset uint32) string {
	if n, ok := registerNames[offset]; ok {
		return n
	}
	switch {
	case offset >= VectAddr0Offset && offset < VectAddr0Offset+NumVectors*4 && offset&3 == 0:
		return fmt.Sprintf("VectAddr%d", (offset-VectAddr0Offset)/4)
	case offset >= VectCntl0Offset && offset < VectCntl0Offset+NumVectors*4 && offset&3 == 0:
		return fmt.Sprintf("VectCntl%d", (offset-VectCntl0Offset)/4)
	case offset >= PeriphID0Offset && offset < PeriphID0Offset+16 && offset&3 == 0:
		return fmt.Sprintf("PeriphID%d", (offset-PeriphID0Offset)/4)
	}
	return ""
}
