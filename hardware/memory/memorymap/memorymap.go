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

package memorymap

import "fmt"

// Area represents the different areas of the address space.
type Area int

// List of valid Area values.
const (
	Unmapped Area = iota
	SDRAM
	VIC
	Timer1
	Timer2
	Timer3
	GPIO
	UART1
	UART2
	Syscon
)

func (a Area) String() string {
	switch a {
	case SDRAM:
		return "SDRAM"
	case VIC:
		return "VIC"
	case Timer1:
		return "Timer1"
	case Timer2:
		return "Timer2"
	case Timer3:
		return "Timer3"
	case GPIO:
		return "GPIO"
	case UART1:
		return "UART1"
	case UART2:
		return "UART2"
	case Syscon:
		return "Syscon"
	}
	return "unmapped"
}

// The origin and memory top for each area. Checking which area an address
// falls within is handled by the MapAddress() function.
const (
	OriginSDRAM  = uint32(0x0000_0000)
	MemtopSDRAM  = uint32(0x01ff_ffff)
	OriginVIC    = uint32(0x800b_0000)
	MemtopVIC    = uint32(0x800c_ffff)
	OriginTimer1 = uint32(0x8081_0000)
	MemtopTimer1 = uint32(0x8081_001f)
	OriginTimer2 = uint32(0x8081_0020)
	MemtopTimer2 = uint32(0x8081_003f)
	OriginTimer3 = uint32(0x8081_0080)
	MemtopTimer3 = uint32(0x8081_009f)
	OriginGPIO   = uint32(0x8084_0000)
	MemtopGPIO   = uint32(0x8084_00ff)
	OriginUART1  = uint32(0x808c_0000)
	MemtopUART1  = uint32(0x808c_ffff)
	OriginUART2  = uint32(0x808d_0000)
	MemtopUART2  = uint32(0x808d_ffff)
	OriginSyscon = uint32(0x8093_0000)
	MemtopSyscon = uint32(0x8093_ffff)
)

// The two interrupt controllers share the VIC area. VIC2 is the secondary
// controller and its output is daisy chained into VIC1.
const (
	OriginVIC1 = OriginVIC
	OriginVIC2 = uint32(0x800c_0000)
)

// LEDAddress is the address of the LED register in the GPIO area.
const LEDAddress = uint32(0x8084_0020)

// SizeSDRAM is the number of bytes of SDRAM on the board.
const SizeSDRAM = MemtopSDRAM - OriginSDRAM + 1

type areaRange struct {
	area   Area
	origin uint32
	memtop uint32
}

// ordered by origin
var areas = []areaRange{
	{area: SDRAM, origin: OriginSDRAM, memtop: MemtopSDRAM},
	{area: VIC, origin: OriginVIC, memtop: MemtopVIC},
	{area: Timer1, origin: OriginTimer1, memtop: MemtopTimer1},
	{area: Timer2, origin: OriginTimer2, memtop: MemtopTimer2},
	{area: Timer3, origin: OriginTimer3, memtop: MemtopTimer3},
	{area: GPIO, origin: OriginGPIO, memtop: MemtopGPIO},
	{area: UART1, origin: OriginUART1, memtop: MemtopUART1},
	{area: UART2, origin: OriginUART2, memtop: MemtopUART2},
	{area: Syscon, origin: OriginSyscon, memtop: MemtopSyscon},
}

// MapAddress returns the area an address belongs to and the offset of the
// address from the origin of the area. The offset is zero for unmapped
// addresses.
func MapAddress(address uint32) (Area, uint32) {
	for _, a := range areas {
		if address < a.origin {
			break // for loop
		}
		if address <= a.memtop {
			return a.area, address - a.origin
		}
	}
	return Unmapped, 0
}

// Origin returns the origin address of the area.
func Origin(area Area) uint32 {
	for _, a := range areas {
		if a.area == area {
			return a.origin
		}
	}
	return 0
}

// Summary returns a string listing every mapped area.
func Summary() string {
	s := ""
	for _, a := range areas {
		s = fmt.Sprintf("%s%08x -> %08x\t%s\n", s, a.origin, a.memtop, a.area)
	}
	return s
}
