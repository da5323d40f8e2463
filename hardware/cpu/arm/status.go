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

package arm

import (
	"strings"

	"github.com/ts7200emu/ts7200/hardware/cpu"
)

// the status register split into its component parts. the mode is kept in
// the ARM type because changing it requires the banked registers to be
// swapped
type status struct {
	negative bool
	zero     bool
	carry    bool
	overflow bool

	disableIRQ bool
	disableFIQ bool
	thumb      bool
}

func (sr status) String() string {
	s := strings.Builder{}

	if sr.negative {
		s.WriteRune('N')
	} else {
		s.WriteRune('n')
	}
	if sr.zero {
		s.WriteRune('Z')
	} else {
		s.WriteRune('z')
	}
	if sr.carry {
		s.WriteRune('C')
	} else {
		s.WriteRune('c')
	}
	if sr.overflow {
		s.WriteRune('V')
	} else {
		s.WriteRune('v')
	}
	if sr.disableIRQ {
		s.WriteRune('I')
	} else {
		s.WriteRune('i')
	}
	if sr.disableFIQ {
		s.WriteRune('F')
	} else {
		s.WriteRune('f')
	}

	return s.String()
}

// value returns the status bits as they appear in the CPSR
func (sr status) value() uint32 {
	var v uint32
	if sr.negative {
		v |= cpu.FlagN
	}
	if sr.zero {
		v |= cpu.FlagZ
	}
	if sr.carry {
		v |= cpu.FlagC
	}
	if sr.overflow {
		v |= cpu.FlagV
	}
	if sr.disableIRQ {
		v |= cpu.DisableIRQ
	}
	if sr.disableFIQ {
		v |= cpu.DisableFIQ
	}
	if sr.thumb {
		v |= cpu.Thumb
	}
	return v
}

func (sr *status) setFlags(v uint32) {
	sr.negative = v&cpu.FlagN == cpu.FlagN
	sr.zero = v&cpu.FlagZ == cpu.FlagZ
	sr.carry = v&cpu.FlagC == cpu.FlagC
	sr.overflow = v&cpu.FlagV == cpu.FlagV
}

func (sr *status) setControl(v uint32) {
	sr.disableIRQ = v&cpu.DisableIRQ == cpu.DisableIRQ
	sr.disableFIQ = v&cpu.DisableFIQ == cpu.DisableFIQ
	sr.thumb = v&cpu.Thumb == cpu.Thumb
}

func (sr *status) isNegative(a uint32) {
	sr.negative = a&0x80000000 == 0x80000000
}

func (sr *status) isZero(a uint32) {
	sr.zero = a == 0x00
}

// conditional execution information from "A3.2 The condition field" in the
// ARM Architecture Reference Manual
func (sr *status) condition(cond uint32) bool {
	switch cond {
	case 0b0000:
		// equal
		return sr.zero
	case 0b0001:
		// not equal
		return !sr.zero
	case 0b0010:
		// carry set
		return sr.carry
	case 0b0011:
		// carry clear
		return !sr.carry
	case 0b0100:
		// minus
		return sr.negative
	case 0b0101:
		// plus
		return !sr.negative
	case 0b0110:
		// overflow
		return sr.overflow
	case 0b0111:
		// no overflow
		return !sr.overflow
	case 0b1000:
		// unsigned higher C==1 and Z==0
		return sr.carry && !sr.zero
	case 0b1001:
		// unsigned lower or same C==0 or Z==1
		return !sr.carry || sr.zero
	case 0b1010:
		// signed greater than or equal N==V
		return sr.negative == sr.overflow
	case 0b1011:
		// signed less than N!=V
		return sr.negative != sr.overflow
	case 0b1100:
		// signed greater than Z==0 and N==V
		return !sr.zero && sr.negative == sr.overflow
	case 0b1101:
		// signed less than or equal Z==1 or N!=V
		return sr.zero || sr.negative != sr.overflow
	case 0b1110:
		return true
	}

	// the NV condition never executes on ARMv4
	return false
}
