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

import (
	"fmt"

	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// VIC is a single vectored interrupt controller.
type VIC struct {
	label string

	// hardware asserted lines and software asserted lines
	lines uint32
	soft  uint32

	enable    uint32
	selectFIQ uint32

	protection  uint32
	defVectAddr uint32
	vectAddr    [NumVectors]uint32
	vectCntl    [NumVectors]uint32

	// the vector slot latched by the most recent read of VectAddr. -1 if no
	// slot is in service
	inService int
}

// NewVIC is the preferred method of initialisation for the VIC type.
func NewVIC(label string) *VIC {
	return &VIC{
		label:     label,
		inService: -1,
	}
}

func (v *VIC) String() string {
	return fmt.Sprintf("%s: raw=%#08x enable=%#08x select=%#08x", v.label, v.Raw(), v.enable, v.selectFIQ)
}

// Label implements the peripherals.Device interface.
func (v *VIC) Label() string {
	return v.label
}

// Kind implements the peripherals.Device interface.
func (v *VIC) Kind() string {
	return "VIC"
}

// RegisterName implements the peripherals.Device interface.
func (v *VIC) RegisterName(offset uint32) string {
	return registerName(offset)
}

// SetLine sets the level of a hardware interrupt line.
func (v *VIC) SetLine(slot int, level bool) {
	if level {
		v.lines |= 1 << slot
	} else {
		v.lines &^= 1 << slot
	}
}

// Raw returns the pending lines, hardware and software, before masking.
func (v *VIC) Raw() uint32 {
	return v.lines | v.soft
}

// Masked returns the pending lines that are enabled.
func (v *VIC) Masked() uint32 {
	return v.Raw() & v.enable
}

// Enabled returns the enable mask.
func (v *VIC) Enabled() uint32 {
	return v.enable
}

// IRQ returns true if an enabled line routed to IRQ is pending.
func (v *VIC) IRQ() bool {
	return v.Masked()&^v.selectFIQ != 0
}

// FIQ returns true if an enabled line routed to FIQ is pending.
func (v *VIC) FIQ() bool {
	return v.Masked()&v.selectFIQ != 0
}

// InService returns the vector slot latched by the last read of VectAddr, or
// -1 if no slot is in service.
func (v *VIC) InService() int {
	return v.inService
}

func (v *VIC) enableSlot(slot int) {
	v.enable |= 1 << slot
}

// vectorAddress selects the highest priority vectored IRQ and latches it. if
// no vector slot matches a pending IRQ then the default vector is returned.
// pending FIQs also cause the default vector to be returned.
func (v *VIC) vectorAddress() uint32 {
	if v.FIQ() || !v.IRQ() {
		return v.defVectAddr
	}
	irqs := v.Masked() &^ v.selectFIQ
	for i, cntl := range v.vectCntl {
		if cntl&VectCntlEnable == 0 {
			continue
		}
		if irqs&(1<<(cntl&VectCntlSource)) != 0 {
			v.inService = i
			return v.vectAddr[i]
		}
	}
	return v.defVectAddr
}

// Read implements the peripherals.Device interface.
func (v *VIC) Read(offset uint32, width peripherals.Width) (uint32, error) {
	reg, err := peripherals.WordRegister(v, offset, width)
	if v.RegisterName(reg) == "" {
		r, rerr := peripherals.UnknownRead(v, offset, width)
		return r, peripherals.Worst(err, rerr)
	}

	var r uint32
	switch {
	case reg == IRQStatusOffset:
		r = v.Masked() &^ v.selectFIQ
	case reg == FIQStatusOffset:
		r = v.Masked() & v.selectFIQ
	case reg == RawIntrOffset:
		r = v.Raw()
	case reg == IntSelectOffset:
		r = v.selectFIQ
	case reg == IntEnableOffset:
		r = v.enable
	case reg == IntEnClearOffset, reg == SoftIntClearOffset:
		return peripherals.Sentinel(width), peripherals.Worst(err, peripherals.WriteOnly(v, reg))
	case reg == SoftIntOffset:
		r = v.soft
	case reg == ProtectionOffset:
		r = v.protection
	case reg == VectAddrOffset:
		r = v.vectorAddress()
	case reg == DefVectAddrOffset:
		r = v.defVectAddr
	case reg >= PeriphID0Offset:
		r = periphID[(reg-PeriphID0Offset)/4]
	case reg >= VectCntl0Offset:
		r = v.vectCntl[(reg-VectCntl0Offset)/4]
	case reg >= VectAddr0Offset:
		r = v.vectAddr[(reg-VectAddr0Offset)/4]
	}

	return peripherals.ReadLane(r, offset, width), err
}

// Write implements the peripherals.Device interface.
func (v *VIC) Write(offset uint32, width peripherals.Width, data uint32) error {
	reg, err := peripherals.WordRegister(v, offset, width)
	if err != nil {
		data = peripherals.WriteLane(data, offset, width)
	}
	if v.RegisterName(reg) == "" {
		return peripherals.Worst(err, peripherals.UnknownWrite(v, offset, width, data))
	}

	switch {
	case reg == IRQStatusOffset, reg == FIQStatusOffset, reg == RawIntrOffset, reg >= PeriphID0Offset:
		return peripherals.Worst(err, peripherals.ReadOnly(v, reg))
	case reg == IntSelectOffset:
		v.selectFIQ = data
	case reg == IntEnableOffset:
		v.enable |= data
	case reg == IntEnClearOffset:
		v.enable &^= data
	case reg == SoftIntOffset:
		v.soft |= data
	case reg == SoftIntClearOffset:
		v.soft &^= data
	case reg == ProtectionOffset:
		// the protection bit is stored but access from user mode is not
		// prevented
		v.protection = data & 0x01
	case reg == VectAddrOffset:
		// any write marks the end of the interrupt service routine
		v.inService = -1
	case reg == DefVectAddrOffset:
		v.defVectAddr = data
	case reg >= VectCntl0Offset:
		v.vectCntl[(reg-VectCntl0Offset)/4] = data & (VectCntlEnable | VectCntlSource)
	case reg >= VectAddr0Offset:
		v.vectAddr[(reg-VectAddr0Offset)/4] = data
	}

	return err
}
