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
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// ChainSlot is the VIC1 slot driven by the IRQ output of VIC2.
const ChainSlot = 0

// VIC2Offset is the offset of VIC2 within the address range of the Chain.
const VIC2Offset = 0x10000

// LineID identifies a device interrupt line.
type LineID int

// List of valid LineID values.
const (
	Timer1 LineID = iota
	Timer2
	Timer3
	UART1Rx
	UART1Tx
	UART1
	UART2Rx
	UART2Tx
	UART2
	NumLines
)

func (id LineID) String() string {
	switch id {
	case Timer1:
		return "TC1UI"
	case Timer2:
		return "TC2UI"
	case Timer3:
		return "TC3UI"
	case UART1Rx:
		return "UART1RXINTR1"
	case UART1Tx:
		return "UART1TXINTR1"
	case UART1:
		return "INT_UART1"
	case UART2Rx:
		return "UART2RXINTR2"
	case UART2Tx:
		return "UART2TXINTR2"
	case UART2:
		return "INT_UART2"
	}
	return "unknown line"
}

// Slot is the destination of an interrupt line.
type Slot struct {
	// 1 or 2
	VIC   int
	Index int
}

// Wiring maps every interrupt line to the VIC slot it drives. The table is
// fixed by the hardware.
var Wiring = map[LineID]Slot{
	Timer1:  {VIC: 1, Index: 4},
	Timer2:  {VIC: 1, Index: 5},
	UART1Rx: {VIC: 1, Index: 23},
	UART1Tx: {VIC: 1, Index: 24},
	UART2Rx: {VIC: 1, Index: 25},
	UART2Tx: {VIC: 1, Index: 26},
	Timer3:  {VIC: 2, Index: 19},
	UART1:   {VIC: 2, Index: 20},
	UART2:   {VIC: 2, Index: 22},
}

// Chain is the pair of daisy-chained VICs. It is a single device on the bus,
// with VIC1 at offset zero and VIC2 at VIC2Offset.
type Chain struct {
	VIC1 *VIC
	VIC2 *VIC

	// the previous read of VIC1 VectAddr was passed through to VIC2
	chained bool
}

// NewChain is the preferred method of initialisation for the Chain type. The
// chain slot is enabled, as it is left by the boot loader. It can be disabled
// with IntEnClear like any other slot.
func NewChain() *Chain {
	c := &Chain{
		VIC1: NewVIC("vic1"),
		VIC2: NewVIC("vic2"),
	}
	c.VIC1.enableSlot(ChainSlot)
	return c
}

// Label implements the peripherals.Device interface.
func (c *Chain) Label() string {
	return "vic"
}

// Kind implements the peripherals.Device interface.
func (c *Chain) Kind() string {
	return "VIC"
}

func (c *Chain) route(offset uint32) (*VIC, uint32) {
	if offset < VIC2Offset {
		return c.VIC1, offset
	}
	return c.VIC2, offset - VIC2Offset
}

// RegisterName implements the peripherals.Device interface.
func (c *Chain) RegisterName(offset uint32) string {
	v, offset := c.route(offset)
	if n := v.RegisterName(offset); n != "" {
		return v.Label() + "." + n
	}
	return ""
}

// SetLine sets the level of an interrupt line in the VIC it is wired to. The
// VIC2 output to VIC1 is updated immediately.
func (c *Chain) SetLine(id LineID, level bool) {
	slot, ok := Wiring[id]
	if !ok {
		return
	}
	if slot.VIC == 1 {
		c.VIC1.SetLine(slot.Index, level)
	} else {
		c.VIC2.SetLine(slot.Index, level)
	}
	c.propagate()
}

func (c *Chain) propagate() {
	c.VIC1.SetLine(ChainSlot, c.VIC2.IRQ())
}

// IRQ returns the state of the IRQ input to the CPU.
func (c *Chain) IRQ() bool {
	return c.VIC1.IRQ()
}

// FIQ returns the state of the FIQ input to the CPU. The FIQ output of VIC2 is
// connected directly to the CPU.
func (c *Chain) FIQ() bool {
	return c.VIC1.FIQ() || c.VIC2.FIQ()
}

// Read implements the peripherals.Device interface.
func (c *Chain) Read(offset uint32, width peripherals.Width) (uint32, error) {
	if offset == VectAddrOffset && width == peripherals.Word {
		return c.vectorAddress(), nil
	}
	v, offset := c.route(offset)
	return v.Read(offset, width)
}

// vectorAddress implements the daisy chain of the VectAddr register. VIC2 is
// consulted only when the chain slot is the only pending VIC1 IRQ
func (c *Chain) vectorAddress() uint32 {
	own := c.VIC1.Masked() &^ c.VIC1.selectFIQ &^ (1 << ChainSlot)
	c.chained = own == 0 && c.VIC2.IRQ() && !c.VIC1.FIQ()
	if c.chained {
		return c.VIC2.vectorAddress()
	}
	return c.VIC1.vectorAddress()
}

// Write implements the peripherals.Device interface.
func (c *Chain) Write(offset uint32, width peripherals.Width, data uint32) error {
	v, reg := c.route(offset)
	err := v.Write(reg, width, data)

	// end of service for a chained interrupt is signalled through VIC1
	if offset == VectAddrOffset && c.chained {
		c.VIC2.inService = -1
		c.chained = false
	}

	// writes to VIC2 may change its IRQ output
	c.propagate()

	return err
}
