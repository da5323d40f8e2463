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

// Package gpio implements the data and direction registers of the EP93xx
// GPIO ports. Port E drives the two board LEDs. Changes to the LEDs are
// logged.
package gpio

import (
	"fmt"
	"strings"

	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/logger"
)

// Offsets of the port E registers.
const (
	LEDOffset          = 0x20
	LEDDirectionOffset = 0x24
)

// Bits in the LED register.
const (
	LEDGreen = 0x01
	LEDRed   = 0x02
)

var registerNames = map[uint32]string{
	0x00: "PADR", 0x04: "PBDR", 0x08: "PCDR", 0x0c: "PDDR",
	0x10: "PADDR", 0x14: "PBDDR", 0x18: "PCDDR", 0x1c: "PDDDR",
	0x20: "PEDR", 0x24: "PEDDR",
	0x30: "PFDR", 0x34: "PFDDR",
	0x38: "PGDR", 0x3c: "PGDDR",
	0x40: "PHDR", 0x44: "PHDDR",
}

// GPIO is the GPIO block.
type GPIO struct {
	regs map[uint32]uint32
}

// NewGPIO is the preferred method of initialisation for the GPIO type.
func NewGPIO() *GPIO {
	return &GPIO{regs: make(map[uint32]uint32)}
}

// LEDs returns a string describing the state of the LEDs.
func (g *GPIO) LEDs() string {
	v := g.regs[LEDOffset]
	var s strings.Builder
	s.WriteString("green ")
	s.WriteString(onOff(v&LEDGreen == LEDGreen))
	s.WriteString(", red ")
	s.WriteString(onOff(v&LEDRed == LEDRed))
	return s.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Label implements the peripherals.Device interface.
func (g *GPIO) Label() string {
	return "gpio"
}

// Kind implements the peripherals.Device interface.
func (g *GPIO) Kind() string {
	return "GPIO"
}

// RegisterName implements the peripherals.Device interface.
func (g *GPIO) RegisterName(offset uint32) string {
	return registerNames[offset]
}

// Read implements the peripherals.Device interface.
func (g *GPIO) Read(offset uint32, width peripherals.Width) (uint32, error) {
	reg, err := peripherals.WordRegister(g, offset, width)
	if g.RegisterName(reg) == "" {
		v, rerr := peripherals.UnknownRead(g, offset, width)
		return v, peripherals.Worst(err, rerr)
	}
	return peripherals.ReadLane(g.regs[reg], offset, width), err
}

// Write implements the peripherals.Device interface.
func (g *GPIO) Write(offset uint32, width peripherals.Width, data uint32) error {
	reg, err := peripherals.WordRegister(g, offset, width)
	if err != nil {
		data = peripherals.WriteLane(data, offset, width)
	}
	if g.RegisterName(reg) == "" {
		return peripherals.Worst(err, peripherals.UnknownWrite(g, offset, width, data))
	}

	data &= 0xff
	prev := g.regs[reg]
	g.regs[reg] = data

	if reg == LEDOffset && (prev^data)&(LEDGreen|LEDRed) != 0 {
		logger.Log(logger.Allow, "led", g.LEDs())
	}

	return err
}

func (g *GPIO) String() string {
	return fmt.Sprintf("gpio: %s", g.LEDs())
}
