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

package bus

import (
	"fmt"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/hardware/clocks"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/memory/memorymap"
	"github.com/ts7200emu/ts7200/hardware/memory/ram"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// AccessError is the pattern used to wrap errors returned by a device.
const AccessError = "bus: %s %08x: %v"

// CPUBus defines the operations for the memory system when accessed from the
// CPU.
type CPUBus interface {
	Read(address uint32, width peripherals.Width) (uint32, error)
	Write(address uint32, width peripherals.Width, data uint32) error
}

// Bus maps the 32 bit address space onto the SDRAM and the devices.
type Bus struct {
	clock clocks.Clock
	ram   *ram.RAM

	devices map[memorymap.Area]peripherals.Device
	tickers []peripherals.Ticker

	// called after every device access
	onAccess func(memorymap.Area)

	deviceAccesses uint64
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(clock clocks.Clock, sdram *ram.RAM) *Bus {
	b := &Bus{
		clock:   clock,
		ram:     sdram,
		devices: make(map[memorymap.Area]peripherals.Device),
	}
	b.devices[memorymap.SDRAM] = sdram
	return b
}

// Attach a device to an area of the memory map. Devices that implement the
// peripherals.Ticker interface are sent the time on every call to Advance().
func (b *Bus) Attach(area memorymap.Area, dev peripherals.Device) {
	b.devices[area] = dev
	if t, ok := dev.(peripherals.Ticker); ok {
		b.tickers = append(b.tickers, t)
	}
}

// OnAccess sets the function to be called after every device access. The
// function is not called for SDRAM accesses.
func (b *Bus) OnAccess(f func(area memorymap.Area)) {
	b.onAccess = f
}

// RAM returns the SDRAM attached to the bus.
func (b *Bus) RAM() *ram.RAM {
	return b.ram
}

// Device returns the device attached to the area. Returns nil if no device is
// attached.
func (b *Bus) Device(area memorymap.Area) peripherals.Device {
	return b.devices[area]
}

// Advance samples the clock once and sends the time to every Ticker.
func (b *Bus) Advance() {
	now := b.clock.Now()
	for _, t := range b.tickers {
		t.Tick(now)
	}
}

// DeviceAccesses returns the number of accesses made to devices other than
// the SDRAM.
func (b *Bus) DeviceAccesses() uint64 {
	return b.deviceAccesses
}

func (b *Bus) resolve(address uint32) (memorymap.Area, uint32, peripherals.Device) {
	area, offset := memorymap.MapAddress(address)
	return area, offset, b.devices[area]
}

// Read implements the CPUBus interface.
func (b *Bus) Read(address uint32, width peripherals.Width) (uint32, error) {
	area, offset, dev := b.resolve(address)

	if area == memorymap.SDRAM {
		v, err := b.ram.Read(offset, width)
		if err != nil {
			return v, curated.Errorf(AccessError, "read", address, err)
		}
		return v, nil
	}

	if dev == nil {
		return peripherals.Sentinel(width), curated.Errorf(AccessError, "read", address,
			faults.Violation("%s read from unmapped address", width))
	}

	b.Advance()
	v, err := dev.Read(offset, width)
	b.deviceAccesses++
	if b.onAccess != nil {
		b.onAccess(area)
	}

	if err != nil {
		return v, curated.Errorf(AccessError, "read", address, err)
	}
	return v, nil
}

// Write implements the CPUBus interface.
func (b *Bus) Write(address uint32, width peripherals.Width, data uint32) error {
	area, offset, dev := b.resolve(address)
	data &= width.Mask()

	if area == memorymap.SDRAM {
		if err := b.ram.Write(offset, width, data); err != nil {
			return curated.Errorf(AccessError, "write", address, err)
		}
		return nil
	}

	if dev == nil {
		return curated.Errorf(AccessError, "write", address,
			faults.Fatal("%s write of %#x to unmapped address", width, data))
	}

	b.Advance()
	err := dev.Write(offset, width, data)
	b.deviceAccesses++
	if b.onAccess != nil {
		b.onAccess(area)
	}

	if err != nil {
		return curated.Errorf(AccessError, "write", address, err)
	}
	return nil
}

// Probe returns a description of what lives at an address. For example,
// "timer1 > VAL" or "sdram".
func (b *Bus) Probe(address uint32) string {
	_, offset, dev := b.resolve(address)
	if dev == nil {
		return "unmapped"
	}
	if dev.RegisterName(offset) == "" {
		if dev == peripherals.Device(b.ram) {
			return dev.Label()
		}
		return fmt.Sprintf("%s > +%#x", dev.Label(), offset)
	}
	return peripherals.RegisterPath(dev, offset)
}
