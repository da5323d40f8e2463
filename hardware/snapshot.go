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
	"fmt"
	"io"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/hardware/peripherals/vic"
)

// CPUState is the register state of the CPU in the current mode.
type CPUState struct {
	Mode      string
	Registers [16]uint32
	CPSR      uint32
	SPSR      uint32

	Instructions uint64
}

// VICState is the aggregate state of one interrupt controller.
type VICState struct {
	Raw       uint32
	Enabled   uint32
	Masked    uint32
	InService int
}

// DeviceState is a one line summary of a device.
type DeviceState struct {
	Label   string
	Kind    string
	Summary string
}

// State is a copy of the board state at a moment in time. It is intended for
// diagnostics and is not used to restore the board.
type State struct {
	CPU     CPUState
	VIC1    VICState
	VIC2    VICState
	Lines   map[string]bool
	Devices []DeviceState

	Halted         bool
	DeviceAccesses uint64
	Faults         []faults.Entry
}

// Snapshot copies the current state of the board.
func (b *Board) Snapshot() *State {
	core := b.CPU.Core()

	s := &State{
		CPU: CPUState{
			Mode:         core.Mode().String(),
			CPSR:         core.Register(cpu.CPSR),
			SPSR:         core.Register(cpu.SPSR),
			Instructions: b.CPU.Instructions(),
		},
		VIC1:           snapshotVIC(b.VIC.VIC1),
		VIC2:           snapshotVIC(b.VIC.VIC2),
		Lines:          make(map[string]bool),
		Halted:         b.Halted(),
		DeviceAccesses: b.Bus.DeviceAccesses(),
	}

	for i := range s.CPU.Registers {
		s.CPU.Registers[i] = core.Register(i)
	}

	for id, line := range b.lines {
		s.Lines[vic.LineID(id).String()] = line()
	}

	for _, d := range []peripherals.Device{b.Timer1, b.Timer2, b.Timer3, b.UART1, b.UART2, b.Syscon, b.GPIO} {
		ds := DeviceState{Label: d.Label(), Kind: d.Kind()}
		if st, ok := d.(fmt.Stringer); ok {
			ds.Summary = st.String()
		}
		s.Devices = append(s.Devices, ds)
	}

	for _, e := range b.Faults.List {
		s.Faults = append(s.Faults, *e)
	}

	return s
}

func snapshotVIC(v *vic.VIC) VICState {
	return VICState{
		Raw:       v.Raw(),
		Enabled:   v.Enabled(),
		Masked:    v.Masked(),
		InService: v.InService(),
	}
}

func (s *State) String() string {
	var w strings.Builder

	fmt.Fprintf(&w, "mode: %s  cpsr: %08x  spsr: %08x  instructions: %d\n", s.CPU.Mode, s.CPU.CPSR, s.CPU.SPSR, s.CPU.Instructions)
	for i, r := range s.CPU.Registers {
		fmt.Fprintf(&w, "r%-2d %08x", i, r)
		if i%4 == 3 {
			w.WriteString("\n")
		} else {
			w.WriteString("  ")
		}
	}
	fmt.Fprintf(&w, "vic1: raw=%08x enable=%08x masked=%08x\n", s.VIC1.Raw, s.VIC1.Enabled, s.VIC1.Masked)
	fmt.Fprintf(&w, "vic2: raw=%08x enable=%08x masked=%08x\n", s.VIC2.Raw, s.VIC2.Enabled, s.VIC2.Masked)
	for _, d := range s.Devices {
		fmt.Fprintf(&w, "%s\n", d.Summary)
	}
	if s.Halted {
		w.WriteString("cpu halted\n")
	}

	return w.String()
}

// DumpState writes a Graphviz description of the board state to w.
func (b *Board) DumpState(w io.Writer) {
	memviz.Map(w, b.Snapshot())
}
