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

package loader_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ts7200emu/ts7200/hardware"
	"github.com/ts7200emu/ts7200/hardware/clocks"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/loader"
	"github.com/ts7200emu/ts7200/test"
)

const (
	textAddr = 0x00218000
	bssAddr  = 0x00218008
)

// executable builds a minimal ELF file with a .text section, a .bss section
// and a section name table
func executable(machine uint16) []byte {
	text := []uint32{0xe3a00005, 0xeafffffe} // mov r0, #5; b .
	names := "\x00.text\x00.bss\x00.shstrtab\x00"

	const (
		ehsize    = 52
		shentsize = 40
		textOff   = ehsize
		namesOff  = textOff + 8
		shoff     = 84
	)

	var b bytes.Buffer
	le := binary.LittleEndian

	// header
	b.Write([]byte{0x7f, 'E', 'L', 'F', 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	binary.Write(&b, le, uint16(2)) // executable
	binary.Write(&b, le, machine)
	binary.Write(&b, le, uint32(1))
	binary.Write(&b, le, uint32(textAddr)) // entry
	binary.Write(&b, le, uint32(0))        // program headers
	binary.Write(&b, le, uint32(shoff))
	binary.Write(&b, le, uint32(0)) // flags
	binary.Write(&b, le, uint16(ehsize))
	binary.Write(&b, le, uint16(32))
	binary.Write(&b, le, uint16(0))
	binary.Write(&b, le, uint16(shentsize))
	binary.Write(&b, le, uint16(4))
	binary.Write(&b, le, uint16(3))

	binary.Write(&b, le, text)
	b.WriteString(names)
	for b.Len() < shoff {
		b.WriteByte(0)
	}

	section := func(name, typ, flags, addr, off, size, align uint32) {
		binary.Write(&b, le, []uint32{name, typ, flags, addr, off, size, 0, 0, align, 0})
	}
	section(0, 0, 0, 0, 0, 0, 0)
	section(1, 1, 6, textAddr, textOff, 8, 4)
	section(7, 8, 3, bssAddr, namesOff, 16, 4)
	section(12, 3, 0, 0, namesOff, uint32(len(names)), 1)

	return b.Bytes()
}

func TestLoad(t *testing.T) {
	img, err := loader.Load(bytes.NewReader(executable(40)))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, img.Entry, textAddr)

	// the .bss section has no contents in the file and is not loaded
	test.DemandEquality(t, len(img.Segments), 2)
	test.ExpectEquality(t, img.Segments[0].Address, textAddr)
	test.ExpectEquality(t, len(img.Segments[0].Data), 8)
	test.ExpectEquality(t, img.Segments[1].Address, 0)
	test.ExpectEquality(t, len(img.Segments[1].Data), 32)
	test.ExpectEquality(t, binary.LittleEndian.Uint32(img.Segments[1].Data[28:]), 0xe59ff018)
}

func TestNotARM(t *testing.T) {
	// EM_386
	_, err := loader.Load(bytes.NewReader(executable(3)))
	test.ExpectFailure(t, err)

	_, err = loader.Load(bytes.NewReader([]byte("not an executable")))
	test.ExpectFailure(t, err)
}

func TestBoot(t *testing.T) {
	img, err := loader.Load(bytes.NewReader(executable(40)))
	test.DemandSuccess(t, err)

	b := hardware.NewBoard(hardware.Config{Clock: &clocks.Manual{}})
	test.DemandSuccess(t, img.Boot(b))

	core := b.CPU.Core()
	test.ExpectEquality(t, core.Mode(), cpu.Supervisor)
	test.ExpectEquality(t, core.Register(cpu.CPSR), loader.BootloaderCPSR)
	test.ExpectEquality(t, core.Register(cpu.SP), loader.BootloaderStack)
	test.ExpectEquality(t, core.Register(cpu.LR), loader.BootloaderReturn)
	test.ExpectEquality(t, core.Register(cpu.PC), textAddr)

	v, err := b.Bus.Read(0x18, peripherals.Word)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0xe59ff018)

	// uninitialised memory is still detected above the loaded sections
	_, err = b.Bus.Read(bssAddr, peripherals.Word)
	test.ExpectFailure(t, err)

	_, err = b.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, core.Register(0), 5)
}
