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

package loader

import (
	"debug/elf"
	"io"
	"os"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/hardware"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/hardware/cpu/arm/asm"
	"github.com/ts7200emu/ts7200/logger"
)

// Register values left by the boot loader.
const (
	// the kernel returns to this address when it exits. the PC reaching this
	// address is the end of the emulation
	BootloaderReturn = uint32(0x0001_74c8)

	// supervisor mode stack pointer
	BootloaderStack = uint32(0x01fd_cf34)

	// supervisor mode with IRQ and FIQ disabled
	BootloaderCPSR = uint32(0xd3)
)

// the number of entries in the exception vector table
const numVectors = 8

// Image is the result of loading an executable. It is applied to a board with
// the Boot() function.
type Image struct {
	Segments  []hardware.Segment
	Entry     uint32
	Registers []hardware.RegisterValue
}

// LoadFile opens and loads the named executable.
func LoadFile(filename string) (*Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("loader: %v", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads an ARM ELF executable. Every allocated section with contents in
// the file becomes a Segment. The exception vectors are filled with
// "ldr pc, [pc, #0x18]" so that a kernel installs a handler by writing its
// address to the word 0x20 bytes above the vector.
func Load(r io.ReaderAt) (*Image, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, curated.Errorf("loader: %v", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Data != elf.ELFDATA2LSB || f.Machine != elf.EM_ARM {
		return nil, curated.Errorf("loader: %v", "not a little endian 32 bit ARM executable")
	}

	img := &Image{
		Entry: uint32(f.Entry),
	}

	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 || s.Type == elf.SHT_NOBITS {
			continue // for loop
		}

		data, err := s.Data()
		if err != nil {
			return nil, curated.Errorf("loader: %s: %v", s.Name, err)
		}

		logger.Logf(logger.Allow, "loader", "section %s at %08x (%d bytes)", s.Name, s.Addr, len(data))
		img.Segments = append(img.Segments, hardware.Segment{Address: uint32(s.Addr), Data: data})
	}

	img.Segments = append(img.Segments, hardware.Segment{Address: 0, Data: vectors()})

	// the CPSR is set first so that the stack pointer and link register are
	// set in the supervisor bank
	img.Registers = []hardware.RegisterValue{
		{Register: cpu.CPSR, Value: BootloaderCPSR},
		{Register: cpu.SP, Value: BootloaderStack},
		{Register: cpu.LR, Value: BootloaderReturn},
		{Register: cpu.PC, Value: img.Entry},
	}

	logger.Logf(logger.Allow, "loader", "entry point %08x", img.Entry)

	return img, nil
}

func vectors() []byte {
	p := asm.New(0)
	for range numVectors {
		p.LDR(asm.PC, asm.PC, 0x18)
	}
	return p.MustAssemble()
}

// Boot applies the image to the board.
func (img *Image) Boot(b *hardware.Board) error {
	if err := b.Load(img.Segments, img.Registers); err != nil {
		return curated.Errorf("loader: %v", err)
	}
	return nil
}
