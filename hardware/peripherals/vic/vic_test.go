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

package vic_test

import (
	"math/rand/v2"
	"testing"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/hardware/peripherals/vic"
	"github.com/ts7200emu/ts7200/test"
)

func write(t *testing.T, c *vic.Chain, offset uint32, data uint32) {
	t.Helper()
	test.DemandSuccess(t, c.Write(offset, peripherals.Word, data))
}

func read(t *testing.T, c *vic.Chain, offset uint32) uint32 {
	t.Helper()
	v, err := c.Read(offset, peripherals.Word)
	test.DemandSuccess(t, err)
	return v
}

func TestMaskedInvariant(t *testing.T) {
	c := vic.NewChain()
	rng := rand.New(rand.NewPCG(1, 2))

	lines := []vic.LineID{vic.Timer1, vic.Timer2, vic.Timer3, vic.UART1Rx, vic.UART1Tx, vic.UART1, vic.UART2Rx, vic.UART2Tx, vic.UART2}
	regs := []uint32{vic.IntEnableOffset, vic.IntEnClearOffset, vic.SoftIntOffset, vic.SoftIntClearOffset}

	for i := range 2000 {
		switch rng.IntN(3) {
		case 0:
			c.SetLine(lines[rng.IntN(len(lines))], rng.IntN(2) == 0)
		case 1:
			// software interrupts in the chain slot would hide the VIC2 output
			write(t, c, regs[rng.IntN(len(regs))], rng.Uint32()&^(1<<vic.ChainSlot))
		case 2:
			write(t, c, vic.VIC2Offset+regs[rng.IntN(len(regs))], rng.Uint32())
		}

		for _, v := range []*vic.VIC{c.VIC1, c.VIC2} {
			test.ExpectEquality(t, v.Masked(), v.Raw()&v.Enabled(), i)
		}
		test.ExpectEquality(t, c.VIC1.Raw()&(1<<vic.ChainSlot) != 0, c.VIC2.IRQ(), i)
		test.ExpectEquality(t, read(t, c, vic.IRQStatusOffset), c.VIC1.Masked(), i)
		test.ExpectEquality(t, read(t, c, vic.VIC2Offset+vic.RawIntrOffset), c.VIC2.Raw(), i)
	}
}

func TestUnmaskedAtBothLevels(t *testing.T) {
	c := vic.NewChain()

	// timer3 is in VIC2
	c.SetLine(vic.Timer3, true)
	test.ExpectFailure(t, c.IRQ())

	write(t, c, vic.VIC2Offset+vic.IntEnableOffset, 1<<19)
	test.ExpectSuccess(t, c.IRQ())

	// masking the chain slot in VIC1 masks every VIC2 line
	write(t, c, vic.IntEnClearOffset, 1<<vic.ChainSlot)
	test.ExpectFailure(t, c.IRQ())
	test.ExpectEquality(t, read(t, c, vic.IntEnableOffset), 0)
	test.ExpectSuccess(t, c.VIC2.IRQ())

	write(t, c, vic.IntEnableOffset, 1<<vic.ChainSlot)
	test.ExpectSuccess(t, c.IRQ())

	write(t, c, vic.VIC2Offset+vic.IntEnClearOffset, 1<<19)
	test.ExpectFailure(t, c.IRQ())

	c.SetLine(vic.Timer3, false)
	write(t, c, vic.VIC2Offset+vic.IntEnableOffset, 1<<19)
	test.ExpectFailure(t, c.IRQ())
}

func TestIntEnableSetsBits(t *testing.T) {
	c := vic.NewChain()
	write(t, c, vic.IntEnableOffset, 0x10)
	write(t, c, vic.IntEnableOffset, 0x20)
	test.ExpectEquality(t, read(t, c, vic.IntEnableOffset), 0x31)

	write(t, c, vic.IntEnClearOffset, 0x10)
	test.ExpectEquality(t, read(t, c, vic.IntEnableOffset), 0x21)
}

func TestFIQSelect(t *testing.T) {
	c := vic.NewChain()
	c.SetLine(vic.Timer1, true)
	write(t, c, vic.IntEnableOffset, 1<<4)
	test.ExpectSuccess(t, c.IRQ())
	test.ExpectFailure(t, c.FIQ())

	write(t, c, vic.IntSelectOffset, 1<<4)
	test.ExpectFailure(t, c.IRQ())
	test.ExpectSuccess(t, c.FIQ())
	test.ExpectEquality(t, read(t, c, vic.FIQStatusOffset), 1<<4)
	test.ExpectEquality(t, read(t, c, vic.IRQStatusOffset), 0)

	// FIQ from VIC2 goes straight to the CPU
	c.SetLine(vic.Timer1, false)
	c.SetLine(vic.UART1, true)
	write(t, c, vic.VIC2Offset+vic.IntSelectOffset, 1<<20)
	write(t, c, vic.VIC2Offset+vic.IntEnableOffset, 1<<20)
	test.ExpectSuccess(t, c.FIQ())
	test.ExpectFailure(t, c.IRQ())
}

func TestSoftInt(t *testing.T) {
	c := vic.NewChain()
	write(t, c, vic.IntEnableOffset, 1<<8)
	write(t, c, vic.SoftIntOffset, 1<<8)
	test.ExpectSuccess(t, c.IRQ())
	test.ExpectEquality(t, read(t, c, vic.SoftIntOffset), 1<<8)

	write(t, c, vic.SoftIntClearOffset, 1<<8)
	test.ExpectFailure(t, c.IRQ())
}

func TestVectoring(t *testing.T) {
	c := vic.NewChain()
	write(t, c, vic.DefVectAddrOffset, 0xdef)

	// timer1 in slot 4 and timer2 in slot 5. timer2 has higher priority
	write(t, c, vic.VectAddr0Offset, 0x2000)
	write(t, c, vic.VectCntl0Offset, vic.VectCntlEnable|5)
	write(t, c, vic.VectAddr0Offset+4, 0x1000)
	write(t, c, vic.VectCntl0Offset+4, vic.VectCntlEnable|4)
	write(t, c, vic.IntEnableOffset, 1<<4|1<<5)

	test.ExpectEquality(t, read(t, c, vic.VectAddrOffset), 0xdef)

	c.SetLine(vic.Timer1, true)
	test.ExpectEquality(t, read(t, c, vic.VectAddrOffset), 0x1000)
	test.ExpectEquality(t, c.VIC1.InService(), 1)

	c.SetLine(vic.Timer2, true)
	test.ExpectEquality(t, read(t, c, vic.VectAddrOffset), 0x2000)
	test.ExpectEquality(t, c.VIC1.InService(), 0)

	// the in service slot is not masked from selection
	test.ExpectEquality(t, read(t, c, vic.VectAddrOffset), 0x2000)

	write(t, c, vic.VectAddrOffset, 0)
	test.ExpectEquality(t, c.VIC1.InService(), -1)

	test.ExpectEquality(t, read(t, c, vic.VectCntl0Offset), vic.VectCntlEnable|5)
}

func TestDaisyChainVector(t *testing.T) {
	c := vic.NewChain()
	write(t, c, vic.DefVectAddrOffset, 0xdef)
	write(t, c, vic.VIC2Offset+vic.DefVectAddrOffset, 0xdef2)
	write(t, c, vic.VIC2Offset+vic.VectAddr0Offset, 0x3000)
	write(t, c, vic.VIC2Offset+vic.VectCntl0Offset, vic.VectCntlEnable|19)
	write(t, c, vic.VIC2Offset+vic.IntEnableOffset, 1<<19)

	c.SetLine(vic.Timer3, true)
	test.ExpectEquality(t, read(t, c, vic.VectAddrOffset), 0x3000)
	test.ExpectEquality(t, c.VIC2.InService(), 0)

	// end of service through VIC1 releases the VIC2 slot
	write(t, c, vic.VectAddrOffset, 0)
	test.ExpectEquality(t, c.VIC2.InService(), -1)

	// a VIC1 source takes priority over the chain
	write(t, c, vic.VectAddr0Offset, 0x1000)
	write(t, c, vic.VectCntl0Offset, vic.VectCntlEnable|4)
	write(t, c, vic.IntEnableOffset, 1<<4)
	c.SetLine(vic.Timer1, true)
	test.ExpectEquality(t, read(t, c, vic.VectAddrOffset), 0x1000)
}

func TestRegisterContracts(t *testing.T) {
	c := vic.NewChain()

	for i, id := range []uint32{0x90, 0x11, 0x04, 0x00} {
		test.ExpectEquality(t, read(t, c, vic.PeriphID0Offset+uint32(i)*4), id)
		test.ExpectEquality(t, read(t, c, vic.VIC2Offset+vic.PeriphID0Offset+uint32(i)*4), id)
	}

	err := c.Write(vic.RawIntrOffset, peripherals.Word, 1)
	test.ExpectSuccess(t, faults.IsViolation(err))

	_, err = c.Read(vic.IntEnClearOffset, peripherals.Word)
	test.ExpectSuccess(t, faults.IsViolation(err))

	_, err = c.Read(0x40, peripherals.Word)
	test.ExpectSuccess(t, faults.IsViolation(err))
	err = c.Write(vic.VIC2Offset+0x40, peripherals.Word, 1)
	test.ExpectSuccess(t, faults.IsFatal(err))

	test.ExpectEquality(t, c.RegisterName(vic.VIC2Offset+vic.VectCntl0Offset+8), "vic2.VectCntl2")
	test.ExpectEquality(t, c.RegisterName(vic.IntEnableOffset), "vic1.IntEnable")

	// protection is stored
	write(t, c, vic.ProtectionOffset, 1)
	test.ExpectEquality(t, read(t, c, vic.ProtectionOffset), 1)

	test.DemandImplements[peripherals.Device](t, c)
}
