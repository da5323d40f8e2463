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

package peripherals_test

import (
	"fmt"
	"testing"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/test"
)

type dummy struct{}

func (dummy) Label() string { return "dummy" }
func (dummy) Kind() string  { return "Dummy" }
func (dummy) Read(offset uint32, width peripherals.Width) (uint32, error) {
	return 0, nil
}
func (dummy) Write(offset uint32, width peripherals.Width, data uint32) error {
	return nil
}
func (dummy) RegisterName(offset uint32) string {
	if offset == 0x04 {
		return "CTRL"
	}
	return ""
}

func TestWordRegister(t *testing.T) {
	reg, err := peripherals.WordRegister(dummy{}, 0x04, peripherals.Word)
	test.ExpectEquality(t, reg, 0x04)
	test.ExpectSuccess(t, err)

	reg, err = peripherals.WordRegister(dummy{}, 0x05, peripherals.Byte)
	test.ExpectEquality(t, reg, 0x04)
	test.ExpectSuccess(t, faults.IsViolation(err))
	test.ExpectEquality(t, err.Error(), "contract violation: byte access to word register dummy > CTRL at offset 0x05")
}

func TestLanes(t *testing.T) {
	test.ExpectEquality(t, peripherals.ReadLane(0x11223344, 0, peripherals.Byte), 0x44)
	test.ExpectEquality(t, peripherals.ReadLane(0x11223344, 1, peripherals.Byte), 0x33)
	test.ExpectEquality(t, peripherals.ReadLane(0x11223344, 2, peripherals.Half), 0x1122)
	test.ExpectEquality(t, peripherals.ReadLane(0x11223344, 0, peripherals.Word), 0x11223344)

	test.ExpectEquality(t, peripherals.WriteLane(0xabcd, 0, peripherals.Byte), 0xcd)
	test.ExpectEquality(t, peripherals.WriteLane(0xabcd, 1, peripherals.Byte), 0xcd00)
	test.ExpectEquality(t, peripherals.WriteLane(0xabcd, 2, peripherals.Half), 0xabcd0000)
}

func TestSentinel(t *testing.T) {
	test.ExpectEquality(t, peripherals.Sentinel(peripherals.Byte), 0x2d)
	test.ExpectEquality(t, peripherals.Sentinel(peripherals.Half), 0x2d2d)
	test.ExpectEquality(t, peripherals.Sentinel(peripherals.Word), 0x2d2d2d2d)
}

func TestWorst(t *testing.T) {
	v := faults.Violation("v")
	f := faults.Fatal("f")
	test.ExpectEquality(t, fmt.Sprint(peripherals.Worst(nil, v, f)), "fatal fault: f")
	test.ExpectEquality(t, fmt.Sprint(peripherals.Worst(v, nil)), "contract violation: v")
	test.ExpectEquality(t, fmt.Sprint(peripherals.Worst(v, faults.Violation("w"))), "contract violation: v")
	test.ExpectSuccess(t, peripherals.Worst(nil, nil))
}
