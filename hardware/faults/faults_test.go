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

package faults_test

import (
	"fmt"
	"testing"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/test"
)

func TestClassification(t *testing.T) {
	v := faults.Violation("rx empty on %s", "uart1")
	test.ExpectEquality(t, v.Error(), "contract violation: rx empty on uart1")
	test.ExpectSuccess(t, faults.IsViolation(v))
	test.ExpectFailure(t, faults.IsFatal(v))

	f := faults.Fatal("timer enabled with no load value")
	test.ExpectSuccess(t, faults.IsFatal(f))
	test.ExpectFailure(t, faults.IsViolation(f))

	// context added by the bus does not hide the classification
	w := curated.Errorf("bus: %08x: %v", uint32(0x808c0000), v)
	test.ExpectSuccess(t, faults.IsViolation(w))
	w = fmt.Errorf("loop: %w", f)
	test.ExpectSuccess(t, faults.IsFatal(w))

	// strict mode promotes violations by wrapping them in a fatal fault
	p := curated.Errorf(faults.FatalFault, v)
	test.ExpectSuccess(t, faults.IsFatal(p))
	test.ExpectFailure(t, faults.IsViolation(p))

	test.ExpectFailure(t, faults.IsViolation(nil))
	test.ExpectFailure(t, faults.IsFatal(fmt.Errorf("plain")))
}

func TestLog(t *testing.T) {
	l := faults.NewLog()

	test.ExpectSuccess(t, l.NewEntry(faults.CategoryViolation, "uart1 > DATA: rx empty", 0x1000, 0x808c0000))
	test.ExpectFailure(t, l.NewEntry(faults.CategoryViolation, "uart1 > DATA: rx empty", 0x1000, 0x808c0000))
	test.ExpectSuccess(t, l.NewEntry(faults.CategoryViolation, "uart1 > DATA: rx empty", 0x1004, 0x808c0000))

	test.DemandEquality(t, len(l.List), 2)
	test.ExpectEquality(t, l.List[0].Count, 2)
	test.ExpectEquality(t, l.List[1].Count, 1)
	test.ExpectEquality(t, l.Total(), 3)

	w := &test.Writer{}
	l.WriteLog(w)
	test.ExpectEquality(t, w.String(), "violation: uart1 > DATA: rx empty: 808c0000 (PC: 00001000) x2\n"+
		"violation: uart1 > DATA: rx empty: 808c0000 (PC: 00001004) x1\n")

	l.Clear()
	test.ExpectEquality(t, l.Total(), 0)
}
