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

package gpio_test

import (
	"strings"
	"testing"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/hardware/peripherals/gpio"
	"github.com/ts7200emu/ts7200/logger"
	"github.com/ts7200emu/ts7200/test"
)

func TestLED(t *testing.T) {
	logger.Clear()
	g := gpio.NewGPIO()
	test.ExpectEquality(t, g.LEDs(), "green off, red off")

	test.DemandSuccess(t, g.Write(gpio.LEDOffset, peripherals.Word, gpio.LEDRed))
	test.ExpectEquality(t, g.LEDs(), "green off, red on")

	// writing the same value again does not log
	test.DemandSuccess(t, g.Write(gpio.LEDOffset, peripherals.Word, gpio.LEDRed))

	w := &test.Writer{}
	logger.Write(w)
	test.ExpectEquality(t, strings.Count(w.String(), "led: green off, red on"), 1)

	v, err := g.Read(gpio.LEDOffset, peripherals.Word)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, gpio.LEDRed)
}

func TestDirection(t *testing.T) {
	g := gpio.NewGPIO()
	test.DemandSuccess(t, g.Write(gpio.LEDDirectionOffset, peripherals.Word, 0x03))
	v, err := g.Read(gpio.LEDDirectionOffset, peripherals.Word)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0x03)

	_, err = g.Read(0x28, peripherals.Word)
	test.ExpectSuccess(t, faults.IsViolation(err))
}
