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

package gdb

import (
	"fmt"
	"strings"

	"github.com/ts7200emu/ts7200/debugger"
)

// Target is the emulation being debugged. Implemented by debugger.Debugger.
type Target interface {
	Registers() ([]uint32, error)
	SetRegister(n int, value uint32) error
	ReadMemory(address uint32, length int) ([]byte, error)
	WriteMemory(address uint32, data []byte) error
	AddBreakpoint(address uint32) error
	DropBreakpoint(address uint32) error
	AddWatch(w debugger.Watch) error
	DropWatch(w debugger.Watch) error
	Continue() error
	Step() error
	Pause()
	Kill() error
	Detach() error
	Stops() <-chan debugger.Stop
}

// register numbers in the protocol. the floating point registers of the FPA
// are not emulated and always read as zero
const (
	regPC     = 15
	regF0     = 16
	regFPS    = 24
	regCPSR   = 25
	numRegs   = 26
	fpaLength = 12
)

// description of the registers in the order they appear in the g packet
var targetXML = func() string {
	s := strings.Builder{}
	s.WriteString(`<?xml version="1.0"?>
<!DOCTYPE target SYSTEM "gdb-target.dtd">
<target version="1.0">
<architecture>arm</architecture>
<feature name="org.gnu.gdb.arm.core">
`)
	for i := range 13 {
		s.WriteString(fmt.Sprintf("<reg name=\"r%d\" bitsize=\"32\" type=\"uint32\"/>\n", i))
	}
	s.WriteString(`<reg name="sp" bitsize="32" type="data_ptr"/>
<reg name="lr" bitsize="32"/>
<reg name="pc" bitsize="32" type="code_ptr"/>
<reg name="cpsr" bitsize="32" regnum="25"/>
</feature>
<feature name="org.gnu.gdb.arm.fpa">
`)
	for i := range 8 {
		s.WriteString(fmt.Sprintf("<reg name=\"f%d\" bitsize=\"96\" type=\"arm_fpa_ext\" regnum=\"%d\"/>\n", i, regF0+i))
	}
	s.WriteString(`<reg name="fps" bitsize="32" regnum="24"/>
</feature>
</target>
`)
	return s.String()
}()
