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

package script

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/logger"
)

// Target is the emulation the script acts on. Implemented by
// debugger.Debugger.
type Target interface {
	ReadMemory(address uint32, length int) ([]byte, error)
	WriteMemory(address uint32, data []byte) error
	Registers() ([]uint32, error)
	SetRegister(n int, value uint32) error
	AddBreakpoint(address uint32) error
}

type script struct {
	target Target
}

// RunFile runs the Lua script in the named file.
func RunFile(target Target, filename string) error {
	L := newState(target)
	defer L.Close()
	if err := L.DoFile(filename); err != nil {
		return curated.Errorf("script: %v", err)
	}
	logger.Logf(logger.Allow, "script", "%s completed", filename)
	return nil
}

// Run the Lua script in the string.
func Run(target Target, source string) error {
	L := newState(target)
	defer L.Close()
	if err := L.DoString(source); err != nil {
		return curated.Errorf("script: %v", err)
	}
	return nil
}

func newState(target Target) *lua.LState {
	scr := &script{target: target}

	L := lua.NewState()
	for name, f := range map[string]lua.LGFunction{
		"peek":       scr.peek,
		"poke":       scr.poke,
		"reg":        scr.reg,
		"setreg":     scr.setreg,
		"breakpoint": scr.breakpoint,
		"log":        scr.log,
	} {
		L.SetGlobal(name, L.NewFunction(f))
	}
	return L
}

func checkAddress(L *lua.LState, n int) uint32 {
	return uint32(int64(L.CheckNumber(n)))
}

func checkWidth(L *lua.LState, n int) int {
	w := L.OptInt(n, 4)
	if w != 1 && w != 2 && w != 4 {
		L.ArgError(n, "width must be 1, 2 or 4")
	}
	return w
}

// register number from a name or a number
func checkRegister(L *lua.LState, n int) int {
	v := L.CheckAny(n)
	if num, ok := v.(lua.LNumber); ok {
		r := int(num)
		if r < 0 || r > cpu.CPSR {
			L.ArgError(n, "no such register")
		}
		return r
	}

	name := strings.ToLower(L.CheckString(n))
	switch name {
	case "sp":
		return cpu.SP
	case "lr":
		return cpu.LR
	case "pc":
		return cpu.PC
	case "cpsr":
		return cpu.CPSR
	}
	if r, err := strconv.Atoi(strings.TrimPrefix(name, "r")); err == nil && strings.HasPrefix(name, "r") && r >= 0 && r <= cpu.PC {
		return r
	}
	L.ArgError(n, fmt.Sprintf("no such register: %s", name))
	return 0
}

func (scr *script) peek(L *lua.LState) int {
	address := checkAddress(L, 1)
	width := checkWidth(L, 2)

	b, err := scr.target.ReadMemory(address, width)
	if err != nil {
		L.RaiseError("peek: %v", err)
	}

	var v uint32
	switch width {
	case 1:
		v = uint32(b[0])
	case 2:
		v = uint32(binary.LittleEndian.Uint16(b))
	default:
		v = binary.LittleEndian.Uint32(b)
	}

	L.Push(lua.LNumber(v))
	return 1
}

func (scr *script) poke(L *lua.LState) int {
	address := checkAddress(L, 1)
	value := uint32(int64(L.CheckNumber(2)))
	width := checkWidth(L, 3)

	b := binary.LittleEndian.AppendUint32(nil, value)
	if err := scr.target.WriteMemory(address, b[:width]); err != nil {
		L.RaiseError("poke: %v", err)
	}
	return 0
}

func (scr *script) reg(L *lua.LState) int {
	r := checkRegister(L, 1)
	regs, err := scr.target.Registers()
	if err != nil {
		L.RaiseError("reg: %v", err)
	}
	L.Push(lua.LNumber(regs[r]))
	return 1
}

func (scr *script) setreg(L *lua.LState) int {
	r := checkRegister(L, 1)
	value := uint32(int64(L.CheckNumber(2)))
	if err := scr.target.SetRegister(r, value); err != nil {
		L.RaiseError("setreg: %v", err)
	}
	return 0
}

func (scr *script) breakpoint(L *lua.LState) int {
	address := checkAddress(L, 1)
	if err := scr.target.AddBreakpoint(address); err != nil {
		L.RaiseError("breakpoint: %v", err)
	}
	logger.Logf(logger.Allow, "script", "breakpoint at %08x", address)
	return 0
}

func (scr *script) log(L *lua.LState) int {
	s := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		s = append(s, L.ToStringMeta(L.Get(i)).String())
	}
	logger.Log(logger.Allow, "script", strings.Join(s, " "))
	return 0
}
