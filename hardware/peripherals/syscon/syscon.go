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

// Package syscon implements the EP93xx system controller. Only the registers
// needed by a kernel running under the boot loader are functional: the scratch
// registers, the software lock, DeviceCfg and the power state registers.
// Every other documented register stores what is written to it and logs the
// access.
//
// Registers in the range DeviceCfg to SysCfg are protected by a software lock.
// Writing 0xaa to SysSWLock unlocks the protected registers for exactly one
// write.
package syscon

import (
	"fmt"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
	"github.com/ts7200emu/ts7200/logger"
)

// Register offsets.
const (
	PwrStsOffset       = 0x00
	PwrCntOffset       = 0x04
	HaltOffset         = 0x08
	StandbyOffset      = 0x0c
	TEOIOffset         = 0x18
	STFClrOffset       = 0x1c
	ClkSet1Offset      = 0x20
	ClkSet2Offset      = 0x24
	Scratch0Offset     = 0x40
	Scratch1Offset     = 0x44
	APBWaitOffset      = 0x50
	BusMstrArbOffset   = 0x54
	BootModeClrOffset  = 0x58
	DeviceCfgOffset    = 0x80
	VidClkDivOffset    = 0x84
	MIRClkDivOffset    = 0x88
	I2SClkDivOffset    = 0x8c
	KeyTchClkDivOffset = 0x90
	ChipIDOffset       = 0x94
	SysCfgOffset       = 0x9c
	SysSWLockOffset    = 0xc0
)

// UnlockCode is the value written to SysSWLock to unlock the protected
// registers.
const UnlockCode = 0xaa

// DeviceCfgReset is the value of DeviceCfg as left by the boot loader.
const DeviceCfgReset = 0x08940d00

// DeviceCfgSHena is the DeviceCfg bit that permits the Halt and Standby power
// states.
const DeviceCfgSHena = 0x01

var registerNames = map[uint32]string{
	PwrStsOffset:       "PwrSts",
	PwrCntOffset:       "PwrCnt",
	HaltOffset:         "Halt",
	StandbyOffset:      "Standby",
	TEOIOffset:         "TEOI",
	STFClrOffset:       "STFClr",
	ClkSet1Offset:      "ClkSet1",
	ClkSet2Offset:      "ClkSet2",
	Scratch0Offset:     "ScratchReg0",
	Scratch1Offset:     "ScratchReg1",
	APBWaitOffset:      "APBWait",
	BusMstrArbOffset:   "BusMstrArb",
	BootModeClrOffset:  "BootModeClr",
	DeviceCfgOffset:    "DeviceCfg",
	VidClkDivOffset:    "VidClkDiv",
	MIRClkDivOffset:    "MIRClkDiv",
	I2SClkDivOffset:    "I2SClkDiv",
	KeyTchClkDivOffset: "KeyTchClkDiv",
	ChipIDOffset:       "ChipID",
	SysCfgOffset:       "SysCfg",
	SysSWLockOffset:    "SysSWLock",
}

func locked(offset uint32) bool {
	return offset >= DeviceCfgOffset && offset <= SysCfgOffset
}

// PowerState of the system.
type PowerState int

// List of valid PowerState values.
const (
	Run PowerState = iota
	Halt
	Standby
)

func (s PowerState) String() string {
	switch s {
	case Run:
		return "run"
	case Halt:
		return "halt"
	case Standby:
		return "standby"
	}
	return "unknown"
}

// Syscon is the EP93xx system controller.
type Syscon struct {
	locked bool
	power  PowerState

	deviceCfg uint32
	scratch   [2]uint32

	// registers with no behaviour. values are stored so that they read back
	// what was last written
	stubs map[uint32]uint32
}

// NewSyscon is the preferred method of initialisation for the Syscon type.
func NewSyscon() *Syscon {
	return &Syscon{
		locked:    true,
		deviceCfg: DeviceCfgReset,
		stubs:     make(map[uint32]uint32),
	}
}

func (s *Syscon) String() string {
	return fmt.Sprintf("syscon: power=%s locked=%v devicecfg=%#08x", s.power, s.locked, s.deviceCfg)
}

// Label implements the peripherals.Device interface.
func (s *Syscon) Label() string {
	return "syscon"
}

// Kind implements the peripherals.Device interface.
func (s *Syscon) Kind() string {
	return "System Controller"
}

// RegisterName implements the peripherals.Device interface.
func (s *Syscon) RegisterName(offset uint32) string {
	return registerNames[offset]
}

// PowerState returns the current power state.
func (s *Syscon) PowerState() PowerState {
	return s.power
}

// Wake returns the system to the Run power state. Called when an interrupt
// arrives while halted.
func (s *Syscon) Wake() {
	s.power = Run
}

// Locked returns true if the protected registers are locked.
func (s *Syscon) Locked() bool {
	return s.locked
}

// enterPowerState is called on a read of the Halt or Standby registers
func (s *Syscon) enterPowerState(state PowerState) error {
	if s.deviceCfg&DeviceCfgSHena != DeviceCfgSHena {
		return faults.Violation("cannot enter %s power state with DeviceCfg.SHena clear", state)
	}
	if state == Standby {
		return faults.Violation("%s power state is not emulated", state)
	}
	s.power = state
	return nil
}

// Read implements the peripherals.Device interface.
func (s *Syscon) Read(offset uint32, width peripherals.Width) (uint32, error) {
	reg, err := peripherals.WordRegister(s, offset, width)
	if s.RegisterName(reg) == "" {
		v, rerr := peripherals.UnknownRead(s, offset, width)
		return v, peripherals.Worst(err, rerr)
	}

	var v uint32
	switch reg {
	case HaltOffset:
		err = peripherals.Worst(err, s.enterPowerState(Halt))
	case StandbyOffset:
		err = peripherals.Worst(err, s.enterPowerState(Standby))
	case Scratch0Offset:
		v = s.scratch[0]
	case Scratch1Offset:
		v = s.scratch[1]
	case DeviceCfgOffset:
		v = s.deviceCfg
	case SysSWLockOffset:
		if !s.locked {
			v = 0x01
		}
	default:
		v = s.stubs[reg]
		logger.Logf(logger.Allow, "syscon", "stubbed read of %s", peripherals.RegisterPath(s, reg))
	}

	return peripherals.ReadLane(v, offset, width), err
}

// Write implements the peripherals.Device interface.
func (s *Syscon) Write(offset uint32, width peripherals.Width, data uint32) error {
	reg, err := peripherals.WordRegister(s, offset, width)
	if err != nil {
		data = peripherals.WriteLane(data, offset, width)
	}
	if s.RegisterName(reg) == "" {
		return peripherals.Worst(err, peripherals.UnknownWrite(s, offset, width, data))
	}

	if locked(reg) {
		if s.locked {
			return peripherals.Worst(err, faults.Violation("write of %#08x to %s while locked", data, peripherals.RegisterPath(s, reg)))
		}
		s.locked = true
	}

	switch reg {
	case HaltOffset, StandbyOffset:
		return peripherals.Worst(err, faults.Violation("write to %s. power states are entered by reading", peripherals.RegisterPath(s, reg)))
	case Scratch0Offset:
		s.scratch[0] = data
	case Scratch1Offset:
		s.scratch[1] = data
	case DeviceCfgOffset:
		s.deviceCfg = data
	case SysSWLockOffset:
		if data != UnlockCode {
			return peripherals.Worst(err, faults.Violation("write of %#02x to %s is not the unlock code", data, peripherals.RegisterPath(s, reg)))
		}
		s.locked = false
	default:
		s.stubs[reg] = data
		logger.Logf(logger.Allow, "syscon", "stubbed write of %#08x to %s", data, peripherals.RegisterPath(s, reg))
	}

	return err
}
