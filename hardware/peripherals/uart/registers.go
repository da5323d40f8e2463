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

package uart

// Register offsets common to both UARTs.
const (
	DataOffset    = 0x00
	RSROffset     = 0x04
	LCRHOffset    = 0x08
	LCRMOffset    = 0x0c
	LCRLOffset    = 0x10
	CtrlOffset    = 0x14
	FlagOffset    = 0x18
	IntIDOffset   = 0x1c
	DMACtrlOffset = 0x28
)

// Register offsets only present on UART1.
const (
	ModemCtrlOffset   = 0x100
	ModemStatusOffset = 0x104
	HDLCCtrlOffset    = 0x20c
	HDLCAMVOffset     = 0x210
	HDLCAMOffset      = 0x214
	HDLCRIBOffset     = 0x218
	HDLCStatusOffset  = 0x21c
)

// Bits in the receive status register.
const (
	RSRFraming = 0x01
	RSRParity  = 0x02
	RSRBreak   = 0x04
	RSROverrun = 0x08
)

// Bits in the Control register.
const (
	CtrlEnable         = 0x01
	CtrlModemInt       = 0x08
	CtrlReceiveInt     = 0x10
	CtrlTransmitInt    = 0x20
	CtrlReceiveTimeout = 0x40
	CtrlLoopback       = 0x80
)

// Bits in the Flag register.
const (
	FlagCTS    = 0x01
	FlagDCD    = 0x02
	FlagDSR    = 0x04
	FlagBusy   = 0x08
	FlagRXFE   = 0x10
	FlagTXFF   = 0x20
	FlagRXFF   = 0x40
	FlagTXFE   = 0x80
	flagsValid = 0xff
)

// Bits in the modem status register.
const (
	ModemStatusCTS = 0x01
)

// Bits in the interrupt identification register.
const (
	IntModem          = 0x01
	IntReceive        = 0x02
	IntTransmit       = 0x04
	IntReceiveTimeout = 0x08
)

var registerNames = map[uint32]string{
	DataOffset:        "DATA",
	RSROffset:         "RSR",
	LCRHOffset:        "LCRH",
	LCRMOffset:        "LCRM",
	LCRLOffset:        "LCRL",
	CtrlOffset:        "CTRL",
	FlagOffset:        "FLAG",
	IntIDOffset:       "INTR",
	DMACtrlOffset:     "DMAR",
	ModemCtrlOffset:   "MDMCTL",
	ModemStatusOffset: "MDMSTS",
	HDLCCtrlOffset:    "HDLCCTL",
	HDLCAMVOffset:     "HDLCAMV",
	HDLCAMOffset:      "HDLCAM",
	HDLCRIBOffset:     "HDLCRIB",
	HDLCStatusOffset:  "HDLCSTS",
}

func extendedRegister(offset uint32) bool {
	return offset >= ModemCtrlOffset
}
