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

import (
	"fmt"

	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/hardware/peripherals"
)

// Channel connects a UART to the outside world. Implementations must not
// block in either function.
type Channel interface {
	// TryRecv returns the next received byte if one is available
	TryRecv() (byte, bool)

	// Send queues a byte for transmission
	Send(b byte)
}

// UART is a single EP93xx UART.
type UART struct {
	label string

	// UART1 has modem control and HDLC registers. UART2 does not
	extended bool

	channel Channel

	rx     uint8
	rxFull bool

	tx     uint8
	txFull bool

	// number of service passes the received byte has been waiting for. the
	// receive timeout condition holds once a byte has waited for a full pass
	rxAge int

	rsr      uint32
	lcrh     uint32
	lcrm     uint32
	lcrl     uint32
	ctrl     uint32
	dmaCtrl  uint32
	modemCtl uint32
	hdlc     [5]uint32

	transmitted uint64
	received    uint64
}

// NewUART is the preferred method of initialisation for the UART type. The
// UART is created in the state left by the boot loader, which is to say
// enabled. A nil channel discards transmitted bytes and never receives.
func NewUART(label string, extended bool, channel Channel) *UART {
	return &UART{
		label:    label,
		extended: extended,
		channel:  channel,
		ctrl:     CtrlEnable,
	}
}

func (u *UART) String() string {
	return fmt.Sprintf("%s: ctrl=%#02x flag=%#02x intr=%#x", u.label, u.ctrl, u.flags(), u.status())
}

// Label implements the peripherals.Device interface.
func (u *UART) Label() string {
	return u.label
}

// Kind implements the peripherals.Device interface.
func (u *UART) Kind() string {
	return "UART"
}

// RegisterName implements the peripherals.Device interface.
func (u *UART) RegisterName(offset uint32) string {
	if extendedRegister(offset) && !u.extended {
		return ""
	}
	return registerNames[offset]
}

// SetChannel replaces the channel used by the UART.
func (u *UART) SetChannel(channel Channel) {
	u.channel = channel
}

func (u *UART) loopback() bool {
	return u.ctrl&CtrlLoopback == CtrlLoopback
}

// cts is high except while the transmitter is busy
func (u *UART) cts() bool {
	return !u.txFull
}

func (u *UART) flags() uint32 {
	var f uint32
	if u.cts() {
		f |= FlagCTS
	}
	if !u.txFull {
		f |= FlagTXFE
	} else {
		f |= FlagBusy | FlagTXFF
	}
	if u.rxFull {
		f |= FlagRXFF
	} else {
		f |= FlagRXFE
	}
	return f
}

// status returns the interrupt identification bits. a cause is only reported
// if it is enabled in the control register. the modem status cause is never
// raised, not even when CTS follows the transmitter
func (u *UART) status() uint32 {
	if u.ctrl&CtrlEnable == 0 {
		return 0
	}

	var s uint32
	if u.rxFull && u.ctrl&CtrlReceiveInt == CtrlReceiveInt {
		s |= IntReceive
	}
	if !u.txFull && u.ctrl&CtrlTransmitInt == CtrlTransmitInt {
		s |= IntTransmit
	}
	if u.rxFull && u.rxAge > 0 && u.ctrl&CtrlReceiveTimeout == CtrlReceiveTimeout {
		s |= IntReceiveTimeout
	}
	return s
}

// RxInterrupt returns the state of the receive interrupt line. The line is
// asserted for the receive and receive timeout causes.
func (u *UART) RxInterrupt() bool {
	return u.status()&(IntReceive|IntReceiveTimeout) != 0
}

// TxInterrupt returns the state of the transmit interrupt line.
func (u *UART) TxInterrupt() bool {
	return u.status()&IntTransmit != 0
}

// Interrupt returns the state of the combined interrupt line. The line is the
// OR of every enabled cause.
func (u *UART) Interrupt() bool {
	return u.status() != 0
}

// Counts returns the number of bytes transmitted and received.
func (u *UART) Counts() (uint64, uint64) {
	return u.transmitted, u.received
}

// Service moves bytes between the UART and its channel. A returned error is a
// ContractViolation caused by an overrun of the receive slot.
//
// In loopback mode the transmitted byte is held in the transmit slot until the
// receive slot is empty. The TXFF and BUSY flags stay set until then.
func (u *UART) Service() error {
	var err error

	if u.rxFull {
		u.rxAge++
	}

	if u.txFull {
		if u.loopback() {
			if !u.rxFull {
				err = u.receive(u.tx)
				u.txFull = false
				u.transmitted++
			}
		} else {
			if u.channel != nil {
				u.channel.Send(u.tx)
			}
			u.txFull = false
			u.transmitted++
		}
	}

	// the receive line is disconnected from the channel in loopback mode
	if !u.rxFull && !u.loopback() && u.channel != nil {
		if b, ok := u.channel.TryRecv(); ok {
			u.receive(b)
		}
	}

	return err
}

func (u *UART) receive(b uint8) error {
	if u.rxFull {
		u.rsr |= RSROverrun
		return faults.Violation("%s receive overrun: byte %#02x lost", u.label, b)
	}
	u.rx = b
	u.rxFull = true
	u.rxAge = 0
	u.received++
	return nil
}

// Read implements the peripherals.Device interface.
func (u *UART) Read(offset uint32, width peripherals.Width) (uint32, error) {
	if offset == DataOffset {
		if !u.rxFull {
			return peripherals.Sentinel(width), faults.Violation("%s read with receive slot empty", peripherals.RegisterPath(u, offset))
		}
		u.rxFull = false
		u.rxAge = 0
		return uint32(u.rx), nil
	}

	reg, err := peripherals.WordRegister(u, offset, width)
	if u.RegisterName(reg) == "" {
		v, rerr := peripherals.UnknownRead(u, offset, width)
		return v, peripherals.Worst(err, rerr)
	}

	var v uint32
	switch reg {
	case RSROffset:
		v = u.rsr
	case LCRHOffset:
		v = u.lcrh
	case LCRMOffset:
		v = u.lcrm
	case LCRLOffset:
		v = u.lcrl
	case CtrlOffset:
		v = u.ctrl
	case FlagOffset:
		v = u.flags()
	case IntIDOffset:
		v = u.status()
	case DMACtrlOffset:
		v = u.dmaCtrl
	case ModemCtrlOffset:
		v = u.modemCtl
	case ModemStatusOffset:
		if u.cts() {
			v = ModemStatusCTS
		}
	case HDLCCtrlOffset, HDLCAMVOffset, HDLCAMOffset, HDLCRIBOffset, HDLCStatusOffset:
		v = u.hdlc[(reg-HDLCCtrlOffset)/4]
	}

	return peripherals.ReadLane(v, offset, width), err
}

// Write implements the peripherals.Device interface.
func (u *UART) Write(offset uint32, width peripherals.Width, data uint32) error {
	if offset == DataOffset {
		if u.txFull {
			return faults.Violation("%s write of %#02x with transmit slot full", peripherals.RegisterPath(u, offset), data&0xff)
		}
		u.tx = uint8(data)
		u.txFull = true
		return nil
	}

	reg, err := peripherals.WordRegister(u, offset, width)
	if err != nil {
		data = peripherals.WriteLane(data, offset, width)
	}
	if u.RegisterName(reg) == "" {
		return peripherals.Worst(err, peripherals.UnknownWrite(u, offset, width, data))
	}

	switch reg {
	case RSROffset:
		// any write to the error clear register clears the receive status
		u.rsr = 0
	case LCRHOffset:
		u.lcrh = data & 0x7f
	case LCRMOffset:
		u.lcrm = data & 0xff
	case LCRLOffset:
		u.lcrl = data & 0xff
	case CtrlOffset:
		u.ctrl = data & 0xff
	case FlagOffset, ModemStatusOffset:
		return peripherals.Worst(err, peripherals.ReadOnly(u, reg))
	case IntIDOffset:
		// clears the modem status interrupt, which is never raised
	case DMACtrlOffset:
		u.dmaCtrl = data & 0x07
	case ModemCtrlOffset:
		u.modemCtl = data
	case HDLCCtrlOffset, HDLCAMVOffset, HDLCAMOffset, HDLCRIBOffset, HDLCStatusOffset:
		u.hdlc[(reg-HDLCCtrlOffset)/4] = data
	}

	return err
}
