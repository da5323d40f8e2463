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
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/debugger"
	"github.com/ts7200emu/ts7200/debugger/govern"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/logger"
)

// DefaultPort is the port gdb connects to if no other port is given.
const DefaultPort = 9001

// the largest packet the client may send and the largest reply to a memory
// read, in characters
const packetSize = 0x4000

// Bridge serves the remote serial protocol for a Target.
type Bridge struct {
	target Target
	conn   *conn

	packets chan packet
	readErr chan error

	// the previous reply. sent again if the client asks for it
	lastReply string

	// the reply to the '?' request
	lastStop string
}

// NewBridge is the preferred method of initialisation for the Bridge type.
func NewBridge(target Target) *Bridge {
	return &Bridge{
		target:   target,
		lastStop: "S05",
	}
}

// ListenAndServe waits for one client on the address and serves it. Returns
// when the session ends or the context is cancelled.
func (br *Bridge) ListenAndServe(ctx context.Context, address string) error {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return curated.Errorf("gdb: %v", err)
	}
	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	logger.Logf(logger.Allow, "gdb", "waiting for connection on %s", l.Addr())

	c, err := l.Accept()
	l.Close()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return curated.Errorf("gdb: %v", err)
	}
	defer c.Close()

	logger.Logf(logger.Allow, "gdb", "connection from %s", c.RemoteAddr())

	// closing the connection ends the read goroutine in Serve()
	unblock := context.AfterFunc(ctx, func() { c.Close() })
	defer unblock()

	return br.Serve(ctx, c)
}

// Serve the protocol on an established connection. Returns when the client
// detaches or kills the emulation, when the emulation stops, or when the
// connection is lost. A lost connection detaches the debugger and the
// emulation continues.
func (br *Bridge) Serve(ctx context.Context, rw io.ReadWriter) error {
	br.conn = newConn(rw)
	br.packets = make(chan packet)
	br.readErr = make(chan error, 1)

	done := make(chan struct{})
	defer close(done)
	go func() {
		br.readErr <- br.conn.read(br.packets, done)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-br.readErr:
			br.lost(err)
			return nil

		case p := <-br.packets:
			switch {
			case p.nak:
				if err := br.conn.send(br.lastReply); err != nil {
					return curated.Errorf("gdb: %v", err)
				}

			case p.interrupt:
				br.target.Pause()

			default:
				reply, end := br.dispatch(ctx, p.data)

				// the request has been acknowledged already. the reply to it
				// is the last one that is acknowledged by the client
				if p.data == "QStartNoAckMode" {
					br.conn.noAck.Store(true)
				}

				if reply != nil {
					br.lastReply = *reply
					if err := br.conn.send(*reply); err != nil {
						return curated.Errorf("gdb: %v", err)
					}
				}
				if end {
					logger.Logf(logger.Allow, "gdb", "session ended")
					return nil
				}
			}
		}
	}
}

func (br *Bridge) lost(err error) {
	logger.Logf(logger.Allow, "gdb", "connection lost: %v", err)
	if err := br.target.Detach(); err != nil {
		logger.Logf(logger.Allow, "gdb", "%v", err)
	}
}

func reply(s string) *string {
	return &s
}

// dispatch a request. returns the reply, or nil if there is no reply, and
// whether the session has ended
func (br *Bridge) dispatch(ctx context.Context, data string) (*string, bool) {
	if data == "" {
		return reply(""), false
	}

	switch data[0] {
	case '?':
		return reply(br.lastStop), false
	case 'g':
		return reply(br.readRegisters()), false
	case 'G':
		return reply(br.writeRegisters(data[1:])), false
	case 'p':
		return reply(br.readRegister(data[1:])), false
	case 'P':
		return reply(br.writeRegister(data[1:])), false
	case 'm':
		return reply(br.readMemory(data[1:])), false
	case 'M':
		return reply(br.writeMemory(data[1:])), false
	case 'Z', 'z':
		return reply(br.point(data[0] == 'Z', data[1:])), false
	case 'c':
		return br.resume(ctx, false, data[1:])
	case 's':
		return br.resume(ctx, true, data[1:])
	case 'k':
		if err := br.target.Kill(); err != nil {
			logger.Logf(logger.Allow, "gdb", "%v", err)
		}
		return nil, true
	case 'D':
		if err := br.target.Detach(); err != nil {
			return reply(errMalformed), true
		}
		return reply("OK"), true
	case 'H', 'T':
		// there is only one thread
		return reply("OK"), false
	}

	switch {
	case strings.HasPrefix(data, "qSupported"):
		return reply(fmt.Sprintf("PacketSize=%x;qXfer:features:read+;QStartNoAckMode+;swbreak+;hwbreak+", packetSize)), false
	case data == "QStartNoAckMode":
		return reply("OK"), false
	case data == "qAttached":
		return reply("1"), false
	case data == "qC":
		return reply("QC1"), false
	case data == "qfThreadInfo":
		return reply("m1"), false
	case data == "qsThreadInfo":
		return reply("l"), false
	case strings.HasPrefix(data, "qXfer:features:read:target.xml:"):
		return reply(features(strings.TrimPrefix(data, "qXfer:features:read:target.xml:"))), false
	}

	return reply(""), false
}

func parseHex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}

// parse "addr,length"
func parseRange(s string) (uint32, uint32, error) {
	a, l, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, curated.Errorf("no length")
	}
	address, err := parseHex(a)
	if err != nil {
		return 0, 0, err
	}
	length, err := parseHex(l)
	if err != nil {
		return 0, 0, err
	}
	return address, length, nil
}

func encodeRegister(v uint32) string {
	return hex.EncodeToString(binary.LittleEndian.AppendUint32(nil, v))
}

func decodeRegister(s string) (uint32, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 4 {
		return 0, curated.Errorf("bad register value: %s", s)
	}
	return binary.LittleEndian.Uint32(b), nil
}

var fpaZero = strings.Repeat("00", fpaLength)

func (br *Bridge) readRegisters() string {
	regs, err := br.target.Registers()
	if err != nil {
		return errMalformed
	}

	s := strings.Builder{}
	for i := 0; i <= regPC; i++ {
		s.WriteString(encodeRegister(regs[i]))
	}
	for range regFPS - regF0 {
		s.WriteString(fpaZero)
	}
	s.WriteString(encodeRegister(0))
	s.WriteString(encodeRegister(regs[cpu.CPSR]))
	return s.String()
}

func (br *Bridge) writeRegisters(data string) string {
	if len(data) != (regF0+2)*8+(regFPS-regF0)*fpaLength*2 {
		return errMalformed
	}

	var regs [regF0]uint32
	for i := range regs {
		v, err := decodeRegister(data[i*8 : i*8+8])
		if err != nil {
			return errMalformed
		}
		regs[i] = v
	}
	cpsr, err := decodeRegister(data[len(data)-8:])
	if err != nil {
		return errMalformed
	}

	// the CPSR is written first so that the general purpose registers are
	// written to the banks of the new mode
	if err := br.target.SetRegister(cpu.CPSR, cpsr); err != nil {
		return errRegister
	}
	for i, v := range regs {
		if err := br.target.SetRegister(i, v); err != nil {
			return errRegister
		}
	}
	return "OK"
}

func (br *Bridge) readRegister(data string) string {
	n, err := parseHex(data)
	if err != nil {
		return errMalformed
	}

	switch {
	case n <= regPC || n == regCPSR:
		regs, err := br.target.Registers()
		if err != nil {
			return errMalformed
		}
		if n == regCPSR {
			return encodeRegister(regs[cpu.CPSR])
		}
		return encodeRegister(regs[n])
	case n < regFPS:
		return fpaZero
	case n == regFPS:
		return encodeRegister(0)
	}

	return errRegister
}

func (br *Bridge) writeRegister(data string) string {
	r, val, ok := strings.Cut(data, "=")
	if !ok {
		return errMalformed
	}
	n, err := parseHex(r)
	if err != nil {
		return errMalformed
	}

	switch {
	case n <= regPC || n == regCPSR:
		v, err := decodeRegister(val)
		if err != nil {
			return errMalformed
		}
		if n == regCPSR {
			n = cpu.CPSR
		}
		if err := br.target.SetRegister(int(n), v); err != nil {
			return errRegister
		}
		return "OK"
	case n < numRegs:
		// writes to the FPA registers are ignored
		return "OK"
	}

	return errRegister
}

func (br *Bridge) readMemory(data string) string {
	address, length, err := parseRange(data)
	if err != nil || length > packetSize/2 {
		return errMalformed
	}
	b, err := br.target.ReadMemory(address, int(length))
	if err != nil {
		return errAddress
	}
	return hex.EncodeToString(b)
}

func (br *Bridge) writeMemory(data string) string {
	r, val, ok := strings.Cut(data, ":")
	if !ok {
		return errMalformed
	}
	address, length, err := parseRange(r)
	if err != nil {
		return errMalformed
	}
	b, err := hex.DecodeString(val)
	if err != nil || len(b) != int(length) {
		return errMalformed
	}
	if err := br.target.WriteMemory(address, b); err != nil {
		return errAddress
	}
	return "OK"
}

// insert or remove a breakpoint or watchpoint. the request is "type,addr,kind"
func (br *Bridge) point(insert bool, data string) string {
	parts := strings.Split(data, ",")
	if len(parts) < 3 {
		return errMalformed
	}
	address, err := parseHex(parts[1])
	if err != nil {
		return errMalformed
	}
	kind, err := parseHex(strings.SplitN(parts[2], ";", 2)[0])
	if err != nil {
		return errMalformed
	}

	w := debugger.Watch{Address: address, Length: kind}

	switch parts[0] {
	case "0", "1":
		if insert {
			err = br.target.AddBreakpoint(address)
		} else {
			err = br.target.DropBreakpoint(address)
		}
		if err != nil {
			return errMalformed
		}
		return "OK"
	case "2":
		w.Event = debugger.WatchWrite
	case "3":
		w.Event = debugger.WatchRead
	case "4":
		w.Event = debugger.WatchAny
	default:
		return ""
	}

	if insert {
		err = br.target.AddWatch(w)
	} else {
		err = br.target.DropWatch(w)
	}
	if err != nil {
		return errMalformed
	}
	return "OK"
}

// resume the emulation and wait for it to stop
func (br *Bridge) resume(ctx context.Context, step bool, data string) (*string, bool) {
	if data != "" {
		address, err := parseHex(data)
		if err != nil {
			return reply(errMalformed), false
		}
		if err := br.target.SetRegister(cpu.PC, address); err != nil {
			return reply(errRegister), false
		}
	}

	// discard any stop that happened before the request
	select {
	case <-br.target.Stops():
	default:
	}

	var err error
	if step {
		err = br.target.Step()
	} else {
		err = br.target.Continue()
	}
	if err != nil {
		return reply("X02"), true
	}

	for {
		select {
		case s := <-br.target.Stops():
			br.lastStop = stopReply(s)
			return reply(br.lastStop), s.State == govern.Stopped
		case p := <-br.packets:
			if p.interrupt {
				br.target.Pause()
			}
		case err := <-br.readErr:
			br.lost(err)
			return nil, true
		case <-ctx.Done():
			return nil, true
		}
	}
}

// stopReply returns the reply packet for the stop
func stopReply(s debugger.Stop) string {
	if s.State == govern.Stopped {
		switch s.Reason {
		case govern.ReturnedToBootloader:
			return fmt.Sprintf("W%02x", uint8(s.ExitCode))
		case govern.Fault:
			return "X06"
		case govern.Killed:
			return "X09"
		}
		return "X02"
	}

	switch s.Reason {
	case govern.UserInterrupt:
		return "S02"
	case govern.Breakpoint:
		return "T05swbreak:;"
	case govern.Watchpoint:
		kind := "awatch"
		switch s.Watch.Event {
		case debugger.WatchWrite:
			kind = "watch"
		case debugger.WatchRead:
			kind = "rwatch"
		}
		return fmt.Sprintf("T05%s:%x;", kind, s.Address)
	}

	return "S05"
}

// features returns a part of the target description. the request is
// "offset,length"
func features(data string) string {
	offset, length, err := parseRange(data)
	if err != nil {
		return errMalformed
	}
	if int(offset) >= len(targetXML) {
		return "l"
	}
	end := int(offset) + int(length)
	if end >= len(targetXML) {
		return "l" + targetXML[offset:]
	}
	return "m" + targetXML[offset:end]
}
