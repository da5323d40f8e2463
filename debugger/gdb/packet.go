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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Error replies.
const (
	errMalformed  = "E01"
	errRegister   = "E02"
	errAddress    = "E03"
	interruptByte = 0x03
)

// packet is a request read from the client. an interrupt is the single byte
// 0x03 sent outside of a packet. nak is a request to send the previous reply
// again
type packet struct {
	data      string
	interrupt bool
	nak       bool
}

// conn frames packets on the connection. reading is done in one goroutine
// and writing in another, so writes are serialised with a mutex
type conn struct {
	rw io.ReadWriter

	crit sync.Mutex
	w    *bufio.Writer

	noAck atomic.Bool
}

func newConn(rw io.ReadWriter) *conn {
	return &conn{
		rw: rw,
		w:  bufio.NewWriter(rw),
	}
}

func checksum(data string) uint8 {
	var sum uint8
	for i := 0; i < len(data); i++ {
		sum += data[i]
	}
	return sum
}

// escape the characters that cannot appear in the body of a packet
func escape(data string) string {
	if !strings.ContainsAny(data, "#$}*") {
		return data
	}
	s := strings.Builder{}
	for i := 0; i < len(data); i++ {
		switch c := data[i]; c {
		case '#', '$', '}', '*':
			s.WriteByte('}')
			s.WriteByte(c ^ 0x20)
		default:
			s.WriteByte(c)
		}
	}
	return s.String()
}

func (c *conn) writeRaw(s string) error {
	c.crit.Lock()
	defer c.crit.Unlock()
	if _, err := c.w.WriteString(s); err != nil {
		return err
	}
	return c.w.Flush()
}

// send a reply packet
func (c *conn) send(data string) error {
	data = escape(data)
	return c.writeRaw(fmt.Sprintf("$%s#%02x", data, checksum(data)))
}

// read packets from the connection until an error occurs or done is closed.
// packets with a bad checksum are refused with a nak and are not sent on the
// channel
func (c *conn) read(packets chan<- packet, done <-chan struct{}) error {
	deliver := func(p packet) bool {
		select {
		case packets <- p:
			return true
		case <-done:
			return false
		}
	}

	r := bufio.NewReader(c.rw)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}

		switch b {
		case interruptByte:
			if !deliver(packet{interrupt: true}) {
				return nil
			}
		case '-':
			if !deliver(packet{nak: true}) {
				return nil
			}
		case '$':
			data, err := r.ReadString('#')
			if err != nil {
				return err
			}
			data = strings.TrimSuffix(data, "#")

			var cs [2]byte
			if _, err := io.ReadFull(r, cs[:]); err != nil {
				return err
			}

			if !c.noAck.Load() {
				v, err := strconv.ParseUint(string(cs[:]), 16, 8)
				if err != nil || uint8(v) != checksum(data) {
					if err := c.writeRaw("-"); err != nil {
						return err
					}
					continue
				}
				if err := c.writeRaw("+"); err != nil {
					return err
				}
			}

			if !deliver(packet{data: unescape(data)}) {
				return nil
			}
		}

		// acknowledgements from the client and bytes outside of a packet are
		// ignored
	}
}

func unescape(data string) string {
	if !strings.Contains(data, "}") {
		return data
	}
	s := strings.Builder{}
	for i := 0; i < len(data); i++ {
		if data[i] == '}' && i+1 < len(data) {
			i++
			s.WriteByte(data[i] ^ 0x20)
			continue
		}
		s.WriteByte(data[i])
	}
	return s.String()
}
