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

package iobridge

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/logger"
	"golang.org/x/sync/errgroup"
)

// buffer sizes of the receive and transmit queues
const (
	rxQueue = 1024
	txQueue = 4096
)

// the console key codes
const (
	keyInterrupt = 0x03
	keyDelete    = 0x7f
	keyBackspace = 0x08
)

// Channel is a byte pipe between a UART and a host endpoint. It implements
// the uart.Channel interface.
type Channel struct {
	label string

	rx chan byte
	tx chan byte

	in  io.Reader
	out io.Writer

	// console input has ctrl-c and DEL handling
	console     bool
	onInterrupt func()

	closers []io.Closer
	done    chan struct{}
	stop    sync.Once
	close   sync.Once

	// bytes dropped because the transmit queue was full
	dropped int
}

func newChannel(label string, in io.Reader, out io.Writer) *Channel {
	return &Channel{
		label: label,
		rx:    make(chan byte, rxQueue),
		tx:    make(chan byte, txQueue),
		in:    in,
		out:   out,
		done:  make(chan struct{}),
	}
}

// NewConsole creates a Channel with console key handling on the input.
func NewConsole(label string, in io.Reader, out io.Writer) *Channel {
	c := newChannel(label, in, out)
	c.console = true
	return c
}

// Open creates a Channel for the endpoint described by cfg. The stdio
// endpoint puts the terminal into raw mode until the Channel is closed.
func Open(label string, cfg Config) (*Channel, error) {
	switch cfg.Kind {
	case None:
		return newChannel(label, nil, nil), nil

	case Stdio:
		return openStdio(label)

	case File:
		out, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, curated.Errorf("iobridge: %s: %v", label, err)
		}
		c := newChannel(label, nil, out)
		c.closers = append(c.closers, out)
		if cfg.In != "" {
			in, err := os.Open(cfg.In)
			if err != nil {
				out.Close()
				return nil, curated.Errorf("iobridge: %s: %v", label, err)
			}
			c.in = in
			c.closers = append(c.closers, in)
		}
		return c, nil

	case TCP:
		conn, err := net.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
		if err != nil {
			return nil, curated.Errorf("iobridge: %s: %v", label, err)
		}
		c := newChannel(label, conn, conn)
		c.closers = append(c.closers, conn)
		return c, nil
	}

	return nil, curated.Errorf("iobridge: %s: unsupported endpoint (%s)", label, cfg.Kind)
}

// OnInterrupt sets the function called when ctrl-c is read from a console.
// Must be called before Run().
func (c *Channel) OnInterrupt(f func()) {
	c.onInterrupt = f
}

// TryRecv implements the uart.Channel interface.
func (c *Channel) TryRecv() (byte, bool) {
	select {
	case b := <-c.rx:
		return b, true
	default:
		return 0, false
	}
}

// Send implements the uart.Channel interface. If the transmit queue is full
// the byte is dropped.
func (c *Channel) Send(b byte) {
	select {
	case c.tx <- b:
	default:
		c.dropped++
		if c.dropped == 1 {
			logger.Logf(logger.Allow, "iobridge", "%s: transmit queue full. dropping output", c.label)
		}
	}
}

// Run moves bytes between the endpoint and the queues until the context is
// cancelled. Bytes still in the transmit queue when the context is cancelled
// are written before the endpoint is closed. The Channel is closed when Run
// returns.
func (c *Channel) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	flushed := make(chan struct{})
	if c.in != nil {
		g.Go(c.read)
	}
	if c.out != nil {
		g.Go(func() error {
			defer close(flushed)
			return c.write()
		})
	} else {
		close(flushed)
	}
	g.Go(func() error {
		<-ctx.Done()
		c.signalDone()
		<-flushed
		c.Close()
		return nil
	})

	return g.Wait()
}

func (c *Channel) signalDone() {
	c.stop.Do(func() {
		close(c.done)
	})
}

// Close the endpoint. Safe to call more than once.
func (c *Channel) Close() error {
	c.signalDone()

	var err error
	c.close.Do(func() {
		for _, cl := range c.closers {
			err = errors.Join(err, cl.Close())
		}
	})
	return err
}

func (c *Channel) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) read() error {
	var buf [256]byte

	for {
		n, err := c.in.Read(buf[:])

		for _, b := range buf[:n] {
			if c.console {
				switch b {
				case keyInterrupt:
					logger.Logf(logger.Allow, "iobridge", "%s: ctrl-c", c.label)
					if c.onInterrupt != nil {
						c.onInterrupt()
					}
					continue // for loop
				case keyDelete:
					b = keyBackspace
				}
			}

			select {
			case c.rx <- b:
			case <-c.done:
				return nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) || c.closed() {
				return nil
			}
			return curated.Errorf("iobridge: %s: %v", c.label, err)
		}
	}
}

// the time allowed for the final write once the channel is stopping
const flushTimeout = time.Second

func (c *Channel) write() error {
	buf := make([]byte, 0, txQueue)

	for {
		var stopping bool

		select {
		case b := <-c.tx:
			buf = append(buf[:0], b)
		case <-c.done:
			stopping = true
			buf = buf[:0]
		}

		// collect everything else that is waiting
		for more := true; more; {
			select {
			case b := <-c.tx:
				buf = append(buf, b)
			default:
				more = false
			}
		}

		if stopping {
			return c.flush(buf)
		}

		if _, err := c.out.Write(buf); err != nil {
			if c.closed() {
				return nil
			}
			return curated.Errorf("iobridge: %s: %v", c.label, err)
		}
	}
}

// flush writes the last of the transmit queue. a network peer that is not
// reading is given flushTimeout to accept it
func (c *Channel) flush(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if d, ok := c.out.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Now().Add(flushTimeout))
	}
	if _, err := c.out.Write(buf); err != nil {
		logger.Logf(logger.Allow, "iobridge", "%s: %d bytes of output lost: %v", c.label, len(buf), err)
	}
	return nil
}
