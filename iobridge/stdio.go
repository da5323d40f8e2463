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

//go:build unix

package iobridge

import (
	"io"
	"os"

	"github.com/pkg/term/termios"
	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/logger"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// milliseconds between checks for a closed channel while waiting for input
const pollTimeout = 100

// rawTerminal restores the terminal attributes when closed
type rawTerminal struct {
	fd       uintptr
	original unix.Termios
}

func enterRawMode(f *os.File) (*rawTerminal, error) {
	rt := &rawTerminal{fd: f.Fd()}
	if err := termios.Tcgetattr(rt.fd, &rt.original); err != nil {
		return nil, err
	}

	raw := rt.original
	termios.Cfmakeraw(&raw)

	// output processing is left on so that the kernel's line endings are
	// displayed as expected
	raw.Oflag = rt.original.Oflag

	if err := termios.Tcsetattr(rt.fd, termios.TCIFLUSH, &raw); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *rawTerminal) Close() error {
	return termios.Tcsetattr(rt.fd, termios.TCIFLUSH, &rt.original)
}

// pollReader reads from a file descriptor without blocking indefinitely. the
// read ends when the done channel is closed
type pollReader struct {
	f    *os.File
	done <-chan struct{}
}

func (pr pollReader) Read(p []byte) (int, error) {
	fds := []unix.PollFd{{Fd: int32(pr.f.Fd()), Events: unix.POLLIN}}
	for {
		select {
		case <-pr.done:
			return 0, io.EOF
		default:
		}

		n, err := unix.Poll(fds, pollTimeout)
		if err != nil {
			if err == unix.EINTR {
				continue // for loop
			}
			return 0, err
		}
		if n > 0 {
			return pr.f.Read(p)
		}
	}
}

func openStdio(label string) (*Channel, error) {
	c := NewConsole(label, nil, os.Stdout)
	c.in = pollReader{f: os.Stdin, done: c.done}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		rt, err := enterRawMode(os.Stdin)
		if err != nil {
			return nil, curated.Errorf("iobridge: %s: raw mode: %v", label, err)
		}
		c.closers = append(c.closers, rt)
		logger.Logf(logger.Allow, "iobridge", "%s: terminal in raw mode", label)
	}

	return c, nil
}
