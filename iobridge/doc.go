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

// Package iobridge connects the UARTs of the emulated board to the outside
// world. A Channel implements the uart.Channel interface and is backed by
// goroutines that read from and write to a host endpoint: the process's
// standard input and output, a pair of files, or a TCP connection.
//
// The UART never blocks on a Channel. Received bytes are buffered until the
// UART asks for them and bytes for transmission are queued for the writer
// goroutine.
//
// Endpoints are described by a configuration string:
//
//	none                   disconnected
//	stdio                  standard input and output. the terminal is put into raw mode
//	file:OUT[,in=IN]       append output to OUT and optionally read input from IN
//	tcp:[HOST]:PORT        connect to a TCP server. HOST defaults to 127.0.0.1
//
// On the stdio endpoint the ctrl-c key is not passed to the UART and instead
// calls the function given to OnInterrupt(). The DEL key is sent as backspace.
package iobridge
