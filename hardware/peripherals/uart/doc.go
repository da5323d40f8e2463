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

// Package uart implements the EP93xx UARTs. The transmit and receive paths
// each hold a single byte. There is no FIFO.
//
// Bytes are moved between the UART and the outside world by the Service()
// function, which the execution loop calls between instructions. A byte
// written to the Data register is therefore held in the transmit slot until
// the next service pass, and the transmit flags reflect that.
//
// The modelled behaviour deliberately favours diagnosable misuse over
// fidelity. Reading Data with nothing received and writing Data when the
// transmit slot is full are both contract violations, rather than stalls or
// silent data loss.
//
// The CTS flag is a known inaccuracy. It is high at all times except while the
// transmitter is busy.
//
// In loopback mode a transmitted byte waits in the transmit slot until the
// receive slot has been read, so a program that waits for TXFF to clear before
// each write reads every byte back in order.
package uart
