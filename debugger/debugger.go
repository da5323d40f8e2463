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

package debugger

import (
	"context"
	"sync/atomic"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/debugger/govern"
	"github.com/ts7200emu/ts7200/hardware"
	"github.com/ts7200emu/ts7200/hardware/cpu"
	"github.com/ts7200emu/ts7200/loader"
	"github.com/ts7200emu/ts7200/logger"
)

// NotRunning is the error pattern returned by Call() once the emulation has
// stopped.
const NotRunning = "debugger: emulation is not running"

// Options for NewDebugger().
type Options struct {
	Mode govern.Mode

	// stop the emulation when the program counter reaches the return address
	// of the bootloader
	ExitOnReturn bool
}

// Stop describes why the emulation left the Running state.
type Stop struct {
	State  govern.State
	Reason govern.Reason

	// address of the next instruction
	PC uint32

	// the watch and the address of the access that caused a Watchpoint stop
	Watch   Watch
	Address uint32

	// value of r0 when the program returned to the bootloader
	ExitCode uint32
}

// Debugger is the execution loop of the emulation.
type Debugger struct {
	board *hardware.Board
	mode  govern.Mode

	state  govern.State
	reason govern.Reason

	halt *haltCoordination

	exitOnReturn bool

	// requests from other goroutines. polled between instructions
	quit  atomic.Bool
	pause atomic.Bool

	// wakes the loop when it is waiting in the Stepping state
	wake chan struct{}

	// functions to be run in the emulation goroutine
	commands chan func()

	// the most recent stop. only the emulation goroutine sends to the channel
	stops chan Stop

	started atomic.Bool
	done    chan struct{}

	// the fault that stopped the emulation
	err error
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type.
func NewDebugger(board *hardware.Board, opts Options) *Debugger {
	dbg := &Debugger{
		board:        board,
		mode:         opts.Mode,
		exitOnReturn: opts.ExitOnReturn,
		wake:         make(chan struct{}, 1),
		commands:     make(chan func()),
		stops:        make(chan Stop, 1),
		done:         make(chan struct{}),
	}
	dbg.halt = newHaltCoordination(dbg)

	if dbg.mode == govern.ModeDebug {
		dbg.state = govern.Stepping
		dbg.reason = govern.Attached
	} else {
		dbg.state = govern.Running
	}

	return dbg
}

// Mode returns the mode the debugger was created with.
func (dbg *Debugger) Mode() govern.Mode {
	return dbg.mode
}

// State returns the current state and the reason for it. Must only be called
// from the emulation goroutine, or from a function passed to Call().
func (dbg *Debugger) State() (govern.State, govern.Reason) {
	return dbg.state, dbg.reason
}

// Stops returns the channel on which the debugger reports each stop. Only the
// most recent stop is kept.
func (dbg *Debugger) Stops() <-chan Stop {
	return dbg.stops
}

// Quit stops the emulation at the next instruction boundary. Safe to call
// from any goroutine.
func (dbg *Debugger) Quit() {
	dbg.quit.Store(true)
	dbg.notify()
}

// Pause moves the emulation to the Stepping state at the next instruction
// boundary. Safe to call from any goroutine.
func (dbg *Debugger) Pause() {
	dbg.pause.Store(true)
	dbg.notify()
}

func (dbg *Debugger) notify() {
	select {
	case dbg.wake <- struct{}{}:
	default:
	}
}

// Call runs the function in the emulation goroutine and waits for it to
// complete. Before Run() is called the function is run immediately in the
// calling goroutine.
func (dbg *Debugger) Call(f func()) error {
	if !dbg.started.Load() {
		f()
		return nil
	}

	done := make(chan struct{})
	select {
	case dbg.commands <- func() {
		f()
		close(done)
	}:
	case <-dbg.done:
		return curated.Errorf(NotRunning)
	}
	<-done

	return nil
}

// setState changes the state and, for a change to the Stepping or Stopped
// state, reports the stop
func (dbg *Debugger) setState(state govern.State, reason govern.Reason) {
	if !govern.StateIntegrity(state, reason) {
		logger.Logf(logger.Allow, "debugger", "state %s is not valid for reason %s", state, reason)
	}

	dbg.state = state
	dbg.reason = reason

	if state != govern.Stepping && state != govern.Stopped {
		return
	}

	stop := Stop{
		State:  state,
		Reason: reason,
		PC:     dbg.board.PC(),
	}
	switch reason {
	case govern.Watchpoint:
		stop.Watch = dbg.halt.triggered
		stop.Address = dbg.halt.triggeredAddress
	case govern.ReturnedToBootloader:
		stop.ExitCode = dbg.board.CPU.Core().Register(0)
	}

	select {
	case <-dbg.stops:
	default:
	}
	dbg.stops <- stop
}

// Run the emulation until it is stopped. Cancelling the context has the same
// effect as calling Quit(). The returned error is the fault that stopped the
// emulation, if any.
func (dbg *Debugger) Run(ctx context.Context) error {
	defer close(dbg.done)
	dbg.started.Store(true)

	cancel := context.AfterFunc(ctx, dbg.Quit)
	defer cancel()

	logger.Logf(logger.Allow, "debugger", "emulation starting in %s mode", dbg.mode)

	// report the initial stop in debug mode
	if dbg.state == govern.Stepping {
		dbg.setState(dbg.state, dbg.reason)
	}

	for {
		switch dbg.state {
		case govern.Stopped:
			logger.Logf(logger.Allow, "debugger", "emulation stopped: %s", dbg.reason)
			return dbg.err

		case govern.Stepping:
			select {
			case f := <-dbg.commands:
				f()
			case <-dbg.wake:
				if dbg.quit.Load() {
					dbg.setState(govern.Stopped, govern.UserInterrupt)
				}
				// already stepping
				dbg.pause.Store(false)
			}

		case govern.Running, govern.Halted:
			dbg.check(false)
			if dbg.state != govern.Running && dbg.state != govern.Halted {
				continue
			}

			dbg.halt.prepare()
			if err := dbg.board.Run(dbg.continueCheck); err != nil {
				dbg.err = err
				dbg.setState(govern.Stopped, govern.Fault)
			}

		default:
			return curated.Errorf("debugger: unsupported emulation state (%d) in Run() function", dbg.state)
		}
	}
}

// continueCheck is called by the board after every step
func (dbg *Debugger) continueCheck() (govern.State, error) {
	dbg.check(true)
	dbg.halt.prepare()
	return dbg.state, nil
}

// check the conditions that change the state of a running emulation. stepped
// is true if the board has been stepped since the last call to
// halt.prepare()
func (dbg *Debugger) check(stepped bool) {
	select {
	case f := <-dbg.commands:
		f()
		if dbg.state != govern.Running && dbg.state != govern.Halted {
			return
		}
	default:
	}

	if dbg.quit.Load() {
		dbg.setState(govern.Stopped, govern.UserInterrupt)
		return
	}

	if dbg.exitOnReturn && dbg.board.PC() == loader.BootloaderReturn {
		r0 := dbg.board.CPU.Core().Register(0)
		logger.Logf(logger.Allow, "debugger", "program returned to bootloader with r0=%d (%#08x)", int32(r0), r0)
		dbg.setState(govern.Stopped, govern.ReturnedToBootloader)
		return
	}

	if dbg.pause.Swap(false) {
		dbg.setState(govern.Stepping, govern.UserInterrupt)
		return
	}

	if stepped {
		if reason := dbg.halt.check(); reason != govern.NoReason {
			dbg.setState(govern.Stepping, reason)
			return
		}
	}

	if dbg.board.Halted() {
		dbg.state = govern.Halted
	} else {
		dbg.state = govern.Running
	}
	dbg.reason = govern.NoReason
}

// Continue the emulation. Has no effect unless the emulation is in the
// Stepping state.
func (dbg *Debugger) Continue() error {
	return dbg.Call(func() {
		if dbg.state == govern.Stepping {
			dbg.setState(govern.Running, govern.NoReason)
		}
	})
}

// Step the emulation by one instruction and return to the Stepping state. If
// an interrupt is pending the step enters the exception vector.
func (dbg *Debugger) Step() error {
	return dbg.Call(func() {
		if dbg.state == govern.Stepping {
			dbg.halt.singleStep = true
			dbg.setState(govern.Running, govern.NoReason)
		}
	})
}

// Kill stops the emulation.
func (dbg *Debugger) Kill() error {
	return dbg.Call(func() {
		dbg.setState(govern.Stopped, govern.Killed)
	})
}

// Detach removes every breakpoint and watch and continues the emulation
// without a debugger. The emulation can still be stopped with Quit().
func (dbg *Debugger) Detach() error {
	return dbg.Call(func() {
		dbg.halt.breakpoints.clear()
		dbg.halt.watches.clear()
		dbg.halt.singleStep = false
		dbg.setState(govern.Running, govern.NoReason)
		logger.Logf(logger.Allow, "debugger", "%s", govern.Detached)
	})
}

// Registers returns the general purpose registers of the current mode
// followed by the CPSR.
func (dbg *Debugger) Registers() ([]uint32, error) {
	regs := make([]uint32, cpu.CPSR+1)
	err := dbg.Call(func() {
		for i := range regs {
			regs[i] = dbg.board.CPU.Core().Register(i)
		}
	})
	return regs, err
}

// SetRegister sets a general purpose register or the CPSR.
func (dbg *Debugger) SetRegister(n int, value uint32) error {
	if n < 0 || n > cpu.SPSR {
		return curated.Errorf("debugger: no register %d", n)
	}
	return dbg.Call(func() {
		dbg.board.CPU.Core().SetRegister(n, value)
	})
}
