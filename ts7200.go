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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/ts7200emu/ts7200/curated"
	"github.com/ts7200emu/ts7200/debugger"
	"github.com/ts7200emu/ts7200/debugger/gdb"
	"github.com/ts7200emu/ts7200/debugger/govern"
	"github.com/ts7200emu/ts7200/debugger/script"
	"github.com/ts7200emu/ts7200/hardware"
	"github.com/ts7200emu/ts7200/hardware/faults"
	"github.com/ts7200emu/ts7200/iobridge"
	"github.com/ts7200emu/ts7200/loader"
	"github.com/ts7200emu/ts7200/logger"
	"github.com/ts7200emu/ts7200/modalflag"
	"github.com/ts7200emu/ts7200/statsview"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "DEBUG")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	mode := govern.ModeRun
	if md.Mode() == "DEBUG" {
		mode = govern.ModeDebug
	}

	if err := emulate(md, mode); err != nil {
		fmt.Fprintf(os.Stderr, "* error in %s mode: %s\n", md, err)
		os.Exit(20)
	}
}

func emulate(md *modalflag.Modes, mode govern.Mode) error {
	md.NewMode()

	uart1 := md.AddString("uart1", "stdio", "uart1 endpoint: none, stdio, file:OUT[,in=IN], tcp:[HOST]:PORT")
	uart2 := md.AddString("uart2", "none", "uart2 endpoint: none, stdio, file:OUT[,in=IN], tcp:[HOST]:PORT")
	var gdbPort *int
	if mode == govern.ModeDebug {
		gdbPort = md.AddInt("gdb", gdb.DefaultPort, "port to listen on for gdb")
	}
	scr := md.AddString("script", "", "lua script to run before the emulation starts")
	log := md.AddBool("log", false, "echo log to stderr")
	stats := md.AddBool("statsview", false, "run stats server")
	dump := md.AddString("dump", "", "write graphviz dump of the board to file on exit")
	strict := md.AddBool("strict", false, "treat contract violations as fatal faults")

	md.AdditionalHelp("The ELF image of the kernel must be given as the only argument.")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr, true)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return curated.Errorf("elf image required for %s mode", md)
	case 1:
	default:
		return curated.Errorf("too many arguments for %s mode", md)
	}

	img, err := loader.LoadFile(md.GetArg(0))
	if err != nil {
		return err
	}

	ch1, err := openChannel("uart1", *uart1)
	if err != nil {
		return err
	}
	defer ch1.Close()

	ch2, err := openChannel("uart2", *uart2)
	if err != nil {
		return err
	}
	defer ch2.Close()

	cfg := hardware.Config{
		UART1:  ch1,
		UART2:  ch2,
		Strict: *strict,
	}

	// faults are echoed with the rest of the log when -log is given
	if !*log {
		cfg.Diagnostics = os.Stderr
	}

	board := hardware.NewBoard(cfg)

	if err := img.Boot(board); err != nil {
		return err
	}

	dbg := debugger.NewDebugger(board, debugger.Options{
		Mode:         mode,
		ExitOnReturn: true,
	})

	// ctrl-c typed into a console does not raise a signal while the terminal
	// is in raw mode
	ch1.OnInterrupt(dbg.Quit)
	ch2.OnInterrupt(dbg.Quit)

	if *scr != "" {
		if err := script.RunFile(dbg, *scr); err != nil {
			return err
		}
	}

	if *stats {
		stop := statsview.Launch(os.Stderr, "")
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// everything other than the emulation stops when the emulation stops
	ioCtx, ioCancel := context.WithCancel(ctx)
	defer ioCancel()

	g, gctx := errgroup.WithContext(ioCtx)
	g.Go(func() error {
		return ch1.Run(gctx)
	})
	g.Go(func() error {
		return ch2.Run(gctx)
	})
	if mode == govern.ModeDebug {
		g.Go(func() error {
			return gdb.NewBridge(dbg).ListenAndServe(gctx, fmt.Sprintf("localhost:%d", *gdbPort))
		})
	}
	g.Go(func() error {
		defer ioCancel()
		return dbg.Run(gctx)
	})

	err = g.Wait()

	// the emulation has ended and the board can be accessed from this
	// goroutine
	if board.Faults.Total() > 0 {
		board.Faults.WriteSummary(os.Stderr)
	}

	if faults.IsFatal(err) {
		fmt.Fprintln(os.Stderr, board.Snapshot())
	}

	if *dump != "" {
		f, ferr := os.Create(*dump)
		if ferr != nil {
			return curated.Errorf("dump: %v", ferr)
		}
		defer f.Close()
		board.DumpState(f)
	}

	return err
}

func openChannel(label string, endpoint string) (*iobridge.Channel, error) {
	cfg, err := iobridge.ParseConfig(endpoint)
	if err != nil {
		return nil, err
	}
	logger.Logf(logger.Allow, label, "connected to %s", cfg)
	return iobridge.Open(label, cfg)
}
