// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/term"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/cpu"
	"github.com/jetsetilly/gopheradvance/hardware/dma"
	"github.com/jetsetilly/gopheradvance/hardware/preferences"
	"github.com/jetsetilly/gopheradvance/hardware/scheduler"
	"github.com/jetsetilly/gopheradvance/logger"
	"github.com/jetsetilly/gopheradvance/macro"
	"github.com/jetsetilly/gopheradvance/modalflag"
	"github.com/jetsetilly/gopheradvance/paths"
	"github.com/jetsetilly/gopheradvance/performance"
	"github.com/jetsetilly/gopheradvance/prefs"
	"github.com/jetsetilly/gopheradvance/rewind"
	"github.com/jetsetilly/gopheradvance/statsview"
	"github.com/jetsetilly/gopheradvance/version"
)

// exit values
const (
	exitOK    = 0
	exitParse = 10
	exitMode  = 20
)

func main() {
	// ctrl-c cancels the context. the emulation ends at the next frame
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitVal)
}

// launch parses the arguments and runs the selected mode. returns the value to
// use with os.Exit().
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "DUMP", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParse
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output)

	case "DUMP":
		err = dump(md, output)

	case "PERFORMANCE":
		err = perform(md, output)

	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitMode
	}

	return exitOK
}

// echo the central log to the output. colour is used if the output is a
// terminal
func setEcho(output io.Writer, echo bool) {
	if !echo {
		logger.SetEcho(nil, false)
		return
	}
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.SetEcho(logger.NewColorizer(output), true)
		return
	}
	logger.SetEcho(output, true)
}

// common flags for every mode that creates a System
type systemFlags struct {
	bios     *string
	skipBIOS *bool
	prefs    *string
}

func addSystemFlags(md *modalflag.Modes) systemFlags {
	return systemFlags{
		bios:     md.AddString("bios", "", "BIOS image. overrides the hardware.biosFile preference"),
		skipBIOS: md.AddBool("skipbios", true, "start execution at the cartridge"),
		prefs:    md.AddString("prefs", "", "preferences for this run only (eg. \"rewind.maxEntries::10\")"),
	}
}

// push the preferences given on the command line. the returned function
// should be called once every preference has been loaded
func (flgs systemFlags) pushPrefs() func() {
	if *flgs.prefs == "" {
		return func() {}
	}
	prefs.PushCommandLineStack(*flgs.prefs)
	return func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "prefs", "unused preferences: %s", unused)
		}
	}
}

// create the System from the cartridge file named on the command line
func createSystem(md *modalflag.Modes, flgs systemFlags) (*hardware.System, error) {
	if len(md.RemainingArgs()) != 1 {
		return nil, curated.Errorf("cartridge required for %s mode", md)
	}

	hwPrefs, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	md.Visit(func(flag string) {
		switch flag {
		case "skipbios":
			hwPrefs.SkipBIOS.Set(*flgs.skipBIOS)
		case "bios":
			hwPrefs.BIOSFile.Set(*flgs.bios)
		}
	})

	rom, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return nil, err
	}

	var bios []uint8
	if fn := hwPrefs.BIOSFile.Get().(string); fn != "" {
		bios, err = os.ReadFile(fn)
		if err != nil {
			return nil, err
		}
	}

	return hardware.NewSystem(hwPrefs, rom, bios)
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	flgs := addSystemFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to run. zero runs until interrupted")
	mcr := md.AddString("macro", "", "lua macro to run")
	saveState := md.AddString("savestate", "", "write a save-state to file at the end of the run. AUTO creates a unique filename")
	loadState := md.AddString("loadstate", "", "load a save-state from file before running")
	log := md.AddBool("log", false, "echo log to output")
	stats := md.AddBool("statsview", false, "run stats server (requires statsview build tag)")
	rwd := md.AddInt("rewind", 0, "number of frames to rewind at the end of the run")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	defer flgs.pushPrefs()()

	setEcho(output, *log)

	if *stats {
		if !statsview.Available() {
			return curated.Errorf("statsview not available in this build")
		}
		statsview.Launch(output)
	}

	sys, err := createSystem(md, flgs)
	if err != nil {
		return err
	}

	if *loadState != "" {
		f, err := os.Open(*loadState)
		if err != nil {
			return err
		}
		err = sys.LoadState(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	var rw *rewind.Rewind
	if *rwd > 0 {
		rwPrefs, err := rewind.NewPreferences()
		if err != nil {
			return err
		}
		rw, err = rewind.NewRewind(sys, rwPrefs)
		if err != nil {
			return err
		}
	}

	if *mcr != "" {
		m, err := macro.NewMacro(*mcr, sys)
		if err != nil {
			return err
		}
		err = m.Run(ctx)
		if err != nil {
			return err
		}
	} else {
		for n := 0; *frames == 0 || n < *frames; n++ {
			if ctx.Err() != nil {
				break // for loop
			}
			if err := sys.RunFrame(); err != nil {
				return err
			}
			if rw != nil {
				if err := rw.Check(); err != nil {
					return err
				}
			}
		}
	}

	if rw != nil {
		if err := rw.Back(*rwd); err != nil {
			return err
		}
	}

	if *saveState != "" {
		if strings.ToUpper(*saveState) == "AUTO" {
			*saveState = paths.UniqueFilename("state", sys.Header().Title) + ".gbastate"
		}

		var b bytes.Buffer
		err := sys.SaveState(&b)
		if err != nil {
			return err
		}
		err = os.WriteFile(*saveState, b.Bytes(), 0o644)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "save-state written to %s\n", *saveState)
	}

	fmt.Fprintf(output, "%s\n", sys)
	fmt.Fprintf(output, "frame %d, cycle %d\n", sys.FrameNum(), sys.Now())

	return nil
}

// dumpState is the part of the System that is drawn by the DUMP mode. the
// System itself is too large to draw usefully
type dumpState struct {
	Cartridge string
	CRC       uint32
	Frame     int
	Cycle     uint64
	Mode      cpu.Mode
	Registers [cpu.NumRegisters]uint32
	CPSR      uint32
	IE        uint16
	IF        uint16
	IME       bool
	Events    []scheduler.Event
	DMA       [dma.NumChannels]dma.Channel
}

func newDumpState(sys *hardware.System) *dumpState {
	d := &dumpState{
		Cartridge: sys.Header().String(),
		CRC:       sys.CRC(),
		Frame:     sys.FrameNum(),
		Cycle:     sys.Now(),
		Mode:      sys.CPU.Mode(),
		Registers: sys.CPU.Registers(),
		CPSR:      sys.CPU.CPSR(),
		IE:        sys.IRQ.IE,
		IF:        sys.IRQ.IF,
		IME:       sys.IRQ.IME,
		Events:    sys.Sched.Pending(),
	}
	for ch := range d.DMA {
		d.DMA[ch] = sys.DMA.Channel(ch)
	}
	return d
}

func dump(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	flgs := addSystemFlags(md)
	frames := md.AddInt("frames", 1, "number of frames to run before dumping")
	out := md.AddString("out", "", "file to write graphviz description to. default is the output")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	defer flgs.pushPrefs()()

	sys, err := createSystem(md, flgs)
	if err != nil {
		return err
	}

	for range *frames {
		if err := sys.RunFrame(); err != nil {
			return err
		}
	}

	w := output
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	memviz.Map(w, newDumpState(sys))

	return nil
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	flgs := addSystemFlags(md)
	duration := md.AddString("duration", "5s", "run duration (with an additional 2s leadtime)")
	profile := md.AddString("profile", "none", "create profiling data: CPU, MEM, TRACE, ALL or NONE")
	log := md.AddBool("log", false, "echo log to output")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	defer flgs.pushPrefs()()

	setEcho(output, *log)

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	sys, err := createSystem(md, flgs)
	if err != nil {
		return err
	}

	return performance.Check(output, prf, sys, *duration)
}
