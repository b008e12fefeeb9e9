package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"chip8emu/chip8"
	"chip8emu/chip8/disasm"
	"chip8emu/emulator"
	"chip8emu/emulator/ebitenui"
	"chip8emu/emulator/sdlui"
	"chip8emu/emulator/terminal"

	"github.com/faiface/mainthread"
	"github.com/retroenv/retrogolib/log"
)

func parseFlags(args []string) (emulator.Options, []string, error) {
	opts := emulator.DefaultOptions()

	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [OPTIONS] [FILENAME]\n", fs.Name())
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.Frontend, "frontend", opts.Frontend, "display frontend: sdl, ebiten, term or headless")
	fs.IntVar(&opts.Scale, "scale", opts.Scale, "window scale")
	fs.IntVar(&opts.Frames, "frames", opts.Frames, "frames to run in headless mode")
	fs.StringVar(&opts.PNGOut, "outpng", "", "write the last headless framebuffer to a PNG file")
	fs.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	fs.BoolVar(&opts.Disasm, "disasm", false, "print a ROM listing and exit")
	fs.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&opts.Quiet, "quiet", false, "only log errors")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, fs.Args(), flag.ErrHelp
	}

	return opts, fs.Args(), nil
}

func main() {
	opts, args, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	logger := emulator.NewLogger(opts)

	if err := opts.Validate(); err != nil {
		logger.Error("Invalid options", log.Err(err))
		os.Exit(2)
	}

	filename := args[0]

	if opts.Disasm {
		if err := listROM(filename); err != nil {
			logger.Error("Disassembling failed", log.Err(err))
			os.Exit(1)
		}
		return
	}

	cpu := chip8.New()
	cpu.Reset()

	if err := cpu.LoadROMFile(filename); err != nil {
		logger.Error("Loading ROM failed", log.String("rom", filename), log.Err(err))
		os.Exit(1)
	}

	var size int64
	if info, err := os.Stat(filename); err == nil {
		size = info.Size()
	}

	logger.Info("Loaded ROM",
		log.String("rom", filename),
		log.Int("size", int(size)),
		log.String("frontend", opts.Frontend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	machine := emulator.NewMachine(cpu, logger, opts.Trace)

	err = run(ctx, logger, machine, opts, filename)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Emulation failed", log.Err(err))
		stop()
		os.Exit(1)
	}
}

func listROM(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read ROM file: %w", err)
	}

	return disasm.Disassemble(os.Stdout, rom, chip8.ProgramStart)
}

func run(ctx context.Context, logger *log.Logger, machine *emulator.Machine, opts emulator.Options, filename string) error {
	title := fmt.Sprintf("Chip 8 - %s", filepath.Base(filename))

	switch opts.Frontend {
	case emulator.FrontendSDL:
		var err error
		mainthread.Run(func() {
			err = runSDL(ctx, machine, title, opts.Scale)
		})
		return err

	case emulator.FrontendEbiten:
		return ebitenui.NewApp(machine, title, opts.Scale).Run()

	case emulator.FrontendTerminal:
		t, err := terminal.New()
		if err != nil {
			return err
		}
		defer t.Close()

		return emulator.Run(ctx, machine, t)

	case emulator.FrontendHeadless:
		return runHeadless(ctx, logger, machine, opts)
	}

	return fmt.Errorf("%w: %q", emulator.ErrUnknownFrontend, opts.Frontend)
}

func runSDL(ctx context.Context, machine *emulator.Machine, title string, scale int) error {
	window, err := sdlui.New(title, scale)
	if err != nil {
		return fmt.Errorf("failed to init window: %w", err)
	}
	defer window.Close()

	return emulator.Run(ctx, machine, window)
}

func runHeadless(ctx context.Context, logger *log.Logger, machine *emulator.Machine, opts emulator.Options) error {
	h := &emulator.Headless{Frames: opts.Frames}

	if err := emulator.RunUnpaced(ctx, machine, h); err != nil {
		return err
	}

	fb := h.Last()
	logger.Info("Headless run finished",
		log.Int("frames", h.Presented()),
		log.String("fb_crc32", fmt.Sprintf("%08x", emulator.Checksum(fb))))

	if opts.PNGOut == "" {
		return nil
	}

	f, err := os.Create(opts.PNGOut)
	if err != nil {
		return fmt.Errorf("failed to create PNG file: %w", err)
	}
	defer f.Close()

	if err := emulator.WritePNG(f, fb, opts.Scale); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}

	logger.Info("Wrote framebuffer", log.String("path", opts.PNGOut))

	return f.Close()
}
