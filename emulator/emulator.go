package emulator

import (
	"context"
	"fmt"
	"time"

	"chip8emu/chip8"
	"chip8emu/chip8/display"

	"github.com/retroenv/retrogolib/log"
)

const (
	FrameRate             = 60
	InstructionsPerSecond = 400

	// CyclesPerFrame is the number of instructions executed between two
	// timer ticks.
	CyclesPerFrame = InstructionsPerSecond / FrameRate
)

type EventType int

const (
	KeyDown EventType = iota
	KeyUp
	Quit
)

// Event is an input event reported by a frontend. Key is a CHIP-8 key code
// in the range 0x0-0xF and is ignored for Quit.
type Event struct {
	Type EventType
	Key  uint8
}

// Frontend presents frames and reports input. Both methods are called from
// the emulation goroutine only.
type Frontend interface {
	Present(fb display.Framebuffer) error
	Events() ([]Event, error)
}

type Machine struct {
	cpu    *chip8.Chip8
	logger *log.Logger
	trace  bool
	frames uint64
}

func NewMachine(cpu *chip8.Chip8, logger *log.Logger, trace bool) *Machine {
	return &Machine{
		cpu:    cpu,
		logger: logger,
		trace:  trace,
	}
}

func (m *Machine) CPU() *chip8.Chip8 {
	return m.cpu
}

// Frames returns the number of frames completed so far.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Frame runs CyclesPerFrame instructions followed by a single timer tick.
func (m *Machine) Frame() error {
	for i := 0; i < CyclesPerFrame; i++ {
		err := m.cpu.Step()

		if m.trace {
			pc, opcode := m.cpu.LastInstruction()
			m.logger.Debug("Step",
				log.String("pc", fmt.Sprintf("0x%03X", pc)),
				log.String("opcode", fmt.Sprintf("0x%04X", uint16(opcode))),
				log.String("instruction", opcode.Mnemonic()))
		}

		if err != nil {
			return fmt.Errorf("failed to cycle: %w", err)
		}
	}

	m.cpu.TickTimers()
	m.frames++

	return nil
}

// Apply feeds events into the keypad. It reports whether a Quit event was
// seen; key events after it are still applied.
func (m *Machine) Apply(events []Event) (bool, error) {
	quit := false

	for _, e := range events {
		switch e.Type {
		case KeyDown, KeyUp:
			if err := m.cpu.SetKey(e.Key, e.Type == KeyDown); err != nil {
				return quit, fmt.Errorf("failed to set key: %w", err)
			}
		case Quit:
			quit = true
		}
	}

	return quit, nil
}

// Run drives the machine at FrameRate until the frontend asks to quit, the
// machine fails or ctx is done.
func Run(ctx context.Context, m *Machine, frontend Frontend) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	return loop(ctx, m, frontend, ticker.C)
}

// RunUnpaced is Run without the frame pacing.
func RunUnpaced(ctx context.Context, m *Machine, frontend Frontend) error {
	return loop(ctx, m, frontend, nil)
}

func loop(ctx context.Context, m *Machine, frontend Frontend, tick <-chan time.Time) error {
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		events, err := frontend.Events()
		if err != nil {
			return fmt.Errorf("failed to poll events: %w", err)
		}

		quit, err := m.Apply(events)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if err := m.Frame(); err != nil {
			return err
		}

		if err := frontend.Present(m.cpu.Framebuffer()); err != nil {
			return fmt.Errorf("failed to present: %w", err)
		}
	}
}
