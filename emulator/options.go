package emulator

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const (
	FrontendSDL      = "sdl"
	FrontendEbiten   = "ebiten"
	FrontendTerminal = "term"
	FrontendHeadless = "headless"
)

var ErrUnknownFrontend = errors.New("unknown frontend")

type Options struct {
	Frontend string
	Scale    int

	// headless
	Frames int
	PNGOut string

	Trace  bool
	Disasm bool
	Debug  bool
	Quiet  bool
}

func DefaultOptions() Options {
	return Options{
		Frontend: FrontendSDL,
		Scale:    10,
		Frames:   300,
	}
}

func (o Options) Validate() error {
	switch o.Frontend {
	case FrontendSDL, FrontendEbiten, FrontendTerminal, FrontendHeadless:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrontend, o.Frontend)
	}

	if o.Scale < 1 {
		return fmt.Errorf("invalid scale %d", o.Scale)
	}

	if o.Frontend == FrontendHeadless && o.Frames < 0 {
		return fmt.Errorf("invalid frame count %d", o.Frames)
	}

	return nil
}

// NewLogger creates a logger for the given verbosity. Tracing needs debug
// level to be visible.
func NewLogger(o Options) *log.Logger {
	cfg := log.DefaultConfig()
	if o.Debug || o.Trace {
		cfg.Level = log.DebugLevel
	} else if o.Quiet {
		cfg.Level = log.ErrorLevel
	}

	return log.NewWithConfig(cfg)
}
