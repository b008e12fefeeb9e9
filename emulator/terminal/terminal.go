// Package terminal draws the framebuffer with termbox. Terminals report key
// presses but never releases, so a key counts as held for a few frames after
// its last press.
package terminal

import (
	"fmt"

	"chip8emu/chip8"
	"chip8emu/chip8/display"
	"chip8emu/emulator"

	"github.com/nsf/termbox-go"
)

// keyHoldFrames covers the gap between a key press and the terminal's
// auto-repeat.
const keyHoldFrames = 8

var _ emulator.Frontend = (*Terminal)(nil)

type Terminal struct {
	events chan termbox.Event
	done   chan struct{}
	keys   holdKeys
}

func New() (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("failed to init termbox: %w", err)
	}

	termbox.SetInputMode(termbox.InputEsc)

	t := &Terminal{
		events: make(chan termbox.Event, 64),
		done:   make(chan struct{}),
	}

	go t.poll()

	return t, nil
}

func (t *Terminal) poll() {
	defer close(t.done)

	for {
		e := termbox.PollEvent()
		if e.Type == termbox.EventInterrupt {
			return
		}

		select {
		case t.events <- e:
		default: // drop input while the emulation thread is behind
		}
	}
}

func (t *Terminal) Close() {
	termbox.Interrupt()
	<-t.done
	termbox.Close()
}

func (t *Terminal) Events() ([]emulator.Event, error) {
	events := t.keys.tick()

	for {
		select {
		case e := <-t.events:
			switch e.Type {
			case termbox.EventError:
				return events, fmt.Errorf("terminal input: %w", e.Err)
			case termbox.EventKey:
				if e.Key == termbox.KeyEsc || e.Key == termbox.KeyCtrlC {
					events = append(events, emulator.Event{Type: emulator.Quit})
					continue
				}

				if key, ok := emulator.KeyForRune(e.Ch); ok {
					events = append(events, t.keys.press(key)...)
				}
			}
		default:
			return events, nil
		}
	}
}

func (t *Terminal) Present(fb display.Framebuffer) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}

	w, h := termbox.Size()

	for y := 0; y < display.DisplayHeight && y < h; y++ {
		for x := 0; x < display.DisplayWidth && 2*x+1 < w; x++ {
			if fb[y][x] {
				termbox.SetCell(2*x, y, ' ', termbox.ColorWhite, termbox.ColorWhite)
				termbox.SetCell(2*x+1, y, ' ', termbox.ColorWhite, termbox.ColorWhite)
			}
		}
	}

	return termbox.Flush()
}

// holdKeys releases each pressed key keyHoldFrames frames after its last
// press.
type holdKeys [chip8.KeyCount]int

func (k *holdKeys) press(key uint8) []emulator.Event {
	var events []emulator.Event
	if k[key] == 0 {
		events = append(events, emulator.Event{Type: emulator.KeyDown, Key: key})
	}

	k[key] = keyHoldFrames

	return events
}

func (k *holdKeys) tick() []emulator.Event {
	var events []emulator.Event

	for key := range k {
		if k[key] == 0 {
			continue
		}

		k[key]--
		if k[key] == 0 {
			events = append(events, emulator.Event{Type: emulator.KeyUp, Key: uint8(key)})
		}
	}

	return events
}
