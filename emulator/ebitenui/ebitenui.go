// Package ebitenui runs the machine inside an ebiten game loop. Ebiten paces
// Update at FrameRate ticks per second, so each Update runs one frame.
package ebitenui

import (
	"chip8emu/chip8"
	"chip8emu/chip8/display"
	"chip8emu/emulator"

	"github.com/hajimehoshi/ebiten/v2"
)

var keyMap = [chip8.KeyCount]ebiten.Key{
	0x1: ebiten.KeyDigit1,
	0x2: ebiten.KeyDigit2,
	0x3: ebiten.KeyDigit3,
	0xC: ebiten.KeyDigit4,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0xD: ebiten.KeyR,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ,
	0x0: ebiten.KeyX,
	0xB: ebiten.KeyC,
	0xF: ebiten.KeyV,
}

type App struct {
	m      *emulator.Machine
	tex    *ebiten.Image
	pixels []byte
	held   [chip8.KeyCount]bool
}

func NewApp(m *emulator.Machine, title string, scale int) *App {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(display.DisplayWidth*scale, display.DisplayHeight*scale)
	ebiten.SetTPS(emulator.FrameRate)

	return &App{
		m:      m,
		pixels: make([]byte, 4*display.DisplayWidth*display.DisplayHeight),
	}
}

// Run blocks until the window is closed, Escape is pressed or the machine
// fails.
func (a *App) Run() error {
	return ebiten.RunGame(a)
}

func (a *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var pressed [chip8.KeyCount]bool
	for key, k := range keyMap {
		pressed[key] = ebiten.IsKeyPressed(k)
	}

	if _, err := a.m.Apply(keyEvents(a.held, pressed)); err != nil {
		return err
	}
	a.held = pressed

	return a.m.Frame()
}

// keyEvents returns the events turning the held key state into pressed.
func keyEvents(held, pressed [chip8.KeyCount]bool) []emulator.Event {
	var events []emulator.Event

	for key := range pressed {
		switch {
		case pressed[key] && !held[key]:
			events = append(events, emulator.Event{Type: emulator.KeyDown, Key: uint8(key)})
		case !pressed[key] && held[key]:
			events = append(events, emulator.Event{Type: emulator.KeyUp, Key: uint8(key)})
		}
	}

	return events
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(display.DisplayWidth, display.DisplayHeight)
	}

	emulator.FillRGBA(a.pixels, a.m.CPU().Framebuffer())
	a.tex.WritePixels(a.pixels)
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outW, outH int) (int, int) {
	return display.DisplayWidth, display.DisplayHeight
}
