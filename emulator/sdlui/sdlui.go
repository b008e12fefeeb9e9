// Package sdlui is an SDL2 window frontend. All SDL calls are made on the OS
// main thread, so New and every Window method must run inside
// mainthread.Run.
package sdlui

import (
	"fmt"

	"chip8emu/chip8/display"
	"chip8emu/emulator"

	"github.com/faiface/mainthread"
	sdl "github.com/veandco/go-sdl2/sdl"
)

var keyMap = map[sdl.Scancode]uint8{
	sdl.SCANCODE_1: 0x1,
	sdl.SCANCODE_2: 0x2,
	sdl.SCANCODE_3: 0x3,
	sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_Q: 0x4,
	sdl.SCANCODE_W: 0x5,
	sdl.SCANCODE_E: 0x6,
	sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_A: 0x7,
	sdl.SCANCODE_S: 0x8,
	sdl.SCANCODE_D: 0x9,
	sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_Z: 0xA,
	sdl.SCANCODE_X: 0x0,
	sdl.SCANCODE_C: 0xB,
	sdl.SCANCODE_V: 0xF,
}

var _ emulator.Frontend = (*Window)(nil)

type Window struct {
	window     *sdl.Window
	renderer   *sdl.Renderer
	backbuffer *sdl.Texture
}

func New(title string, scale int) (*Window, error) {
	var w *Window

	err := mainthread.CallErr(func() error {
		var err error
		w, err = newWindow(title, scale)
		return err
	})

	return w, err
}

func newWindow(title string, scale int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to init SDL: %v", err)
	}

	width := int32(display.DisplayWidth * scale)
	height := int32(display.DisplayHeight * scale)

	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %v", err)
	}

	renderer, err := sdl.CreateRenderer(w, -1, 0)
	if err != nil {
		_ = w.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %v", err)
	}

	backbuffer, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_TARGET, int32(display.DisplayWidth), int32(display.DisplayHeight))
	if err != nil {
		_ = renderer.Destroy()
		_ = w.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create backbuffer: %v", err)
	}

	return &Window{
		window:     w,
		renderer:   renderer,
		backbuffer: backbuffer,
	}, nil
}

func (d *Window) Close() {
	mainthread.Call(func() {
		_ = d.backbuffer.Destroy()
		_ = d.renderer.Destroy()
		_ = d.window.Destroy()
		sdl.Quit()
	})
}

func (d *Window) Events() ([]emulator.Event, error) {
	var events []emulator.Event

	mainthread.Call(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				events = append(events, emulator.Event{Type: emulator.Quit})
			case *sdl.KeyboardEvent:
				if e.Repeat != 0 {
					continue
				}

				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					events = append(events, emulator.Event{Type: emulator.Quit})
					continue
				}

				key, ok := keyMap[e.Keysym.Scancode]
				if !ok {
					continue
				}

				switch e.Type {
				case sdl.KEYDOWN:
					events = append(events, emulator.Event{Type: emulator.KeyDown, Key: key})
				case sdl.KEYUP:
					events = append(events, emulator.Event{Type: emulator.KeyUp, Key: key})
				}
			}
		}
	})

	return events, nil
}

func (d *Window) Present(fb display.Framebuffer) error {
	return mainthread.CallErr(func() error {
		if err := d.draw(fb); err != nil {
			return err
		}

		return d.present()
	})
}

func (d *Window) draw(fb display.Framebuffer) error {
	target := d.renderer.GetRenderTarget()

	if err := d.renderer.SetRenderTarget(d.backbuffer); err != nil {
		return fmt.Errorf("failed to set render target: %v", err)
	}

	on, off := emulator.ColorOn, emulator.ColorOff

	for y := range fb {
		for x := range fb[y] {
			c := off
			if fb[y][x] {
				c = on
			}

			if err := d.renderer.SetDrawColor(c.R, c.G, c.B, c.A); err != nil {
				return fmt.Errorf("failed to set draw color: %v", err)
			}

			if err := d.renderer.DrawPoint(int32(x), int32(y)); err != nil {
				return fmt.Errorf("failed to draw point: %v", err)
			}
		}
	}

	if err := d.renderer.SetRenderTarget(target); err != nil {
		return fmt.Errorf("failed to restore render target: %v", err)
	}

	return nil
}

func (d *Window) present() error {
	if err := d.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return fmt.Errorf("failed to set draw color: %v", err)
	}

	if err := d.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear: %v", err)
	}

	if err := d.renderer.Copy(d.backbuffer, nil, nil); err != nil {
		return fmt.Errorf("failed to copy backbuffer: %v", err)
	}

	d.renderer.Present()

	return nil
}
