package emulator

import (
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"

	"chip8emu/chip8/display"

	"golang.org/x/image/colornames"
)

var (
	ColorOff color.RGBA = colornames.Black
	ColorOn  color.RGBA = colornames.White
)

// Headless is a Frontend without a screen. It requests Quit once Frames
// frames have been presented. Script holds events to deliver before the
// frame with the given index.
type Headless struct {
	Frames int
	Script map[int][]Event

	frame int
	last  display.Framebuffer
}

func (h *Headless) Events() ([]Event, error) {
	if h.frame >= h.Frames {
		return []Event{{Type: Quit}}, nil
	}

	return h.Script[h.frame], nil
}

func (h *Headless) Present(fb display.Framebuffer) error {
	h.last = fb
	h.frame++

	return nil
}

// Presented returns the number of frames presented so far.
func (h *Headless) Presented() int {
	return h.frame
}

func (h *Headless) Last() display.Framebuffer {
	return h.last
}

// Checksum returns the CRC32 of the framebuffer packed one bit per pixel.
func Checksum(fb display.Framebuffer) uint32 {
	packed := make([]byte, 0, display.DisplayWidth*display.DisplayHeight/8)

	for y := range fb {
		for x := 0; x < display.DisplayWidth; x += 8 {
			var b byte
			for bit := 0; bit < 8; bit++ {
				if fb[y][x+bit] {
					b |= 0x80 >> bit
				}
			}
			packed = append(packed, b)
		}
	}

	return crc32.ChecksumIEEE(packed)
}

// Image renders the framebuffer with each chip pixel scaled to a
// scale x scale block.
func Image(fb display.Framebuffer, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}

	img := image.NewPaletted(image.Rect(0, 0, display.DisplayWidth*scale, display.DisplayHeight*scale), color.Palette{ColorOff, ColorOn})

	for y := range fb {
		for x := range fb[y] {
			if !fb[y][x] {
				continue
			}

			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(x*scale+dx, y*scale+dy, 1)
				}
			}
		}
	}

	return img
}

func WritePNG(w io.Writer, fb display.Framebuffer, scale int) error {
	return png.Encode(w, Image(fb, scale))
}

// FillRGBA writes the framebuffer into dst as 8-bit RGBA, one pixel per
// chip pixel. dst must hold at least 4*DisplayWidth*DisplayHeight bytes.
func FillRGBA(dst []byte, fb display.Framebuffer) {
	i := 0

	for y := range fb {
		for x := range fb[y] {
			c := ColorOff
			if fb[y][x] {
				c = ColorOn
			}

			dst[i+0] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			dst[i+3] = c.A
			i += 4
		}
	}
}
