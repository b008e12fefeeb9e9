package display

const (
	DisplayWidth  int = 64
	DisplayHeight int = 32
)

// Framebuffer is a snapshot of the screen, indexed [y][x]. A true pixel is on.
type Framebuffer [DisplayHeight][DisplayWidth]bool

type Display struct {
	pixels Framebuffer
}

func NewDisplay() *Display {
	return &Display{}
}

func (d *Display) Clear() {
	for y := range d.pixels {
		for x := range d.pixels[y] {
			d.pixels[y][x] = false
		}
	}
}

// DrawSprite XORs an 8 pixel wide sprite onto the screen with its top left
// corner at (x, y). The origin wraps around the screen, the sprite itself is
// clipped at the right and bottom edges. It returns 1 if any pixel was
// switched off, 0 otherwise.
func (d *Display) DrawSprite(x, y uint8, sprite []uint8) uint8 {
	startX := int(x) % DisplayWidth
	startY := int(y) % DisplayHeight

	vf := uint8(0)

	for row := range sprite {
		if startY+row >= DisplayHeight {
			break
		}

		for col := 0; col < 8; col++ {
			if startX+col >= DisplayWidth {
				break
			}

			current := d.pixels[startY+row][startX+col]
			new := (sprite[row]>>(7-col))&1 != 0

			if current && new {
				d.pixels[startY+row][startX+col] = false
				vf = 1
			} else if !current && new {
				d.pixels[startY+row][startX+col] = true
			}
		}
	}

	return vf
}

// Pixel reports whether the pixel at (x, y) is on. Out of range coordinates
// are off.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}

	return d.pixels[y][x]
}

// Snapshot returns a copy of the current screen.
func (d *Display) Snapshot() Framebuffer {
	return d.pixels
}
