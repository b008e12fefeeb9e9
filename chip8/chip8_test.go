package chip8

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chip8emu/chip8/display"
	"chip8emu/chip8/opcodes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSeed() int64 {
	return 42
}

func program(words ...uint16) []byte {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint16(b[2*i:], w)
	}
	return b
}

func newTestChip8(t *testing.T, words ...uint16) *Chip8 {
	t.Helper()

	c := New(WithSeed(fixedSeed))
	require.NoError(t, c.LoadROM(bytes.NewReader(program(words...))))

	return c
}

func run(t *testing.T, c *Chip8, steps int) {
	t.Helper()

	for i := 0; i < steps; i++ {
		require.NoError(t, c.Step())
	}
}

func TestReset(t *testing.T) {
	c := newTestChip8(t, 0x6A05, 0xA123, 0x2300)
	run(t, c, 3)
	require.NoError(t, c.SetKey(3, true))

	c.Reset()

	assert.Equal(t, uint16(ProgramStart), c.PC())
	assert.Equal(t, uint16(0), c.I())
	assert.Equal(t, uint8(0), c.V(0xA))
	assert.Equal(t, 1, c.StackDepth())
	assert.Equal(t, []uint16{0}, c.stack)
	assert.False(t, c.Pressed(3))
	assert.Equal(t, fontSet[:], c.memory[:len(fontSet)])

	// the program survives a reset
	assert.Equal(t, uint8(0x6A), c.Memory(ProgramStart))
	assert.Equal(t, uint8(0x05), c.Memory(ProgramStart+1))
}

func TestResetReseedsRandom(t *testing.T) {
	c := newTestChip8(t, 0xC0FF, 0xC1FF, 0xC2FF)
	run(t, c, 3)
	first := [3]uint8{c.V(0), c.V(1), c.V(2)}

	c.Reset()
	run(t, c, 3)

	assert.Equal(t, first, [3]uint8{c.V(0), c.V(1), c.V(2)})
}

func TestLoadROM(t *testing.T) {
	c := New(WithSeed(fixedSeed))

	rom := bytes.Repeat([]byte{0xAB}, MaxROMSize)
	require.NoError(t, c.LoadROM(bytes.NewReader(rom)))
	assert.Equal(t, uint8(0xAB), c.Memory(ProgramStart))
	assert.Equal(t, uint8(0xAB), c.Memory(MemorySize-1))

	// a shorter ROM replaces the whole program area
	require.NoError(t, c.LoadROM(bytes.NewReader([]byte{0x12})))
	assert.Equal(t, uint8(0x12), c.Memory(ProgramStart))
	assert.Equal(t, uint8(0x00), c.Memory(ProgramStart+1))
}

func TestLoadROMTooLarge(t *testing.T) {
	c := New(WithSeed(fixedSeed))

	err := c.LoadROM(bytes.NewReader(make([]byte, MaxROMSize+1)))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestLoadROMFile(t *testing.T) {
	c := New(WithSeed(fixedSeed))

	err := c.LoadROMFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	filename := filepath.Join(t.TempDir(), "rom.ch8")
	require.NoError(t, os.WriteFile(filename, program(0x00E0, 0x1200), 0o600))
	require.NoError(t, c.LoadROMFile(filename))
	assert.Equal(t, uint8(0x12), c.Memory(ProgramStart+2))
}

func TestStepFetchesBigEndian(t *testing.T) {
	c := newTestChip8(t, 0x6A02)
	run(t, c, 1)

	pc, opcode := c.LastInstruction()
	assert.Equal(t, uint16(0x200), pc)
	assert.Equal(t, opcodes.Opcode(0x6A02), opcode)
	assert.Equal(t, uint16(0x202), c.PC())
}

func TestAddScenarios(t *testing.T) {
	c := newTestChip8(t, 0x6A02, 0x6B03, 0x8AB4)
	run(t, c, 3)
	assert.Equal(t, uint8(5), c.V(0xA))
	assert.Equal(t, uint8(0), c.V(0xF))

	c = newTestChip8(t, 0x6AFF, 0x6B01, 0x8AB4)
	run(t, c, 3)
	assert.Equal(t, uint8(0), c.V(0xA))
	assert.Equal(t, uint8(1), c.V(0xF))
}

func TestArithmeticLaws(t *testing.T) {
	c := New(WithSeed(fixedSeed))

	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			c.v[0], c.v[1] = uint8(x), uint8(y)
			require.NoError(t, c.op8XY4(0x8014))
			assert.Equal(t, uint8((x+y)%256), c.v[0])
			assert.Equal(t, x+y > 255, c.v[0xF] == 1)

			c.v[0], c.v[1] = uint8(x), uint8(y)
			require.NoError(t, c.op8XY5(0x8015))
			assert.Equal(t, uint8((x-y+256)%256), c.v[0])
			assert.Equal(t, x < y, c.v[0xF] == 0)

			c.v[0], c.v[1] = uint8(x), uint8(y)
			require.NoError(t, c.op8XY7(0x8017))
			assert.Equal(t, uint8((y-x+256)%256), c.v[0])
			assert.Equal(t, y < x, c.v[0xF] == 0)
		}
	}
}

func TestFlagRegisterAsOperand(t *testing.T) {
	c := New(WithSeed(fixedSeed))

	c.v[0xF], c.v[1] = 0xFF, 0x01
	require.NoError(t, c.op8XY4(0x8F14))
	assert.Equal(t, uint8(0x00), c.v[0xF])

	c.v[0xF] = 0x81
	require.NoError(t, c.op8XY6(0x8F06))
	assert.Equal(t, uint8(0x40), c.v[0xF])
}

func TestRegisterOperations(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		x, y     uint8
		expected uint8
		vf       uint8
	}{
		{"8XY0", 0x8120, 0x00, 0x7F, 0x7F, 0xAA},
		{"8XY1", 0x8121, 0xF0, 0x0F, 0xFF, 0xAA},
		{"8XY2", 0x8122, 0xF3, 0x3F, 0x33, 0xAA},
		{"8XY3", 0x8123, 0xFF, 0x0F, 0xF0, 0xAA},
		{"8XY6 lsb set", 0x8126, 0x05, 0x00, 0x02, 1},
		{"8XY6 lsb clear", 0x8126, 0x04, 0xFF, 0x02, 0},
		{"8XYE msb set", 0x812E, 0x81, 0x00, 0x02, 1},
		{"8XYE msb clear", 0x812E, 0x41, 0xFF, 0x82, 0},
		{"7XNN wraps", 0x71FF, 0x02, 0x00, 0x01, 0xAA},
		{"6XNN", 0x6142, 0x00, 0x00, 0x42, 0xAA},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestChip8(t, test.opcode)
			c.v[1], c.v[2], c.v[0xF] = test.x, test.y, 0xAA

			run(t, c, 1)

			assert.Equal(t, test.expected, c.V(1))
			assert.Equal(t, test.vf, c.V(0xF))
		})
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		x, y   uint8
		skip   bool
	}{
		{"3XNN equal", 0x3142, 0x42, 0, true},
		{"3XNN not equal", 0x3142, 0x41, 0, false},
		{"4XNN equal", 0x4142, 0x42, 0, false},
		{"4XNN not equal", 0x4142, 0x41, 0, true},
		{"5XY0 equal", 0x5120, 7, 7, true},
		{"5XY0 not equal", 0x5120, 7, 8, false},
		{"9XY0 equal", 0x9120, 7, 7, false},
		{"9XY0 not equal", 0x9120, 7, 8, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestChip8(t, test.opcode)
			c.v[1], c.v[2] = test.x, test.y

			run(t, c, 1)

			if test.skip {
				assert.Equal(t, uint16(0x204), c.PC())
			} else {
				assert.Equal(t, uint16(0x202), c.PC())
			}
		})
	}
}

func TestJumps(t *testing.T) {
	c := newTestChip8(t, 0x1234)
	run(t, c, 1)
	assert.Equal(t, uint16(0x234), c.PC())

	c = newTestChip8(t, 0x6010, 0xB300)
	run(t, c, 2)
	assert.Equal(t, uint16(0x310), c.PC())
}

func TestCallReturn(t *testing.T) {
	words := make([]uint16, 0x81)
	words[0] = 0x2300    // 0x200: call 0x300
	words[1] = 0x6A01    // 0x202: VA = 1
	words[0x80] = 0x00EE // 0x300: return

	c := newTestChip8(t, words...)

	run(t, c, 1)
	assert.Equal(t, uint16(0x300), c.PC())
	assert.Equal(t, 2, c.StackDepth())

	run(t, c, 1)
	assert.Equal(t, uint16(0x202), c.PC())
	assert.Equal(t, 1, c.StackDepth())

	run(t, c, 1)
	assert.Equal(t, uint8(1), c.V(0xA))
}

func TestStackUnderflow(t *testing.T) {
	words := make([]uint16, 0x81)
	words[0] = 0x00EE // pops the sentinel, PC becomes 0
	c := newTestChip8(t, words...)

	run(t, c, 1)
	assert.Equal(t, uint16(0), c.PC())
	assert.Equal(t, 0, c.StackDepth())

	c.pc = ProgramStart
	err := c.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestStackOverflow(t *testing.T) {
	c := newTestChip8(t, 0x2200) // calls itself forever

	run(t, c, MaxStackDepth-1)
	assert.Equal(t, MaxStackDepth, c.StackDepth())

	err := c.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestDecodeErrors(t *testing.T) {
	for _, word := range []uint16{0x0000, 0x0123, 0x5121, 0x800F, 0x9123, 0xE000, 0xF0FF} {
		c := newTestChip8(t, 0x6000, word)
		run(t, c, 1)

		err := c.Step()

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr), "0x%04x", word)
		assert.Equal(t, opcodes.Opcode(word), decodeErr.Opcode)
		assert.Equal(t, uint16(0x202), decodeErr.PC)
	}
}

func TestHaltedUntilReset(t *testing.T) {
	c := newTestChip8(t, 0xFFFF)

	err := c.Step()
	require.Error(t, err)
	assert.Equal(t, err, c.Step())
	assert.Equal(t, err, c.Err())
	assert.Equal(t, uint16(0x202), c.PC())

	c.Reset()
	assert.NoError(t, c.Err())
}

func TestFetchOutOfRange(t *testing.T) {
	c := newTestChip8(t, 0x6FFF, 0xBF01) // jump to 0xFF + 0xF01 = 0x1000
	run(t, c, 2)

	var memErr *MemoryError
	require.True(t, errors.As(c.Step(), &memErr))
	assert.Equal(t, uint16(0x1000), memErr.Address)
}

func TestIndexInstructions(t *testing.T) {
	c := newTestChip8(t, 0xA300, 0x6010, 0xF01E)
	run(t, c, 3)
	assert.Equal(t, uint16(0x310), c.I())

	c = newTestChip8(t, 0x600B, 0xF029)
	run(t, c, 2)
	assert.Equal(t, uint16(0x0B*5), c.I())
	assert.Equal(t, uint8(0xE0), c.Memory(c.I()))
}

func TestBCD(t *testing.T) {
	c := newTestChip8(t, 0x60FE, 0xA400, 0xF033)
	run(t, c, 3)

	assert.Equal(t, uint8(2), c.Memory(0x400))
	assert.Equal(t, uint8(5), c.Memory(0x401))
	assert.Equal(t, uint8(4), c.Memory(0x402))
	assert.Equal(t, uint16(0x400), c.I())
}

func TestBCDOutOfRange(t *testing.T) {
	c := newTestChip8(t, 0xAFFE, 0xF033)
	run(t, c, 1)

	var memErr *MemoryError
	require.True(t, errors.As(c.Step(), &memErr))
	assert.Equal(t, uint16(0xFFE), memErr.Address)
	assert.Equal(t, 3, memErr.Length)
	assert.Equal(t, uint16(0x202), memErr.PC)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c := newTestChip8(t, 0xA400, 0xF355, 0xA400, 0xF365)
	c.v[0], c.v[1], c.v[2], c.v[3], c.v[4] = 1, 2, 3, 4, 5

	run(t, c, 2)
	assert.Equal(t, uint16(0x404), c.I())
	assert.Equal(t, []uint8{1, 2, 3, 4}, c.memory[0x400:0x404])
	assert.Equal(t, uint8(0), c.Memory(0x404))

	c.v = [16]uint8{}
	run(t, c, 2)
	assert.Equal(t, uint16(0x404), c.I())
	assert.Equal(t, [16]uint8{1, 2, 3, 4}, c.v)
}

func TestStoreOutOfRange(t *testing.T) {
	c := newTestChip8(t, 0xAFFF, 0xF155)
	run(t, c, 1)

	var memErr *MemoryError
	assert.True(t, errors.As(c.Step(), &memErr))
}

func TestRandom(t *testing.T) {
	c := newTestChip8(t, 0xC00F, 0xC100)
	run(t, c, 2)

	assert.LessOrEqual(t, c.V(0), uint8(0x0F))
	assert.Equal(t, uint8(0), c.V(1))
}

func TestRandomIsDeterministic(t *testing.T) {
	a := newTestChip8(t, 0xC0FF, 0xC1FF)
	b := newTestChip8(t, 0xC0FF, 0xC1FF)
	run(t, a, 2)
	run(t, b, 2)

	assert.Equal(t, a.V(0), b.V(0))
	assert.Equal(t, a.V(1), b.V(1))
}

func TestDraw(t *testing.T) {
	// draw glyph 0 at (2, 3), then again
	c := newTestChip8(t, 0x6002, 0x6103, 0xA000, 0xD015, 0xD015)
	run(t, c, 4)

	fb := c.Framebuffer()
	assert.Equal(t, uint8(0), c.V(0xF))
	assert.True(t, fb[3][2])
	assert.True(t, fb[3][5])
	assert.False(t, fb[4][3])

	run(t, c, 1)
	assert.Equal(t, uint8(1), c.V(0xF))
	assert.Equal(t, display.Framebuffer{}, c.Framebuffer())
}

func TestClearScreen(t *testing.T) {
	c := newTestChip8(t, 0xA000, 0xD005, 0x00E0, 0x00E0)
	run(t, c, 3)
	first := c.Framebuffer()

	run(t, c, 1)
	assert.Equal(t, display.Framebuffer{}, first)
	assert.Equal(t, first, c.Framebuffer())
}

func TestDrawOutOfRange(t *testing.T) {
	c := newTestChip8(t, 0xAFFD, 0xD005)
	run(t, c, 1)

	var memErr *MemoryError
	assert.True(t, errors.As(c.Step(), &memErr))
}

func TestKeySkips(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		pressed bool
		skip    bool
	}{
		{"EX9E pressed", 0xE59E, true, true},
		{"EX9E released", 0xE59E, false, false},
		{"EXA1 pressed", 0xE5A1, true, false},
		{"EXA1 released", 0xE5A1, false, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestChip8(t, test.opcode)
			c.v[5] = 0xC
			require.NoError(t, c.SetKey(0xC, test.pressed))

			run(t, c, 1)

			if test.skip {
				assert.Equal(t, uint16(0x204), c.PC())
			} else {
				assert.Equal(t, uint16(0x202), c.PC())
			}
		})
	}
}

func TestKeySkipInvalidKey(t *testing.T) {
	c := newTestChip8(t, 0x6510, 0xE59E)
	run(t, c, 1)

	var keyErr *KeyError
	require.True(t, errors.As(c.Step(), &keyErr))
	assert.Equal(t, uint8(0x10), keyErr.Key)
}

func TestSetKey(t *testing.T) {
	c := New(WithSeed(fixedSeed))

	require.NoError(t, c.SetKey(0xF, true))
	assert.True(t, c.Pressed(0xF))
	require.NoError(t, c.SetKey(0xF, false))
	assert.False(t, c.Pressed(0xF))

	var keyErr *KeyError
	assert.True(t, errors.As(c.SetKey(0x10, true), &keyErr))
	assert.False(t, c.Pressed(0x10))
	assert.NoError(t, c.Err())
}

func TestWaitForKey(t *testing.T) {
	c := newTestChip8(t, 0xF30A)

	run(t, c, 3)
	assert.Equal(t, uint16(0x200), c.PC())

	require.NoError(t, c.SetKey(0x9, true))
	require.NoError(t, c.SetKey(0x4, true))
	run(t, c, 1)

	assert.Equal(t, uint16(0x202), c.PC())
	assert.Equal(t, uint8(0x4), c.V(3))
}

func TestTimers(t *testing.T) {
	c := newTestChip8(t, 0x6005, 0xF015, 0xF018, 0xF107)
	run(t, c, 3)

	for i := 0; i < 5; i++ {
		c.TickTimers()
	}
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(0), c.SoundTimer())

	c.TickTimers()
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(0), c.SoundTimer())
}

func TestDelayTimerRead(t *testing.T) {
	c := newTestChip8(t, 0x6009, 0xF015, 0xF107)
	run(t, c, 2)
	c.TickTimers()
	run(t, c, 1)

	assert.Equal(t, uint8(8), c.V(1))
}

func TestTimersIndependent(t *testing.T) {
	c := newTestChip8(t, 0x6002, 0xF015, 0x6004, 0xF018)
	run(t, c, 4)

	c.TickTimers()
	c.TickTimers()
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(2), c.SoundTimer())
}
