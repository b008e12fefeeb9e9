package chip8

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"chip8emu/chip8/display"
	"chip8emu/chip8/opcodes"
)

const (
	MemorySize   = 4096
	ProgramStart = 0x200
	MaxROMSize   = MemorySize - ProgramStart

	// MaxStackDepth caps the call stack, sentinel entry included.
	MaxStackDepth = 256

	KeyCount = 16

	fontGlyphSize = 5
)

var fontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, //0
	0x20, 0x60, 0x20, 0x20, 0x70, //1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, //2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, //3
	0x90, 0x90, 0xF0, 0x10, 0x10, //4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, //5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, //6
	0xF0, 0x10, 0x20, 0x40, 0x40, //7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, //8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, //9
	0xF0, 0x90, 0xF0, 0x90, 0x90, //A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, //B
	0xF0, 0x80, 0x80, 0x80, 0xF0, //C
	0xE0, 0x90, 0x90, 0x90, 0xE0, //D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, //E
	0xF0, 0x80, 0xF0, 0x80, 0x80, //F
}

// Option configures a Chip8 at construction time.
type Option func(*Chip8)

// WithSeed sets the function consulted on every Reset to seed the random
// source used by CXNN.
func WithSeed(seed func() int64) Option {
	return func(c *Chip8) {
		c.seed = seed
	}
}

type Chip8 struct {
	v  [16]uint8
	i  uint16
	pc uint16

	stack []uint16

	memory [MemorySize]uint8

	display *display.Display
	keys    [KeyCount]bool

	delayTimer uint8
	soundTimer uint8

	seed func() int64
	rng  *rand.Rand

	// opcode and opcodePC describe the instruction currently or most
	// recently executed.
	opcode   opcodes.Opcode
	opcodePC uint16

	err error
}

func New(options ...Option) *Chip8 {
	c := &Chip8{
		display: display.NewDisplay(),
		stack:   make([]uint16, 0, MaxStackDepth),
		seed: func() int64 {
			return time.Now().UnixNano()
		},
	}

	for _, option := range options {
		option(c)
	}

	c.Reset()

	return c
}

// Reset puts the machine in its power-on state. The program area of memory
// is left untouched so a loaded ROM survives a reset.
func (c *Chip8) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = ProgramStart

	c.stack = append(c.stack[:0], 0)

	c.delayTimer = 0
	c.soundTimer = 0

	c.keys = [KeyCount]bool{}
	c.display.Clear()

	copy(c.memory[:], fontSet[:])

	c.rng = rand.New(rand.NewSource(c.seed()))

	c.opcode = 0
	c.opcodePC = 0
	c.err = nil
}

// LoadROM copies the whole content of r into memory at ProgramStart.
func (c *Chip8) LoadROM(r io.Reader) error {
	b, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	if len(b) > MaxROMSize {
		return fmt.Errorf("%w: exceeds %d bytes", ErrROMTooLarge, MaxROMSize)
	}

	program := c.memory[ProgramStart:]
	for i := range program {
		program[i] = 0
	}
	copy(program, b)

	return nil
}

func (c *Chip8) LoadROMFile(filename string) error {
	rom, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer rom.Close()

	return c.LoadROM(rom)
}

func (c *Chip8) fetch() (opcodes.Opcode, error) {
	if int(c.pc)+2 > MemorySize {
		return 0, &MemoryError{Address: c.pc, Length: 2, PC: c.pc}
	}

	opcode := opcodes.Opcode(binary.BigEndian.Uint16(c.memory[c.pc : c.pc+2]))

	c.opcode = opcode
	c.opcodePC = c.pc
	c.pc += 2

	return opcode, nil
}

// Step fetches and executes one instruction. Any error it returns is fatal:
// the machine halts and keeps returning the same error until Reset.
func (c *Chip8) Step() error {
	if c.err != nil {
		return c.err
	}

	opcode, err := c.fetch()
	if err == nil {
		err = c.execute(opcode)
	}

	if err != nil {
		c.err = err
	}

	return err
}

func (c *Chip8) execute(opcode opcodes.Opcode) error {
	handler := handlers[opcode.Instruction()]
	if handler == nil {
		return &DecodeError{Opcode: opcode, PC: c.opcodePC}
	}

	return handler(c, opcode)
}

// TickTimers counts both timers down by one. It is meant to be called at 60Hz
// regardless of how many instructions ran in between.
func (c *Chip8) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}

	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

func (c *Chip8) SetKey(key uint8, pressed bool) error {
	if int(key) >= KeyCount {
		return &KeyError{Key: key}
	}

	c.keys[key] = pressed

	return nil
}

func (c *Chip8) Pressed(key uint8) bool {
	return int(key) < KeyCount && c.keys[key]
}

// V returns register Vx. Only the low nibble of x is used.
func (c *Chip8) V(x uint8) uint8 {
	return c.v[x&0xF]
}

func (c *Chip8) I() uint16 {
	return c.i
}

func (c *Chip8) PC() uint16 {
	return c.pc
}

// StackDepth returns the number of entries on the call stack, including the
// sentinel pushed by Reset.
func (c *Chip8) StackDepth() int {
	return len(c.stack)
}

func (c *Chip8) DelayTimer() uint8 {
	return c.delayTimer
}

func (c *Chip8) SoundTimer() uint8 {
	return c.soundTimer
}

// Memory returns the byte at addr, or 0 outside the address space.
func (c *Chip8) Memory(addr uint16) uint8 {
	if int(addr) >= MemorySize {
		return 0
	}

	return c.memory[addr]
}

func (c *Chip8) Framebuffer() display.Framebuffer {
	return c.display.Snapshot()
}

// LastInstruction returns the address and word of the instruction most
// recently fetched.
func (c *Chip8) LastInstruction() (uint16, opcodes.Opcode) {
	return c.opcodePC, c.opcode
}

// Err returns the fatal error that halted the machine, if any.
func (c *Chip8) Err() error {
	return c.err
}

func (c *Chip8) memoryRange(addr uint16, length int) ([]uint8, error) {
	if int(addr)+length > MemorySize {
		return nil, &MemoryError{Address: addr, Length: length, Opcode: c.opcode, PC: c.opcodePC}
	}

	return c.memory[addr : int(addr)+length], nil
}
