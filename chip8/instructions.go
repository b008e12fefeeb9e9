package chip8

import (
	"fmt"

	"chip8emu/chip8/opcodes"
)

type handler func(c *Chip8, o opcodes.Opcode) error

var handlers = [opcodes.InstructionCount]handler{
	opcodes.Instruction00E0: (*Chip8).op00E0,
	opcodes.Instruction00EE: (*Chip8).op00EE,
	opcodes.Instruction1NNN: (*Chip8).op1NNN,
	opcodes.Instruction2NNN: (*Chip8).op2NNN,
	opcodes.Instruction3XNN: (*Chip8).op3XNN,
	opcodes.Instruction4XNN: (*Chip8).op4XNN,
	opcodes.Instruction5XY0: (*Chip8).op5XY0,
	opcodes.Instruction6XNN: (*Chip8).op6XNN,
	opcodes.Instruction7XNN: (*Chip8).op7XNN,
	opcodes.Instruction8XY0: (*Chip8).op8XY0,
	opcodes.Instruction8XY1: (*Chip8).op8XY1,
	opcodes.Instruction8XY2: (*Chip8).op8XY2,
	opcodes.Instruction8XY3: (*Chip8).op8XY3,
	opcodes.Instruction8XY4: (*Chip8).op8XY4,
	opcodes.Instruction8XY5: (*Chip8).op8XY5,
	opcodes.Instruction8XY6: (*Chip8).op8XY6,
	opcodes.Instruction8XY7: (*Chip8).op8XY7,
	opcodes.Instruction8XYE: (*Chip8).op8XYE,
	opcodes.Instruction9XY0: (*Chip8).op9XY0,
	opcodes.InstructionANNN: (*Chip8).opANNN,
	opcodes.InstructionBNNN: (*Chip8).opBNNN,
	opcodes.InstructionCXNN: (*Chip8).opCXNN,
	opcodes.InstructionDXYN: (*Chip8).opDXYN,
	opcodes.InstructionEX9E: (*Chip8).opEX9E,
	opcodes.InstructionEXA1: (*Chip8).opEXA1,
	opcodes.InstructionFX07: (*Chip8).opFX07,
	opcodes.InstructionFX0A: (*Chip8).opFX0A,
	opcodes.InstructionFX15: (*Chip8).opFX15,
	opcodes.InstructionFX18: (*Chip8).opFX18,
	opcodes.InstructionFX1E: (*Chip8).opFX1E,
	opcodes.InstructionFX29: (*Chip8).opFX29,
	opcodes.InstructionFX33: (*Chip8).opFX33,
	opcodes.InstructionFX55: (*Chip8).opFX55,
	opcodes.InstructionFX65: (*Chip8).opFX65,
}

func (c *Chip8) skipIf(cond bool) {
	if cond {
		c.pc += 2
	}
}

// clear screen
func (c *Chip8) op00E0(o opcodes.Opcode) error {
	c.display.Clear()
	return nil
}

// return
func (c *Chip8) op00EE(o opcodes.Opcode) error {
	if len(c.stack) == 0 {
		return fmt.Errorf("%w @ 0x%03x", ErrStackUnderflow, c.opcodePC)
	}

	c.pc = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	return nil
}

// jump
func (c *Chip8) op1NNN(o opcodes.Opcode) error {
	c.pc = o.NNN()
	return nil
}

// call
func (c *Chip8) op2NNN(o opcodes.Opcode) error {
	if len(c.stack) >= MaxStackDepth {
		return fmt.Errorf("%w @ 0x%03x", ErrStackOverflow, c.opcodePC)
	}

	c.stack = append(c.stack, c.pc)
	c.pc = o.NNN()

	return nil
}

func (c *Chip8) op3XNN(o opcodes.Opcode) error {
	c.skipIf(c.v[o.X()] == o.NN())
	return nil
}

func (c *Chip8) op4XNN(o opcodes.Opcode) error {
	c.skipIf(c.v[o.X()] != o.NN())
	return nil
}

func (c *Chip8) op5XY0(o opcodes.Opcode) error {
	c.skipIf(c.v[o.X()] == c.v[o.Y()])
	return nil
}

func (c *Chip8) op6XNN(o opcodes.Opcode) error {
	c.v[o.X()] = o.NN()
	return nil
}

// add without carry
func (c *Chip8) op7XNN(o opcodes.Opcode) error {
	c.v[o.X()] += o.NN()
	return nil
}

func (c *Chip8) op8XY0(o opcodes.Opcode) error {
	c.v[o.X()] = c.v[o.Y()]
	return nil
}

func (c *Chip8) op8XY1(o opcodes.Opcode) error {
	c.v[o.X()] |= c.v[o.Y()]
	return nil
}

func (c *Chip8) op8XY2(o opcodes.Opcode) error {
	c.v[o.X()] &= c.v[o.Y()]
	return nil
}

func (c *Chip8) op8XY3(o opcodes.Opcode) error {
	c.v[o.X()] ^= c.v[o.Y()]
	return nil
}

// The 8XY4-8XYE handlers read their operands first, then write VF, then the
// result. With X == F the result overwrites the flag.

func (c *Chip8) op8XY4(o opcodes.Opcode) error {
	result := uint16(c.v[o.X()]) + uint16(c.v[o.Y()])

	var flag uint8
	if result > 0xFF {
		flag = 1
	}

	c.v[0xF] = flag
	c.v[o.X()] = uint8(result & 0xFF)

	return nil
}

func (c *Chip8) op8XY5(o opcodes.Opcode) error {
	x, y := c.v[o.X()], c.v[o.Y()]

	var flag uint8 = 1
	if x < y {
		flag = 0
	}

	c.v[0xF] = flag
	c.v[o.X()] = x - y

	return nil
}

func (c *Chip8) op8XY6(o opcodes.Opcode) error {
	x := c.v[o.X()]

	c.v[0xF] = x & 0x1
	c.v[o.X()] = x >> 1

	return nil
}

func (c *Chip8) op8XY7(o opcodes.Opcode) error {
	x, y := c.v[o.X()], c.v[o.Y()]

	var flag uint8 = 1
	if y < x {
		flag = 0
	}

	c.v[0xF] = flag
	c.v[o.X()] = y - x

	return nil
}

func (c *Chip8) op8XYE(o opcodes.Opcode) error {
	x := c.v[o.X()]

	c.v[0xF] = x >> 7
	c.v[o.X()] = x << 1

	return nil
}

func (c *Chip8) op9XY0(o opcodes.Opcode) error {
	c.skipIf(c.v[o.X()] != c.v[o.Y()])
	return nil
}

// set index
func (c *Chip8) opANNN(o opcodes.Opcode) error {
	c.i = o.NNN()
	return nil
}

// jump with offset
func (c *Chip8) opBNNN(o opcodes.Opcode) error {
	c.pc = uint16(c.v[0]) + o.NNN()
	return nil
}

// random
func (c *Chip8) opCXNN(o opcodes.Opcode) error {
	c.v[o.X()] = uint8(c.rng.Intn(256)) & o.NN()
	return nil
}

// display
func (c *Chip8) opDXYN(o opcodes.Opcode) error {
	sprite, err := c.memoryRange(c.i, int(o.N()))
	if err != nil {
		return err
	}

	c.v[0xF] = c.display.DrawSprite(c.v[o.X()], c.v[o.Y()], sprite)

	return nil
}

func (c *Chip8) key(x uint8) (bool, error) {
	k := c.v[x]
	if int(k) >= KeyCount {
		return false, &KeyError{Key: k}
	}

	return c.keys[k], nil
}

// skip if key
func (c *Chip8) opEX9E(o opcodes.Opcode) error {
	pressed, err := c.key(o.X())
	if err != nil {
		return err
	}

	c.skipIf(pressed)

	return nil
}

// skip if not key
func (c *Chip8) opEXA1(o opcodes.Opcode) error {
	pressed, err := c.key(o.X())
	if err != nil {
		return err
	}

	c.skipIf(!pressed)

	return nil
}

func (c *Chip8) opFX07(o opcodes.Opcode) error {
	c.v[o.X()] = c.delayTimer
	return nil
}

// get key, re-executed until a key is down
func (c *Chip8) opFX0A(o opcodes.Opcode) error {
	for k := range c.keys {
		if c.keys[k] {
			c.v[o.X()] = uint8(k)
			return nil
		}
	}

	c.pc -= 2

	return nil
}

func (c *Chip8) opFX15(o opcodes.Opcode) error {
	c.delayTimer = c.v[o.X()]
	return nil
}

func (c *Chip8) opFX18(o opcodes.Opcode) error {
	c.soundTimer = c.v[o.X()]
	return nil
}

// add to index
func (c *Chip8) opFX1E(o opcodes.Opcode) error {
	c.i += uint16(c.v[o.X()])
	return nil
}

// font char
func (c *Chip8) opFX29(o opcodes.Opcode) error {
	c.i = uint16(c.v[o.X()]) * fontGlyphSize
	return nil
}

// decimal conversion
func (c *Chip8) opFX33(o opcodes.Opcode) error {
	dst, err := c.memoryRange(c.i, 3)
	if err != nil {
		return err
	}

	value := c.v[o.X()]

	dst[0] = value / 100
	dst[1] = (value / 10) % 10
	dst[2] = value % 10

	return nil
}

// store
func (c *Chip8) opFX55(o opcodes.Opcode) error {
	n := int(o.X()) + 1

	dst, err := c.memoryRange(c.i, n)
	if err != nil {
		return err
	}

	copy(dst, c.v[:n])
	c.i += uint16(n)

	return nil
}

// load
func (c *Chip8) opFX65(o opcodes.Opcode) error {
	n := int(o.X()) + 1

	src, err := c.memoryRange(c.i, n)
	if err != nil {
		return err
	}

	copy(c.v[:n], src)
	c.i += uint16(n)

	return nil
}
