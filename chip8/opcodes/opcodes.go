package opcodes

import "fmt"

type Instruction int

const (
	InstructionUnknown Instruction = iota
	Instruction00E0
	Instruction00EE
	Instruction1NNN
	Instruction2NNN
	Instruction3XNN
	Instruction4XNN
	Instruction5XY0
	Instruction6XNN
	Instruction7XNN
	Instruction8XY0
	Instruction8XY1
	Instruction8XY2
	Instruction8XY3
	Instruction8XY4
	Instruction8XY5
	Instruction8XY6
	Instruction8XY7
	Instruction8XYE
	Instruction9XY0
	InstructionANNN
	InstructionBNNN
	InstructionCXNN
	InstructionDXYN
	InstructionEX9E
	InstructionEXA1
	InstructionFX07
	InstructionFX0A
	InstructionFX15
	InstructionFX18
	InstructionFX1E
	InstructionFX29
	InstructionFX33
	InstructionFX55
	InstructionFX65

	// InstructionCount is the size of a table indexed by Instruction.
	InstructionCount
)

var instructionNames = [InstructionCount]string{
	InstructionUnknown: "unknown",
	Instruction00E0:    "00E0",
	Instruction00EE:    "00EE",
	Instruction1NNN:    "1NNN",
	Instruction2NNN:    "2NNN",
	Instruction3XNN:    "3XNN",
	Instruction4XNN:    "4XNN",
	Instruction5XY0:    "5XY0",
	Instruction6XNN:    "6XNN",
	Instruction7XNN:    "7XNN",
	Instruction8XY0:    "8XY0",
	Instruction8XY1:    "8XY1",
	Instruction8XY2:    "8XY2",
	Instruction8XY3:    "8XY3",
	Instruction8XY4:    "8XY4",
	Instruction8XY5:    "8XY5",
	Instruction8XY6:    "8XY6",
	Instruction8XY7:    "8XY7",
	Instruction8XYE:    "8XYE",
	Instruction9XY0:    "9XY0",
	InstructionANNN:    "ANNN",
	InstructionBNNN:    "BNNN",
	InstructionCXNN:    "CXNN",
	InstructionDXYN:    "DXYN",
	InstructionEX9E:    "EX9E",
	InstructionEXA1:    "EXA1",
	InstructionFX07:    "FX07",
	InstructionFX0A:    "FX0A",
	InstructionFX15:    "FX15",
	InstructionFX18:    "FX18",
	InstructionFX1E:    "FX1E",
	InstructionFX29:    "FX29",
	InstructionFX33:    "FX33",
	InstructionFX55:    "FX55",
	InstructionFX65:    "FX65",
}

func (i Instruction) String() string {
	if i < 0 || i >= InstructionCount {
		return fmt.Sprintf("Instruction(%d)", int(i))
	}

	return instructionNames[i]
}

// Opcode is one fetched 16-bit instruction word.
type Opcode uint16

// Instruction classifies the opcode. Words that match no pattern return
// InstructionUnknown.
func (o Opcode) Instruction() Instruction {
	switch o.Nibble1() {
	case 0x0:
		switch o.NNN() {
		case 0x0E0: // clear screen
			return Instruction00E0
		case 0x0EE: // return
			return Instruction00EE
		}
	case 0x1: // jump
		return Instruction1NNN
	case 0x2: // call
		return Instruction2NNN
	case 0x3: // skip
		return Instruction3XNN
	case 0x4: // skip
		return Instruction4XNN
	case 0x5: // skip
		if o.N() == 0 {
			return Instruction5XY0
		}
	case 0x6: // set
		return Instruction6XNN
	case 0x7: // add
		return Instruction7XNN
	case 0x8:
		switch o.N() {
		case 0x0: // set
			return Instruction8XY0
		case 0x1: // or
			return Instruction8XY1
		case 0x2: // and
			return Instruction8XY2
		case 0x3: // xor
			return Instruction8XY3
		case 0x4: // add
			return Instruction8XY4
		case 0x5: // sub
			return Instruction8XY5
		case 0x6: // shift
			return Instruction8XY6
		case 0x7: // sub
			return Instruction8XY7
		case 0xE: // shift
			return Instruction8XYE
		}
	case 0x9: // skip
		if o.N() == 0 {
			return Instruction9XY0
		}
	case 0xA: // set index
		return InstructionANNN
	case 0xB: // jump with offset
		return InstructionBNNN
	case 0xC: // random
		return InstructionCXNN
	case 0xD: // display
		return InstructionDXYN
	case 0xE: // skip if key
		switch o.NN() {
		case 0x9E:
			return InstructionEX9E
		case 0xA1:
			return InstructionEXA1
		}
	case 0xF:
		switch o.NN() {
		// timers
		case 0x07:
			return InstructionFX07
		case 0x15:
			return InstructionFX15
		case 0x18:
			return InstructionFX18
		case 0x1E: // add to index
			return InstructionFX1E
		case 0x0A: // get key
			return InstructionFX0A
		case 0x29: // font char
			return InstructionFX29
		case 0x33: // decimal conversion
			return InstructionFX33
		case 0x55: // store
			return InstructionFX55
		case 0x65: // load
			return InstructionFX65
		}
	}

	return InstructionUnknown
}

// Nibble1 returns the instruction family selector, bits 15-12.
func (o Opcode) Nibble1() uint8 {
	return uint8(o >> 12)
}

func (o Opcode) X() uint8 {
	return uint8((o & 0x0F00) >> 8)
}

func (o Opcode) Y() uint8 {
	return uint8((o & 0x00F0) >> 4)
}

func (o Opcode) N() uint8 {
	return uint8(o & 0x000F)
}

func (o Opcode) NN() uint8 {
	return uint8(o & 0x00FF)
}

func (o Opcode) NNN() uint16 {
	return uint16(o) & 0x0FFF
}

func (o Opcode) String() string {
	return fmt.Sprintf("opcode: 0x%04x, x: 0x%01x, y: 0x%01x, n: 0x%01x, nn: 0x%02x, nnn: 0x%03x", uint16(o), o.X(), o.Y(), o.N(), o.NN(), o.NNN())
}
