package opcodes

import "fmt"

// Mnemonic returns the assembly form of the opcode, for example "ADD VA, VB"
// or "LD I, $300". Unknown words are rendered as a data word.
func (o Opcode) Mnemonic() string {
	x, y := o.X(), o.Y()

	switch o.Instruction() {
	case Instruction00E0:
		return "CLS"
	case Instruction00EE:
		return "RET"
	case Instruction1NNN:
		return fmt.Sprintf("JP $%03X", o.NNN())
	case Instruction2NNN:
		return fmt.Sprintf("CALL $%03X", o.NNN())
	case Instruction3XNN:
		return fmt.Sprintf("SE V%X, $%02X", x, o.NN())
	case Instruction4XNN:
		return fmt.Sprintf("SNE V%X, $%02X", x, o.NN())
	case Instruction5XY0:
		return fmt.Sprintf("SE V%X, V%X", x, y)
	case Instruction6XNN:
		return fmt.Sprintf("LD V%X, $%02X", x, o.NN())
	case Instruction7XNN:
		return fmt.Sprintf("ADD V%X, $%02X", x, o.NN())
	case Instruction8XY0:
		return fmt.Sprintf("LD V%X, V%X", x, y)
	case Instruction8XY1:
		return fmt.Sprintf("OR V%X, V%X", x, y)
	case Instruction8XY2:
		return fmt.Sprintf("AND V%X, V%X", x, y)
	case Instruction8XY3:
		return fmt.Sprintf("XOR V%X, V%X", x, y)
	case Instruction8XY4:
		return fmt.Sprintf("ADD V%X, V%X", x, y)
	case Instruction8XY5:
		return fmt.Sprintf("SUB V%X, V%X", x, y)
	case Instruction8XY6:
		return fmt.Sprintf("SHR V%X", x)
	case Instruction8XY7:
		return fmt.Sprintf("SUBN V%X, V%X", x, y)
	case Instruction8XYE:
		return fmt.Sprintf("SHL V%X", x)
	case Instruction9XY0:
		return fmt.Sprintf("SNE V%X, V%X", x, y)
	case InstructionANNN:
		return fmt.Sprintf("LD I, $%03X", o.NNN())
	case InstructionBNNN:
		return fmt.Sprintf("JP V0, $%03X", o.NNN())
	case InstructionCXNN:
		return fmt.Sprintf("RND V%X, $%02X", x, o.NN())
	case InstructionDXYN:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, o.N())
	case InstructionEX9E:
		return fmt.Sprintf("SKP V%X", x)
	case InstructionEXA1:
		return fmt.Sprintf("SKNP V%X", x)
	case InstructionFX07:
		return fmt.Sprintf("LD V%X, DT", x)
	case InstructionFX0A:
		return fmt.Sprintf("LD V%X, K", x)
	case InstructionFX15:
		return fmt.Sprintf("LD DT, V%X", x)
	case InstructionFX18:
		return fmt.Sprintf("LD ST, V%X", x)
	case InstructionFX1E:
		return fmt.Sprintf("ADD I, V%X", x)
	case InstructionFX29:
		return fmt.Sprintf("LD F, V%X", x)
	case InstructionFX33:
		return fmt.Sprintf("LD B, V%X", x)
	case InstructionFX55:
		return fmt.Sprintf("LD [I], V%X", x)
	case InstructionFX65:
		return fmt.Sprintf("LD V%X, [I]", x)
	}

	return fmt.Sprintf("DW $%04X", uint16(o))
}
