package chip8

import (
	"errors"
	"fmt"

	"chip8emu/chip8/opcodes"
)

var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrROMTooLarge    = errors.New("ROM too large")
)

// DecodeError is returned when a fetched word matches no instruction.
type DecodeError struct {
	Opcode opcodes.Opcode
	PC     uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04x @ 0x%03x", uint16(e.Opcode), e.PC)
}

// MemoryError is returned when an instruction touches memory outside the
// address space.
type MemoryError struct {
	Address uint16
	Length  int
	Opcode  opcodes.Opcode
	PC      uint16
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory access out of range: 0x%04x+%d by opcode 0x%04x @ 0x%03x", e.Address, e.Length, uint16(e.Opcode), e.PC)
}

// KeyError is returned for a key index outside 0x0-0xF.
type KeyError struct {
	Key uint8
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid key 0x%02x", e.Key)
}
