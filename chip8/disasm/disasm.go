// Package disasm produces a linear listing of a CHIP-8 ROM.
package disasm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"chip8emu/chip8/opcodes"
)

// Disassemble writes one line per instruction word of rom, assuming the ROM
// is loaded at origin. A trailing odd byte is listed as data.
func Disassemble(w io.Writer, rom []byte, origin uint16) error {
	bw := bufio.NewWriter(w)

	offset := 0
	for ; offset+1 < len(rom); offset += 2 {
		opcode := opcodes.Opcode(binary.BigEndian.Uint16(rom[offset:]))

		if _, err := fmt.Fprintf(bw, "0x%03X  %04X  %s\n", int(origin)+offset, uint16(opcode), opcode.Mnemonic()); err != nil {
			return err
		}
	}

	if offset < len(rom) {
		if _, err := fmt.Fprintf(bw, "0x%03X  %02X    DB $%02X\n", int(origin)+offset, rom[offset], rom[offset]); err != nil {
			return err
		}
	}

	return bw.Flush()
}
