package emulator

import "unicode"

// KeyLayout maps the left hand block of a QWERTY keyboard onto the CHIP-8
// keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var KeyLayout = map[rune]uint8{
	'1': 0x1,
	'2': 0x2,
	'3': 0x3,
	'4': 0xC,
	'q': 0x4,
	'w': 0x5,
	'e': 0x6,
	'r': 0xD,
	'a': 0x7,
	's': 0x8,
	'd': 0x9,
	'f': 0xE,
	'z': 0xA,
	'x': 0x0,
	'c': 0xB,
	'v': 0xF,
}

// KeyForRune looks up a character, ignoring case.
func KeyForRune(r rune) (uint8, bool) {
	key, ok := KeyLayout[unicode.ToLower(r)]
	return key, ok
}
