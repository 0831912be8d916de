package calculator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Key is a single calculator key press.
type Key int

const (
	Digit0 Key = iota
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	Dot
	ToggleSign
	Percent
	Clear
	Equals
	Add
	Subtract
	Multiply
	Divide
)

// ErrUnknownKey is returned when text does not name a calculator key.
var ErrUnknownKey = errors.New("unknown key")

var glyphs = [...]string{
	Digit0:     "0",
	Digit1:     "1",
	Digit2:     "2",
	Digit3:     "3",
	Digit4:     "4",
	Digit5:     "5",
	Digit6:     "6",
	Digit7:     "7",
	Digit8:     "8",
	Digit9:     "9",
	Dot:        ".",
	ToggleSign: "±",
	Percent:    "%",
	Clear:      "AC",
	Equals:     "=",
	Add:        "+",
	Subtract:   "-",
	Multiply:   "×",
	Divide:     "÷",
}

var aliases = map[string]Key{
	"*":     Multiply,
	"x":     Multiply,
	"X":     Multiply,
	"/":     Divide,
	"c":     Clear,
	"C":     Clear,
	"ac":    Clear,
	"clear": Clear,
	"esc":   Clear,
	"enter": Equals,
	"n":     ToggleSign,
	"~":     ToggleSign,
	"+/-":   ToggleSign,
	"neg":   ToggleSign,
	",":     Dot,
}

// Digit returns the key for decimal digit d. It panics if d is not in 0..9.
func Digit(d int) Key {
	if d < 0 || d > 9 {
		panic(fmt.Sprintf("calculator: digit %d out of range", d))
	}
	return Digit0 + Key(d)
}

// Valid reports whether k is one of the defined keys.
func (k Key) Valid() bool {
	return k >= Digit0 && k <= Divide
}

// IsDigit reports whether k is one of Digit0..Digit9.
func (k Key) IsDigit() bool {
	return k >= Digit0 && k <= Digit9
}

// Operation returns the arithmetic operation bound to k, or NoOperation.
func (k Key) Operation() Operation {
	switch k {
	case Add:
		return Addition
	case Subtract:
		return Subtraction
	case Multiply:
		return Multiplication
	case Divide:
		return Division
	}
	return NoOperation
}

// String returns the glyph shown on the key.
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return glyphs[k]
}

// ParseKey maps a glyph or alias to its key.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	for k, g := range glyphs {
		if s == g {
			return Key(k), nil
		}
	}
	if k, ok := aliases[s]; ok {
		return k, nil
	}
	if k, ok := aliases[strings.ToLower(s)]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// ParseKeys splits input into keys one rune at a time, skipping whitespace.
func ParseKeys(input string) ([]Key, error) {
	keys := make([]Key, 0, len(input))
	for i, r := range input {
		if unicode.IsSpace(r) {
			continue
		}
		k, err := ParseKey(string(r))
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
