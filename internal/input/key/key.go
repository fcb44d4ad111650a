package key

import (
	"strconv"
	"unicode"
)

// Code identifies one physical key position in the matrix.
type Code int

// NoCode represents no key.
const NoCode Code = -1

// String returns the decimal form of the code.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// Line identifies a row or column line of the matrix (a GPIO pin number on
// real hardware).
type Line uint8

// Key is one intersection of the matrix.
type Key struct {
	// Code identifies the key.
	Code Code

	// Row and Col are the indexes of the key's lines in the layout.
	Row int
	Col int

	// Chars is the multi-tap character group. Never empty in a valid layout.
	Chars []rune
}

// Label returns the first character of the key's group.
func (k Key) Label() rune {
	if len(k.Chars) == 0 {
		return 0
	}
	return k.Chars[0]
}

// CharAt returns the character selected after the given number of extra
// taps, wrapping around the group.
func (k Key) CharAt(index int) rune {
	if len(k.Chars) == 0 {
		return 0
	}
	if index < 0 {
		index = 0
	}
	return k.Chars[index%len(k.Chars)]
}

// GroupSize returns the number of characters in the key's group.
func (k Key) GroupSize() int {
	return len(k.Chars)
}

// IsDigit returns true if the key's label is a decimal digit.
func (k Key) IsDigit() bool {
	return unicode.IsDigit(k.Label())
}

// IsZero returns true if this is the zero Key.
func (k Key) IsZero() bool {
	return k.Code == 0 && k.Row == 0 && k.Col == 0 && k.Chars == nil
}

// String returns the key's character group.
func (k Key) String() string {
	return string(k.Chars)
}
