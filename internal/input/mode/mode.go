package mode

import (
	"fmt"
	"strings"
)

// Mode is the keypad input mode.
type Mode uint8

const (
	// Raw forwards key events and composes no text.
	Raw Mode = iota

	// Integer appends digit key labels to the text buffer.
	Integer

	// Float is Integer plus one decimal point.
	Float

	// T9 composes text by multi-tap over character groups.
	T9
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Raw:
		return "raw"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case T9:
		return "t9"
	default:
		return fmt.Sprintf("mode(%d)", m)
	}
}

// Composes returns true if the mode builds a text buffer.
func (m Mode) Composes() bool {
	return m != Raw
}

// Valid returns true for a known mode.
func (m Mode) Valid() bool {
	return m <= T9
}

// Next returns the following mode, wrapping after T9.
func (m Mode) Next() Mode {
	if m >= T9 {
		return Raw
	}
	return m + 1
}

// Parse parses a mode name (case-insensitive).
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return Raw, nil
	case "integer", "int":
		return Integer, nil
	case "float":
		return Float, nil
	case "t9", "text":
		return T9, nil
	default:
		return Raw, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// State is the composition state of the decoder.
type State uint8

const (
	// Idle means no character is pending.
	Idle State = iota

	// Composing means a multi-tap character is pending commit.
	Composing
)

// String returns the state name.
func (s State) String() string {
	if s == Composing {
		return "composing"
	}
	return "idle"
}
