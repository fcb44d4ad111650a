package mode

import "github.com/dshills/keypad/internal/input/key"

// EventKind identifies what a decoder event reports.
type EventKind uint8

const (
	// TextChanged carries the full text buffer after a change.
	TextChanged EventKind = iota

	// Enter carries the text buffer when the enter key is pressed.
	Enter

	// Deleted carries the code of the delete key after a character was removed.
	Deleted
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case TextChanged:
		return "text"
	case Enter:
		return "enter"
	case Deleted:
		return "delete"
	default:
		return "unknown"
	}
}

// Event is produced by the decoder.
type Event struct {
	Kind EventKind
	Text string
	Code key.Code
}
