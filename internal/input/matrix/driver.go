package matrix

import "github.com/dshills/keypad/internal/input/key"

// Line is a row or column line identifier.
type Line = key.Line

// Pull selects the input bias of the column lines, which fixes the active
// level of the matrix.
type Pull uint8

const (
	// PullUp biases columns high. Rows are driven low to scan and a closed
	// switch reads low.
	PullUp Pull = iota

	// PullDown biases columns low. Rows are driven high to scan and a closed
	// switch reads high.
	PullDown
)

// String returns the pull mode name.
func (p Pull) String() string {
	switch p {
	case PullUp:
		return "pullup"
	case PullDown:
		return "pulldown"
	default:
		return "unknown"
	}
}

// ActiveLevel returns the line level that means "closed" for this pull mode.
func (p Pull) ActiveLevel() bool {
	return p == PullDown
}

// Driver is the platform GPIO interface the scanner uses.
// Implementations handle the actual hardware access.
type Driver interface {
	// ConfigureOutput configures a line as a digital output.
	ConfigureOutput(line Line) error

	// ConfigureInput configures a line as a digital input with the given bias.
	ConfigureInput(line Line, pull Pull) error

	// Write sets an output line high (true) or low (false).
	Write(line Line, level bool) error

	// Read returns the level of an input line.
	Read(line Line) (bool, error)
}
