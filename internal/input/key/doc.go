// Package key provides the key model for the keypad input system.
//
// This package defines the fundamental types for describing a matrix keypad:
//
//   - Code: Identifies one physical key position in the matrix
//   - Key: A matrix position with its multi-tap character group
//   - Layout: The row lines, column lines and key grid of a keypad
//   - Set: A sorted, immutable set of codes (the debounced snapshot)
//   - Chord: Codes held down together, in ascending order
//
// # Character Groups
//
// Every key carries an ordered group of characters. The first character is
// the key's label and is what numeric input modes use. Multi-tap text entry
// cycles through the whole group:
//
//	"2ABCabc"  -> 1 tap '2', 2 taps 'A', 3 taps 'B', ... 8 taps '2' again
//
// # Codes
//
// Unless a layout assigns codes explicitly, a key's code is its row-major
// index: row*columns + col. Codes must be unique within a layout.
package key
