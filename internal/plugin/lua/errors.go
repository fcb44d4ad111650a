package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotBound is raised in Lua when the keypad module is used before
	// the script is bound to a keypad.
	ErrNotBound = errors.New("script is not bound to a keypad")
)
