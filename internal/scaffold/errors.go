package scaffold

import "errors"

var (
	// ErrInvalidModule is returned when the module path is empty or malformed.
	ErrInvalidModule = errors.New("invalid module path")

	// ErrInvalidMode is returned for an unknown input mode.
	ErrInvalidMode = errors.New("invalid input mode")

	// ErrInvalidInterval is returned when the scan interval is not a
	// positive whole number of milliseconds.
	ErrInvalidInterval = errors.New("invalid scan interval")
)
