package mode

import "errors"

// Sentinel errors for the mode package.
var (
	// ErrUnknownMode is returned when parsing an unrecognized mode name.
	ErrUnknownMode = errors.New("unknown input mode")

	// ErrInvalidTapTimeout is returned for a non-positive multi-tap timeout.
	ErrInvalidTapTimeout = errors.New("tap timeout must be positive")

	// ErrInvalidMaxLength is returned for a negative text length limit.
	ErrInvalidMaxLength = errors.New("max text length must not be negative")
)
