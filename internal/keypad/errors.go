package keypad

import "errors"

// Configuration errors.
var (
	// ErrNilDriver is returned when a keypad is created without a driver.
	ErrNilDriver = errors.New("keypad: nil driver")

	// ErrInvalidLongPress is returned for a negative long press duration.
	ErrInvalidLongPress = errors.New("keypad: long press duration must not be negative")

	// ErrInvalidSettleDelay is returned for a negative settle delay.
	ErrInvalidSettleDelay = errors.New("keypad: settle delay must not be negative")

	// ErrInvalidBeeper is returned for a beeper without a positive duration.
	ErrInvalidBeeper = errors.New("keypad: beeper duration must be positive")

	// ErrBeeperLine is returned when the beeper shares a line with the matrix.
	ErrBeeperLine = errors.New("keypad: beeper line is used by the matrix")
)
