package matrix

import "errors"

// Sentinel errors for the matrix package.
var (
	// ErrNilLayout is returned when a scanner is created without a layout.
	ErrNilLayout = errors.New("matrix: nil layout")

	// ErrNilDriver is returned when a scanner is created without a driver.
	ErrNilDriver = errors.New("matrix: nil driver")

	// ErrUnknownLine is returned by MemoryDriver for lines it was not told about.
	ErrUnknownLine = errors.New("matrix: unknown line")
)
