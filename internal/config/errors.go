package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrInvalidValue indicates a setting has a value it cannot take.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownSetting indicates an override names no known setting.
	ErrUnknownSetting = errors.New("unknown setting")
)

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Value is the invalid value.
	Value any
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (value: %v)", e.Path, e.Err, e.Value)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(path string, value any, err error) error {
	return &ValidationError{Path: path, Value: value, Err: err}
}
