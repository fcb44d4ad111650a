// Package loader reads keypad configuration files and environment
// overrides.
//
// Files are decoded straight into a caller-supplied struct, so fields the
// file does not mention keep the values the caller set beforehand. The
// format is chosen by file extension.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension is not a
// known configuration format.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader decodes configuration into a struct.
type Loader interface {
	// LoadFrom decodes the file at path into v. It returns false, nil if
	// the file does not exist.
	LoadFrom(path string, v any) (bool, error)

	// LoadFromReader decodes everything read from r into v.
	LoadFromReader(r io.Reader, v any) error
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a configuration file format.
type Format uint8

const (
	// FormatTOML is TOML, the default format.
	FormatTOML Format = iota
	// FormatYAML is YAML.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFor returns the format of a file based on its extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// ForPath returns the loader for a file's format, reading through fsys.
func ForPath(fsys FileSystem, path string) (Loader, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return NewYAMLLoaderWithFS(fsys), nil
	}
	return NewTOMLLoaderWithFS(fsys), nil
}

// readFile reads path, reporting a missing file as (nil, false, nil).
func readFile(fsys FileSystem, path string) ([]byte, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, true, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
