package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs FileSystem
}

// NewTOMLLoader creates a TOML loader reading from the OS file system.
func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{fs: DefaultFS()}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem) *TOMLLoader {
	return &TOMLLoader{fs: fs}
}

// LoadFrom decodes the file at path into v.
func (l *TOMLLoader) LoadFrom(path string, v any) (bool, error) {
	data, found, err := readFile(l.fs, path)
	if err != nil || !found {
		return found, err
	}
	return true, l.parse(path, data, v)
}

// LoadFromReader decodes TOML read from r into v.
func (l *TOMLLoader) LoadFromReader(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data, v)
}

func (l *TOMLLoader) parse(source string, data []byte, v any) error {
	dec := toml.NewDecoder(bytesReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = "unknown setting: " + serr.String()
		}
		return perr
	}
	return nil
}
