package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a YAML loader reading from the OS file system.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{fs: DefaultFS()}
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// LoadFrom decodes the file at path into v.
func (l *YAMLLoader) LoadFrom(path string, v any) (bool, error) {
	data, found, err := readFile(l.fs, path)
	if err != nil || !found {
		return found, err
	}
	return true, l.parse(path, data, v)
}

// LoadFromReader decodes YAML read from r into v.
func (l *YAMLLoader) LoadFromReader(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data, v)
}

func (l *YAMLLoader) parse(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytesReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		// an empty document leaves v untouched
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}

func bytesReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
