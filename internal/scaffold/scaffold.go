// Package scaffold writes the default keypad entry point.
//
// Ensure only ever creates the file. An existing file at the target path,
// edited or not, is left alone.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/dshills/keypad/internal/input/mode"
)

// DefaultPath is where the entry point is written when no path is given.
const DefaultPath = "cmd/keypad/main.go"

// DefaultModule is the module path imported by the generated file.
const DefaultModule = "github.com/dshills/keypad"

//go:embed templates/main.go.tmpl
var templates embed.FS

var mainTemplate = template.Must(template.ParseFS(templates, "templates/main.go.tmpl"))

// Data fills the entry point template.
type Data struct {
	// Module is the import path prefix of the keypad packages.
	Module string

	// Mode is the input mode the entry point selects.
	Mode mode.Mode

	// Interval is the pause between scans.
	Interval time.Duration
}

// DefaultData returns the values used for the checked-in entry point.
func DefaultData() Data {
	return Data{
		Module:   DefaultModule,
		Mode:     mode.T9,
		Interval: 5 * time.Millisecond,
	}
}

// Validate checks that the data renders a compilable file.
func (d Data) Validate() error {
	if d.Module == "" || strings.ContainsAny(d.Module, " \t\n\"`\\") {
		return fmt.Errorf("%w: %q", ErrInvalidModule, d.Module)
	}
	if !d.Mode.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, d.Mode)
	}
	if d.Interval < time.Millisecond || d.Interval%time.Millisecond != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, d.Interval)
	}
	return nil
}

// ModeName returns the exported identifier of Mode in the mode package.
func (d Data) ModeName() string {
	switch d.Mode {
	case mode.Raw:
		return "Raw"
	case mode.Integer:
		return "Integer"
	case mode.Float:
		return "Float"
	default:
		return "T9"
	}
}

// IntervalMillis returns Interval in milliseconds.
func (d Data) IntervalMillis() int64 {
	return d.Interval.Milliseconds()
}

// Render writes the gofmt-formatted entry point to w.
func Render(w io.Writer, data Data) error {
	if err := data.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := mainTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// Ensure writes the entry point to path unless a file already exists
// there. Parent directories are created as needed. It reports whether the
// file was created.
func Ensure(path string, data Data) (created bool, err error) {
	var buf bytes.Buffer
	if err := Render(&buf, data); err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		// Lost a race with another writer; theirs wins.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(path)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return false, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}
