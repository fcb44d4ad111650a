package scaffold

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/keypad/internal/input/mode"
)

func TestEnsureCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd", "keypad", "main.go")

	created, err := Ensure(path, DefaultData())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !created {
		t.Fatal("Ensure() created = false, want true")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(got, []byte("kp.SetType(mode.T9)")) {
		t.Errorf("generated file does not select T9:\n%s", got)
	}
}

func TestEnsureNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	const existing = "package main\n\n// edited by hand\n"
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := Ensure(path, DefaultData())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if created {
		t.Error("Ensure() created = true, want false")
	}

	got, _ := os.ReadFile(path)
	if string(got) != existing {
		t.Errorf("file changed to:\n%s", got)
	}
}

func TestEnsureTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")

	first, err := Ensure(path, DefaultData())
	if err != nil || !first {
		t.Fatalf("first Ensure() = %v, %v", first, err)
	}
	second, err := Ensure(path, DefaultData())
	if err != nil || second {
		t.Fatalf("second Ensure() = %v, %v; want false, nil", second, err)
	}
}

func TestEnsureInvalidDataWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")

	_, err := Ensure(path, Data{Module: "", Mode: mode.T9, Interval: time.Millisecond})
	if !errors.Is(err, ErrInvalidModule) {
		t.Fatalf("Ensure() error = %v, want ErrInvalidModule", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file exists after failed Ensure()")
	}
}

func TestDataValidate(t *testing.T) {
	tests := []struct {
		name string
		data Data
		want error
	}{
		{"default", DefaultData(), nil},
		{"empty module", Data{Mode: mode.Raw, Interval: time.Millisecond}, ErrInvalidModule},
		{"quoted module", Data{Module: `a"b`, Mode: mode.Raw, Interval: time.Millisecond}, ErrInvalidModule},
		{"bad mode", Data{Module: "m", Mode: mode.Mode(9), Interval: time.Millisecond}, ErrInvalidMode},
		{"zero interval", Data{Module: "m", Mode: mode.Raw}, ErrInvalidInterval},
		{"sub-millisecond", Data{Module: "m", Mode: mode.Raw, Interval: 1500 * time.Microsecond}, ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRenderModes(t *testing.T) {
	for _, m := range []mode.Mode{mode.Raw, mode.Integer, mode.Float, mode.T9} {
		data := DefaultData()
		data.Mode = m
		data.Interval = 20 * time.Millisecond

		var buf bytes.Buffer
		if err := Render(&buf, data); err != nil {
			t.Fatalf("Render(%s) error = %v", m, err)
		}
		out := buf.String()
		if !strings.Contains(out, "kp.SetType(mode."+data.ModeName()+")") {
			t.Errorf("Render(%s) missing SetType call", m)
		}
		if !strings.Contains(out, "const scanInterval = 20 * time.Millisecond") {
			t.Errorf("Render(%s) missing interval", m)
		}
	}
}

// The checked-in entry point is the template rendered with DefaultData.
func TestCheckedInEntryPointMatches(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("..", "..", "cmd", "keypad", "main.go"))
	if err != nil {
		t.Skipf("entry point not found: %v", err)
	}

	var got bytes.Buffer
	if err := Render(&got, DefaultData()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), got.String()); diff != "" {
		t.Errorf("cmd/keypad/main.go differs from template (-file +template):\n%s", diff)
	}
}
