package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keypad/internal/input/combo"
	"github.com/dshills/keypad/internal/input/debounce"
	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/keypad"
	"github.com/dshills/keypad/internal/logging"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

// noEnv keeps the process environment out of tests.
var noEnv = WithEnv(nil)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	kc, err := cfg.ToKeypad()
	require.NoError(t, err)

	want := keypad.DefaultConfig()
	assert.Equal(t, want.Mode, kc.Mode)
	assert.Equal(t, want.DebounceWindow, kc.DebounceWindow)
	assert.Equal(t, want.TapTimeout, kc.TapTimeout)
	assert.Equal(t, want.LongPress, kc.LongPress)
	assert.Equal(t, want.SettleDelay, kc.SettleDelay)
	assert.Equal(t, want.Pull, kc.Pull)
	assert.Equal(t, want.ChordPolicy, kc.ChordPolicy)
	assert.Equal(t, want.DeleteKey, kc.DeleteKey)
	assert.Equal(t, want.EnterKey, kc.EnterKey)
	assert.Equal(t, want.FloatKey, kc.FloatKey)
	assert.Equal(t, 12, kc.Layout.Len())
	assert.Nil(t, kc.Beeper)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel())
}

func TestLoadTOML(t *testing.T) {
	files := memFS{"/etc/keypad.toml": `
[keypad]
mode = "t9"
debounce_window = 2
tap_timeout = "450ms"
chord_policy = "both"
pull = "down"
delete_key = ""
mask_text = true

[layout]
rows = [1]
cols = [2, 3]
keys = [["jkl", "#"]]
codes = [[5, 6]]

[beeper]
enabled = true
line = 9
duration = "20ms"

[logging]
level = "debug"

[plugin]
script = "listeners.lua"
`}

	cfg, err := Load("/etc/keypad.toml", WithFS(files), noEnv)
	require.NoError(t, err)
	assert.Equal(t, "listeners.lua", cfg.Plugin.Script)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel())

	kc, err := cfg.ToKeypad()
	require.NoError(t, err)
	assert.Equal(t, mode.T9, kc.Mode)
	assert.Equal(t, 2, kc.DebounceWindow)
	assert.Equal(t, 450*time.Millisecond, kc.TapTimeout)
	assert.Equal(t, combo.Both, kc.ChordPolicy)
	assert.Equal(t, matrix.PullDown, kc.Pull)
	assert.Equal(t, rune(0), kc.DeleteKey)
	assert.Equal(t, '#', kc.EnterKey)
	assert.True(t, kc.MaskText)
	assert.Equal(t, keypad.DefaultLongPress, kc.LongPress, "unset settings keep defaults")

	k, ok := kc.Layout.Key(5)
	require.True(t, ok)
	assert.Equal(t, "jkl", string(k.Chars))
	assert.Equal(t, []key.Line{2, 3}, kc.Layout.Cols())

	require.NotNil(t, kc.Beeper)
	assert.Equal(t, key.Line(9), kc.Beeper.Line)
	assert.Equal(t, 20*time.Millisecond, kc.Beeper.Duration)
}

func TestLoadYAML(t *testing.T) {
	files := memFS{"/keypad.yml": `
keypad:
  mode: float
  long_press: 2s
  max_text_length: 8
logging:
  level: warn
`}

	cfg, err := Load("/keypad.yml", WithFS(files), noEnv)
	require.NoError(t, err)

	kc, err := cfg.ToKeypad()
	require.NoError(t, err)
	assert.Equal(t, mode.Float, kc.Mode)
	assert.Equal(t, 2*time.Second, kc.LongPress)
	assert.Equal(t, 8, kc.MaxTextLength)
	assert.Equal(t, logging.LevelWarn, cfg.LogLevel())
}

func TestLoadEnvOverrides(t *testing.T) {
	files := memFS{"/k.toml": "[keypad]\nmode = \"raw\"\n"}

	cfg, err := Load("/k.toml", WithFS(files), WithEnv([]string{
		"KEYPAD_MODE=t9",
		"KEYPAD_DEBOUNCE_WINDOW=5",
		"KEYPAD_TAP_TIMEOUT=300ms",
		"KEYPAD_KEYPAD_ENTER_KEY=",
		"KEYPAD_LOG_LEVEL=error",
	}))
	require.NoError(t, err)
	assert.Equal(t, "t9", cfg.Keypad.Mode, "environment beats file")
	assert.Equal(t, 5, cfg.Keypad.DebounceWindow)
	assert.Equal(t, 300*time.Millisecond, cfg.Keypad.TapTimeout.Std())
	assert.Equal(t, "", cfg.Keypad.EnterKey)
	assert.Equal(t, logging.LevelError, cfg.LogLevel())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	files := memFS{
		"/bad.toml":     "[keypad\n",
		"/window.toml":  "[keypad]\ndebounce_window = 0\n",
		"/mode.yaml":    "keypad:\n  mode: morse\n",
		"/layout.toml":  "[layout]\nrows = [1]\ncols = [2]\nkeys = [[\"a\", \"b\"]]\n",
		"/line.toml":    "[layout]\nrows = [300]\ncols = [2]\nkeys = [[\"a\"]]\n",
		"/label.toml":   "[keypad]\ndelete_key = \"**\"\n",
		"/beeper.toml":  "[beeper]\nenabled = true\nline = 3\n",
		"/level.toml":   "[logging]\nlevel = \"loud\"\n",
		"/config.json":  "{}",
		"/pull.toml":    "[keypad]\npull = \"sideways\"\n",
		"/timeout.yaml": "keypad:\n  tap_timeout: soon\n",
	}

	tests := []struct {
		path string
		want error
	}{
		{"/missing.toml", ErrFileNotFound},
		{"/window.toml", debounce.ErrInvalidWindow},
		{"/mode.yaml", mode.ErrUnknownMode},
		{"/layout.toml", key.ErrRaggedLayout},
		{"/line.toml", ErrInvalidValue},
		{"/label.toml", ErrInvalidValue},
		{"/beeper.toml", keypad.ErrBeeperLine},
		{"/level.toml", ErrInvalidValue},
		{"/pull.toml", ErrInvalidValue},
		{"/timeout.yaml", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := Load(tt.path, WithFS(files), noEnv)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Load("/bad.toml", WithFS(files), noEnv)
	assert.Error(t, err)
	_, err = Load("/config.json", WithFS(files), noEnv)
	assert.Error(t, err)
}

func TestValidationErrorPath(t *testing.T) {
	cfg := Default()
	cfg.Keypad.ChordPolicy = "loudest"

	err := cfg.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "keypad.chord_policy", verr.Path)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSet(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set("beeper.enabled", "true"))
	require.NoError(t, cfg.Set("beeper.line", "12"))
	require.NoError(t, cfg.Set("keypad.mask_text", "1"))
	assert.True(t, cfg.Beeper.Enabled)
	assert.Equal(t, 12, cfg.Beeper.Line)
	assert.True(t, cfg.Keypad.MaskText)

	assert.ErrorIs(t, cfg.Set("keypad.colour", "red"), ErrUnknownSetting)
	assert.ErrorIs(t, cfg.Set("keypad.max_text_length", "many"), ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("keypad.long_press", "forever"), ErrInvalidValue)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.ErrorIs(t, d.UnmarshalText([]byte("90")), ErrInvalidValue)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keypad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[keypad]\nmode = \"raw\"\n"), 0o644))

	got := make(chan *Config, 4)
	r, err := Watch(path, logging.Nop(), func(c *Config) { got <- c }, noEnv)
	require.NoError(t, err)
	defer r.Close()

	// an invalid edit is skipped
	require.NoError(t, os.WriteFile(path, []byte("[keypad]\nmode = \"morse\"\n"), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[keypad]\nmode = \"t9\"\n"), 0o644))

	select {
	case c := <-got:
		assert.Equal(t, "t9", c.Keypad.Mode)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload")
	}
}
