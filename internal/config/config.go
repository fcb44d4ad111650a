package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/keypad/internal/config/loader"
	"github.com/dshills/keypad/internal/input/combo"
	"github.com/dshills/keypad/internal/input/debounce"
	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/keypad"
	"github.com/dshills/keypad/internal/logging"
)

// Config is the file representation of a keypad setup.
type Config struct {
	Keypad  KeypadSection  `toml:"keypad" yaml:"keypad"`
	Layout  LayoutSection  `toml:"layout" yaml:"layout"`
	Beeper  BeeperSection  `toml:"beeper" yaml:"beeper"`
	Logging LoggingSection `toml:"logging" yaml:"logging"`
	Plugin  PluginSection  `toml:"plugin" yaml:"plugin"`
}

// KeypadSection holds scanning and decoding settings.
type KeypadSection struct {
	Mode           string   `toml:"mode" yaml:"mode"`
	DebounceWindow int      `toml:"debounce_window" yaml:"debounce_window"`
	TapTimeout     Duration `toml:"tap_timeout" yaml:"tap_timeout"`
	LongPress      Duration `toml:"long_press" yaml:"long_press"`
	SettleDelay    Duration `toml:"settle_delay" yaml:"settle_delay"`
	Pull           string   `toml:"pull" yaml:"pull"`
	ChordPolicy    string   `toml:"chord_policy" yaml:"chord_policy"`
	MaxTextLength  int      `toml:"max_text_length" yaml:"max_text_length"`
	DeleteKey      string   `toml:"delete_key" yaml:"delete_key"`
	EnterKey       string   `toml:"enter_key" yaml:"enter_key"`
	FloatKey       string   `toml:"float_key" yaml:"float_key"`
	MaskText       bool     `toml:"mask_text" yaml:"mask_text"`
}

// LayoutSection describes the key grid. An empty section means the factory
// layout.
type LayoutSection struct {
	Rows  []int      `toml:"rows" yaml:"rows"`
	Cols  []int      `toml:"cols" yaml:"cols"`
	Keys  [][]string `toml:"keys" yaml:"keys"`
	Codes [][]int    `toml:"codes" yaml:"codes"`
}

// IsZero returns true if no layout was configured.
func (l LayoutSection) IsZero() bool {
	return len(l.Rows) == 0 && len(l.Cols) == 0 && len(l.Keys) == 0 && len(l.Codes) == 0
}

// BeeperSection configures the key-press beeper.
type BeeperSection struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Line     int      `toml:"line" yaml:"line"`
	Duration Duration `toml:"duration" yaml:"duration"`
}

// LoggingSection configures logging.
type LoggingSection struct {
	Level string `toml:"level" yaml:"level"`
}

// PluginSection names an optional Lua listener script.
type PluginSection struct {
	Script string `toml:"script" yaml:"script"`
}

// Default returns the factory settings.
func Default() *Config {
	return &Config{
		Keypad: KeypadSection{
			Mode:           mode.Integer.String(),
			DebounceWindow: debounce.DefaultWindow,
			TapTimeout:     Duration(mode.DefaultTapTimeout),
			LongPress:      Duration(keypad.DefaultLongPress),
			SettleDelay:    Duration(matrix.DefaultSettleDelay),
			Pull:           matrix.PullUp.String(),
			ChordPolicy:    combo.Suppress.String(),
			MaxTextLength:  mode.DefaultMaxLength,
			DeleteKey:      string(mode.DefaultDeleteKey),
			EnterKey:       string(mode.DefaultEnterKey),
			FloatKey:       string(mode.DefaultFloatKey),
		},
		Beeper: BeeperSection{
			Duration: Duration(50 * time.Millisecond),
		},
		Logging: LoggingSection{
			Level: "info",
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// WithFS reads config files through fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnv reads overrides from env, given as KEY=VALUE strings, instead of
// the process environment.
func WithEnv(env []string) LoadOption {
	return func(o *loadOptions) {
		o.env = loader.NewEnvLoaderFrom(loader.DefaultEnvPrefix, env)
	}
}

// Load resolves defaults, the file at path and environment overrides, then
// validates the result. An empty path skips the file layer.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()

	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		found, err := l.LoadFrom(path, cfg)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	}

	if err := cfg.ApplyEnv(o.env.Load()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies overrides keyed by setting path, such as
// "keypad.tap_timeout". Paths are applied in sorted order.
func (c *Config) ApplyEnv(overrides map[string]string) error {
	paths := make([]string, 0, len(overrides))
	for p := range overrides {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := c.Set(p, overrides[p]); err != nil {
			return err
		}
	}
	return nil
}

// Set assigns a single setting from its string form.
func (c *Config) Set(path, value string) error {
	var err error
	switch path {
	case "keypad.mode":
		c.Keypad.Mode = value
	case "keypad.debounce_window":
		c.Keypad.DebounceWindow, err = strconv.Atoi(value)
	case "keypad.tap_timeout":
		err = c.Keypad.TapTimeout.UnmarshalText([]byte(value))
	case "keypad.long_press":
		err = c.Keypad.LongPress.UnmarshalText([]byte(value))
	case "keypad.settle_delay":
		err = c.Keypad.SettleDelay.UnmarshalText([]byte(value))
	case "keypad.pull":
		c.Keypad.Pull = value
	case "keypad.chord_policy":
		c.Keypad.ChordPolicy = value
	case "keypad.max_text_length":
		c.Keypad.MaxTextLength, err = strconv.Atoi(value)
	case "keypad.delete_key":
		c.Keypad.DeleteKey = value
	case "keypad.enter_key":
		c.Keypad.EnterKey = value
	case "keypad.float_key":
		c.Keypad.FloatKey = value
	case "keypad.mask_text":
		c.Keypad.MaskText, err = strconv.ParseBool(value)
	case "beeper.enabled":
		c.Beeper.Enabled, err = strconv.ParseBool(value)
	case "beeper.line":
		c.Beeper.Line, err = strconv.Atoi(value)
	case "beeper.duration":
		err = c.Beeper.Duration.UnmarshalText([]byte(value))
	case "logging.level":
		c.Logging.Level = value
	case "plugin.script":
		c.Plugin.Script = value
	default:
		return invalid(path, value, ErrUnknownSetting)
	}
	if err != nil {
		if !errors.Is(err, ErrInvalidValue) {
			err = fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return invalid(path, value, err)
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, err)
	}
	_, err := c.ToKeypad()
	return err
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// ToKeypad converts the settings into a keypad configuration.
func (c *Config) ToKeypad() (keypad.Config, error) {
	kc := keypad.DefaultConfig()
	k := c.Keypad

	m, err := mode.Parse(k.Mode)
	if err != nil {
		return kc, invalid("keypad.mode", k.Mode, err)
	}
	kc.Mode = m

	if kc.Pull, err = parsePull(k.Pull); err != nil {
		return kc, invalid("keypad.pull", k.Pull, err)
	}
	if kc.ChordPolicy, err = combo.ParsePolicy(k.ChordPolicy); err != nil {
		return kc, invalid("keypad.chord_policy", k.ChordPolicy, fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}

	for _, sk := range []struct {
		path  string
		value string
		dst   *rune
	}{
		{"keypad.delete_key", k.DeleteKey, &kc.DeleteKey},
		{"keypad.enter_key", k.EnterKey, &kc.EnterKey},
		{"keypad.float_key", k.FloatKey, &kc.FloatKey},
	} {
		r, err := parseKeyLabel(sk.value)
		if err != nil {
			return kc, invalid(sk.path, sk.value, err)
		}
		*sk.dst = r
	}

	kc.DebounceWindow = k.DebounceWindow
	kc.TapTimeout = k.TapTimeout.Std()
	kc.LongPress = k.LongPress.Std()
	kc.SettleDelay = k.SettleDelay.Std()
	kc.MaxTextLength = k.MaxTextLength
	kc.MaskText = k.MaskText

	if !c.Layout.IsZero() {
		if kc.Layout, err = c.Layout.build(); err != nil {
			return kc, invalid("layout", c.Layout, err)
		}
	}

	if c.Beeper.Enabled {
		line, err := toLine(c.Beeper.Line)
		if err != nil {
			return kc, invalid("beeper.line", c.Beeper.Line, err)
		}
		kc.Beeper = &keypad.Beeper{Line: line, Duration: c.Beeper.Duration.Std()}
	}

	if err := kc.Validate(); err != nil {
		return kc, invalid("keypad", k, err)
	}
	return kc, nil
}

func (l LayoutSection) build() (*key.Layout, error) {
	rows, err := toLines(l.Rows)
	if err != nil {
		return nil, err
	}
	cols, err := toLines(l.Cols)
	if err != nil {
		return nil, err
	}

	var codes [][]key.Code
	if len(l.Codes) > 0 {
		codes = make([][]key.Code, len(l.Codes))
		for r, row := range l.Codes {
			codes[r] = make([]key.Code, len(row))
			for c, code := range row {
				codes[r][c] = key.Code(code)
			}
		}
	}
	return key.NewLayout(rows, cols, l.Keys, codes)
}

func toLines(in []int) ([]key.Line, error) {
	out := make([]key.Line, len(in))
	for i, v := range in {
		l, err := toLine(v)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}

func toLine(v int) (key.Line, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: line %d out of range 0..255", ErrInvalidValue, v)
	}
	return key.Line(v), nil
}

func parsePull(s string) (matrix.Pull, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up", "pullup", "pull-up":
		return matrix.PullUp, nil
	case "down", "pulldown", "pull-down":
		return matrix.PullDown, nil
	default:
		return matrix.PullUp, fmt.Errorf("%w: pull %q", ErrInvalidValue, s)
	}
}

func parseKeyLabel(s string) (rune, error) {
	switch utf8.RuneCountInString(s) {
	case 0:
		return 0, nil
	case 1:
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	default:
		return 0, fmt.Errorf("%w: key label must be one character", ErrInvalidValue)
	}
}

func parseLevel(s string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug", "info", "warn", "warning", "error":
		return logging.ParseLevel(s), nil
	default:
		return logging.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidValue, s)
	}
}
