package keypad

import (
	"fmt"
	"time"

	"github.com/dshills/keypad/internal/input/combo"
	"github.com/dshills/keypad/internal/input/debounce"
	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/input/mode"
)

// DefaultLongPress is how long a key must be held to fire a long press.
const DefaultLongPress = 5 * time.Second

// Beeper drives an output line high for Duration after each key-down.
type Beeper struct {
	Line     key.Line
	Duration time.Duration
}

// Config holds everything needed to build a Keypad.
type Config struct {
	// Layout is the key grid and the lines it is wired to.
	Layout *key.Layout

	// Mode is the initial input mode.
	Mode mode.Mode

	// DebounceWindow is the number of agreeing scans before a key changes
	// state.
	DebounceWindow int

	// TapTimeout ends a multi-tap composition.
	TapTimeout time.Duration

	// LongPress is the hold time for long-press events. Zero disables them.
	LongPress time.Duration

	// SettleDelay is waited after driving each row.
	SettleDelay time.Duration

	Pull        matrix.Pull
	ChordPolicy combo.Policy

	// MaxTextLength caps the decoded text. Zero means unlimited.
	MaxTextLength int

	// Special key labels. Zero disables the key.
	DeleteKey rune
	EnterKey  rune
	FloatKey  rune

	// MaskText replaces every character with '*' in text and enter events.
	MaskText bool

	// Beeper is optional.
	Beeper *Beeper
}

// DefaultConfig returns the factory configuration: the 4x3 telephone layout
// on lines 2..5 and 6..8 with pull-up inputs.
func DefaultConfig() Config {
	return Config{
		Layout:         key.FactoryLayout(),
		Mode:           mode.Integer,
		DebounceWindow: debounce.DefaultWindow,
		TapTimeout:     mode.DefaultTapTimeout,
		LongPress:      DefaultLongPress,
		SettleDelay:    matrix.DefaultSettleDelay,
		Pull:           matrix.PullUp,
		ChordPolicy:    combo.Suppress,
		MaxTextLength:  mode.DefaultMaxLength,
		DeleteKey:      mode.DefaultDeleteKey,
		EnterKey:       mode.DefaultEnterKey,
		FloatKey:       mode.DefaultFloatKey,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Layout == nil {
		return fmt.Errorf("layout: %w", matrix.ErrNilLayout)
	}
	if c.DebounceWindow < 1 {
		return fmt.Errorf("debounce window %d: %w", c.DebounceWindow, debounce.ErrInvalidWindow)
	}
	if err := c.decoderOptions().Validate(); err != nil {
		return err
	}
	if c.LongPress < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidLongPress, c.LongPress)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidSettleDelay, c.SettleDelay)
	}
	if c.Pull != matrix.PullUp && c.Pull != matrix.PullDown {
		return fmt.Errorf("unknown pull %d", c.Pull)
	}
	if c.ChordPolicy != combo.Suppress && c.ChordPolicy != combo.Both {
		return fmt.Errorf("unknown chord policy %d", c.ChordPolicy)
	}
	if c.Beeper != nil {
		if c.Beeper.Duration <= 0 {
			return fmt.Errorf("%w: got %s", ErrInvalidBeeper, c.Beeper.Duration)
		}
		for _, l := range append(c.Layout.Rows(), c.Layout.Cols()...) {
			if l == c.Beeper.Line {
				return fmt.Errorf("%w: line %d", ErrBeeperLine, l)
			}
		}
	}
	return nil
}

func (c Config) decoderOptions() mode.Options {
	return mode.Options{
		Mode:       c.Mode,
		TapTimeout: c.TapTimeout,
		MaxLength:  c.MaxTextLength,
		DeleteKey:  c.DeleteKey,
		EnterKey:   c.EnterKey,
		FloatKey:   c.FloatKey,
	}
}
