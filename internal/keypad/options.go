package keypad

import (
	"time"

	"github.com/dshills/keypad/internal/event/dispatch"
	"github.com/dshills/keypad/internal/logging"
)

// Option configures a Keypad.
type Option func(*Keypad)

// WithClock sets the time source. Defaults to the system clock.
func WithClock(c Clock) Option {
	return func(k *Keypad) {
		if c != nil {
			k.clock = c
		}
	}
}

// WithLogger sets the logger. Defaults to a logger that discards output.
func WithLogger(l *logging.Logger) Option {
	return func(k *Keypad) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithPanicHandler is called after a listener panic has been recovered and
// logged.
func WithPanicHandler(h dispatch.PanicHandler) Option {
	return func(k *Keypad) {
		k.onPanic = h
	}
}

// WithSleeper replaces the function used to wait for row lines to settle.
func WithSleeper(fn func(time.Duration)) Option {
	return func(k *Keypad) {
		k.sleeper = fn
	}
}
