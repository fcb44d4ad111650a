package mode

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/keypad/internal/input/key"
)

// Defaults for decoder options.
const (
	DefaultTapTimeout = 600 * time.Millisecond
	DefaultMaxLength  = 20
	DefaultDeleteKey  = '*'
	DefaultEnterKey   = '#'
	DefaultFloatKey   = '*'
)

// Options configures a Decoder. Special keys are matched by label; a zero
// rune means the key is not used.
type Options struct {
	Mode       Mode
	TapTimeout time.Duration

	// MaxLength caps the text buffer. Zero means unlimited.
	MaxLength int

	DeleteKey rune
	EnterKey  rune
	FloatKey  rune
}

// DefaultOptions returns the factory decoder configuration.
func DefaultOptions() Options {
	return Options{
		Mode:       Integer,
		TapTimeout: DefaultTapTimeout,
		MaxLength:  DefaultMaxLength,
		DeleteKey:  DefaultDeleteKey,
		EnterKey:   DefaultEnterKey,
		FloatKey:   DefaultFloatKey,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if !o.Mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, o.Mode)
	}
	if o.TapTimeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTapTimeout, o.TapTimeout)
	}
	if o.MaxLength < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxLength, o.MaxLength)
	}
	return nil
}

// Decoder turns key presses into text according to the input mode.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	opts Options
	mode Mode

	// composition state (T9 only)
	pending  *key.Key
	tapCount int
	lastTap  time.Time

	buffer []rune

	resets int
}

// NewDecoder creates a decoder.
func NewDecoder(opts Options) (*Decoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		opts:   opts,
		mode:   opts.Mode,
		buffer: make([]rune, 0, 32),
	}, nil
}

// Mode returns the active input mode.
func (d *Decoder) Mode() Mode {
	return d.mode
}

// State returns Composing while a multi-tap character is pending.
func (d *Decoder) State() State {
	if d.pending != nil {
		return Composing
	}
	return Idle
}

// SetMode switches the input mode. Any pending character is discarded
// without an event; committed text is kept. Selecting the current mode
// changes nothing. Returns true if a pending character was discarded.
func (d *Decoder) SetMode(m Mode) bool {
	if m == d.mode {
		return false
	}
	discarded := d.pending != nil
	d.resetComposition()
	d.mode = m
	return discarded
}

// SetDeleteKey changes the delete key label. Zero disables it.
func (d *Decoder) SetDeleteKey(r rune) {
	d.opts.DeleteKey = r
}

// SetEnterKey changes the enter key label. Zero disables it.
func (d *Decoder) SetEnterKey(r rune) {
	d.opts.EnterKey = r
}

// Options returns the decoder's current options.
func (d *Decoder) Options() Options {
	opts := d.opts
	opts.Mode = d.mode
	return opts
}

// Resets returns how many times the composition state was reset by a mode
// change or Reset.
func (d *Decoder) Resets() int {
	return d.resets
}

// Reset discards the pending character and clears the buffer without events.
func (d *Decoder) Reset() {
	d.resetComposition()
	d.buffer = d.buffer[:0]
}

func (d *Decoder) resetComposition() {
	d.pending = nil
	d.tapCount = 0
	d.lastTap = time.Time{}
	d.resets++
}

// Text returns the committed text.
func (d *Decoder) Text() string {
	return string(d.buffer)
}

// Pending returns the character that would be committed now, if any.
func (d *Decoder) Pending() (rune, bool) {
	if d.pending == nil {
		return 0, false
	}
	return d.pending.CharAt(d.tapCount), true
}

// TapCount returns the number of extra taps on the pending key.
func (d *Decoder) TapCount() int {
	return d.tapCount
}

// KeyDown handles a delivered key-down event pressed at now.
func (d *Decoder) KeyDown(k key.Key, now time.Time) []Event {
	if d.mode == Raw {
		return nil
	}

	label := k.Label()

	if d.mode == Float && d.isKey(label, d.opts.FloatKey) && !d.hasPoint() {
		return d.appendRune('.')
	}
	if d.isKey(label, d.opts.DeleteKey) {
		return d.deleteLast(k.Code)
	}
	if d.isKey(label, d.opts.EnterKey) {
		events := d.commit()
		return append(events, Event{Kind: Enter, Text: d.Text(), Code: k.Code})
	}

	switch d.mode {
	case Integer, Float:
		if !k.IsDigit() {
			return nil
		}
		return d.appendRune(label)

	case T9:
		if d.pending != nil && d.pending.Code == k.Code && now.Sub(d.lastTap) < d.opts.TapTimeout {
			d.tapCount++
			d.lastTap = now
			return nil
		}
		events := d.commit()
		pressed := k
		d.pending = &pressed
		d.tapCount = 0
		d.lastTap = now
		return events
	}

	return nil
}

// Tick commits the pending character once the tap timeout has elapsed.
func (d *Decoder) Tick(now time.Time) []Event {
	if d.pending == nil {
		return nil
	}
	if now.Sub(d.lastTap) < d.opts.TapTimeout {
		return nil
	}
	return d.commit()
}

// Commit commits the pending character immediately.
func (d *Decoder) Commit() []Event {
	return d.commit()
}

// Clear discards the pending character and empties the buffer.
func (d *Decoder) Clear() []Event {
	d.pending = nil
	d.tapCount = 0
	if len(d.buffer) == 0 {
		return nil
	}
	d.buffer = d.buffer[:0]
	return []Event{{Kind: TextChanged, Text: "", Code: key.NoCode}}
}

func (d *Decoder) commit() []Event {
	if d.pending == nil {
		return nil
	}
	r := d.pending.CharAt(d.tapCount)
	d.pending = nil
	d.tapCount = 0
	return d.appendRune(r)
}

func (d *Decoder) appendRune(r rune) []Event {
	if d.opts.MaxLength > 0 && len(d.buffer) >= d.opts.MaxLength {
		return nil
	}
	d.buffer = append(d.buffer, r)
	return []Event{{Kind: TextChanged, Text: d.Text(), Code: key.NoCode}}
}

func (d *Decoder) deleteLast(code key.Code) []Event {
	if d.pending != nil {
		d.pending = nil
		d.tapCount = 0
		return nil
	}
	if len(d.buffer) == 0 {
		return nil
	}
	d.buffer = d.buffer[:len(d.buffer)-1]
	return []Event{
		{Kind: Deleted, Text: d.Text(), Code: code},
		{Kind: TextChanged, Text: d.Text(), Code: key.NoCode},
	}
}

func (d *Decoder) hasPoint() bool {
	return strings.ContainsRune(d.Text(), '.')
}

func (d *Decoder) isKey(label, special rune) bool {
	return special != 0 && label == special
}
