package keypad

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keypad/internal/event/dispatch"
	"github.com/dshills/keypad/internal/input/combo"
	"github.com/dshills/keypad/internal/input/debounce"
	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/logging"
)

// Keypad is one scanned keypad and its listeners.
// A Keypad is not safe for concurrent use; callers serialize Scan and the
// methods that change its state.
type Keypad struct {
	id     string
	cfg    Config
	clock  Clock
	logger *logging.Logger

	driver   matrix.Driver
	scanner  *matrix.Scanner
	tracker  *debounce.Tracker
	detector *combo.Detector
	decoder  *mode.Decoder

	registry   *dispatch.Registry
	dispatcher *dispatch.Dispatcher
	onPanic    dispatch.PanicHandler
	sleeper    func(time.Duration)

	enabled  bool
	masked   bool
	beeper   *Beeper
	beepOff  time.Time
	beeping  bool
	longDone map[key.Code]bool

	// epoch counts resets; a cycle stops once a listener resets the keypad.
	epoch       uint64
	dispatching int
	after       []func()

	cycles uint64
	events uint64
}

// New creates a disabled keypad on the given driver.
func New(cfg Config, driver matrix.Driver, opts ...Option) (*Keypad, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keypad config: %w", err)
	}

	k := &Keypad{
		id:       uuid.NewString(),
		cfg:      cfg,
		clock:    systemClock{},
		logger:   logging.Nop(),
		driver:   driver,
		registry: dispatch.NewRegistry(),
		masked:   cfg.MaskText,
		longDone: make(map[key.Code]bool),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.logger = k.logger.WithComponent("keypad").WithField("instance", k.id)

	scanOpts := []matrix.Option{
		matrix.WithPull(cfg.Pull),
		matrix.WithSettleDelay(cfg.SettleDelay),
	}
	if k.sleeper != nil {
		scanOpts = append(scanOpts, matrix.WithSleeper(k.sleeper))
	}

	var err error
	if k.scanner, err = matrix.NewScanner(cfg.Layout, driver, scanOpts...); err != nil {
		return nil, fmt.Errorf("configure matrix: %w", err)
	}
	if k.tracker, err = debounce.New(cfg.Layout, cfg.DebounceWindow); err != nil {
		return nil, err
	}
	if k.decoder, err = mode.NewDecoder(cfg.decoderOptions()); err != nil {
		return nil, err
	}
	k.detector = combo.New(cfg.ChordPolicy)

	if cfg.Beeper != nil {
		if err := k.attachBeeper(*cfg.Beeper); err != nil {
			return nil, err
		}
	}

	k.dispatcher = dispatch.NewDispatcher(k.registry,
		dispatch.WithPanicHandler(k.handlePanic),
		dispatch.WithErrorHandler(k.handleError),
	)

	k.logger.Debug("created %dx%d keypad, mode %s, window %d",
		cfg.Layout.RowCount(), cfg.Layout.ColCount(), cfg.Mode, cfg.DebounceWindow)
	return k, nil
}

// NewFactory creates a disabled keypad with DefaultConfig.
func NewFactory(driver matrix.Driver, opts ...Option) (*Keypad, error) {
	return New(DefaultConfig(), driver, opts...)
}

// ID returns the keypad's instance id.
func (k *Keypad) ID() string {
	return k.id
}

// Layout returns the key layout.
func (k *Keypad) Layout() *key.Layout {
	return k.cfg.Layout
}

// Enable starts processing scans. Enabling a disabled keypad resets its
// key states and text.
func (k *Keypad) Enable() {
	if k.enabled {
		return
	}
	k.enabled = true
	k.reset()
	k.logger.Info("enabled")
}

// Disable stops processing scans, resets key states and text and drives
// every row passive.
func (k *Keypad) Disable() {
	if !k.enabled {
		return
	}
	k.enabled = false
	k.reset()
	k.scanner.Release()
	k.stopBeep()
	k.logger.Info("disabled")
}

// IsEnabled returns true if Scan processes the matrix.
func (k *Keypad) IsEnabled() bool {
	return k.enabled
}

func (k *Keypad) reset() {
	k.epoch++
	k.tracker.Reset()
	k.detector.Reset()
	k.decoder.Reset()
	k.longDone = make(map[key.Code]bool)
}

// SetType switches the input mode. A pending multi-tap character is
// discarded without an event.
func (k *Keypad) SetType(m mode.Mode) {
	if !m.Valid() {
		k.logger.Warn("ignoring unknown mode %d", m)
		return
	}
	if k.decoder.SetMode(m) {
		k.logger.Debug("mode %s discarded pending character", m)
	}
}

// Type returns the input mode.
func (k *Keypad) Type() mode.Mode {
	return k.decoder.Mode()
}

// Scan runs one cycle on the matrix. It returns true if any event was
// produced. A disabled keypad does nothing and returns false.
func (k *Keypad) Scan() bool {
	if !k.enabled {
		return false
	}
	before := k.scanner.Errors()
	frame := k.scanner.Scan()
	if n := k.scanner.Errors() - before; n > 0 {
		k.logger.Debug("scan read %d lines as open: %v", n, k.scanner.Err())
	}
	return k.process(frame)
}

// Feed runs one cycle on a frame supplied by the caller instead of the
// matrix. It is the entry point for synthetic input.
func (k *Keypad) Feed(frame matrix.Frame) bool {
	if !k.enabled {
		return false
	}
	return k.process(frame)
}

func (k *Keypad) process(frame matrix.Frame) bool {
	k.begin()
	defer k.end()

	now := k.clock.Now()
	k.cycles++
	produced := k.events
	epoch := k.epoch
	// interrupted reports whether a listener disabled or re-enabled the
	// keypad, which ends the cycle.
	interrupted := func() bool { return k.epoch != epoch }

	if k.beeping && !now.Before(k.beepOff) {
		k.stopBeep()
	}

	if k.deliverDecoded(k.decoder.Tick(now), now, interrupted) {
		return true
	}

	snapshot, transitions := k.tracker.Update(frame, now)
	out := k.detector.Evaluate(snapshot, transitions)

	for _, tr := range transitions {
		if !tr.Down {
			delete(k.longDone, tr.Code)
		}
	}

	for _, code := range out.Up {
		k.dispatch(dispatch.Event{Kind: dispatch.KindKeyUp, Code: code, At: now})
		if interrupted() {
			return true
		}
	}
	for _, code := range out.Down {
		k.dispatch(dispatch.Event{Kind: dispatch.KindKeyDown, Code: code, At: now})
		if interrupted() {
			return true
		}
		k.beep(now)
	}
	if out.Fired() {
		k.dispatch(dispatch.Event{Kind: dispatch.KindMultiKey, Code: key.NoCode, Chord: out.Chord, At: now})
		if interrupted() {
			return true
		}
	}

	for _, code := range out.Down {
		if pressed, ok := k.cfg.Layout.Key(code); ok {
			if k.deliverDecoded(k.decoder.KeyDown(pressed, now), now, interrupted) {
				return true
			}
		}
	}

	k.checkLongPress(snapshot, now, interrupted)

	return k.events > produced
}

func (k *Keypad) checkLongPress(snapshot key.Set, now time.Time, interrupted func() bool) {
	if k.cfg.LongPress <= 0 {
		return
	}
	for _, code := range snapshot.Codes() {
		if k.longDone[code] || k.detector.IsSilenced(code) {
			continue
		}
		if now.Sub(k.tracker.Since(code)) >= k.cfg.LongPress {
			k.longDone[code] = true
			k.dispatch(dispatch.Event{Kind: dispatch.KindLongPress, Code: code, At: now})
			if interrupted() {
				return
			}
		}
	}
}

// deliverDecoded dispatches decoder events in order. It returns true if
// interrupted stopped it early.
func (k *Keypad) deliverDecoded(events []mode.Event, now time.Time, interrupted func() bool) bool {
	for _, e := range events {
		switch e.Kind {
		case mode.TextChanged:
			k.dispatch(dispatch.Event{Kind: dispatch.KindText, Code: key.NoCode, Text: k.mask(e.Text), At: now})
		case mode.Enter:
			k.dispatch(dispatch.Event{Kind: dispatch.KindEnter, Code: e.Code, Text: k.mask(e.Text), At: now})
		case mode.Deleted:
			k.dispatch(dispatch.Event{Kind: dispatch.KindDelete, Code: e.Code, At: now})
		}
		if interrupted != nil && interrupted() {
			return true
		}
	}
	return false
}

// Defer runs fn after the scan cycle or Clear/Commit call that is
// dispatching events has finished. Outside of dispatch it runs fn now.
// Listeners use it to change the keypad without re-entering a cycle.
func (k *Keypad) Defer(fn func()) {
	if k.dispatching > 0 {
		k.after = append(k.after, fn)
		return
	}
	fn()
}

func (k *Keypad) begin() {
	k.dispatching++
}

func (k *Keypad) end() {
	k.dispatching--
	if k.dispatching > 0 {
		return
	}
	for len(k.after) > 0 {
		fn := k.after[0]
		k.after = k.after[1:]
		fn()
	}
}

func (k *Keypad) dispatch(e dispatch.Event) {
	k.events++
	k.dispatcher.Dispatch(e)
}

func (k *Keypad) mask(text string) string {
	if !k.masked {
		return text
	}
	return strings.Repeat("*", len([]rune(text)))
}

func (k *Keypad) handlePanic(e dispatch.Event, v any, stack []byte) {
	k.logger.Error("listener panicked on %s: %v", e, v)
	k.logger.Debug("panic stack: %s", stack)
	if k.onPanic != nil {
		k.onPanic(e, v, stack)
	}
}

func (k *Keypad) handleError(e dispatch.Event, err error) {
	k.logger.Warn("listener failed on %s: %v", e, err)
}

// Text returns the decoded text buffer. It is never masked.
func (k *Keypad) Text() string {
	return k.decoder.Text()
}

// IsKeypadEqual returns true if the decoded text equals s.
func (k *Keypad) IsKeypadEqual(s string) bool {
	return k.decoder.Text() == s
}

// Clear empties the text buffer and discards a pending character.
func (k *Keypad) Clear() {
	k.begin()
	defer k.end()
	k.deliverDecoded(k.decoder.Clear(), k.clock.Now(), nil)
}

// Commit commits a pending multi-tap character now.
func (k *Keypad) Commit() {
	k.begin()
	defer k.end()
	k.deliverDecoded(k.decoder.Commit(), k.clock.Now(), nil)
}

// Pending returns the multi-tap character being composed, if any.
func (k *Keypad) Pending() (rune, bool) {
	return k.decoder.Pending()
}

// Pressed returns the keys that are debounced down.
func (k *Keypad) Pressed() key.Set {
	return k.tracker.Snapshot()
}

// SetMaskText turns text masking on or off.
func (k *Keypad) SetMaskText(on bool) {
	k.masked = on
}

// MaskText returns true if text events are masked.
func (k *Keypad) MaskText() bool {
	return k.masked
}

// SetEnterKey changes the enter key label. Zero disables the enter key.
func (k *Keypad) SetEnterKey(r rune) {
	k.decoder.SetEnterKey(r)
}

// SetDeleteKey changes the delete key label. Zero disables the delete key.
func (k *Keypad) SetDeleteKey(r rune) {
	k.decoder.SetDeleteKey(r)
}

// Stats reports counters for the keypad.
type Stats struct {
	// Cycles is the number of processed scan cycles.
	Cycles uint64

	// Events is the number of events produced.
	Events uint64

	// Chords is the number of multi-key events.
	Chords uint64

	// ScanErrors is the number of failed line reads.
	ScanErrors uint64

	// Dispatch holds listener execution counters.
	Dispatch dispatch.Stats
}

// Stats returns the keypad's counters.
func (k *Keypad) Stats() Stats {
	return Stats{
		Cycles:     k.cycles,
		Events:     k.events,
		Chords:     k.detector.Chords(),
		ScanErrors: k.scanner.Errors(),
		Dispatch:   k.dispatcher.Stats(),
	}
}
