// Package sim drives a keypad from the computer keyboard and draws its
// state in the terminal.
//
// Typing a key label closes the matching switch in a matrix.MemoryDriver
// for the hold time, so overlapping keystrokes become chords. Tab cycles
// the input mode and Esc quits.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/keypad"
	"github.com/dshills/keypad/internal/logging"
)

const (
	// DefaultHold is how long a typed key stays closed.
	DefaultHold = 150 * time.Millisecond

	// DefaultInterval is the scan period.
	DefaultInterval = 5 * time.Millisecond

	// DefaultLogSize is the number of event lines kept.
	DefaultLogSize = 64
)

// ErrQuit is returned by Run when the user quits.
var ErrQuit = errors.New("simulator quit")

// Simulator connects a terminal to a keypad backed by a memory driver.
type Simulator struct {
	term   *Terminal
	kp     *keypad.Keypad
	driver *matrix.MemoryDriver
	layout *key.Layout
	logger *logging.Logger

	hold     time.Duration
	interval time.Duration
	logSize  int

	beeperLine key.Line
	hasBeeper  bool
	beeping    bool

	releases map[key.Code]time.Time
	tasks    chan func(*keypad.Keypad)

	mu     sync.Mutex
	events []string
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithHold sets how long a typed key stays closed.
func WithHold(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.hold = d
		}
	}
}

// WithInterval sets the scan period.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogSize sets how many event lines are kept.
func WithLogSize(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.logSize = n
		}
	}
}

// WithBeeperLine makes the simulator ring the terminal bell when the
// keypad drives line high.
func WithBeeperLine(line key.Line) Option {
	return func(s *Simulator) {
		s.beeperLine = line
		s.hasBeeper = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a simulator and registers its event log listeners on kp.
func New(term *Terminal, kp *keypad.Keypad, driver *matrix.MemoryDriver, opts ...Option) *Simulator {
	s := &Simulator{
		term:     term,
		kp:       kp,
		driver:   driver,
		layout:   kp.Layout(),
		logger:   logging.Nop(),
		hold:     DefaultHold,
		interval: DefaultInterval,
		logSize:  DefaultLogSize,
		releases: make(map[key.Code]time.Time),
		tasks:    make(chan func(*keypad.Keypad), 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("sim")
	s.listen()
	return s
}

func (s *Simulator) listen() {
	label := func(c key.Code) string {
		return s.layout.Labels([]key.Code{c})
	}
	s.kp.AddKeyDownListener(func(c key.Code) { s.record("down  %s", label(c)) })
	s.kp.AddKeyUpListener(func(c key.Code) { s.record("up    %s", label(c)) })
	s.kp.AddLongPressListener(func(c key.Code) { s.record("long  %s", label(c)) })
	s.kp.AddDeleteListener(func(c key.Code) { s.record("del   %s", label(c)) })
	s.kp.AddMultipleKeyListener(func(ch key.Chord) {
		s.record("chord %s", s.layout.Labels(ch))
	})
	s.kp.AddDecodedTextListener(func(text string) { s.record("text  %q", text) })
	s.kp.AddEnterListener(func(text string) { s.record("enter %q", text) })
}

func (s *Simulator) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, fmt.Sprintf(format, args...))
	if over := len(s.events) - s.logSize; over > 0 {
		s.events = append(s.events[:0], s.events[over:]...)
	}
}

// Events returns a copy of the event log, oldest first.
func (s *Simulator) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

// Do queues fn to run on the scan goroutine. It returns false if the
// queue is full.
func (s *Simulator) Do(fn func(*keypad.Keypad)) bool {
	select {
	case s.tasks <- fn:
		return true
	default:
		return false
	}
}

// Run initializes the terminal and scans until ctx is done or the user
// quits. Quitting returns ErrQuit.
func (s *Simulator) Run(ctx context.Context) error {
	if err := s.term.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer s.term.Shutdown()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := s.term.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("running, hold %s, interval %s", s.hold, s.interval)
	s.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if s.handleEvent(ev, time.Now()) {
				return ErrQuit
			}
		case fn := <-s.tasks:
			fn(s.kp)
		case now := <-ticker.C:
			s.step(now)
			s.draw()
		}
	}
}

// handleEvent applies a terminal event. It returns true on quit.
func (s *Simulator) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.term.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyTab:
			next := s.kp.Type().Next()
			s.kp.SetType(next)
			s.record("mode  %s", next)
		case tcell.KeyRune:
			s.press(ev.Rune(), now)
		}
	}
	return false
}

// press closes the switch labeled r until now plus the hold time.
func (s *Simulator) press(r rune, now time.Time) bool {
	k, ok := s.layout.ByLabel(r)
	if !ok {
		return false
	}
	s.driver.PressKey(s.layout, k.Code)
	s.releases[k.Code] = now.Add(s.hold)
	return true
}

// step releases expired keys, runs one scan and follows the beeper line.
func (s *Simulator) step(now time.Time) {
	for code, at := range s.releases {
		if !now.Before(at) {
			s.driver.ReleaseKey(s.layout, code)
			delete(s.releases, code)
		}
	}
	s.kp.Scan()

	if !s.hasBeeper {
		return
	}
	level := s.driver.Level(s.beeperLine)
	if level && !s.beeping {
		s.term.Beep()
	}
	s.beeping = level
}

var (
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleKey     = tcell.StyleDefault
	stylePressed = tcell.StyleDefault.Reverse(true)
	stylePending = tcell.StyleDefault.Underline(true)
	styleDim     = tcell.StyleDefault.Dim(true)
)

func (s *Simulator) draw() {
	s.term.Clear()

	state := "off"
	if s.kp.IsEnabled() {
		state = "on"
	}
	x := s.term.DrawText(0, 0, styleTitle, "keypad")
	x = s.term.DrawText(x, 0, styleKey, fmt.Sprintf("  mode %s  %s", s.kp.Type(), state))
	if s.beeping {
		s.term.DrawText(x, 0, styleTitle, "  BEEP")
	}
	s.term.DrawText(0, 1, styleDim, "type key labels, Tab cycles mode, Esc quits")

	y := 3
	pressed := s.kp.Pressed()
	for row := 0; row < s.layout.RowCount(); row++ {
		x := 0
		for col := 0; col < s.layout.ColCount(); col++ {
			k, ok := s.layout.At(row, col)
			if !ok {
				continue
			}
			style := styleKey
			if pressed.Has(k.Code) {
				style = stylePressed
			}
			x = s.term.DrawText(x, y, style, keyCap(k))
			x++
		}
		y++
	}

	y++
	x = s.term.DrawText(0, y, styleKey, "text: "+s.kp.Text())
	if r, ok := s.kp.Pending(); ok {
		s.term.DrawText(x, y, stylePending, string(r))
	}

	y += 2
	_, height := s.term.Size()
	events := s.Events()
	if room := height - y; room < len(events) {
		if room < 0 {
			room = 0
		}
		events = events[len(events)-room:]
	}
	for _, line := range events {
		s.term.DrawText(0, y, styleDim, line)
		y++
	}
	s.term.Show()
}

// keyCap renders a key as its first few characters in brackets.
func keyCap(k key.Key) string {
	chars := k.Chars
	if len(chars) > capWidth {
		chars = chars[:capWidth]
	}
	return fmt.Sprintf("[%-*s]", capWidth, string(chars))
}

const capWidth = 5
