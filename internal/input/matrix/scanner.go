package matrix

import (
	"fmt"
	"time"

	"github.com/dshills/keypad/internal/input/key"
)

// DefaultSettleDelay is the wait between driving a row and reading columns.
const DefaultSettleDelay = 10 * time.Microsecond

// Frame is the raw set of closed matrix positions for one scan cycle.
type Frame struct {
	// Closed holds codes of closed positions in scan order (row-major).
	Closed []key.Code
}

// Has returns true if code was closed in this frame.
func (f Frame) Has(code key.Code) bool {
	for _, c := range f.Closed {
		if c == code {
			return true
		}
	}
	return false
}

// Len returns the number of closed positions.
func (f Frame) Len() int {
	return len(f.Closed)
}

// Scanner samples a switch matrix through a Driver.
// A Scanner is not safe for concurrent use.
type Scanner struct {
	layout *key.Layout
	driver Driver

	pull   Pull
	settle time.Duration
	sleep  func(time.Duration)

	errors  uint64
	lastErr error
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPull sets the column bias. Defaults to PullUp.
func WithPull(p Pull) Option {
	return func(s *Scanner) {
		s.pull = p
	}
}

// WithSettleDelay sets the per-row settle delay. Zero disables waiting.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Scanner) {
		if d >= 0 {
			s.settle = d
		}
	}
}

// WithSleeper replaces time.Sleep for the settle delay.
func WithSleeper(fn func(time.Duration)) Option {
	return func(s *Scanner) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// NewScanner configures the layout's lines on the driver and returns a
// scanner. Rows become outputs driven passive; columns become inputs.
func NewScanner(layout *key.Layout, driver Driver, opts ...Option) (*Scanner, error) {
	if layout == nil {
		return nil, ErrNilLayout
	}
	if driver == nil {
		return nil, ErrNilDriver
	}

	s := &Scanner{
		layout: layout,
		driver: driver,
		pull:   PullUp,
		settle: DefaultSettleDelay,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, row := range layout.Rows() {
		if err := driver.ConfigureOutput(row); err != nil {
			return nil, fmt.Errorf("configuring row line %d: %w", row, err)
		}
		if err := driver.Write(row, s.passive()); err != nil {
			return nil, fmt.Errorf("releasing row line %d: %w", row, err)
		}
	}
	for _, col := range layout.Cols() {
		if err := driver.ConfigureInput(col, s.pull); err != nil {
			return nil, fmt.Errorf("configuring column line %d: %w", col, err)
		}
	}

	return s, nil
}

func (s *Scanner) active() bool  { return s.pull.ActiveLevel() }
func (s *Scanner) passive() bool { return !s.pull.ActiveLevel() }

// Scan performs one pass over the matrix and returns the closed positions.
func (s *Scanner) Scan() Frame {
	var frame Frame
	cols := s.layout.Cols()

	for r, row := range s.layout.Rows() {
		if err := s.driver.Write(row, s.active()); err != nil {
			s.recordErr(err)
			continue
		}
		if s.settle > 0 {
			s.sleep(s.settle)
		}

		for c, col := range cols {
			level, err := s.driver.Read(col)
			if err != nil {
				s.recordErr(err)
				continue
			}
			if level != s.active() {
				continue
			}
			if k, ok := s.layout.At(r, c); ok {
				frame.Closed = append(frame.Closed, k.Code)
			}
		}

		if err := s.driver.Write(row, s.passive()); err != nil {
			s.recordErr(err)
		}
	}

	return frame
}

// Release drives every row passive. Used when the keypad is disabled.
func (s *Scanner) Release() {
	for _, row := range s.layout.Rows() {
		if err := s.driver.Write(row, s.passive()); err != nil {
			s.recordErr(err)
		}
	}
}

func (s *Scanner) recordErr(err error) {
	s.errors++
	s.lastErr = err
}

// Err returns the most recent line access error, or nil.
func (s *Scanner) Err() error {
	return s.lastErr
}

// Errors returns the number of line access errors seen so far.
func (s *Scanner) Errors() uint64 {
	return s.errors
}

// Layout returns the scanned layout.
func (s *Scanner) Layout() *key.Layout {
	return s.layout
}

// Pull returns the configured column bias.
func (s *Scanner) Pull() Pull {
	return s.pull
}
