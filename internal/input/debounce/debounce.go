// Package debounce turns raw matrix frames into a stable set of pressed keys.
//
// Each key carries a counter of consecutive raw readings that disagree with
// its stable state. The stable state flips only when the counter reaches the
// debounce window, so a single noisy reading never reaches the snapshot.
package debounce

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
)

// DefaultWindow is the default number of agreeing scans required to flip.
const DefaultWindow = 3

// ErrInvalidWindow is returned for a debounce window smaller than one.
var ErrInvalidWindow = errors.New("debounce window must be at least 1")

// Transition is a debounced state change of one key.
type Transition struct {
	Code key.Code
	Down bool
	At   time.Time
}

// keyState is the per-key record owned by the tracker.
type keyState struct {
	code       key.Code
	down       bool
	pending    int
	lastChange time.Time
}

// Tracker maintains the debounced key state across scan cycles.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	window int

	// states sorted by code
	states []keyState
	index  map[key.Code]int

	snapshot key.Set
}

// New creates a tracker for every key of the layout.
func New(layout *key.Layout, window int) (*Tracker, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	if layout == nil {
		return nil, matrix.ErrNilLayout
	}

	codes := layout.Codes()
	t := &Tracker{
		window: window,
		states: make([]keyState, len(codes)),
		index:  make(map[key.Code]int, len(codes)),
	}
	for i, c := range codes {
		t.states[i] = keyState{code: c}
		t.index[c] = i
	}
	return t, nil
}

// Window returns the debounce window in scan cycles.
func (t *Tracker) Window() int {
	return t.window
}

// Update feeds one raw frame and returns the snapshot after it along with
// the transitions it caused, in ascending code order. Codes in the frame
// that are not part of the layout are ignored.
func (t *Tracker) Update(frame matrix.Frame, now time.Time) (key.Set, []Transition) {
	raw := make(map[key.Code]bool, frame.Len())
	for _, c := range frame.Closed {
		raw[c] = true
	}

	var transitions []Transition
	for i := range t.states {
		st := &t.states[i]
		reading := raw[st.code]

		if reading == st.down {
			st.pending = 0
			continue
		}

		st.pending++
		if st.pending < t.window {
			continue
		}

		st.down = reading
		st.pending = 0
		st.lastChange = now
		transitions = append(transitions, Transition{Code: st.code, Down: reading, At: now})
	}

	if len(transitions) > 0 {
		t.snapshot = t.collect()
	}
	return t.snapshot, transitions
}

func (t *Tracker) collect() key.Set {
	down := make([]key.Code, 0, len(t.states))
	for _, st := range t.states {
		if st.down {
			down = append(down, st.code)
		}
	}
	return key.NewSet(down...)
}

// Snapshot returns the current debounced set of pressed keys.
func (t *Tracker) Snapshot() key.Set {
	return t.snapshot
}

// IsDown returns the debounced state of a key.
func (t *Tracker) IsDown(code key.Code) bool {
	i, ok := t.index[code]
	return ok && t.states[i].down
}

// Since returns when the key last changed debounced state.
// The zero time means it never changed.
func (t *Tracker) Since(code key.Code) time.Time {
	i, ok := t.index[code]
	if !ok {
		return time.Time{}
	}
	return t.states[i].lastChange
}

// Pending returns how many consecutive disagreeing readings a key has seen.
func (t *Tracker) Pending(code key.Code) int {
	i, ok := t.index[code]
	if !ok {
		return 0
	}
	return t.states[i].pending
}

// Down returns the pressed codes with the time each went down, ascending by
// code.
func (t *Tracker) Down() []Transition {
	var out []Transition
	for _, st := range t.states {
		if st.down {
			out = append(out, Transition{Code: st.code, Down: true, At: st.lastChange})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Reset forgets all key state. Every key reads released afterwards.
func (t *Tracker) Reset() {
	for i := range t.states {
		t.states[i] = keyState{code: t.states[i].code}
	}
	t.snapshot = key.Set{}
}
