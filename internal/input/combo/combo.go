// Package combo detects keys held down together (chords).
//
// Simultaneity is defined by the debounced snapshot: two keys that are both
// present in the same snapshot form a chord, regardless of which scan first
// saw them. A chord fires when a key joins a snapshot that then holds more
// than one key. Releases never fire a chord.
package combo

import (
	"fmt"
	"strings"

	"github.com/dshills/keypad/internal/input/debounce"
	"github.com/dshills/keypad/internal/input/key"
)

// Policy selects how single key events interact with chords.
type Policy uint8

const (
	// Suppress withholds key-down events of keys that complete a chord, and
	// the matching key-up events when those keys are released.
	Suppress Policy = iota

	// Both delivers every key-down and key-up and fires the chord as well.
	Both
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Suppress:
		return "suppress"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "suppress":
		return Suppress, nil
	case "both":
		return Both, nil
	default:
		return Suppress, fmt.Errorf("unknown chord policy %q", s)
	}
}

// Outcome is what one cycle produces after chord detection.
type Outcome struct {
	// Chord is the full snapshot when a chord fired this cycle, else nil.
	Chord key.Chord

	// Down and Up are the single key transitions to deliver, ascending.
	Down []key.Code
	Up   []key.Code
}

// Fired returns true if a chord fired this cycle.
func (o Outcome) Fired() bool {
	return len(o.Chord) > 1
}

// Detector observes debounced transitions to find chords.
// A Detector is not safe for concurrent use.
type Detector struct {
	policy Policy

	// codes whose key-down was withheld and whose key-up must be withheld too
	silenced map[key.Code]bool

	chords uint64
}

// New creates a detector with the given policy.
func New(policy Policy) *Detector {
	return &Detector{
		policy:   policy,
		silenced: make(map[key.Code]bool),
	}
}

// Policy returns the detector's policy.
func (d *Detector) Policy() Policy {
	return d.policy
}

// Evaluate inspects the snapshot and the transitions that produced it.
func (d *Detector) Evaluate(snapshot key.Set, transitions []debounce.Transition) Outcome {
	var out Outcome

	var pressed []key.Code
	for _, tr := range transitions {
		if tr.Down {
			pressed = append(pressed, tr.Code)
		}
	}

	if len(pressed) > 0 && snapshot.Len() > 1 {
		out.Chord = snapshot.Chord()
		d.chords++
	}

	for _, tr := range transitions {
		if tr.Down {
			if out.Fired() && d.policy == Suppress {
				d.silenced[tr.Code] = true
				continue
			}
			out.Down = append(out.Down, tr.Code)
			continue
		}

		if d.silenced[tr.Code] {
			delete(d.silenced, tr.Code)
			continue
		}
		out.Up = append(out.Up, tr.Code)
	}

	return out
}

// IsSilenced returns true if a key's events are currently withheld.
func (d *Detector) IsSilenced(code key.Code) bool {
	return d.silenced[code]
}

// Chords returns how many chords have fired.
func (d *Detector) Chords() uint64 {
	return d.chords
}

// Reset forgets withheld keys.
func (d *Detector) Reset() {
	d.silenced = make(map[key.Code]bool)
}
