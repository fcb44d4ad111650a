package dispatch

import (
	"fmt"
	"time"

	"github.com/dshills/keypad/internal/input/key"
)

// Kind identifies the type of a keypad event.
type Kind uint8

const (
	// KindKeyDown fires the first cycle a key is stable down.
	KindKeyDown Kind = iota

	// KindKeyUp fires the first cycle a key is stable up.
	KindKeyUp

	// KindLongPress fires once when a key has been held past the long press
	// duration.
	KindLongPress

	// KindMultiKey fires when several keys are held together.
	KindMultiKey

	// KindText carries the decoded text buffer after it changed.
	KindText

	// KindEnter carries the text buffer when the enter key is pressed.
	KindEnter

	// KindDelete fires after the delete key removed a character.
	KindDelete

	kindCount
)

// Kinds returns every event kind in delivery order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	case KindLongPress:
		return "long-press"
	case KindMultiKey:
		return "multi-key"
	case KindText:
		return "text"
	case KindEnter:
		return "enter"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Event is one keypad event.
type Event struct {
	Kind Kind

	// Code is set for key-down, key-up, long-press and delete events.
	Code key.Code

	// Chord is set for multi-key events.
	Chord key.Chord

	// Text is set for text and enter events.
	Text string

	// At is the scan cycle time that produced the event.
	At time.Time
}

// String returns a short description, e.g. "key-down 4" or "text \"ab\"".
func (e Event) String() string {
	switch e.Kind {
	case KindMultiKey:
		return fmt.Sprintf("%s %s", e.Kind, e.Chord)
	case KindText, KindEnter:
		return fmt.Sprintf("%s %q", e.Kind, e.Text)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Code)
	}
}

// Listener receives events. A returned error is recorded in the Result and
// does not stop other listeners.
type Listener func(Event) error
