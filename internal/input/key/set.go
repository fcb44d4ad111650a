package key

import (
	"sort"
	"strings"
)

// Set is a sorted, immutable set of codes.
// The zero value is an empty set.
type Set struct {
	codes []Code
}

// NewSet creates a set from the given codes. Duplicates are removed.
func NewSet(codes ...Code) Set {
	if len(codes) == 0 {
		return Set{}
	}
	sorted := append([]Code(nil), codes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := sorted[:1]
	for _, c := range sorted[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return Set{codes: out}
}

// Len returns the number of codes in the set.
func (s Set) Len() int {
	return len(s.codes)
}

// IsEmpty returns true if the set has no codes.
func (s Set) IsEmpty() bool {
	return len(s.codes) == 0
}

// Has returns true if the set contains c.
func (s Set) Has(c Code) bool {
	i := sort.Search(len(s.codes), func(i int) bool { return s.codes[i] >= c })
	return i < len(s.codes) && s.codes[i] == c
}

// Codes returns the codes in ascending order.
func (s Set) Codes() []Code {
	return append([]Code(nil), s.codes...)
}

// Equal returns true if both sets hold the same codes.
func (s Set) Equal(other Set) bool {
	if len(s.codes) != len(other.codes) {
		return false
	}
	for i, c := range s.codes {
		if other.codes[i] != c {
			return false
		}
	}
	return true
}

// Chord returns the set as a chord.
func (s Set) Chord() Chord {
	return Chord(s.Codes())
}

// String returns a human-readable representation, e.g. "{1 4}".
func (s Set) String() string {
	return "{" + Chord(s.codes).join(" ") + "}"
}

// Chord is a group of codes held down together, in ascending order.
type Chord []Code

// Len returns the number of codes in the chord.
func (c Chord) Len() int {
	return len(c)
}

// Contains returns true if the chord includes code.
func (c Chord) Contains(code Code) bool {
	for _, x := range c {
		if x == code {
			return true
		}
	}
	return false
}

// Equals returns true if two chords are identical.
func (c Chord) Equals(other Chord) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the codes joined with "+", e.g. "1+4".
func (c Chord) String() string {
	return c.join("+")
}

func (c Chord) join(sep string) string {
	parts := make([]string, len(c))
	for i, code := range c {
		parts[i] = code.String()
	}
	return strings.Join(parts, sep)
}
