package key

import (
	"errors"
	"fmt"
	"sort"
)

// Layout errors
var (
	ErrEmptyLayout   = errors.New("layout has no rows or columns")
	ErrRaggedLayout  = errors.New("layout grid does not match row and column lines")
	ErrDuplicateCode = errors.New("duplicate key code in layout")
	ErrDuplicateLine = errors.New("duplicate line in layout")
	ErrEmptyGroup    = errors.New("key has an empty character group")
)

// Layout describes the wiring and key assignment of a matrix keypad.
// A Layout is immutable once built.
type Layout struct {
	rows []Line
	cols []Line

	// keys in row-major order
	keys []Key

	byCode  map[Code]int
	byLabel map[rune]int
}

// NewLayout builds a layout from row lines, column lines and a grid of
// character groups. groups must have len(rows) rows of len(cols) entries.
// codes is optional; when nil every key gets its row-major index as code.
func NewLayout(rows, cols []Line, groups [][]string, codes [][]Code) (*Layout, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, ErrEmptyLayout
	}
	if err := checkLines(rows, cols); err != nil {
		return nil, err
	}
	if len(groups) != len(rows) {
		return nil, fmt.Errorf("%w: %d groups rows for %d row lines", ErrRaggedLayout, len(groups), len(rows))
	}
	if codes != nil && len(codes) != len(rows) {
		return nil, fmt.Errorf("%w: %d code rows for %d row lines", ErrRaggedLayout, len(codes), len(rows))
	}

	l := &Layout{
		rows:    append([]Line(nil), rows...),
		cols:    append([]Line(nil), cols...),
		keys:    make([]Key, 0, len(rows)*len(cols)),
		byCode:  make(map[Code]int, len(rows)*len(cols)),
		byLabel: make(map[rune]int, len(rows)*len(cols)),
	}

	for r, row := range groups {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d keys for %d column lines", ErrRaggedLayout, r, len(row), len(cols))
		}
		if codes != nil && len(codes[r]) != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d codes for %d column lines", ErrRaggedLayout, r, len(codes[r]), len(cols))
		}
		for c, group := range row {
			chars := []rune(group)
			if len(chars) == 0 {
				return nil, fmt.Errorf("%w: row %d, col %d", ErrEmptyGroup, r, c)
			}
			code := Code(r*len(cols) + c)
			if codes != nil {
				code = codes[r][c]
			}
			if _, dup := l.byCode[code]; dup {
				return nil, fmt.Errorf("%w: %d", ErrDuplicateCode, code)
			}
			l.byCode[code] = len(l.keys)
			// First key wins when two keys share a label.
			if _, ok := l.byLabel[chars[0]]; !ok {
				l.byLabel[chars[0]] = len(l.keys)
			}
			l.keys = append(l.keys, Key{Code: code, Row: r, Col: c, Chars: chars})
		}
	}

	return l, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout(rows, cols []Line, groups [][]string, codes [][]Code) *Layout {
	l, err := NewLayout(rows, cols, groups, codes)
	if err != nil {
		panic(err)
	}
	return l
}

func checkLines(rows, cols []Line) error {
	seen := make(map[Line]bool, len(rows)+len(cols))
	for _, ln := range append(append([]Line(nil), rows...), cols...) {
		if seen[ln] {
			return fmt.Errorf("%w: %d", ErrDuplicateLine, ln)
		}
		seen[ln] = true
	}
	return nil
}

// Factory layout wiring: a 4x3 telephone keypad.
var (
	FactoryRows   = []Line{2, 3, 4, 5}
	FactoryCols   = []Line{6, 7, 8}
	FactoryGroups = [][]string{
		{"1.,?!'\"-()@/:_", "2ABCabc", "3DEFdef"},
		{"4GHIghi", "5JKLjkl", "6MNOmno"},
		{"7PQRSpqrs", "8TUVtuv", "9WXYZwxyz"},
		{"*", "0 +", "#"},
	}
)

// FactoryLayout returns the default 4x3 telephone keypad layout.
func FactoryLayout() *Layout {
	return MustLayout(FactoryRows, FactoryCols, FactoryGroups, nil)
}

// Rows returns the row lines in scan order.
func (l *Layout) Rows() []Line {
	return append([]Line(nil), l.rows...)
}

// Cols returns the column lines in read order.
func (l *Layout) Cols() []Line {
	return append([]Line(nil), l.cols...)
}

// RowCount returns the number of row lines.
func (l *Layout) RowCount() int {
	return len(l.rows)
}

// ColCount returns the number of column lines.
func (l *Layout) ColCount() int {
	return len(l.cols)
}

// Len returns the number of keys.
func (l *Layout) Len() int {
	return len(l.keys)
}

// At returns the key at the given row and column.
func (l *Layout) At(row, col int) (Key, bool) {
	if row < 0 || row >= len(l.rows) || col < 0 || col >= len(l.cols) {
		return Key{}, false
	}
	return l.keys[row*len(l.cols)+col], true
}

// Key returns the key with the given code.
func (l *Layout) Key(code Code) (Key, bool) {
	i, ok := l.byCode[code]
	if !ok {
		return Key{}, false
	}
	return l.keys[i], true
}

// ByLabel returns the first key whose label is r.
func (l *Layout) ByLabel(r rune) (Key, bool) {
	i, ok := l.byLabel[r]
	if !ok {
		return Key{}, false
	}
	return l.keys[i], true
}

// Keys returns all keys in row-major order.
func (l *Layout) Keys() []Key {
	return append([]Key(nil), l.keys...)
}

// Codes returns all codes in ascending order.
func (l *Layout) Codes() []Code {
	codes := make([]Code, 0, len(l.keys))
	for _, k := range l.keys {
		codes = append(codes, k.Code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Labels renders codes as the concatenation of their key labels.
// Unknown codes are skipped.
func (l *Layout) Labels(codes []Code) string {
	out := make([]rune, 0, len(codes))
	for _, c := range codes {
		if k, ok := l.Key(c); ok {
			out = append(out, k.Label())
		}
	}
	return string(out)
}
