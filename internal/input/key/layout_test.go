package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryLayout(t *testing.T) {
	l := FactoryLayout()

	assert.Equal(t, 4, l.RowCount())
	assert.Equal(t, 3, l.ColCount())
	assert.Equal(t, 12, l.Len())

	k, ok := l.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, Code(4), k.Code)
	assert.Equal(t, '5', k.Label())
	assert.Equal(t, "5JKLjkl", k.String())

	star, ok := l.ByLabel('*')
	require.True(t, ok)
	assert.Equal(t, Code(9), star.Code)
	assert.Equal(t, 3, star.Row)
	assert.Equal(t, 0, star.Col)
}

func TestNewLayoutExplicitCodes(t *testing.T) {
	l, err := NewLayout([]Line{1}, []Line{2}, [][]string{{"jkl"}}, [][]Code{{5}})
	require.NoError(t, err)

	k, ok := l.Key(5)
	require.True(t, ok)
	assert.Equal(t, 'j', k.Label())

	_, ok = l.Key(0)
	assert.False(t, ok)
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		rows   []Line
		cols   []Line
		groups [][]string
		codes  [][]Code
		want   error
	}{
		{"no rows", nil, []Line{1}, nil, nil, ErrEmptyLayout},
		{"no cols", []Line{1}, nil, [][]string{{}}, nil, ErrEmptyLayout},
		{"duplicate line", []Line{1}, []Line{1}, [][]string{{"a"}}, nil, ErrDuplicateLine},
		{"missing row", []Line{1, 2}, []Line{3}, [][]string{{"a"}}, nil, ErrRaggedLayout},
		{"short row", []Line{1}, []Line{2, 3}, [][]string{{"a"}}, nil, ErrRaggedLayout},
		{"empty group", []Line{1}, []Line{2}, [][]string{{""}}, nil, ErrEmptyGroup},
		{"duplicate code", []Line{1}, []Line{2, 3}, [][]string{{"a", "b"}}, [][]Code{{7, 7}}, ErrDuplicateCode},
		{"short codes", []Line{1}, []Line{2, 3}, [][]string{{"a", "b"}}, [][]Code{{7}}, ErrRaggedLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.rows, tt.cols, tt.groups, tt.codes)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLayoutCodesAndLabels(t *testing.T) {
	l := MustLayout([]Line{1, 2}, []Line{3}, [][]string{{"b"}, {"a"}}, [][]Code{{9}, {3}})

	assert.Equal(t, []Code{3, 9}, l.Codes())
	assert.Equal(t, "ab", l.Labels([]Code{3, 9}))
	assert.Equal(t, "a", l.Labels([]Code{3, 42}))
}

func TestLayoutAtOutOfRange(t *testing.T) {
	l := FactoryLayout()
	_, ok := l.At(4, 0)
	assert.False(t, ok)
	_, ok = l.At(0, -1)
	assert.False(t, ok)
}

func TestLayoutRowsIsCopy(t *testing.T) {
	l := FactoryLayout()
	rows := l.Rows()
	rows[0] = 99
	assert.Equal(t, Line(2), l.Rows()[0])
}
