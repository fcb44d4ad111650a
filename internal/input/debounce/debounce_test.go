package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func frame(codes ...key.Code) matrix.Frame {
	return matrix.Frame{Closed: codes}
}

func newTracker(t *testing.T, window int) *Tracker {
	t.Helper()
	tr, err := New(key.FactoryLayout(), window)
	require.NoError(t, err)
	return tr
}

func TestNewRejectsZeroWindow(t *testing.T) {
	_, err := New(key.FactoryLayout(), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = New(nil, 2)
	assert.ErrorIs(t, err, matrix.ErrNilLayout)
}

func TestWindowBoundary(t *testing.T) {
	for _, window := range []int{1, 2, 3, 5} {
		tr := newTracker(t, window)

		// window-1 readings must not flip.
		for i := 0; i < window-1; i++ {
			snap, trans := tr.Update(frame(4), epoch)
			assert.Empty(t, trans, "window %d reading %d", window, i+1)
			assert.False(t, snap.Has(4))
		}

		snap, trans := tr.Update(frame(4), epoch)
		require.Len(t, trans, 1, "window %d", window)
		assert.Equal(t, Transition{Code: 4, Down: true, At: epoch}, trans[0])
		assert.True(t, snap.Has(4))
	}
}

func TestNoisyReadingIgnored(t *testing.T) {
	tr := newTracker(t, 3)

	tr.Update(frame(1), epoch)
	tr.Update(frame(1), epoch)
	// Bounce resets the count.
	tr.Update(frame(), epoch)
	assert.Equal(t, 0, tr.Pending(1))

	_, trans := tr.Update(frame(1), epoch)
	assert.Empty(t, trans)
	_, trans = tr.Update(frame(1), epoch)
	assert.Empty(t, trans)
	_, trans = tr.Update(frame(1), epoch)
	assert.Len(t, trans, 1)
}

func TestReleaseTransition(t *testing.T) {
	tr := newTracker(t, 2)

	tr.Update(frame(7), epoch)
	tr.Update(frame(7), epoch)
	require.True(t, tr.IsDown(7))

	later := epoch.Add(time.Second)
	_, trans := tr.Update(frame(), later)
	assert.Empty(t, trans)
	snap, trans := tr.Update(frame(), later)
	require.Len(t, trans, 1)
	assert.False(t, trans[0].Down)
	assert.True(t, snap.IsEmpty())
	assert.Equal(t, later, tr.Since(7))
}

func TestSimultaneousTransitionsAscending(t *testing.T) {
	tr := newTracker(t, 2)

	tr.Update(frame(8, 2), epoch)
	snap, trans := tr.Update(frame(8, 2), epoch)

	require.Len(t, trans, 2)
	assert.Equal(t, key.Code(2), trans[0].Code)
	assert.Equal(t, key.Code(8), trans[1].Code)
	assert.Equal(t, []key.Code{2, 8}, snap.Codes())
	assert.Len(t, tr.Down(), 2)
}

func TestUnknownCodesIgnored(t *testing.T) {
	tr := newTracker(t, 1)

	snap, trans := tr.Update(frame(99), epoch)
	assert.Empty(t, trans)
	assert.True(t, snap.IsEmpty())
	assert.False(t, tr.IsDown(99))
	assert.True(t, tr.Since(99).IsZero())
}

func TestReset(t *testing.T) {
	tr := newTracker(t, 1)

	tr.Update(frame(3), epoch)
	require.True(t, tr.Snapshot().Has(3))

	tr.Reset()
	assert.True(t, tr.Snapshot().IsEmpty())
	assert.False(t, tr.IsDown(3))

	// Still held after the reset: goes down again.
	_, trans := tr.Update(frame(3), epoch)
	assert.Len(t, trans, 1)
}
