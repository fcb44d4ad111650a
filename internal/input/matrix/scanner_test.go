package matrix

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keypad/internal/input/key"
)

func newTestScanner(t *testing.T, opts ...Option) (*Scanner, *MemoryDriver, *key.Layout) {
	t.Helper()
	layout := key.FactoryLayout()
	drv := NewMemoryDriver()
	opts = append([]Option{WithSettleDelay(0)}, opts...)
	s, err := NewScanner(layout, drv, opts...)
	require.NoError(t, err)
	return s, drv, layout
}

func TestScannerEmptyFrame(t *testing.T) {
	s, _, _ := newTestScanner(t)

	frame := s.Scan()
	assert.Equal(t, 0, frame.Len())
	assert.NoError(t, s.Err())
}

func TestScannerSingleKey(t *testing.T) {
	s, drv, layout := newTestScanner(t)

	require.True(t, drv.PressKey(layout, 4))
	frame := s.Scan()

	if diff := cmp.Diff([]key.Code{4}, frame.Closed); diff != "" {
		t.Errorf("Closed mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, frame.Has(4))
	assert.False(t, frame.Has(5))
}

func TestScannerScanOrder(t *testing.T) {
	s, drv, layout := newTestScanner(t)

	drv.PressKey(layout, 11)
	drv.PressKey(layout, 0)
	drv.PressKey(layout, 5)

	frame := s.Scan()
	if diff := cmp.Diff([]key.Code{0, 5, 11}, frame.Closed); diff != "" {
		t.Errorf("Closed mismatch (-want +got):\n%s", diff)
	}

	drv.ReleaseKey(layout, 5)
	frame = s.Scan()
	if diff := cmp.Diff([]key.Code{0, 11}, frame.Closed); diff != "" {
		t.Errorf("Closed after release mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerPullDown(t *testing.T) {
	s, drv, layout := newTestScanner(t, WithPull(PullDown))

	drv.PressKey(layout, 7)
	frame := s.Scan()
	assert.Equal(t, []key.Code{7}, frame.Closed)
	assert.Equal(t, PullDown, s.Pull())

	// Rows rest at the passive level (low for pull-down).
	for _, row := range layout.Rows() {
		assert.False(t, drv.Level(row), "row %d", row)
	}
}

func TestScannerRowsRestPassive(t *testing.T) {
	s, drv, layout := newTestScanner(t)

	drv.PressKey(layout, 1)
	s.Scan()
	for _, row := range layout.Rows() {
		assert.True(t, drv.Level(row), "row %d should rest high", row)
	}
}

func TestScannerSettleDelay(t *testing.T) {
	var slept []time.Duration
	s, _, layout := newTestScanner(t,
		WithSettleDelay(5*time.Microsecond),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)

	s.Scan()
	assert.Len(t, slept, layout.RowCount())
	for _, d := range slept {
		assert.Equal(t, 5*time.Microsecond, d)
	}
}

func TestScannerReadErrorReadsOpen(t *testing.T) {
	s, drv, layout := newTestScanner(t)
	boom := errors.New("bus fault")

	drv.PressKey(layout, 0)
	drv.PressKey(layout, 1)
	drv.FailRead(layout.Cols()[0], boom)

	frame := s.Scan()
	assert.Equal(t, []key.Code{1}, frame.Closed)
	assert.ErrorIs(t, s.Err(), boom)
	assert.Equal(t, uint64(4), s.Errors(), "one failed read per row")

	drv.FailRead(layout.Cols()[0], nil)
	frame = s.Scan()
	assert.Equal(t, []key.Code{0, 1}, frame.Closed)
}

func TestScannerWriteErrorSkipsRow(t *testing.T) {
	s, drv, layout := newTestScanner(t)

	drv.PressKey(layout, 0)
	drv.PressKey(layout, 3)
	drv.FailWrite(layout.Rows()[0], errors.New("stuck"))

	frame := s.Scan()
	assert.Equal(t, []key.Code{3}, frame.Closed)
	assert.Error(t, s.Err())
}

func TestNewScannerErrors(t *testing.T) {
	_, err := NewScanner(nil, NewMemoryDriver())
	assert.ErrorIs(t, err, ErrNilLayout)

	_, err = NewScanner(key.FactoryLayout(), nil)
	assert.ErrorIs(t, err, ErrNilDriver)
}

func TestMemoryDriverUnknownLine(t *testing.T) {
	drv := NewMemoryDriver()

	_, err := drv.Read(3)
	assert.ErrorIs(t, err, ErrUnknownLine)
	assert.ErrorIs(t, drv.Write(3, true), ErrUnknownLine)
}

func TestMemoryDriverReleaseAll(t *testing.T) {
	s, drv, layout := newTestScanner(t)

	drv.PressKey(layout, 2)
	drv.PressKey(layout, 8)
	drv.ReleaseAll()

	assert.Equal(t, 0, s.Scan().Len())
	assert.False(t, drv.PressKey(layout, 99))
}

func TestPullString(t *testing.T) {
	assert.Equal(t, "pullup", PullUp.String())
	assert.Equal(t, "pulldown", PullDown.String())
	assert.Equal(t, "unknown", Pull(9).String())
}
