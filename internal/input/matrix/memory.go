package matrix

import (
	"sync"

	"github.com/dshills/keypad/internal/input/key"
)

type switchPos struct {
	row Line
	col Line
}

// MemoryDriver is an in-memory matrix. It models the electrical behavior of
// a switch grid: an input line reads the active level when a closed switch
// connects it to an output line that is driven active.
//
// Switches may be changed from other goroutines while a scanner runs.
type MemoryDriver struct {
	mu sync.Mutex

	outputs map[Line]bool
	inputs  map[Line]Pull
	closed  map[switchPos]bool

	readErr  map[Line]error
	writeErr map[Line]error

	writes uint64
}

// NewMemoryDriver creates an empty in-memory matrix.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		outputs:  make(map[Line]bool),
		inputs:   make(map[Line]Pull),
		closed:   make(map[switchPos]bool),
		readErr:  make(map[Line]error),
		writeErr: make(map[Line]error),
	}
}

// ConfigureOutput implements Driver.
func (d *MemoryDriver) ConfigureOutput(line Line) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outputs[line] = false
	return nil
}

// ConfigureInput implements Driver.
func (d *MemoryDriver) ConfigureInput(line Line, pull Pull) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputs[line] = pull
	return nil
}

// Write implements Driver.
func (d *MemoryDriver) Write(line Line, level bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeErr[line]; err != nil {
		return err
	}
	if _, ok := d.outputs[line]; !ok {
		return ErrUnknownLine
	}
	d.outputs[line] = level
	d.writes++
	return nil
}

// Read implements Driver.
func (d *MemoryDriver) Read(line Line) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.readErr[line]; err != nil {
		return false, err
	}
	pull, ok := d.inputs[line]
	if !ok {
		return false, ErrUnknownLine
	}

	active := pull.ActiveLevel()
	for pos, closed := range d.closed {
		if !closed || pos.col != line {
			continue
		}
		if level, ok := d.outputs[pos.row]; ok && level == active {
			return active, nil
		}
	}
	return !active, nil
}

// Level returns the level last written to an output line.
func (d *MemoryDriver) Level(line Line) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outputs[line]
}

// Writes returns the number of successful writes.
func (d *MemoryDriver) Writes() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// Set opens or closes the switch between a row line and a column line.
func (d *MemoryDriver) Set(row, col Line, closed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if closed {
		d.closed[switchPos{row, col}] = true
	} else {
		delete(d.closed, switchPos{row, col})
	}
}

// Press closes the switch between row and col.
func (d *MemoryDriver) Press(row, col Line) {
	d.Set(row, col, true)
}

// Release opens the switch between row and col.
func (d *MemoryDriver) Release(row, col Line) {
	d.Set(row, col, false)
}

// ReleaseAll opens every switch.
func (d *MemoryDriver) ReleaseAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = make(map[switchPos]bool)
}

// PressKey closes the switch of the key with the given code.
// Returns false if the layout has no such key.
func (d *MemoryDriver) PressKey(layout *key.Layout, code key.Code) bool {
	row, col, ok := keyLines(layout, code)
	if ok {
		d.Press(row, col)
	}
	return ok
}

// ReleaseKey opens the switch of the key with the given code.
func (d *MemoryDriver) ReleaseKey(layout *key.Layout, code key.Code) bool {
	row, col, ok := keyLines(layout, code)
	if ok {
		d.Release(row, col)
	}
	return ok
}

// FailRead makes reads of line return err. A nil err clears the failure.
func (d *MemoryDriver) FailRead(line Line, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.readErr, line)
		return
	}
	d.readErr[line] = err
}

// FailWrite makes writes to line return err. A nil err clears the failure.
func (d *MemoryDriver) FailWrite(line Line, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.writeErr, line)
		return
	}
	d.writeErr[line] = err
}

func keyLines(layout *key.Layout, code key.Code) (Line, Line, bool) {
	k, ok := layout.Key(code)
	if !ok {
		return 0, 0, false
	}
	return layout.Rows()[k.Row], layout.Cols()[k.Col], true
}
