package sim

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal wraps a tcell screen for the simulator.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// DrawText writes s starting at (x, y), clipped to the screen width.
// It returns the column after the last cell written.
func (t *Terminal) DrawText(x, y int, style tcell.Style, s string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return x
	}
	for _, r := range s {
		if x >= width {
			break
		}
		if x >= 0 {
			t.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
	return x
}

// Text reads back the runes of row y, trailing blanks trimmed.
func (t *Terminal) Text(y int) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, _ := t.screen.Size()
	row := make([]rune, 0, width)
	for x := 0; x < width; x++ {
		mainc, _, _, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if mainc == 0 {
			mainc = ' '
		}
		row = append(row, mainc)
	}
	end := len(row)
	for end > 0 && row[end-1] == ' ' {
		end--
	}
	return string(row[:end])
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// PollEvent blocks until the next event. It returns nil once the
// screen has been shut down.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// PostKey queues a synthetic key event.
func (t *Terminal) PostKey(k tcell.Key, r rune) {
	_ = t.screen.PostEvent(tcell.NewEventKey(k, r, tcell.ModNone)) // best-effort; queue may be full
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}
