package lua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/keypad"
)

func newKeypad(t *testing.T, m mode.Mode) *keypad.Keypad {
	t.Helper()
	cfg := keypad.DefaultConfig()
	cfg.Mode = m
	cfg.DebounceWindow = 1
	kp, err := keypad.New(cfg, matrix.NewMemoryDriver(), keypad.WithSleeper(func(time.Duration) {}))
	require.NoError(t, err)
	kp.Enable()
	return kp
}

func tap(kp *keypad.Keypad, codes ...key.Code) {
	kp.Feed(matrix.Frame{Closed: codes})
	kp.Feed(matrix.Frame{})
}

func newScript(t *testing.T, src string) *Script {
	t.Helper()
	s, err := NewScript(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.LoadString(src))
	return s
}

func TestScriptHandlers(t *testing.T) {
	s := newScript(t, `
events = {}
function on_key_down(code) table.insert(events, "down " .. code .. " " .. keypad.label(code)) end
function on_key_up(code) table.insert(events, "up " .. code) end
function on_multi_key(codes) table.insert(events, "multi " .. table.concat(codes, "+")) end
function on_text(text) table.insert(events, "text " .. text) end
`)
	kp := newKeypad(t, mode.Integer)

	bound, err := s.Bind(kp)
	require.NoError(t, err)
	assert.Equal(t, []string{"on_key_down", "on_key_up", "on_multi_key", "on_text"}, bound)

	tap(kp, 4)
	tap(kp, 0, 2)

	require.NoError(t, s.LoadString(`joined = table.concat(events, "|")`))
	assert.Equal(t, "down 4 5|text 5|up 4|multi 0+2",
		s.State().GetGlobal("joined").String())

	calls, failures := s.Calls()
	assert.Equal(t, uint64(4), calls)
	assert.Equal(t, uint64(0), failures)
}

func TestScriptKeypadModule(t *testing.T) {
	s := newScript(t, `
seen = ""
function on_enter(text)
  seen = text .. " in " .. keypad.mode()
  keypad.clear()
  keypad.set_mode("t9")
end
`)
	kp := newKeypad(t, mode.Integer)
	_, err := s.Bind(kp)
	require.NoError(t, err)

	tap(kp, 0)
	tap(kp, 1)
	tap(kp, 11) // '#'

	assert.Equal(t, glua.LString("12 in integer"), s.State().GetGlobal("seen"))
	assert.Equal(t, "", kp.Text())
	assert.Equal(t, mode.T9, kp.Type())
}

func TestScriptChangesApplyAfterCycle(t *testing.T) {
	s := newScript(t, `
texts = {}
function on_key_down(code) keypad.clear() end
function on_text(text) table.insert(texts, "[" .. text .. "]") end
`)
	kp := newKeypad(t, mode.Integer)
	_, err := s.Bind(kp)
	require.NoError(t, err)

	kp.Feed(matrix.Frame{Closed: []key.Code{4}})

	require.NoError(t, s.LoadString(`joined = table.concat(texts, "")`))
	assert.Equal(t, "[5][]", s.State().GetGlobal("joined").String())
	assert.Equal(t, "", kp.Text())
}

func TestScriptErrorsDoNotStopScan(t *testing.T) {
	s := newScript(t, `function on_key_down(code) error("bad key " .. code) end`)
	kp := newKeypad(t, mode.Integer)
	_, err := s.Bind(kp)
	require.NoError(t, err)

	var downs []key.Code
	kp.AddKeyDownListener(func(c key.Code) { downs = append(downs, c) })

	tap(kp, 0)
	assert.Equal(t, []key.Code{0}, downs)
	assert.Equal(t, "1", kp.Text())

	_, failures := s.Calls()
	assert.Equal(t, uint64(1), failures)
	assert.Equal(t, uint64(1), kp.Stats().Dispatch.Failed)
}

func TestScriptModuleBeforeBind(t *testing.T) {
	s, err := NewScript(nil)
	require.NoError(t, err)
	defer s.Close()

	err = s.LoadString(`x = keypad.text()`)
	assert.ErrorContains(t, err, ErrNotBound.Error())

	err = s.LoadString(`keypad.set_mode("morse")`)
	assert.Error(t, err)
}

func TestScriptBindTwice(t *testing.T) {
	s := newScript(t, `function on_text(t) end`)
	kp := newKeypad(t, mode.Integer)

	_, err := s.Bind(kp)
	require.NoError(t, err)
	_, err = s.Bind(kp)
	assert.Error(t, err)
}
