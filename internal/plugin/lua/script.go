package lua

import (
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keypad/internal/event/dispatch"
	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/keypad"
	"github.com/dshills/keypad/internal/logging"
)

// handler binds one global Lua function to one event kind.
type handler struct {
	fn   string
	kind dispatch.Kind
}

var handlers = []handler{
	{"on_key_down", dispatch.KindKeyDown},
	{"on_key_up", dispatch.KindKeyUp},
	{"on_long_press", dispatch.KindLongPress},
	{"on_multi_key", dispatch.KindMultiKey},
	{"on_text", dispatch.KindText},
	{"on_enter", dispatch.KindEnter},
	{"on_delete", dispatch.KindDelete},
}

// Script is a Lua file whose global functions listen to a keypad.
// A Script belongs to the goroutine that scans its keypad.
type Script struct {
	state  *State
	logger *logging.Logger

	kp       *keypad.Keypad
	bound    []string
	deferred []func()

	calls    atomic.Uint64
	failures atomic.Uint64
}

// NewScript creates an empty script with the keypad module installed.
func NewScript(logger *logging.Logger, opts ...StateOption) (*Script, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	state, err := NewState(opts...)
	if err != nil {
		return nil, err
	}

	s := &Script{
		state:  state,
		logger: logger.WithComponent("lua"),
	}
	state.RegisterModule("keypad", map[string]lua.LGFunction{
		"text":     s.luaText,
		"label":    s.luaLabel,
		"mode":     s.luaMode,
		"set_mode": s.luaSetMode,
		"clear":    s.luaClear,
	})
	return s, nil
}

// LoadFile runs a script file, defining its handlers.
func (s *Script) LoadFile(path string) error {
	if err := s.state.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	s.runDeferred()
	s.logger.Debug("loaded %s", path)
	return nil
}

// LoadString runs script source, defining its handlers.
func (s *Script) LoadString(src string) error {
	if err := s.state.DoString(src); err != nil {
		return err
	}
	s.runDeferred()
	return nil
}

// State returns the underlying Lua state.
func (s *Script) State() *State {
	return s.state
}

// Bind registers a keypad listener for every handler the script defines
// and returns their names. A script can be bound to one keypad.
func (s *Script) Bind(kp *keypad.Keypad) ([]string, error) {
	if s.kp != nil {
		return nil, fmt.Errorf("script already bound to keypad %s", s.kp.ID())
	}
	s.kp = kp

	for _, h := range handlers {
		if !s.state.HasFunction(h.fn) {
			continue
		}
		kp.AddListener(h.kind, s.listener(h.fn))
		s.bound = append(s.bound, h.fn)
	}
	s.logger.Info("bound %d handlers to keypad %s", len(s.bound), kp.ID())
	return s.bound, nil
}

func (s *Script) listener(fn string) dispatch.Listener {
	return func(e dispatch.Event) error {
		s.calls.Add(1)
		_, err := s.state.Call(fn, s.args(e)...)
		if len(s.deferred) > 0 {
			s.kp.Defer(s.runDeferred)
		}
		if err != nil {
			s.failures.Add(1)
			return fmt.Errorf("%s: %w", fn, err)
		}
		return nil
	}
}

func (s *Script) args(e dispatch.Event) []lua.LValue {
	switch e.Kind {
	case dispatch.KindMultiKey:
		codes := make([]lua.LValue, len(e.Chord))
		for i, c := range e.Chord {
			codes[i] = lua.LNumber(c)
		}
		return []lua.LValue{s.state.NewList(codes...)}
	case dispatch.KindText, dispatch.KindEnter:
		return []lua.LValue{lua.LString(e.Text)}
	default:
		return []lua.LValue{lua.LNumber(e.Code)}
	}
}

// runDeferred applies keypad changes requested by handlers. From a
// listener it runs once the keypad has finished the current cycle. The
// changes may dispatch events, which call back into Lua.
func (s *Script) runDeferred() {
	for len(s.deferred) > 0 {
		next := s.deferred[0]
		s.deferred = s.deferred[1:]
		next()
	}
}

// Calls returns how many handler calls ran and how many failed.
func (s *Script) Calls() (calls, failures uint64) {
	return s.calls.Load(), s.failures.Load()
}

// Close releases the Lua state. Listeners already bound become no-ops that
// report ErrStateClosed.
func (s *Script) Close() error {
	return s.state.Close()
}

func (s *Script) keypadOf(L *lua.LState) *keypad.Keypad {
	if s.kp == nil {
		L.RaiseError("%s", ErrNotBound.Error())
	}
	return s.kp
}

func (s *Script) luaText(L *lua.LState) int {
	L.Push(lua.LString(s.keypadOf(L).Text()))
	return 1
}

func (s *Script) luaLabel(L *lua.LState) int {
	kp := s.keypadOf(L)
	code := L.CheckInt(1)
	k, ok := kp.Layout().Key(key.Code(code))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(string(k.Label())))
	return 1
}

func (s *Script) luaMode(L *lua.LState) int {
	L.Push(lua.LString(s.keypadOf(L).Type().String()))
	return 1
}

func (s *Script) luaSetMode(L *lua.LState) int {
	kp := s.keypadOf(L)
	m, err := mode.Parse(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	s.deferred = append(s.deferred, func() { kp.SetType(m) })
	return 0
}

func (s *Script) luaClear(L *lua.LState) int {
	kp := s.keypadOf(L)
	s.deferred = append(s.deferred, kp.Clear)
	return 0
}
