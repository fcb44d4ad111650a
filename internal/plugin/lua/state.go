package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds each call into Lua.
const DefaultCallTimeout = time.Second

// State wraps gopher-lua with a sandbox and call timeouts.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls from
// Go; Lua code itself is single-threaded.
type State struct {
	L *lua.LState

	mu sync.Mutex

	callTimeout time.Duration
	closed      bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallTimeout sets how long a single call into Lua may run. Zero
// disables the timeout.
func WithCallTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.callTimeout = d
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	state.L = L

	openSafeLibraries(L)
	return state, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// io, os, debug and package stay closed
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// run executes fn under the lock with the call timeout and panic recovery.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.callTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// HasFunction returns true if name is a global function.
func (s *State) HasFunction(name string) bool {
	return s.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls a global Lua function with the given arguments.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(func() error {
		fnVal := s.L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}

		// Record stack top before pushing anything
		stackTop := s.L.GetTop()

		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		// Collect return values (only the new values added after the call)
		nRet := s.L.GetTop() - stackTop
		results = make([]lua.LValue, 0, nRet)
		for i := 0; i < nRet; i++ {
			results = append(results, s.L.Get(stackTop+i+1))
		}
		s.L.Pop(nRet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// NewList returns a Lua list holding values.
func (s *State) NewList(values ...lua.LValue) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.L.CreateTable(len(values), 0)
	for _, v := range values {
		t.Append(v)
	}
	return t
}

// RegisterModule registers a module with the given functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
