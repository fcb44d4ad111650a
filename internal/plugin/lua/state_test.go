package lua

import (
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func newState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	state, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { _ = state.Close() })
	return state
}

func TestStateDoString(t *testing.T) {
	state := newState(t)

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := state.GetGlobal("x"); got != glua.LNumber(2) {
		t.Errorf("x = %v, want 2", got)
	}

	if err := state.DoString(`x = = 1`); err == nil {
		t.Error("DoString() with syntax error should fail")
	}
}

func TestStateSandbox(t *testing.T) {
	state := newState(t)

	for _, name := range []string{"io", "os", "debug", "dofile", "loadfile", "load", "loadstring", "require"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs", "tostring"} {
		if v := state.GetGlobal(name); v == glua.LNil {
			t.Errorf("global %s missing", name)
		}
	}
}

func TestStateCall(t *testing.T) {
	state := newState(t)
	if err := state.DoString(`function add(a, b) return a + b, "ok" end`); err != nil {
		t.Fatal(err)
	}

	got, err := state.Call("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(got) != 2 || got[0] != glua.LNumber(5) || got[1] != glua.LString("ok") {
		t.Errorf("Call() = %v, want [5 ok]", got)
	}
	if !state.HasFunction("add") {
		t.Error("HasFunction(add) = false")
	}

	if _, err := state.Call("missing"); err == nil {
		t.Error("Call(missing) should fail")
	}
}

func TestStateCallTimeout(t *testing.T) {
	state := newState(t, WithCallTimeout(50*time.Millisecond))
	if err := state.DoString(`function spin() while true do end end`); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if _, err := state.Call("spin"); err == nil {
		t.Error("Call(spin) should time out")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}

	// the state stays usable
	if err := state.DoString(`y = 1`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateClose(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false")
	}
	if err := state.DoString(`x = 1`); err != ErrStateClosed {
		t.Errorf("DoString() after Close = %v, want ErrStateClosed", err)
	}
	if _, err := state.Call("x"); err != ErrStateClosed {
		t.Errorf("Call() after Close = %v, want ErrStateClosed", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestNewList(t *testing.T) {
	state := newState(t)
	state.SetGlobal("list", state.NewList(glua.LNumber(1), glua.LNumber(4)))
	if err := state.DoString(`joined = table.concat(list, "+")`); err != nil {
		t.Fatal(err)
	}
	if got := state.GetGlobal("joined").String(); got != "1+4" {
		t.Errorf("joined = %q, want 1+4", got)
	}
}
