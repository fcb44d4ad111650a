// Package lua runs keypad listeners written in Lua.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Per-call execution timeouts
//   - Keypad event listeners backed by script functions
//
// # State
//
// The State type manages a Lua runtime with only the base, table, string
// and math libraries opened. Functions that load code from disk or strings
// (dofile, loadfile, load, loadstring, require) are removed.
//
//	state, err := lua.NewState(lua.WithCallTimeout(time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
// # Scripts
//
// A Script binds global Lua functions to keypad events. Any of these may be
// defined; missing ones are skipped:
//
//	function on_key_down(code) end
//	function on_key_up(code) end
//	function on_long_press(code) end
//	function on_multi_key(codes) end  -- codes is a list, ascending
//	function on_text(text) end
//	function on_enter(text) end
//	function on_delete(code) end
//
// Scripts can read and steer the keypad through the keypad module:
//
//	keypad.text()          -- current text buffer
//	keypad.label(code)     -- first character of a key
//	keypad.mode()          -- "raw", "integer", "float" or "t9"
//	keypad.set_mode(name)
//	keypad.clear()
//
// set_mode and clear take effect when the running handler returns. A
// failing handler is logged by the keypad and never stops a scan.
package lua
