// Package mode interprets key presses according to the keypad input mode.
//
// Four input modes are supported:
//   - Raw: key events pass through untouched; no text is composed
//   - Integer: digit keys append their digit to the text buffer
//   - Float: Integer plus a single decimal point from the float key
//   - T9: multi-tap text entry over each key's character group
//
// # Multi-tap Composition
//
// In T9 mode the decoder is a two-state machine:
//
//	┌──────┐  key-down   ┌───────────┐
//	│ Idle │ ──────────▶ │ Composing │ ◀─┐ same key within TapTimeout:
//	└──────┘             └───────────┘ ──┘ advance to next character
//	    ▲                      │
//	    └──────────────────────┘
//	  commit: other key, timeout, enter key, Commit()
//
// On commit the selected character is appended to the buffer and a
// TextChanged event carries the whole buffer, not just the new character.
//
// Changing the mode discards a pending character without any event.
// Committed text is kept.
//
// The decoder never reads a clock. Callers pass the time of each key press
// and call Tick once per scan cycle so timeouts are checked.
package mode
