// Package config loads keypad settings from files and the environment.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← KEYPAD_MODE, KEYPAD_TAP_TIMEOUT, ...
//	├─────────────────────────────┤
//	│  2. Config File             │  ← keypad.toml or keypad.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← factory keypad
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file decoding (TOML, YAML) and environment overrides
//   - watcher: file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load("keypad.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kc, err := cfg.ToKeypad()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kp, err := keypad.New(kc, driver)
//
// # Configuration Files
//
// The file format is chosen by extension:
//
//	# keypad.toml
//	[keypad]
//	mode = "t9"
//	debounce_window = 3
//	tap_timeout = "600ms"
//	chord_policy = "suppress"
//	delete_key = "*"
//	enter_key = "#"
//
//	[layout]
//	rows = [2, 3]
//	cols = [6, 7]
//	keys = [["1", "2ABC"], ["*", "#"]]
//
//	[beeper]
//	enabled = true
//	line = 9
//	duration = "50ms"
//
// Omitting [layout] selects the 4x3 factory telephone layout. An empty
// string for a special key disables it.
//
// # Live Reload
//
// Watch reloads the file when it changes and passes each valid result to a
// callback. Invalid edits are logged and the previous settings stay in
// effect.
package config
