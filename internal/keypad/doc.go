// Package keypad turns a scanned switch matrix into keypad events.
//
// A Keypad owns one matrix scanner, one debounce tracker, one chord
// detector and one input-mode decoder, plus the listeners registered on it.
// Several keypads can run side by side; nothing is global.
//
// # Scan Cycle
//
// The caller drives the keypad by calling Scan from its own loop. Each
// call runs one cycle, synchronously, in this order:
//
//  1. the decoder commits a pending multi-tap character whose tap timeout
//     has elapsed
//  2. the matrix is scanned and the frame is debounced
//  3. the chord detector decides which transitions are delivered
//  4. key-up listeners, then key-down listeners, then multi-key listeners
//  5. delivered key-downs are decoded into text, enter and delete events
//  6. keys held past the long press duration fire long-press listeners
//
// Scan returns false without touching the matrix while the keypad is
// disabled. Keypads start disabled.
//
// # Listeners
//
// Listeners run in registration order. A panicking listener is recovered
// and logged; the listeners after it still run.
//
// # Example
//
//	kp, err := keypad.NewFactory(driver)
//	if err != nil {
//	    return err
//	}
//	kp.AddKeyDownListener(func(code key.Code) { fmt.Println("down", code) })
//	kp.SetType(mode.T9)
//	kp.Enable()
//	for {
//	    kp.Scan()
//	    time.Sleep(5 * time.Millisecond)
//	}
package keypad
