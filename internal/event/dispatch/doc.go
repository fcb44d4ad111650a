// Package dispatch delivers keypad events to registered listeners.
//
// Listeners are grouped by event Kind in a Registry. Insertion order is call
// order. The Dispatcher runs every listener of an event's kind synchronously
// in the caller's goroutine; there is no queue and no deferred delivery.
//
// # Panic Recovery
//
// Each listener runs under the Executor, which recovers from panics. A
// misbehaving listener cannot stop the other listeners of the same event or
// corrupt later scan cycles. Panics are reported via a configurable
// PanicHandler callback.
//
// # Usage
//
//	reg := dispatch.NewRegistry()
//	reg.Add(dispatch.KindKeyDown, func(ev dispatch.Event) error {
//	    fmt.Println("down", ev.Code)
//	    return nil
//	})
//
//	d := dispatch.NewDispatcher(reg,
//	    dispatch.WithPanicHandler(func(ev dispatch.Event, v any, stack []byte) {
//	        log.Printf("panic in listener: %v\n%s", v, stack)
//	    }),
//	)
//	results := d.Dispatch(dispatch.Event{Kind: dispatch.KindKeyDown, Code: 4})
package dispatch
