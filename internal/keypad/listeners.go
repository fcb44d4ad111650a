package keypad

import (
	"github.com/dshills/keypad/internal/event/dispatch"
	"github.com/dshills/keypad/internal/input/key"
)

// AddListener registers a raw listener for one event kind. Errors returned
// by the listener are logged.
func (k *Keypad) AddListener(kind dispatch.Kind, l dispatch.Listener) {
	k.registry.Add(kind, l)
}

// AddKeyDownListener registers fn for key-down events.
func (k *Keypad) AddKeyDownListener(fn func(key.Code)) {
	k.addCode(dispatch.KindKeyDown, fn)
}

// AddKeyUpListener registers fn for key-up events.
func (k *Keypad) AddKeyUpListener(fn func(key.Code)) {
	k.addCode(dispatch.KindKeyUp, fn)
}

// AddLongPressListener registers fn for long-press events.
func (k *Keypad) AddLongPressListener(fn func(key.Code)) {
	k.addCode(dispatch.KindLongPress, fn)
}

// AddDeleteListener registers fn for delete events. fn receives the delete
// key's code.
func (k *Keypad) AddDeleteListener(fn func(key.Code)) {
	k.addCode(dispatch.KindDelete, fn)
}

// AddMultipleKeyListener registers fn for chords. The chord is in ascending
// code order.
func (k *Keypad) AddMultipleKeyListener(fn func(key.Chord)) {
	if fn == nil {
		return
	}
	k.registry.Add(dispatch.KindMultiKey, func(e dispatch.Event) error {
		fn(e.Chord)
		return nil
	})
}

// AddDecodedTextListener registers fn for text changes. fn receives the
// whole buffer.
func (k *Keypad) AddDecodedTextListener(fn func(string)) {
	k.addText(dispatch.KindText, fn)
}

// AddEnterListener registers fn for the enter key. fn receives the buffer.
func (k *Keypad) AddEnterListener(fn func(string)) {
	k.addText(dispatch.KindEnter, fn)
}

func (k *Keypad) addCode(kind dispatch.Kind, fn func(key.Code)) {
	if fn == nil {
		return
	}
	k.registry.Add(kind, func(e dispatch.Event) error {
		fn(e.Code)
		return nil
	})
}

func (k *Keypad) addText(kind dispatch.Kind, fn func(string)) {
	if fn == nil {
		return
	}
	k.registry.Add(kind, func(e dispatch.Event) error {
		fn(e.Text)
		return nil
	})
}
