package keypad

import "time"

// Clock supplies the current time to a keypad.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
