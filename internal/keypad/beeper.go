package keypad

import (
	"fmt"
	"time"
)

// EnableBeeper attaches a beeper, replacing any previous one.
func (k *Keypad) EnableBeeper(b Beeper) error {
	if b.Duration <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidBeeper, b.Duration)
	}
	for _, l := range append(k.cfg.Layout.Rows(), k.cfg.Layout.Cols()...) {
		if l == b.Line {
			return fmt.Errorf("%w: line %d", ErrBeeperLine, l)
		}
	}
	k.DisableBeeper()
	return k.attachBeeper(b)
}

// DisableBeeper silences and detaches the beeper.
func (k *Keypad) DisableBeeper() {
	k.stopBeep()
	k.beeper = nil
}

func (k *Keypad) attachBeeper(b Beeper) error {
	if err := k.driver.ConfigureOutput(b.Line); err != nil {
		return fmt.Errorf("configure beeper line %d: %w", b.Line, err)
	}
	if err := k.driver.Write(b.Line, false); err != nil {
		return fmt.Errorf("configure beeper line %d: %w", b.Line, err)
	}
	k.beeper = &b
	return nil
}

func (k *Keypad) beep(now time.Time) {
	if k.beeper == nil {
		return
	}
	if err := k.driver.Write(k.beeper.Line, true); err != nil {
		k.logger.Debug("beeper on: %v", err)
		return
	}
	k.beeping = true
	k.beepOff = now.Add(k.beeper.Duration)
}

func (k *Keypad) stopBeep() {
	if k.beeper == nil || !k.beeping {
		return
	}
	k.beeping = false
	if err := k.driver.Write(k.beeper.Line, false); err != nil {
		k.logger.Debug("beeper off: %v", err)
	}
}
