// Command keypad is the default keypad entry point. It prints key-up,
// multiple-key and key-down events while scanning in a loop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dshills/keypad/internal/input/key"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/keypad"
)

const scanInterval = 5 * time.Millisecond

var layout *key.Layout

func keyUp(code key.Code) {
	fmt.Println(layout.Labels([]key.Code{code}))
}

func multipleKey(chord key.Chord) {
	fmt.Println(layout.Labels(chord))
}

func keyDown(code key.Code) {
	fmt.Println(layout.Labels([]key.Code{code}))
}

func main() {
	// Swap the memory driver for the board's matrix.Driver.
	kp, err := keypad.NewFactory(matrix.NewMemoryDriver())
	if err != nil {
		fmt.Fprintln(os.Stderr, "keypad:", err)
		os.Exit(1)
	}
	layout = kp.Layout()

	kp.AddKeyUpListener(keyUp)
	kp.AddMultipleKeyListener(multipleKey)
	kp.AddKeyDownListener(keyDown)
	kp.SetType(mode.T9)
	kp.Enable()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			kp.Scan()
			// put your main code here, to run repeatedly
		}
	}
}
