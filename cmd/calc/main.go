//go:build linux

package main

import (
	"fmt"
	"os"

	"calcd/internal/engine"
	"calcd/internal/keymap"
)

const usage = `calc — interactive calculator

keys: 0-9 . + - * / % = Enter Backspace Escape
      n negate   m memory add   r memory recall   x memory clear
      h toggle history   q quit
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "calc: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := enterRawTerm(); err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer exitRawTerm()

	fmt.Print(usage)

	state := engine.NewState()
	stamper := engine.SystemStamper()
	showHistory := false

	render(state, showHistory)

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}

		action, ok := decodeKey(buf[0])
		switch {
		case ok:
			state = engine.Reduce(state, action, stamper)
		case buf[0] == 'h':
			showHistory = !showHistory
		case buf[0] == 'q' || buf[0] == 0x03: // ctrl-c
			fmt.Print("\r\n")
			return nil
		default:
			continue
		}

		render(state, showHistory)
	}
}

// decodeKey maps a raw terminal byte onto a calculator action, translating
// control bytes to their browser key names before consulting the keymap.
func decodeKey(b byte) (engine.Action, bool) {
	switch b {
	case '\r', '\n':
		return keymap.ActionForKey("Enter")
	case 0x7f, 0x08: // DEL / BS
		return keymap.ActionForKey("Backspace")
	case 0x1b: // ESC
		return keymap.ActionForKey("Escape")
	case 'n':
		return engine.ToggleSign(), true
	case 'm':
		return engine.MemoryAdd(), true
	case 'r':
		return engine.MemoryRecall(), true
	case 'x':
		return engine.MemoryClear(), true
	}
	return keymap.ActionForKey(string(b))
}

func render(s engine.State, showHistory bool) {
	// Redraw in place: clear the line, print the display, and append the
	// history panel below when toggled on.
	fmt.Print("\r\x1b[2K\x1b[J")

	mem := " "
	if s.Memory != nil {
		mem = "M"
	}
	op := s.Operator.String()
	if op == "" {
		op = " "
	}
	fmt.Printf("[%s%s] %s", mem, op, s.Display)

	if showHistory {
		for _, e := range s.History {
			fmt.Printf("\r\n  %s %s", e.Expression, e.Result)
		}
		// Move the cursor back up to the display line.
		if n := len(s.History); n > 0 {
			fmt.Printf("\x1b[%dA\r\x1b[%dC", n, displayWidth(s))
		}
	}
}

func displayWidth(s engine.State) int {
	return len("[??] ") + len(s.Display)
}
