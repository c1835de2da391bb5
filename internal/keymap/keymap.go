// Package keymap translates raw input keys into calculator actions. It is
// the shared half of every input adapter: HTTP events carry browser
// KeyboardEvent.key values, the terminal front end feeds it decoded
// keystrokes. The reducer never sees a key, only actions.
package keymap

import "calcd/internal/engine"

// ActionForKey maps a KeyboardEvent.key value to its calculator action.
// Unknown keys return ok=false and must be ignored by the caller.
func ActionForKey(key string) (engine.Action, bool) {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return engine.Digit(key[0]), true
	case ".":
		return engine.Dot(), true
	case "+":
		return engine.BinaryOp(engine.OpAdd), true
	case "-":
		return engine.BinaryOp(engine.OpSubtract), true
	case "*":
		return engine.BinaryOp(engine.OpMultiply), true
	case "/":
		return engine.BinaryOp(engine.OpDivide), true
	case "Enter", "=":
		return engine.Equals(), true
	case "Backspace":
		return engine.Delete(), true
	case "Escape":
		return engine.Clear(), true
	case "%":
		return engine.Percent(), true
	}
	return engine.Action{}, false
}
