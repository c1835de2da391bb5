// Package engine implements the calculator state machine: a pure reducer
// over a small set of tagged actions, plus the numeric formatting and
// parsing rules the reducer depends on. It performs no I/O; the only
// non-deterministic detail (history-entry ids and timestamps) is isolated
// behind the Stamper interface.
package engine

import "time"

// HistoryLimit caps the number of retained history entries; the oldest
// entry is evicted when a push would exceed it.
const HistoryLimit = 25

// HistoryEntry records one completed calculation. Immutable once created.
type HistoryEntry struct {
	ID         string
	Expression string
	Result     string
	Timestamp  time.Time
}

// State is the complete calculator state. It is replaced wholesale by the
// reducer on every action; callers must not mutate fields directly.
type State struct {
	// Display is the on-screen value: a numeric literal or the
	// literal "Error".
	Display string

	// FirstOperand is the left-hand operand pending an operation,
	// nil when no operation is in flight.
	FirstOperand *float64

	// Operator is the pending binary operator, OpNone when absent.
	Operator Operator

	// AwaitingSecondOperand is true immediately after an operator is
	// chosen; the next digit starts a fresh number instead of appending.
	// AwaitingSecondOperand implies Operator != OpNone.
	AwaitingSecondOperand bool

	// Memory is the single-register memory, nil when empty.
	Memory *float64

	// History holds completed calculations, most recent first,
	// capped at HistoryLimit.
	History []HistoryEntry
}

// NewState returns the initial calculator state.
func NewState() State {
	return State{Display: "0"}
}
