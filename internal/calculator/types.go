package calculator

import (
	"fmt"
	"time"

	"calcd/internal/engine"
	"calcd/internal/keymap"
)

// EventRequest is the JSON body for POST /calculator/sessions/{id}/events.
// Either Key carries a browser KeyboardEvent.key value, or Action names an
// explicit calculator action with its payload fields.
type EventRequest struct {
	Key      string `json:"key,omitempty"`
	Action   string `json:"action,omitempty"`
	Digit    string `json:"digit,omitempty"`    // single digit character for "digit"
	Operator string `json:"operator,omitempty"` // operator name or symbol for "operator"
	Value    string `json:"value,omitempty"`    // display value for "set-display"
}

// HistoryEntryResponse is one completed calculation on the wire.
type HistoryEntryResponse struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// StateResponse renders a calculator state. HasMemory gates the
// memory-recall/clear buttons client-side.
type StateResponse struct {
	Display               string                 `json:"display"`
	FirstOperand          *float64               `json:"first_operand,omitempty"`
	Operator              string                 `json:"operator,omitempty"`
	AwaitingSecondOperand bool                   `json:"awaiting_second_operand"`
	Memory                *float64               `json:"memory,omitempty"`
	HasMemory             bool                   `json:"has_memory"`
	History               []HistoryEntryResponse `json:"history"`
}

// SessionResponse is the JSON response for session creation and lookup.
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	State     StateResponse `json:"state"`
}

// HistoryResponse is the JSON response for GET .../history.
type HistoryResponse struct {
	SessionID string                 `json:"session_id"`
	History   []HistoryEntryResponse `json:"history"`
}

func newStateResponse(s engine.State) StateResponse {
	resp := StateResponse{
		Display:               s.Display,
		FirstOperand:          s.FirstOperand,
		AwaitingSecondOperand: s.AwaitingSecondOperand,
		Memory:                s.Memory,
		HasMemory:             s.Memory != nil,
		History:               newHistoryResponse(s.History),
	}
	if s.Operator != engine.OpNone {
		resp.Operator = s.Operator.Name()
	}
	return resp
}

func newHistoryResponse(entries []engine.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:         e.ID,
			Expression: e.Expression,
			Result:     e.Result,
			Timestamp:  e.Timestamp,
		})
	}
	return out
}

// actionFromRequest validates an event body and converts it to an engine
// action. Validation lives at the adapter boundary: the reducer treats
// anything malformed as a no-op, but API callers get a 400 instead of
// silence.
func actionFromRequest(req EventRequest) (engine.Action, error) {
	if req.Key != "" {
		a, ok := keymap.ActionForKey(req.Key)
		if !ok {
			return engine.Action{}, fmt.Errorf("unmapped key %q", req.Key)
		}
		return a, nil
	}

	t, ok := engine.ParseActionType(req.Action)
	if !ok {
		return engine.Action{}, fmt.Errorf("unknown action %q", req.Action)
	}

	switch t {
	case engine.ActionDigit:
		if len(req.Digit) != 1 || req.Digit[0] < '0' || req.Digit[0] > '9' {
			return engine.Action{}, fmt.Errorf("invalid digit %q", req.Digit)
		}
		return engine.Digit(req.Digit[0]), nil
	case engine.ActionOperator:
		op, ok := engine.ParseOperator(req.Operator)
		if !ok {
			return engine.Action{}, fmt.Errorf("unknown operator %q", req.Operator)
		}
		return engine.BinaryOp(op), nil
	case engine.ActionSetDisplay:
		if !engine.ValidDisplay(req.Value) {
			return engine.Action{}, fmt.Errorf("invalid display value %q", req.Value)
		}
		return engine.SetDisplay(req.Value), nil
	default:
		return engine.Action{Type: t}, nil
	}
}
