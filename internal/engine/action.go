package engine

// Operator identifies a pending binary operation.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the display symbol used in history expressions.
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	}
	return ""
}

// Name returns the wire name of the operator.
func (o Operator) Name() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	}
	return ""
}

// ParseOperator accepts both wire names ("add") and symbols ("+", "*", "×").
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "add", "+":
		return OpAdd, true
	case "subtract", "-":
		return OpSubtract, true
	case "multiply", "*", "×":
		return OpMultiply, true
	case "divide", "/", "÷":
		return OpDivide, true
	}
	return OpNone, false
}

// ActionType tags an action variant.
type ActionType string

const (
	ActionDigit          ActionType = "digit"
	ActionDot            ActionType = "dot"
	ActionClear          ActionType = "clear"
	ActionDelete         ActionType = "delete"
	ActionToggleSign     ActionType = "toggle-sign"
	ActionPercent        ActionType = "percent"
	ActionOperator       ActionType = "operator"
	ActionEquals         ActionType = "equals"
	ActionMemoryClear    ActionType = "memory-clear"
	ActionMemoryRecall   ActionType = "memory-recall"
	ActionMemoryAdd      ActionType = "memory-add"
	ActionMemorySubtract ActionType = "memory-subtract"
	ActionHistoryClear   ActionType = "history-clear"
	ActionSetDisplay     ActionType = "set-display"
)

// ParseActionType validates a wire action name.
func ParseActionType(s string) (ActionType, bool) {
	switch t := ActionType(s); t {
	case ActionDigit, ActionDot, ActionClear, ActionDelete, ActionToggleSign,
		ActionPercent, ActionOperator, ActionEquals, ActionMemoryClear,
		ActionMemoryRecall, ActionMemoryAdd, ActionMemorySubtract,
		ActionHistoryClear, ActionSetDisplay:
		return t, true
	}
	return "", false
}

// Action is a tagged variant consumed by Reduce. Digit carries the digit
// character for ActionDigit, Op the operator for ActionOperator, and Value
// the display string for ActionSetDisplay; the field is ignored otherwise.
type Action struct {
	Type  ActionType
	Digit byte
	Op    Operator
	Value string
}

// Constructor helpers, one per variant.

func Digit(d byte) Action { return Action{Type: ActionDigit, Digit: d} }

func Dot() Action { return Action{Type: ActionDot} }

func Clear() Action { return Action{Type: ActionClear} }

func Delete() Action { return Action{Type: ActionDelete} }

func ToggleSign() Action { return Action{Type: ActionToggleSign} }

func Percent() Action { return Action{Type: ActionPercent} }

func BinaryOp(op Operator) Action { return Action{Type: ActionOperator, Op: op} }

func Equals() Action { return Action{Type: ActionEquals} }

func MemoryClear() Action { return Action{Type: ActionMemoryClear} }

func MemoryRecall() Action { return Action{Type: ActionMemoryRecall} }

func MemoryAdd() Action { return Action{Type: ActionMemoryAdd} }

func MemorySubtract() Action { return Action{Type: ActionMemorySubtract} }

func HistoryClear() Action { return Action{Type: ActionHistoryClear} }

func SetDisplay(v string) Action { return Action{Type: ActionSetDisplay, Value: v} }
