package engine

import "strings"

// Reduce maps (state, action) to the next state. It never fails: malformed
// transitions (Equals with no pending operator, Delete while awaiting the
// second operand, an out-of-range digit) leave the state unchanged, and
// invalid numeric results surface in-band as the display text "Error".
//
// The input state is taken by value; shared slices are copied before
// modification, so the previous state remains valid after the call.
func Reduce(s State, a Action, st Stamper) State {
	switch a.Type {
	case ActionDigit:
		return reduceDigit(s, a.Digit)
	case ActionDot:
		return reduceDot(s)
	case ActionClear:
		s.Display = "0"
		s.FirstOperand = nil
		s.Operator = OpNone
		s.AwaitingSecondOperand = false
		return s
	case ActionDelete:
		return reduceDelete(s)
	case ActionToggleSign:
		return reduceToggleSign(s)
	case ActionPercent:
		return reducePercent(s)
	case ActionOperator:
		return reduceOperator(s, a.Op, st)
	case ActionEquals:
		return reduceEquals(s, st)
	case ActionMemoryClear:
		s.Memory = nil
		return s
	case ActionMemoryRecall:
		if s.Memory == nil {
			return s
		}
		s.Display = FormatResult(*s.Memory)
		s.AwaitingSecondOperand = false
		return s
	case ActionMemoryAdd:
		m := memoryOrZero(s) + ParseDisplay(s.Display)
		s.Memory = &m
		return s
	case ActionMemorySubtract:
		m := memoryOrZero(s) - ParseDisplay(s.Display)
		s.Memory = &m
		return s
	case ActionHistoryClear:
		s.History = nil
		return s
	case ActionSetDisplay:
		s.Display = a.Value
		s.FirstOperand = nil
		s.Operator = OpNone
		s.AwaitingSecondOperand = false
		return s
	}
	return s
}

func reduceDigit(s State, d byte) State {
	if d < '0' || d > '9' {
		return s
	}
	digit := string(d)

	if s.AwaitingSecondOperand {
		s.Display = digit
		s.AwaitingSecondOperand = false
		return s
	}

	switch s.Display {
	case "Error":
		// Fresh entry clears the error.
		s.Display = digit
	case "0":
		if d != '0' {
			s.Display = digit
		}
	case "-0":
		if d != '0' {
			s.Display = "-" + digit
		}
	default:
		s.Display += digit
	}
	return s
}

func reduceDot(s State) State {
	if s.AwaitingSecondOperand {
		s.Display = "0."
		s.AwaitingSecondOperand = false
		return s
	}
	if s.Display == "Error" {
		s.Display = "0."
		return s
	}
	if strings.Contains(s.Display, ".") {
		return s
	}
	s.Display += "."
	return s
}

func reduceDelete(s State) State {
	if s.AwaitingSecondOperand {
		return s
	}
	if s.Display == "Error" {
		s.Display = "0"
		return s
	}
	trimmed := s.Display[:len(s.Display)-1]
	if trimmed == "" || trimmed == "-" || trimmed == "-0" {
		trimmed = "0"
	}
	s.Display = trimmed
	return s
}

func reduceToggleSign(s State) State {
	if s.Display == "0" || s.Display == "Error" {
		return s
	}
	if strings.HasPrefix(s.Display, "-") {
		s.Display = s.Display[1:]
	} else {
		s.Display = "-" + s.Display
	}
	return s
}

// reducePercent computes percentage-of-base when an operation is in flight:
// with a first operand and operator set, 200 + 10 % means 200 + 20, so the
// display becomes firstOperand * (display/100). Otherwise plain display/100.
func reducePercent(s State) State {
	v := ParseDisplay(s.Display)
	var r float64
	if s.FirstOperand != nil && s.Operator != OpNone && !s.AwaitingSecondOperand {
		r = *s.FirstOperand * (v / 100)
	} else {
		r = v / 100
	}
	s.Display = FormatResult(r)
	return s
}

func reduceOperator(s State, op Operator, st Stamper) State {
	if op == OpNone {
		return s
	}

	// Two operators in a row just replace the pending one.
	if s.Operator != OpNone && s.AwaitingSecondOperand {
		s.Operator = op
		return s
	}

	if s.FirstOperand == nil || s.Operator == OpNone {
		v := ParseDisplay(s.Display)
		s.FirstOperand = &v
		s.Operator = op
		s.AwaitingSecondOperand = true
		return s
	}

	// Chaining: fold the completed operation before taking the new operator.
	result := Calculate(*s.FirstOperand, ParseDisplay(s.Display), s.Operator)
	formatted := FormatResult(result)
	s = pushHistory(s, expression(*s.FirstOperand, s.Operator, s.Display), formatted, st)
	s.FirstOperand = &result
	s.Operator = op
	s.AwaitingSecondOperand = true
	s.Display = formatted
	return s
}

func reduceEquals(s State, st Stamper) State {
	if s.Operator == OpNone || s.AwaitingSecondOperand || s.FirstOperand == nil {
		return s
	}

	result := Calculate(*s.FirstOperand, ParseDisplay(s.Display), s.Operator)
	formatted := FormatResult(result)
	s = pushHistory(s, expression(*s.FirstOperand, s.Operator, s.Display), formatted, st)
	s.Display = formatted
	s.FirstOperand = nil
	s.Operator = OpNone
	s.AwaitingSecondOperand = false
	return s
}

func expression(first float64, op Operator, second string) string {
	return FormatResult(first) + " " + op.String() + " " + second + " ="
}

// pushHistory prepends a new entry, copying the slice so prior states stay
// valid, and evicts the oldest entries past HistoryLimit.
func pushHistory(s State, expr, result string, st Stamper) State {
	id, at := st.Stamp()
	entry := HistoryEntry{ID: id, Expression: expr, Result: result, Timestamp: at}

	hist := make([]HistoryEntry, 0, len(s.History)+1)
	hist = append(hist, entry)
	hist = append(hist, s.History...)
	if len(hist) > HistoryLimit {
		hist = hist[:HistoryLimit]
	}
	s.History = hist
	return s
}

func memoryOrZero(s State) float64 {
	if s.Memory == nil {
		return 0
	}
	return *s.Memory
}
