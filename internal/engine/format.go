package engine

import (
	"math"
	"strconv"
	"strings"
)

// Calculate applies a binary operator. Division by zero yields positive
// infinity rather than an error; the formatter turns it into "Error".
func Calculate(a, b float64, op Operator) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return math.Inf(1)
		}
		return a / b
	}
	return b
}

// FormatResult renders a computed value for the display. Non-finite values
// become "Error". Finite values are rounded to 12 decimal digits to shed
// float noise, then rendered in exponential notation with 6 fractional
// digits when |v| >= 1e12 or 0 < |v| < 1e-6, and as a plain decimal with
// trailing zeros stripped otherwise.
func FormatResult(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "Error"
	}

	// Rounding past 1e15 would overflow the scale factor; above that
	// magnitude 12 decimal places are not representable anyway.
	r := v
	if math.Abs(v) < 1e15 {
		r = math.Round(v*1e12) / 1e12
	}
	if r == 0 {
		return "0"
	}

	abs := math.Abs(r)
	if abs >= 1e12 || abs < 1e-6 {
		return strconv.FormatFloat(r, 'e', 6, 64)
	}

	s := strconv.FormatFloat(r, 'f', 12, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// ParseDisplay parses the leading numeric portion of a display string,
// returning 0 when no prefix parses (including "Error").
func ParseDisplay(s string) float64 {
	end := numericPrefix(s)
	for end > 0 {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return v
		}
		end--
	}
	return 0
}

// numericPrefix returns the length of the longest candidate numeric prefix:
// an optional sign, digits, at most one decimal point, and an optional
// exponent part.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	seenDot := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			i++
			continue
		}
		break
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		i = j
	}
	return i
}

// ValidDisplay reports whether s is acceptable as a display value: the
// literal "Error" or a string whose entire content is a numeric literal.
// Used by adapters to validate externally supplied set-display values.
func ValidDisplay(s string) bool {
	if s == "Error" {
		return true
	}
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
