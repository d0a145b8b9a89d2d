package event

import (
	"fmt"
	"math"
)

// ToFloat64 coerces a numeric attribute value to float64. JSON decoding yields
// float64, but callers constructing events in Go pass native ints too.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ValueEqual compares two attribute values: numbers by value across numeric
// types, booleans by identity, everything else by its string rendering.
func ValueEqual(left, right any) bool {
	lf, lok := ToFloat64(left)
	rf, rok := ToFloat64(right)
	if lok && rok {
		return math.Abs(lf-rf) < 1e-9
	}
	if lok != rok {
		return false
	}
	if lb, ok := left.(bool); ok {
		rb, ok := right.(bool)
		return ok && lb == rb
	}
	if _, ok := right.(bool); ok {
		return false
	}
	return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
}

// DataEqual reports structural equality of two attribute maps under ValueEqual.
// Nil and empty maps are equal.
func DataEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !ValueEqual(av, bv) {
			return false
		}
	}
	return true
}

// ValueKey renders an attribute value into a stable string usable as part of a
// grouping key. Numeric values render identically regardless of Go type.
func ValueKey(v any) string {
	if f, ok := ToFloat64(v); ok {
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("%v", v)
}
