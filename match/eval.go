package match

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

// Evaluate walks the AST against a single event and returns true/false or an
// error (unresolvable field, non-numeric operand to an ordering operator).
func Evaluate(expr Expr, ev event.Event) (bool, error) {
	switch e := expr.(type) {
	case *BinaryExpr:
		return evalBinary(e, ev)
	case *NotExpr:
		v, err := Evaluate(e.Expr, ev)
		if err != nil {
			return false, err
		}
		return !v, nil
	case *CmpExpr:
		return evalCmp(e, ev)
	default:
		return false, fmt.Errorf("unknown expr type %T", expr)
	}
}

func evalBinary(e *BinaryExpr, ev event.Event) (bool, error) {
	left, err := Evaluate(e.Left, ev)
	if err != nil {
		return false, err
	}
	switch e.Op {
	case "AND":
		if !left {
			return false, nil // short-circuit
		}
		return Evaluate(e.Right, ev)
	case "OR":
		if left {
			return true, nil // short-circuit
		}
		return Evaluate(e.Right, ev)
	default:
		return false, fmt.Errorf("unknown binary op %q", e.Op)
	}
}

func evalCmp(e *CmpExpr, ev event.Event) (bool, error) {
	val, err := resolveField(e.Field, ev)
	if err != nil {
		return false, err
	}
	switch e.Op {
	case OpEq:
		return event.ValueEqual(val, e.Lit), nil
	case OpNeq:
		return !event.ValueEqual(val, e.Lit), nil
	case OpGt, OpGte, OpLt, OpLte:
		return numericCmp(e.Op, val, e.Lit)
	case OpContains:
		s, ok := val.(string)
		if !ok {
			return false, fmt.Errorf("contains: field %s must be a string, got %T", fieldName(e.Field), val)
		}
		return strings.Contains(s, fmt.Sprintf("%v", e.Lit)), nil
	case OpMatches:
		s, ok := val.(string)
		if !ok {
			return false, fmt.Errorf("matches: field %s must be a string, got %T", fieldName(e.Field), val)
		}
		return e.re.MatchString(s), nil
	default:
		return false, fmt.Errorf("unknown operator %s", e.Op)
	}
}

func numericCmp(op Op, val, lit any) (bool, error) {
	lf, lok := event.ToFloat64(val)
	rf, rok := event.ToFloat64(lit)
	if !lok || !rok {
		return false, fmt.Errorf("operator %s requires numeric operands, got %T and %T", op, val, lit)
	}
	switch op {
	case OpGt:
		return lf > rf, nil
	case OpGte:
		return lf >= rf, nil
	case OpLt:
		return lf < rf, nil
	case OpLte:
		return lf <= rf, nil
	}
	return false, nil
}

// resolveField reads data.<key> or duration (in seconds) off the event.
func resolveField(path []string, ev event.Event) (any, error) {
	switch path[0] {
	case "data":
		key := strings.Join(path[1:], ".")
		v, ok := ev.Data[key]
		if !ok {
			return nil, fmt.Errorf("field %s not found", fieldName(path))
		}
		return v, nil
	case "duration":
		return ev.Duration.Seconds(), nil
	}
	return nil, fmt.Errorf("unknown field %s", fieldName(path))
}

func fieldName(path []string) string {
	return strings.Join(path, ".")
}
