// Package alu implements the type-checked arithmetic, comparison, logical
// and cast operations the interpreter performs on runtime values. It is
// pure and stateless: every function takes values and returns a value or
// an error, nothing more.
package alu

import (
	"math"
	"strconv"

	"github.com/misat1505/tkom-sub000/internal/issue"
	"github.com/misat1505/tkom-sub000/internal/position"
	"github.com/misat1505/tkom-sub000/internal/value"
)

func computeErr(format string, args ...interface{}) error {
	return issue.New(issue.PhaseCompute, issue.LevelError, position.Position{}, format, args...)
}

func typeErr(op string, a, b value.Type) error {
	return computeErr("cannot perform %s between values of type '%s' and '%s'", op, a, b)
}

func checkedInt(a, b int64, op func(int64, int64) (int64, bool), opName string) (value.Value, error) {
	result, ok := op(a, b)
	if !ok {
		return value.Value{}, computeErr("overflow occurred when performing %s on i64s", opName)
	}
	return value.NewI64(result), nil
}

func checkedFloat(a, b float64, op func(float64, float64) float64, opName string) (value.Value, error) {
	result := op(a, b)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return value.Value{}, computeErr("invalid result when performing %s on f64s", opName)
	}
	return value.NewF64(result), nil
}

func checkedAdd(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedSub(a, b int64) (int64, bool) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

func checkedDiv(a, b int64) (int64, bool) {
	if b == 0 {
		return 0, false
	}
	if a == math.MinInt64 && b == -1 {
		return 0, false
	}
	return a / b, true
}

// Add handles (I64,I64), (F64,F64) arithmetic addition and (Str,Str)
// concatenation.
func Add(a, b value.Value) (value.Value, error) {
	switch {
	case a.Kind() == value.I64 && b.Kind() == value.I64:
		return checkedInt(a.I64(), b.I64(), checkedAdd, "addition")
	case a.Kind() == value.F64 && b.Kind() == value.F64:
		return checkedFloat(a.F64(), b.F64(), func(x, y float64) float64 { return x + y }, "addition")
	case a.Kind() == value.Str && b.Kind() == value.Str:
		return value.NewStr(a.Str() + b.Str()), nil
	default:
		return value.Value{}, typeErr("addition", a.Kind(), b.Kind())
	}
}

func Sub(a, b value.Value) (value.Value, error) {
	switch {
	case a.Kind() == value.I64 && b.Kind() == value.I64:
		return checkedInt(a.I64(), b.I64(), checkedSub, "subtraction")
	case a.Kind() == value.F64 && b.Kind() == value.F64:
		return checkedFloat(a.F64(), b.F64(), func(x, y float64) float64 { return x - y }, "subtraction")
	default:
		return value.Value{}, typeErr("subtraction", a.Kind(), b.Kind())
	}
}

func Mul(a, b value.Value) (value.Value, error) {
	switch {
	case a.Kind() == value.I64 && b.Kind() == value.I64:
		return checkedInt(a.I64(), b.I64(), checkedMul, "multiplication")
	case a.Kind() == value.F64 && b.Kind() == value.F64:
		return checkedFloat(a.F64(), b.F64(), func(x, y float64) float64 { return x * y }, "multiplication")
	default:
		return value.Value{}, typeErr("multiplication", a.Kind(), b.Kind())
	}
}

func Div(a, b value.Value) (value.Value, error) {
	switch {
	case a.Kind() == value.I64 && b.Kind() == value.I64:
		if b.I64() == 0 {
			return value.Value{}, computeErr("division by zero")
		}
		return checkedInt(a.I64(), b.I64(), checkedDiv, "division")
	case a.Kind() == value.F64 && b.Kind() == value.F64:
		return checkedFloat(a.F64(), b.F64(), func(x, y float64) float64 { return x / y }, "division")
	default:
		return value.Value{}, typeErr("division", a.Kind(), b.Kind())
	}
}

// Mod implements the `mod` built-in: integer remainder, ComputationIssue
// on division by zero (spec.md §9 open question 4, resolved per the
// spec's own recommendation).
func Mod(a, b value.Value) (value.Value, error) {
	if a.Kind() != value.I64 || b.Kind() != value.I64 {
		return value.Value{}, typeErr("modulo", a.Kind(), b.Kind())
	}
	if b.I64() == 0 {
		return value.Value{}, computeErr("division by zero")
	}
	return value.NewI64(a.I64() % b.I64()), nil
}

// And is the source's "Concatenation": (Bool,Bool) logical and.
func And(a, b value.Value) (value.Value, error) {
	if a.Kind() != value.Bool || b.Kind() != value.Bool {
		return value.Value{}, typeErr("concatenation", a.Kind(), b.Kind())
	}
	return value.NewBool(a.BoolVal() && b.BoolVal()), nil
}

// Or is the source's "Alternative": (Bool,Bool) logical or.
func Or(a, b value.Value) (value.Value, error) {
	if a.Kind() != value.Bool || b.Kind() != value.Bool {
		return value.Value{}, typeErr("alternative", a.Kind(), b.Kind())
	}
	return value.NewBool(a.BoolVal() || b.BoolVal()), nil
}

func Greater(a, b value.Value) (value.Value, error) { return compareOrdered(a, b, "greater") }
func GreaterOrEqual(a, b value.Value) (value.Value, error) {
	return compareOrdered(a, b, "greater or equal")
}
func Less(a, b value.Value) (value.Value, error) { return compareOrdered(a, b, "less") }
func LessOrEqual(a, b value.Value) (value.Value, error) {
	return compareOrdered(a, b, "less or equal")
}

func compareOrdered(a, b value.Value, op string) (value.Value, error) {
	switch {
	case a.Kind() == value.I64 && b.Kind() == value.I64:
		return value.NewBool(orderedResultI64(op, a.I64(), b.I64())), nil
	case a.Kind() == value.F64 && b.Kind() == value.F64:
		return value.NewBool(orderedResultF64(op, a.F64(), b.F64())), nil
	default:
		return value.Value{}, typeErr(op, a.Kind(), b.Kind())
	}
}

func orderedResultI64(op string, x, y int64) bool {
	switch op {
	case "greater":
		return x > y
	case "greater or equal":
		return x >= y
	case "less":
		return x < y
	default:
		return x <= y
	}
}

func orderedResultF64(op string, x, y float64) bool {
	switch op {
	case "greater":
		return x > y
	case "greater or equal":
		return x >= y
	case "less":
		return x < y
	default:
		return x <= y
	}
}

// Equal and NotEqual accept any same-kind pair across all four value
// types.
func Equal(a, b value.Value) (value.Value, error) {
	eq, err := sameKindEqual(a, b, "equal")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(eq), nil
}

func NotEqual(a, b value.Value) (value.Value, error) {
	eq, err := sameKindEqual(a, b, "not equal")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(!eq), nil
}

func sameKindEqual(a, b value.Value, op string) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, typeErr(op, a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case value.I64:
		return a.I64() == b.I64(), nil
	case value.F64:
		return a.F64() == b.F64(), nil
	case value.Str:
		return a.Str() == b.Str(), nil
	case value.Bool:
		return a.BoolVal() == b.BoolVal(), nil
	default:
		return false, typeErr(op, a.Kind(), b.Kind())
	}
}

// BooleanNegate negates a Bool value.
func BooleanNegate(v value.Value) (value.Value, error) {
	if v.Kind() != value.Bool {
		return value.Value{}, computeErr("cannot perform boolean negation on type '%s'", v.Kind())
	}
	return value.NewBool(!v.BoolVal()), nil
}

// ArithmeticNegate negates an I64 or F64 value; negating I64's minimum
// value overflows and is an error.
func ArithmeticNegate(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.I64:
		if v.I64() == math.MinInt64 {
			return value.Value{}, computeErr("overflow occurred when performing arithmetic negation on i64")
		}
		return value.NewI64(-v.I64()), nil
	case value.F64:
		return value.NewF64(-v.F64()), nil
	default:
		return value.Value{}, computeErr("cannot perform arithmetic negation on type '%s'", v.Kind())
	}
}

// CastTo converts v to the target type per the spec's cast rules.
func CastTo(v value.Value, target value.Type) (value.Value, error) {
	switch {
	case v.Kind() == value.I64 && target == value.Str:
		return value.NewStr(strconv.FormatInt(v.I64(), 10)), nil
	case v.Kind() == value.F64 && target == value.Str:
		return value.NewStr(strconv.FormatFloat(v.F64(), 'g', -1, 64)), nil
	case v.Kind() == value.I64 && target == value.F64:
		return value.NewF64(float64(v.I64())), nil
	case v.Kind() == value.F64 && target == value.I64:
		return value.NewI64(int64(v.F64())), nil
	case v.Kind() == value.I64 && target == value.Bool:
		return value.NewBool(v.I64() > 0), nil
	case v.Kind() == value.F64 && target == value.Bool:
		return value.NewBool(v.F64() > 0), nil
	case v.Kind() == value.Str && target == value.I64:
		i, err := strconv.ParseInt(v.Str(), 10, 64)
		if err != nil {
			return value.Value{}, computeErr("cannot cast string '%s' to i64", v.Str())
		}
		return value.NewI64(i), nil
	case v.Kind() == value.Str && target == value.F64:
		f, err := strconv.ParseFloat(v.Str(), 64)
		if err != nil {
			return value.Value{}, computeErr("cannot cast string '%s' to f64", v.Str())
		}
		return value.NewF64(f), nil
	case v.Kind() == value.Str && target == value.Bool:
		return value.NewBool(v.Str() != ""), nil
	default:
		return value.Value{}, computeErr("cannot cast '%s' to '%s'", v.Kind(), target)
	}
}
