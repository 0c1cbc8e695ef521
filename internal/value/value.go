// Package value defines the interpreter's runtime value representation.
package value

import "fmt"

// Type is the closed set of value-kind tags. Void only ever appears as a
// function's declared return type; no Value carries Void.
type Type int

const (
	I64 Type = iota
	F64
	Str
	Bool
	Void
)

func (t Type) String() string {
	switch t {
	case I64:
		return "i64"
	case F64:
		return "f64"
	case Str:
		return "str"
	case Bool:
		return "bool"
	case Void:
		return "void"
	default:
		return "unknown"
	}
}

// Value is the runtime sum type: exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	kind Type
	i    int64
	f    float64
	s    string
	b    bool
}

// Kind returns the value's canonical type projection.
func (v Value) Kind() Type {
	return v.kind
}

func NewI64(i int64) Value    { return Value{kind: I64, i: i} }
func NewF64(f float64) Value  { return Value{kind: F64, f: f} }
func NewStr(s string) Value   { return Value{kind: Str, s: s} }
func NewBool(b bool) Value    { return Value{kind: Bool, b: b} }

// I64/F64/Str/BoolVal retrieve the payload; callers must check Kind first.
func (v Value) I64() int64     { return v.i }
func (v Value) F64() float64   { return v.f }
func (v Value) Str() string    { return v.s }
func (v Value) BoolVal() bool  { return v.b }

// Default returns the type's default value (spec §4.7): I64 0, F64 0.0,
// Str "", Bool false. Void has no default; Default reports false for it.
func Default(t Type) (Value, bool) {
	switch t {
	case I64:
		return NewI64(0), true
	case F64:
		return NewF64(0), true
	case Str:
		return NewStr(""), true
	case Bool:
		return NewBool(false), true
	default:
		return Value{}, false
	}
}

// TryBool returns the payload of a Bool value and true; for any other kind
// it returns false, false without coercing. It is used wherever a value
// must be Bool (conditions, switch guards) to report a single uniform error.
func (v Value) TryBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

func (v Value) String() string {
	switch v.kind {
	case I64:
		return fmt.Sprintf("%d", v.i)
	case F64:
		return fmt.Sprintf("%g", v.f)
	case Str:
		return v.s
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return "<void>"
	}
}
