package bridge

import (
	"fmt"
	"strconv"
)

// Kind is the dynamic type of a script argument.
type Kind uint8

const (
	KindMissing Kind = iota // absent, undefined, nil or any unsupported type
	KindNumber
	KindString
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "missing"
	}
}

// Value is one dynamically-typed argument or result crossing the bridge.
// The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Number wraps a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Missing returns the absent value.
func Missing() Value { return Value{} }

// neutral is the success value returned by most host calls.
var neutral = Number(0)

// rejected is returned by host calls that refuse a short argument list.
var rejected = Number(-1)

// Kind returns the dynamic type.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric payload and whether v is a Number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string payload and whether v is a String.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Bool returns the boolean payload and whether v is a Bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// GoString formats the value for test failures and debug logs.
func (v Value) GoString() string {
	switch v.kind {
	case KindNumber:
		return "Number(" + strconv.FormatFloat(v.num, 'g', -1, 64) + ")"
	case KindString:
		return fmt.Sprintf("String(%q)", v.str)
	case KindBool:
		return "Bool(" + strconv.FormatBool(v.b) + ")"
	default:
		return "Missing"
	}
}
