// Package value defines the runtime value representation shared by the
// AST arena (literal nodes, scope records) and the interpreter.
//
// A Value is a small, copyable tagged union. Strings are not stored
// inline: a String value carries an index into the arena's string table,
// and a Func value carries the index of its declaring statement.
package value

import (
	"math"
	"strconv"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Func
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "nil"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Func:
		return "func"
	default:
		return "unknown"
	}
}

// boolTrue is the payload of the true Boolean: all bits set.
const boolTrue int64 = -1

// Value is a tagged union. For Bool, Int, String and Func the payload
// lives in bits; for Float the IEEE-754 bits are stored there too, so the
// raw payload of every kind can be inspected uniformly with Bits.
type Value struct {
	Kind Kind
	bits int64
}

// Nil returns the Null value.
func Nil() Value { return Value{Kind: Null} }

// Boolean returns true or false as a Bool value.
func Boolean(b bool) Value {
	if b {
		return Value{Kind: Bool, bits: boolTrue}
	}
	return Value{Kind: Bool}
}

// Integer returns an Int value.
func Integer(i int64) Value { return Value{Kind: Int, bits: i} }

// Number returns a Float value.
func Number(f float64) Value {
	return Value{Kind: Float, bits: int64(math.Float64bits(f))}
}

// Str returns a String value referring to entry idx of the string table.
func Str(idx uint32) Value { return Value{Kind: String, bits: int64(idx)} }

// Function returns a Func value referring to the statement at idx.
func Function(idx uint32) Value { return Value{Kind: Func, bits: int64(idx)} }

// Bits returns the raw 64-bit payload.
func (v Value) Bits() int64 { return v.bits }

// AsBool reports whether a Bool payload is non-zero.
func (v Value) AsBool() bool { return v.bits != 0 }

// AsInt returns the Int payload.
func (v Value) AsInt() int64 { return v.bits }

// AsFloat returns the Float payload.
func (v Value) AsFloat() float64 { return math.Float64frombits(uint64(v.bits)) }

// Index returns the string-table index of a String or the statement
// index of a Func.
func (v Value) Index() uint32 { return uint32(v.bits) }

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool { return v.Kind == Int || v.Kind == Float }

// Float64 converts a numeric value to float64.
func (v Value) Float64() float64 {
	if v.Kind == Float {
		return v.AsFloat()
	}
	return float64(v.bits)
}

// Strings resolves string-table indices. The AST arena implements it.
type Strings interface {
	String(idx uint32) string
}

// Truthy implements the language's truthiness rule: nil is false,
// Bool/Int/Float are true iff their bit pattern is non-zero, strings are
// true iff non-empty, functions are always true.
func Truthy(v Value, strs Strings) bool {
	switch v.Kind {
	case Null:
		return false
	case Bool, Int, Float:
		return v.bits != 0
	case String:
		return strs.String(v.Index()) != ""
	default:
		return true
	}
}

// FormatFloat renders f the way print does: the shortest decimal that
// round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Format renders v in its canonical printed form. Func values render as
// "<func>"; the interpreter adds the declared name.
func Format(v Value, strs Strings) string {
	switch v.Kind {
	case Null:
		return "nil"
	case Bool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(v.bits, 10)
	case Float:
		return FormatFloat(v.AsFloat())
	case String:
		return strs.String(v.Index())
	case Func:
		return "<func>"
	default:
		return "<unknown>"
	}
}
