package value

import (
	"math"
	"testing"
)

type table []string

func (t table) String(idx uint32) string { return t[idx] }

func TestFormat(t *testing.T) {
	strs := table{"", "hi"}
	cases := []struct {
		v    Value
		want string
	}{
		{Nil(), "nil"},
		{Boolean(true), "true"},
		{Boolean(false), "false"},
		{Integer(-12), "-12"},
		{Number(2.5), "2.5"},
		{Number(3), "3"},
		{Number(1e21), "1e+21"},
		{Number(math.Inf(-1)), "-Inf"},
		{Str(1), "hi"},
		{Function(0), "<func>"},
	}
	for _, c := range cases {
		if got := Format(c.v, strs); got != c.want {
			t.Errorf("Format(%s): expected %q, got %q", c.v.Kind, c.want, got)
		}
	}
}

func TestTruthy(t *testing.T) {
	strs := table{"", "x"}
	truthy := []Value{Boolean(true), Integer(1), Integer(-1), Number(0.5), Str(1), Function(0)}
	falsy := []Value{Nil(), Boolean(false), Integer(0), Number(0), Str(0)}

	for _, v := range truthy {
		if !Truthy(v, strs) {
			t.Errorf("expected %s %s to be truthy", v.Kind, Format(v, strs))
		}
	}
	for _, v := range falsy {
		if Truthy(v, strs) {
			t.Errorf("expected %s %s to be falsy", v.Kind, Format(v, strs))
		}
	}
}

// Negative zero has a non-zero bit pattern, so it is truthy.
func TestNegativeZeroIsTruthy(t *testing.T) {
	if !Truthy(Number(math.Copysign(0, -1)), table{}) {
		t.Error("expected -0.0 to be truthy")
	}
}

func TestNumericConversions(t *testing.T) {
	if got := Integer(7).Float64(); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
	if !Number(1).IsNumber() || Str(0).IsNumber() {
		t.Error("IsNumber mismatch")
	}
	if Boolean(true).Bits() != -1 {
		t.Errorf("expected all bits set for true, got %d", Boolean(true).Bits())
	}
}
