package marshal

import (
	"strings"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/value"
)

// Stack is the slot-level interface a script VM exposes to the marshaller.
type Stack interface {
	// Top returns the number of slots on the stack.
	Top() int
	// Pop removes n slots from the top.
	Pop(n int)

	PushNumber(f float64)
	PushInteger(i int64)
	PushBool(b bool)
	PushText(s string)
	PushRef(r value.Ref)

	Number(i int) float64
	// Integer reads slot i, truncating toward zero when it holds a
	// fractional number.
	Integer(i int) int64
	Bool(i int) bool
	Text(i int) string
	// Ref returns the zero Ref when slot i holds no reference.
	Ref(i int) value.Ref
}

// Push writes v onto s in field order and returns the number of slots used.
func Push(s Stack, v value.Value) int {
	switch v.Kind() {
	case value.KindInt:
		s.PushInteger(v.AsInt())
	case value.KindBool:
		s.PushBool(v.AsBool())
	case value.KindFloat:
		s.PushNumber(v.AsFloat())
	case value.KindVec3:
		vec := v.AsVec3()
		s.PushNumber(vec.X)
		s.PushNumber(vec.Y)
		s.PushNumber(vec.Z)
	case value.KindQuat:
		q := v.AsQuat()
		s.PushNumber(q.W)
		s.PushNumber(q.X)
		s.PushNumber(q.Y)
		s.PushNumber(q.Z)
	case value.KindText:
		s.PushText(v.AsText())
	case value.KindRef:
		s.PushRef(v.AsRef())
	default:
		errors.Fatal(errors.PhaseMarshal, "cannot push value of kind %s", v.Kind())
	}
	return v.Kind().Arity()
}

// Pop reads a value of kind from the top of s and removes its slots.
func Pop(s Stack, kind value.Kind) value.Value {
	var v value.Value
	switch kind {
	case value.KindInt:
		v = value.Int(s.Integer(-1))
	case value.KindBool:
		v = value.Bool(s.Bool(-1))
	case value.KindFloat:
		v = value.Float(s.Number(-1))
	case value.KindVec3:
		v = value.Vector(value.Vec3{
			X: s.Number(-3),
			Y: s.Number(-2),
			Z: s.Number(-1),
		})
	case value.KindQuat:
		v = value.Rotation(value.Quat{
			W: s.Number(-4),
			X: s.Number(-3),
			Y: s.Number(-2),
			Z: s.Number(-1),
		})
	case value.KindText:
		v = value.Text(strings.Clone(s.Text(-1)))
	case value.KindRef:
		v = value.Reference(s.Ref(-1))
	default:
		errors.Fatal(errors.PhaseMarshal, "cannot pop value of kind %s", kind)
	}
	s.Pop(kind.Arity())
	return v
}

// PushAll pushes every value in order and returns the total slot count.
func PushAll(s Stack, values ...value.Value) int {
	n := 0
	for _, v := range values {
		n += Push(s, v)
	}
	return n
}

// PopAll pops values of the given kinds. Kinds are declared in push order
// and popped last first; the result is in declaration order.
func PopAll(s Stack, kinds []value.Kind) []value.Value {
	out := make([]value.Value, len(kinds))
	for i := len(kinds) - 1; i >= 0; i-- {
		out[i] = Pop(s, kinds[i])
	}
	return out
}

// Arity returns the total slot count of kinds.
func Arity(kinds []value.Kind) int {
	n := 0
	for _, k := range kinds {
		n += k.Arity()
	}
	return n
}
