package value

import (
	"fmt"
	"math"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/resource"
)

// Vec3 is a 3-component vector. Field order is push order.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vec3) String() string { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }

// Quat is a rotation quaternion. Field order is push order.
type Quat struct {
	W, X, Y, Z float64
}

// Identity returns the identity rotation.
func Identity() Quat { return Quat{W: 1} }

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u×v) + 2u×(u×v), u = (x, y, z)
	u := Vec3{q.X, q.Y, q.Z}
	t := cross(u, v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(cross(u, t))
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat { return Quat{q.W, -q.X, -q.Y, -q.Z} }

func (q Quat) String() string { return fmt.Sprintf("(%g, %g, %g, %g)", q.W, q.X, q.Y, q.Z) }

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Ref is an opaque reference to a native object held by a script.
type Ref struct {
	Class  string
	Handle resource.Handle
}

func (r Ref) String() string { return fmt.Sprintf("%s@%#x", r.Class, uint64(r.Handle)) }

// Value is a tagged union over the kinds the marshaller understands.
// The zero Value has KindNone.
type Value struct {
	text string
	ref  Ref
	num  [4]float64
	i    int64
	kind Kind
	b    bool
}

// Int, Bool, Float, Text, Reference, Vector and Rotation construct a Value
// of the matching kind.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Float(f float64) Value { return Value{kind: KindFloat, num: [4]float64{f}} }
func Text(s string) Value { return Value{kind: KindText, text: s} }
func Reference(r Ref) Value { return Value{kind: KindRef, ref: r} }
func Vector(v Vec3) Value { return Value{kind: KindVec3, num: [4]float64{v.X, v.Y, v.Z}} }
func Rotation(q Quat) Value { return Value{kind: KindQuat, num: [4]float64{q.W, q.X, q.Y, q.Z}} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) must(k Kind) {
	if v.kind != k {
		errors.Fatal(errors.PhaseMarshal, "value is %s, not %s", v.kind, k)
	}
}

// AsInt and the other accessors return the carried value. Reading the wrong
// variant is a contract violation.
func (v Value) AsInt() int64 {
	v.must(KindInt)
	return v.i
}

func (v Value) AsBool() bool {
	v.must(KindBool)
	return v.b
}

func (v Value) AsFloat() float64 {
	v.must(KindFloat)
	return v.num[0]
}

func (v Value) AsText() string {
	v.must(KindText)
	return v.text
}

func (v Value) AsRef() Ref {
	v.must(KindRef)
	return v.ref
}

func (v Value) AsVec3() Vec3 {
	v.must(KindVec3)
	return Vec3{v.num[0], v.num[1], v.num[2]}
}

func (v Value) AsQuat() Quat {
	v.must(KindQuat)
	return Quat{v.num[0], v.num[1], v.num[2], v.num[3]}
}

// Any returns the Go value carried by v.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindBool:
		return v.b
	case KindFloat:
		return v.num[0]
	case KindVec3:
		return v.AsVec3()
	case KindQuat:
		return v.AsQuat()
	case KindText:
		return v.text
	case KindRef:
		return v.ref
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindText:
		return fmt.Sprintf("%q", v.text)
	default:
		return fmt.Sprint(v.Any())
	}
}
