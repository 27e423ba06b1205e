package value

import (
	"go.bytecodealliance.org/wit"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindBool
	KindFloat
	KindVec3
	KindQuat
	KindText
	KindRef
)

var kindNames = [...]string{
	KindNone:  "none",
	KindInt:   "int",
	KindBool:  "bool",
	KindFloat: "float",
	KindVec3:  "vec3",
	KindQuat:  "quat",
	KindText:  "text",
	KindRef:   "ref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k is a marshallable kind.
func (k Kind) Valid() bool {
	return k > KindNone && k <= KindRef
}

// Arity returns the number of stack slots a value of kind k occupies.
func (k Kind) Arity() int {
	switch k {
	case KindNone:
		return 0
	case KindVec3:
		return 3
	case KindQuat:
		return 4
	default:
		return 1
	}
}

var (
	vec3Tuple = &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.F64{}, wit.F64{}, wit.F64{}}}}
	quatTuple = &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.F64{}, wit.F64{}, wit.F64{}, wit.F64{}}}}
)

// WIT returns the WIT type describing k, or nil for KindNone.
func (k Kind) WIT() wit.Type {
	switch k {
	case KindInt:
		return wit.S64{}
	case KindBool:
		return wit.Bool{}
	case KindFloat:
		return wit.F64{}
	case KindVec3:
		return vec3Tuple
	case KindQuat:
		return quatTuple
	case KindText:
		return wit.String{}
	case KindRef:
		return wit.U64{}
	default:
		return nil
	}
}

// WITName renders the WIT type of k, or "_" for KindNone.
func (k Kind) WITName() string {
	t := k.WIT()
	if t == nil {
		return "_"
	}
	return t.WIT(nil, "")
}
