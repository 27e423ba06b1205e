package bind

import (
	"reflect"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/value"
)

// codec converts one Go type to and from a Value.
type codec struct {
	decode func(value.Value) (any, error)
	encode func(any) value.Value
	goType string
	class  string
	kind   value.Kind
}

func scalar[T any](kind value.Kind, dec func(value.Value) T, enc func(T) value.Value) *codec {
	return &codec{
		kind:   kind,
		goType: reflect.TypeFor[T]().String(),
		decode: func(v value.Value) (any, error) { return dec(v), nil },
		encode: func(x any) value.Value { return enc(x.(T)) },
	}
}

func builtinCodec(t reflect.Type) *codec {
	switch t {
	case reflect.TypeFor[int]():
		return scalar(value.KindInt,
			func(v value.Value) int { return int(v.AsInt()) },
			func(x int) value.Value { return value.Int(int64(x)) })
	case reflect.TypeFor[int32]():
		return scalar(value.KindInt,
			func(v value.Value) int32 { return int32(v.AsInt()) },
			func(x int32) value.Value { return value.Int(int64(x)) })
	case reflect.TypeFor[int64]():
		return scalar(value.KindInt, value.Value.AsInt, value.Int)
	case reflect.TypeFor[bool]():
		return scalar(value.KindBool, value.Value.AsBool, value.Bool)
	case reflect.TypeFor[float32]():
		return scalar(value.KindFloat,
			func(v value.Value) float32 { return float32(v.AsFloat()) },
			func(x float32) value.Value { return value.Float(float64(x)) })
	case reflect.TypeFor[float64]():
		return scalar(value.KindFloat, value.Value.AsFloat, value.Float)
	case reflect.TypeFor[string]():
		return scalar(value.KindText, value.Value.AsText, value.Text)
	case reflect.TypeFor[value.Vec3]():
		return scalar(value.KindVec3, value.Value.AsVec3, value.Vector)
	case reflect.TypeFor[value.Quat]():
		return scalar(value.KindQuat, value.Value.AsQuat, value.Rotation)
	case reflect.TypeFor[value.Ref]():
		return scalar(value.KindRef, value.Value.AsRef, value.Reference)
	}
	return nil
}

// codecOf resolves the codec for T. Unsupported types are a binding-author
// error.
func codecOf[T any](r *Registry) *codec {
	t := reflect.TypeFor[T]()
	if c := builtinCodec(t); c != nil {
		return c
	}
	if c, ok := r.classCodecs[t]; ok {
		return c
	}
	errors.Fatal(errors.PhaseBind, "type %s cannot cross the script boundary", t)
	return nil
}

func kindsOf(codecs []*codec) []value.Kind {
	kinds := make([]value.Kind, len(codecs))
	for i, c := range codecs {
		kinds[i] = c.kind
	}
	return kinds
}

func classesOf(codecs []*codec) []string {
	classes := make([]string, len(codecs))
	for i, c := range codecs {
		classes[i] = c.class
	}
	return classes
}
