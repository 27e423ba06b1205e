package bind

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/resource"
	"github.com/wippyai/oak/value"
)

// Optional is a class parameter or result that may be nil. The zero
// handle decodes to an Optional with a nil Obj instead of an error.
type Optional[T any] struct {
	Obj *T
}

// Class exposes objects of type T to scripts as handles.
type Class[T any] struct {
	Namespace
	objects *resource.Typed[*T]
}

// RegisterClass registers T under name. A duplicate name or a second
// registration of T is a contract violation.
func RegisterClass[T any](r *Registry, name string) *Class[T] {
	t := reflect.TypeFor[*T]()
	if _, dup := r.classCodecs[t]; dup {
		errors.Fatal(errors.PhaseBind, "type %s is already registered", t)
	}

	r.nextTypeID++
	c := &Class[T]{
		objects: resource.NewTyped[*T](r.handles, r.nextTypeID),
	}
	r.claim(&c.Namespace, name, true)
	r.classes = append(r.classes, &c.Namespace)
	r.typeClass[r.nextTypeID] = name
	r.classCodecs[t] = &codec{
		kind:   value.KindRef,
		goType: t.String(),
		class:  name,
		decode: func(v value.Value) (any, error) { return c.Unwrap(v) },
		encode: func(x any) value.Value { return c.Wrap(x.(*T)) },
	}
	r.classCodecs[reflect.TypeFor[Optional[T]]()] = &codec{
		kind:   value.KindRef,
		goType: t.String(),
		class:  name,
		decode: func(v value.Value) (any, error) {
			if v.Kind() == value.KindRef && v.AsRef().Handle == 0 {
				return Optional[T]{}, nil
			}
			obj, err := c.Unwrap(v)
			return Optional[T]{Obj: obj}, err
		},
		encode: func(x any) value.Value { return c.Wrap(x.(Optional[T]).Obj) },
	}
	r.log.Debug("class registered", zap.String("class", name), zap.Stringer("type", t))
	return c
}

// Wrap returns the reference a script holds for obj. The same object always
// maps to the same handle while it is live. A nil obj wraps to the zero
// handle, which scripts see as nil.
func (c *Class[T]) Wrap(obj *T) value.Value {
	if obj == nil {
		return value.Reference(value.Ref{Class: c.name})
	}
	h, ok := c.objects.Lookup(obj)
	if !ok {
		h = c.objects.Insert(obj)
	}
	return value.Reference(value.Ref{Class: c.name, Handle: h})
}

// Unwrap resolves a reference to its object. Nil, foreign and released
// references are recoverable errors.
func (c *Class[T]) Unwrap(v value.Value) (*T, error) {
	if v.Kind() != value.KindRef {
		return nil, errors.TypeMismatch(errors.PhaseBind, []string{c.name}, reflect.TypeFor[*T]().String(), v.Kind().String())
	}
	ref := v.AsRef()
	if ref.Handle == 0 {
		return nil, errors.New(errors.PhaseBind, errors.KindInvalidInput).
			ScriptType(c.name).
			Detail("expected %s, got nil", c.name).
			Build()
	}
	if ref.Class != c.name {
		return nil, errors.New(errors.PhaseBind, errors.KindTypeMismatch).
			ScriptType(ref.Class).
			Detail("expected %s, got %s", c.name, ref.Class).
			Build()
	}
	obj, ok := c.objects.Get(ref.Handle)
	if !ok {
		return nil, errors.StaleHandle(errors.PhaseBind, c.name, uint64(ref.Handle))
	}
	return obj, nil
}

// Release invalidates the handle of obj. Scripts still holding it get a
// stale handle error on next use.
func (c *Class[T]) Release(obj *T) {
	if obj == nil {
		return
	}
	if h, ok := c.objects.Lookup(obj); ok {
		c.objects.Remove(h)
	}
}

// Live reports whether obj currently has a handle.
func (c *Class[T]) Live(obj *T) bool {
	_, ok := c.objects.Lookup(obj)
	return ok
}
