package bind

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/value"
)

// thunk invokes a native target with decoded Go arguments.
type thunk func(self any, args []any) (any, error)

// publish builds the adapter for one entry and adds it to ns.
func (ns *Namespace) publish(name string, self *codec, args []*codec, ret *codec, fn thunk) *Entry {
	errors.Assert(name != "", errors.PhaseBind, "%s: function name cannot be empty", ns.name)
	if _, dup := ns.names[name]; dup {
		errors.Fatal(errors.PhaseBind, "%s.%s is already registered", ns.name, name)
	}

	e := &Entry{
		Owner:   ns.name,
		Name:    name,
		Target:  ModuleFunction,
		Args:    kindsOf(args),
		Classes: classesOf(args),
	}
	if self != nil {
		e.Target = InstanceMethod
	}
	if ret != nil {
		e.Return = ret.kind
		e.ReturnClass = ret.class
	}
	e.Adapter = adapt(e, self, args, ret, fn)

	ns.names[name] = struct{}{}
	ns.entries = append(ns.entries, e)
	ns.reg.log.Debug("binding registered", zap.String("signature", e.Signature()))
	return e
}

func adapt(e *Entry, self *codec, args []*codec, ret *codec, fn thunk) Adapter {
	path := []string{e.Owner, e.Name}
	return func(s marshal.Stack) (int, error) {
		raw := make([]value.Value, len(args))
		for i := len(args) - 1; i >= 0; i-- {
			raw[i] = marshal.Pop(s, args[i].kind)
		}
		var rawSelf value.Value
		if self != nil {
			rawSelf = marshal.Pop(s, value.KindRef)
		}

		var recv any
		if self != nil {
			r, err := self.decode(rawSelf)
			if err != nil {
				return 0, withPath(err, path, "self")
			}
			recv = r
		}
		decoded := make([]any, len(args))
		for i, c := range args {
			x, err := c.decode(raw[i])
			if err != nil {
				return 0, withPath(err, path, argName(i))
			}
			decoded[i] = x
		}

		out, err := fn(recv, decoded)
		if err != nil {
			return 0, withPath(err, path, "")
		}
		if ret == nil {
			return 0, nil
		}
		return marshal.Push(s, ret.encode(out)), nil
	}
}

func argName(i int) string {
	return "arg" + strconv.Itoa(i)
}

func withPath(err error, path []string, leaf string) error {
	e, ok := err.(*errors.Error)
	if !ok || len(e.Path) > 0 {
		return err
	}
	p := append([]string(nil), path...)
	if leaf != "" {
		p = append(p, leaf)
	}
	e.Path = p
	return e
}

// Function publishes a raw function working directly on values.
func Function(m *Module, name string, args []value.Kind, ret value.Kind, fn func(args []value.Value) (value.Value, error)) *Entry {
	codecs := make([]*codec, len(args))
	for i, k := range args {
		codecs[i] = rawCodec(k)
	}
	var rc *codec
	if ret != value.KindNone {
		rc = rawCodec(ret)
	}
	return m.publish(name, nil, codecs, rc, func(_ any, in []any) (any, error) {
		vals := make([]value.Value, len(in))
		for i, x := range in {
			vals[i] = x.(value.Value)
		}
		out, err := fn(vals)
		if err != nil {
			return nil, err
		}
		if rc != nil && out.Kind() != ret {
			errors.Fatal(errors.PhaseBind, "%s.%s returned %s, declared %s", m.name, name, out.Kind(), ret)
		}
		return out, nil
	})
}

func rawCodec(k value.Kind) *codec {
	errors.Assert(k.Valid(), errors.PhaseBind, "kind %s cannot cross the script boundary", k)
	return &codec{
		kind:   k,
		goType: "value.Value",
		decode: func(v value.Value) (any, error) { return v, nil },
		encode: func(x any) value.Value { return x.(value.Value) },
	}
}

// Func0 publishes fn() as name on m.
func Func0(m *Module, name string, fn func()) *Entry {
	return m.publish(name, nil, nil, nil, func(_ any, _ []any) (any, error) {
		fn()
		return nil, nil
	})
}

// Func1 publishes fn(a) as name on m.
func Func1[A any](m *Module, name string, fn func(A)) *Entry {
	args := []*codec{codecOf[A](m.reg)}
	return m.publish(name, nil, args, nil, func(_ any, in []any) (any, error) {
		fn(in[0].(A))
		return nil, nil
	})
}

// Func2 publishes fn(a, b) as name on m.
func Func2[A, B any](m *Module, name string, fn func(A, B)) *Entry {
	args := []*codec{codecOf[A](m.reg), codecOf[B](m.reg)}
	return m.publish(name, nil, args, nil, func(_ any, in []any) (any, error) {
		fn(in[0].(A), in[1].(B))
		return nil, nil
	})
}

// Func3 publishes fn(a, b, c) as name on m.
func Func3[A, B, C any](m *Module, name string, fn func(A, B, C)) *Entry {
	args := []*codec{codecOf[A](m.reg), codecOf[B](m.reg), codecOf[C](m.reg)}
	return m.publish(name, nil, args, nil, func(_ any, in []any) (any, error) {
		fn(in[0].(A), in[1].(B), in[2].(C))
		return nil, nil
	})
}

// Func0R publishes fn() R as name on m.
func Func0R[R any](m *Module, name string, fn func() R) *Entry {
	ret := codecOf[R](m.reg)
	return m.publish(name, nil, nil, ret, func(_ any, _ []any) (any, error) {
		return fn(), nil
	})
}

// Func1R publishes fn(a) R as name on m.
func Func1R[A, R any](m *Module, name string, fn func(A) R) *Entry {
	args := []*codec{codecOf[A](m.reg)}
	ret := codecOf[R](m.reg)
	return m.publish(name, nil, args, ret, func(_ any, in []any) (any, error) {
		return fn(in[0].(A)), nil
	})
}

// Func2R publishes fn(a, b) R as name on m.
func Func2R[A, B, R any](m *Module, name string, fn func(A, B) R) *Entry {
	args := []*codec{codecOf[A](m.reg), codecOf[B](m.reg)}
	ret := codecOf[R](m.reg)
	return m.publish(name, nil, args, ret, func(_ any, in []any) (any, error) {
		return fn(in[0].(A), in[1].(B)), nil
	})
}

func (c *Class[T]) self() *codec {
	return c.reg.classCodecs[reflect.TypeFor[*T]()]
}

// Method0 publishes fn(self) as name on c.
func Method0[T any](c *Class[T], name string, fn func(*T)) *Entry {
	return c.publish(name, c.self(), nil, nil, func(self any, _ []any) (any, error) {
		fn(self.(*T))
		return nil, nil
	})
}

// Method1 publishes fn(self, a) as name on c.
func Method1[T, A any](c *Class[T], name string, fn func(*T, A)) *Entry {
	args := []*codec{codecOf[A](c.reg)}
	return c.publish(name, c.self(), args, nil, func(self any, in []any) (any, error) {
		fn(self.(*T), in[0].(A))
		return nil, nil
	})
}

// Method2 publishes fn(self, a, b) as name on c.
func Method2[T, A, B any](c *Class[T], name string, fn func(*T, A, B)) *Entry {
	args := []*codec{codecOf[A](c.reg), codecOf[B](c.reg)}
	return c.publish(name, c.self(), args, nil, func(self any, in []any) (any, error) {
		fn(self.(*T), in[0].(A), in[1].(B))
		return nil, nil
	})
}

// Method0R publishes fn(self) R as name on c.
func Method0R[T, R any](c *Class[T], name string, fn func(*T) R) *Entry {
	ret := codecOf[R](c.reg)
	return c.publish(name, c.self(), nil, ret, func(self any, _ []any) (any, error) {
		return fn(self.(*T)), nil
	})
}

// Method1R publishes fn(self, a) R as name on c.
func Method1R[T, A, R any](c *Class[T], name string, fn func(*T, A) R) *Entry {
	args := []*codec{codecOf[A](c.reg)}
	ret := codecOf[R](c.reg)
	return c.publish(name, c.self(), args, ret, func(self any, in []any) (any, error) {
		return fn(self.(*T), in[0].(A)), nil
	})
}
