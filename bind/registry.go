package bind

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/resource"
)

// Binder is implemented by script VMs that can expose a Registry.
type Binder interface {
	// DefineTable creates the global namespace name. Classes get a table
	// that objects of the class resolve methods through.
	DefineTable(name string, class bool)
	// DefineFunction publishes e under its owner's table.
	DefineFunction(e *Entry)
}

// Namespace is a module or class: a named group of entries.
type Namespace struct {
	reg     *Registry
	names   map[string]struct{}
	name    string
	entries []*Entry
	class   bool
}

// Name returns the exposed name.
func (n *Namespace) Name() string { return n.name }

// IsClass reports whether n is a class.
func (n *Namespace) IsClass() bool { return n.class }

// Entries returns the entries published under n in registration order.
func (n *Namespace) Entries() []*Entry { return n.entries }

// Module binds one native instance to an exposed namespace.
type Module struct {
	Namespace
	instance any
}

// Instance returns the native instance the module was registered with.
func (m *Module) Instance() any { return m.instance }

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// Registry associates native modules and classes with script-visible names.
type Registry struct {
	log         *zap.Logger
	handles     *resource.Table
	names       map[string]*Namespace
	classCodecs map[reflect.Type]*codec
	typeClass   map[uint32]string
	modules     []*Module
	classes     []*Namespace
	nextTypeID  uint32
}

// NewRegistry creates an empty registry with its own handle table.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:         zap.NewNop(),
		handles:     resource.NewTable(),
		names:       make(map[string]*Namespace),
		classCodecs: make(map[reflect.Type]*codec),
		typeClass:   make(map[uint32]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.handles.Subscribe(handleLog{r})
	return r
}

// RegisterModule binds instance under name. Binding a second namespace
// under the same name is a contract violation.
func (r *Registry) RegisterModule(name string, instance any) *Module {
	m := &Module{instance: instance}
	r.claim(&m.Namespace, name, false)
	r.modules = append(r.modules, m)
	r.log.Debug("module registered", zap.String("module", name))
	return m
}

func (r *Registry) claim(ns *Namespace, name string, class bool) {
	errors.Assert(name != "", errors.PhaseBind, "namespace name cannot be empty")
	if _, dup := r.names[name]; dup {
		errors.Fatal(errors.PhaseBind, "namespace %q is already registered", name)
	}
	ns.reg = r
	ns.name = name
	ns.class = class
	ns.names = make(map[string]struct{})
	r.names[name] = ns
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []*Module { return r.modules }

// Classes returns the registered classes in registration order.
func (r *Registry) Classes() []*Namespace { return r.classes }

// Lookup returns the module or class registered under name.
func (r *Registry) Lookup(name string) (*Namespace, bool) {
	ns, ok := r.names[name]
	return ns, ok
}

// Entries returns every entry, modules first, in registration order.
func (r *Registry) Entries() []*Entry {
	var out []*Entry
	for _, m := range r.modules {
		out = append(out, m.entries...)
	}
	for _, c := range r.classes {
		out = append(out, c.entries...)
	}
	return out
}

// Handles returns the table holding every object handed to scripts.
func (r *Registry) Handles() *resource.Table { return r.handles }

// Install defines every namespace and entry on b.
func (r *Registry) Install(b Binder) {
	for _, m := range r.modules {
		b.DefineTable(m.name, false)
		for _, e := range m.entries {
			b.DefineFunction(e)
		}
	}
	for _, c := range r.classes {
		b.DefineTable(c.name, true)
		for _, e := range c.entries {
			b.DefineFunction(e)
		}
	}
}

// Close drops every outstanding handle.
func (r *Registry) Close() error {
	r.handles.Clear()
	return r.handles.Close()
}

// handleLog traces handle lifecycle per class at debug level.
type handleLog struct {
	r *Registry
}

func (l handleLog) OnResourceEvent(e resource.Event) {
	l.r.log.Debug("handle "+e.Type.String(),
		zap.String("class", l.r.typeClass[e.TypeID]),
		zap.Uint64("handle", uint64(e.Handle)))
}
