package luavm

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/script"
	"github.com/wippyai/oak/value"
)

// Option configures a VM.
type Option func(*config)

type config struct {
	log     *zap.Logger
	sandbox bool
	osLib   bool
}

// WithLogger routes print and VM diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSandbox removes the globals that reach the file system or load code
// from outside the engine.
func WithSandbox(enabled bool) Option {
	return func(c *config) { c.sandbox = enabled }
}

// WithOSLib opens the os library.
func WithOSLib(enabled bool) Option {
	return func(c *config) { c.osLib = enabled }
}

var sandboxed = []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"}

// VM is a script.VM backed by a gopher-lua state.
type VM struct {
	L       *lua.LState
	cur     *lua.LState
	log     *zap.Logger
	handler *lua.LFunction
	tables  map[string]*lua.LTable
	classes map[string]*lua.LTable
	fatal   any
}

// New creates a VM with the base, table, string and math libraries open.
func New(opts ...Option) *VM {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	if cfg.osLib {
		libs = append(libs, struct {
			name string
			fn   lua.LGFunction
		}{lua.OsLibName, lua.OpenOs})
	}
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	if cfg.sandbox {
		for _, name := range sandboxed {
			L.SetGlobal(name, lua.LNil)
		}
	}

	vm := &VM{
		L:       L,
		cur:     L,
		log:     cfg.log,
		tables:  make(map[string]*lua.LTable),
		classes: make(map[string]*lua.LTable),
	}
	vm.handler = L.NewFunction(errorHandler)
	L.SetGlobal("print", L.NewFunction(vm.print))
	return vm
}

// errorHandler turns any error object into its message.
func errorHandler(L *lua.LState) int {
	L.Push(lua.LString(L.ToStringMeta(L.Get(1)).String()))
	return 1
}

func (vm *VM) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	vm.log.Info(strings.Join(parts, "\t"), zap.String("source", "print"))
	return 0
}

// Function pushes the global function name.
func (vm *VM) Function(name string) bool {
	fn := vm.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return false
	}
	vm.L.Push(fn)
	return true
}

// Call runs a protected call of the function below the top nargs slots.
func (vm *VM) Call(nargs int) error {
	err := vm.L.PCall(nargs, 0, vm.handler)
	if f := vm.fatal; f != nil {
		vm.fatal = nil
		panic(f)
	}
	if err == nil {
		return nil
	}
	if ae, ok := err.(*lua.ApiError); ok {
		return &lua.ApiError{Type: ae.Type, Object: ae.Object, Cause: ae.Cause}
	}
	return err
}

// LoadFile compiles and runs the file at path.
func (vm *VM) LoadFile(path string) error {
	fn, err := vm.L.LoadFile(path)
	if err != nil {
		return err
	}
	vm.L.Push(fn)
	return vm.Call(0)
}

// Eval compiles and runs source.
func (vm *VM) Eval(name, source string) error {
	fn, err := vm.L.Load(strings.NewReader(source), name)
	if err != nil {
		return err
	}
	vm.L.Push(fn)
	return vm.Call(0)
}

// Close releases the Lua state.
func (vm *VM) Close() error {
	vm.L.Close()
	return nil
}

// DefineTable creates the global table name. Class tables index themselves
// and serve as the metatable of the class's references.
func (vm *VM) DefineTable(name string, class bool) {
	tbl := vm.L.NewTable()
	if class {
		tbl.RawSetString("__index", tbl)
		tbl.RawSetString("__eq", vm.L.NewFunction(refEqual))
		tbl.RawSetString("__tostring", vm.L.NewFunction(refString))
		vm.classes[name] = tbl
	}
	vm.tables[name] = tbl
	vm.L.SetGlobal(name, tbl)
}

// DefineFunction installs e in its owner's table.
func (vm *VM) DefineFunction(e *bind.Entry) {
	tbl, ok := vm.tables[e.Owner]
	if !ok {
		vm.DefineTable(e.Owner, e.Target == bind.InstanceMethod)
		tbl = vm.tables[e.Owner]
	}
	tbl.RawSetString(e.Name, vm.L.NewFunction(vm.adapt(e)))
}

func (vm *VM) adapt(e *bind.Entry) lua.LGFunction {
	arity := e.Arity()
	return func(L *lua.LState) int {
		L.SetTop(arity)
		prev := vm.cur
		vm.cur = L
		defer func() { vm.cur = prev }()

		n, err := vm.invoke(e)
		if err != nil {
			L.RaiseError("%s", err.Error())
		}
		return n
	}
}

// invoke runs the adapter, holding any panic so it survives PCall.
func (vm *VM) invoke(e *bind.Entry) (int, error) {
	defer func() {
		if r := recover(); r != nil {
			if vm.fatal == nil {
				vm.fatal = r
			}
			panic(r)
		}
	}()
	return e.Adapter(vm)
}

func refEqual(L *lua.LState) int {
	a, aok := asRef(L.Get(1))
	b, bok := asRef(L.Get(2))
	L.Push(lua.LBool(aok && bok && a == b))
	return 1
}

func refString(L *lua.LState) int {
	r, _ := asRef(L.Get(1))
	L.Push(lua.LString(r.String()))
	return 1
}

func asRef(lv lua.LValue) (value.Ref, bool) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return value.Ref{}, false
	}
	r, ok := ud.Value.(value.Ref)
	return r, ok
}

var _ script.VM = (*VM)(nil)
