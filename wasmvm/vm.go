package wasmvm

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/script"
)

// Option configures a VM.
type Option func(*config)

type config struct {
	log              *zap.Logger
	memoryLimitPages uint32
	wasi             bool
	closeOnDone      bool
}

// WithLogger sets the logger for load and host module events.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
// wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *config) { c.memoryLimitPages = pages }
}

// WithWASI instantiates wasi_snapshot_preview1 for guests built against it.
func WithWASI(enabled bool) Option {
	return func(c *config) { c.wasi = enabled }
}

// WithCloseOnContextDone stops running guests when the VM's context ends.
func WithCloseOnContextDone(enabled bool) Option {
	return func(c *config) { c.closeOnDone = enabled }
}

type guest struct {
	mod  api.Module
	name string
}

type callee struct {
	fn  api.Function
	mod api.Module
}

// VM is a script.VM backed by a wazero runtime. Arguments and results are
// staged on the embedded Slots.
type VM struct {
	*marshal.Slots

	ctx     context.Context
	rt      wazero.Runtime
	log     *zap.Logger
	entries map[string][]*bind.Entry
	hosts   map[string]bool
	owners  []string
	guests  []guest
	callees []callee
	fatal   any
}

// New creates a VM. ctx bounds every guest call.
func New(ctx context.Context, opts ...Option) (*VM, error) {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	rc := wazero.NewRuntimeConfig()
	if cfg.memoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	if cfg.closeOnDone {
		rc = rc.WithCloseOnContextDone(true)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rc)

	if cfg.wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			_ = rt.Close(ctx)
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "instantiate wasi")
		}
	}

	return &VM{
		Slots:   marshal.NewSlots(16),
		ctx:     ctx,
		rt:      rt,
		log:     cfg.log,
		entries: make(map[string][]*bind.Entry),
		hosts:   make(map[string]bool),
	}, nil
}

// DefineTable declares the host module name.
func (vm *VM) DefineTable(name string, _ bool) {
	if _, ok := vm.entries[name]; ok {
		return
	}
	vm.entries[name] = nil
	vm.owners = append(vm.owners, name)
}

// DefineFunction adds e to its owner's host module. Host modules are fixed
// once a guest has been loaded against them.
func (vm *VM) DefineFunction(e *bind.Entry) {
	errors.Assert(!vm.hosts[e.Owner], errors.PhaseBind, "host module %q is already instantiated", e.Owner)
	vm.DefineTable(e.Owner, e.Target == bind.InstanceMethod)
	vm.entries[e.Owner] = append(vm.entries[e.Owner], e)
}

// Function stages the newest guest export called name.
func (vm *VM) Function(name string) bool {
	for i := len(vm.guests) - 1; i >= 0; i-- {
		g := vm.guests[i]
		if fn := g.mod.ExportedFunction(name); fn != nil {
			vm.callees = append(vm.callees, callee{fn: fn, mod: g.mod})
			return true
		}
	}
	return false
}

// Call invokes the staged function with the top nargs slots.
func (vm *VM) Call(nargs int) error {
	errors.Assert(len(vm.callees) > 0, errors.PhaseCall, "no function was staged")
	errors.Assert(nargs >= 0 && nargs <= vm.Top(), errors.PhaseCall, "%d arguments requested, %d staged", nargs, vm.Top())

	c := vm.callees[len(vm.callees)-1]
	vm.callees = vm.callees[:len(vm.callees)-1]
	all := vm.All()
	args := append([]marshal.Slot(nil), all[len(all)-nargs:]...)
	vm.Pop(nargs)

	params, err := encodeArgs(vm.ctx, c.mod, args, c.fn.Definition().ParamTypes())
	if err != nil {
		return err
	}
	_, err = c.fn.Call(vm.ctx, params...)
	if f := vm.fatal; f != nil {
		vm.fatal = nil
		panic(f)
	}
	if err != nil {
		return callError(err)
	}
	return nil
}

// callError keeps structured host errors and strips wazero's stack trace
// from traps.
func callError(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e
	}
	var exit *sys.ExitError
	if stderrors.As(err, &exit) {
		return exit
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return stderrors.New(msg)
}

// LoadFile instantiates the module at path under its base name.
func (vm *VM) LoadFile(path string) error {
	bin, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return vm.load(name, bin)
}

// Eval instantiates the module binary held in source under name.
func (vm *VM) Eval(name, source string) error {
	return vm.load(name, []byte(source))
}

func (vm *VM) load(name string, bin []byte) error {
	if err := vm.instantiateHosts(vm.ctx); err != nil {
		return err
	}
	compiled, err := vm.rt.CompileModule(vm.ctx, bin)
	if err != nil {
		return err
	}
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions("_initialize")
	mod, err := vm.rt.InstantiateModule(vm.ctx, compiled, cfg)
	if f := vm.fatal; f != nil {
		vm.fatal = nil
		panic(f)
	}
	if err != nil {
		return callError(err)
	}
	vm.guests = append(vm.guests, guest{name: name, mod: mod})
	vm.log.Debug("guest instantiated",
		zap.String("module", name),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return nil
}

// Close releases the runtime and every guest.
func (vm *VM) Close() error {
	vm.guests = nil
	vm.callees = nil
	return vm.rt.Close(vm.ctx)
}

var _ script.VM = (*VM)(nil)
