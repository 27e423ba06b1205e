package script

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/value"
)

// CallState is the observable state of the call protocol.
type CallState struct {
	Function   string
	Pending    int
	InProgress bool
}

// ErrorSink receives runtime errors raised by scripted functions.
type ErrorSink func(function string, err error)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithErrorSink replaces the default sink, which logs one warning per error.
func WithErrorSink(sink ErrorSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithBaseFolder sets the folder relative script paths resolve against.
func WithBaseFolder(dir string) Option {
	return func(e *Engine) {
		e.baseFolder = dir
	}
}

// Engine drives one VM through the call protocol.
type Engine struct {
	vm         VM
	log        *zap.Logger
	sink       ErrorSink
	baseFolder string
	state      CallState
	slots      int
	closed     bool
}

// New creates an Engine over vm in the Idle state.
func New(vm VM, opts ...Option) *Engine {
	e := &Engine{
		vm:  vm,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = e.logError
	}
	return e
}

func (e *Engine) logError(function string, err error) {
	e.log.Warn("script error", zap.String("function", function), zap.Error(err))
}

// VM returns the underlying VM.
func (e *Engine) VM() VM { return e.vm }

// State returns the current call state.
func (e *Engine) State() CallState { return e.state }

// Register installs every module and class of reg into the VM.
func (e *Engine) Register(reg *bind.Registry) {
	errors.Assert(!e.state.InProgress, errors.PhaseBind, "cannot register bindings while %q is being called", e.state.Function)
	reg.Install(e.vm)
	e.log.Debug("bindings installed",
		zap.Int("modules", len(reg.Modules())),
		zap.Int("classes", len(reg.Classes())),
		zap.Int("entries", len(reg.Entries())))
}

// LoadFile loads and runs a script file. Relative names resolve against the
// base folder.
func (e *Engine) LoadFile(name string) error {
	errors.Assert(!e.state.InProgress, errors.PhaseLoad, "cannot load %q while %q is being called", name, e.state.Function)
	path := name
	if e.baseFolder != "" && !filepath.IsAbs(name) {
		path = filepath.Join(e.baseFolder, name)
	}
	if err := e.vm.LoadFile(path); err != nil {
		return errors.Load(path, err)
	}
	e.log.Info("script loaded", zap.String("path", path))
	return nil
}

// Eval loads and runs source labelled name.
func (e *Engine) Eval(name, source string) error {
	errors.Assert(!e.state.InProgress, errors.PhaseLoad, "cannot evaluate %q while %q is being called", name, e.state.Function)
	if err := e.vm.Eval(name, source); err != nil {
		return errors.Load(name, err)
	}
	return nil
}

// StartCall locates the global function name and begins accumulating
// arguments. It returns false, leaving the engine Idle, when the function
// does not exist.
func (e *Engine) StartCall(name string) bool {
	errors.Assert(!e.state.InProgress, errors.PhaseCall, "a function call is already in progress (%q)", e.state.Function)
	if e.closed || !e.vm.Function(name) {
		return false
	}
	e.state = CallState{InProgress: true, Function: name}
	e.slots = 0
	return true
}

// AppendParameter marshals v as the next argument. It does nothing when no
// call is in progress.
func (e *Engine) AppendParameter(v value.Value) {
	if !e.state.InProgress {
		return
	}
	e.slots += marshal.Push(e.vm, v)
	e.state.Pending++
}

// AppendInt and the other typed helpers append one argument of their kind.
func (e *Engine) AppendInt(i int64) { e.AppendParameter(value.Int(i)) }
func (e *Engine) AppendBool(b bool) { e.AppendParameter(value.Bool(b)) }
func (e *Engine) AppendFloat(f float64) { e.AppendParameter(value.Float(f)) }
func (e *Engine) AppendVec3(v value.Vec3) { e.AppendParameter(value.Vector(v)) }
func (e *Engine) AppendQuat(q value.Quat) { e.AppendParameter(value.Rotation(q)) }
func (e *Engine) AppendText(s string) { e.AppendParameter(value.Text(s)) }

// EndCall invokes the pending function with the accumulated arguments and
// returns the engine to Idle. A runtime error is reported to the error sink
// and returned. It does nothing when no call is in progress.
func (e *Engine) EndCall() error {
	if !e.state.InProgress {
		return nil
	}
	function, slots := e.state.Function, e.slots
	defer e.reset()

	if err := e.vm.Call(slots); err != nil {
		serr := errors.Script(function, err)
		e.sink(function, serr)
		return serr
	}
	return nil
}

func (e *Engine) reset() {
	e.state = CallState{}
	e.slots = 0
}

// Call runs the full protocol for name with args. It returns false when the
// function does not exist. A script error has already reached the error sink
// and is not reported again.
func (e *Engine) Call(name string, args ...value.Value) bool {
	if !e.StartCall(name) {
		return false
	}
	for _, a := range args {
		e.AppendParameter(a)
	}
	e.EndCall()
	return true
}

// Shutdown closes the VM. Later calls find no functions.
func (e *Engine) Shutdown() error {
	if e.closed {
		return nil
	}
	errors.Assert(!e.state.InProgress, errors.PhaseCall, "cannot shut down while %q is being called", e.state.Function)
	e.closed = true
	e.log.Debug("script engine shut down")
	return e.vm.Close()
}
