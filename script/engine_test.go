package script

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/value"
)

// fakeVM is a VM whose global functions are Go closures over the raw
// argument slots.
type fakeVM struct {
	*marshal.Slots
	funcs   map[string]func(args []marshal.Slot) error
	calls   []string
	loaded  []string
	tables  []string
	defined []*bind.Entry
	closed  bool
}

func newFakeVM() *fakeVM {
	return &fakeVM{
		Slots: marshal.NewSlots(16),
		funcs: make(map[string]func([]marshal.Slot) error),
	}
}

func (vm *fakeVM) Function(name string) bool {
	if _, ok := vm.funcs[name]; !ok {
		return false
	}
	vm.PushText("fn:" + name)
	return true
}

func (vm *fakeVM) Call(nargs int) error {
	all := vm.All()
	callee := all[len(all)-nargs-1].Text[len("fn:"):]
	args := append([]marshal.Slot(nil), all[len(all)-nargs:]...)
	vm.Pop(nargs + 1)
	vm.calls = append(vm.calls, callee)
	return vm.funcs[callee](args)
}

func (vm *fakeVM) LoadFile(path string) error {
	vm.loaded = append(vm.loaded, path)
	return nil
}

func (vm *fakeVM) Eval(name, source string) error {
	if source == "syntax error" {
		return stderrors.New(name + ": unexpected symbol")
	}
	vm.loaded = append(vm.loaded, name)
	return nil
}

func (vm *fakeVM) Close() error {
	vm.closed = true
	return nil
}

func (vm *fakeVM) DefineTable(name string, class bool) { vm.tables = append(vm.tables, name) }
func (vm *fakeVM) DefineFunction(e *bind.Entry) { vm.defined = append(vm.defined, e) }

func expectContract(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if _, ok := errors.AsContract(recover()); !ok {
			t.Fatal("expected contract violation")
		}
	}()
	fn()
}

func TestEngine_AppendWhileIdleIsNoop(t *testing.T) {
	vm := newFakeVM()
	e := New(vm)

	e.AppendInt(1)
	e.AppendText("x")
	e.AppendVec3(value.Vec3{X: 1})
	if e.State().Pending != 0 || vm.Top() != 0 {
		t.Fatalf("pending = %d, top = %d", e.State().Pending, vm.Top())
	}
	if err := e.EndCall(); err != nil {
		t.Fatal(err)
	}
	if len(vm.calls) != 0 {
		t.Fatal("EndCall while idle invoked something")
	}

	vm.funcs["f"] = func([]marshal.Slot) error { return nil }
	e.Call("f")
	e.AppendFloat(2)
	if e.State().Pending != 0 || vm.Top() != 0 {
		t.Fatalf("append after EndCall marshalled: pending = %d, top = %d", e.State().Pending, vm.Top())
	}
}

func TestEngine_ZeroArguments(t *testing.T) {
	vm := newFakeVM()
	got := -1
	vm.funcs["initialize"] = func(args []marshal.Slot) error {
		got = len(args)
		return nil
	}
	e := New(vm)

	if e.State().InProgress {
		t.Fatal("engine should start idle")
	}
	if !e.StartCall("initialize") {
		t.Fatal("StartCall failed")
	}
	st := e.State()
	if !st.InProgress || st.Function != "initialize" || st.Pending != 0 {
		t.Fatalf("state after StartCall = %+v", st)
	}
	if err := e.EndCall(); err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("invoked with %d args", got)
	}
	if e.State() != (CallState{}) {
		t.Fatalf("state after EndCall = %+v", e.State())
	}
}

func TestEngine_MissingFunction(t *testing.T) {
	vm := newFakeVM()
	vm.PushText("caller")
	e := New(vm)

	if e.StartCall("update") {
		t.Fatal("StartCall should fail for a missing function")
	}
	if e.State().InProgress {
		t.Fatal("missing function left a call in progress")
	}
	if vm.Top() != 1 {
		t.Fatalf("stack disturbed: top = %d", vm.Top())
	}
	if e.Call("update", value.Float(1)) {
		t.Fatal("Call should report a missing function")
	}
}

func TestEngine_Arguments(t *testing.T) {
	vm := newFakeVM()
	var got []marshal.Slot
	vm.funcs["pointerMove"] = func(args []marshal.Slot) error {
		got = args
		return nil
	}
	e := New(vm)

	e.StartCall("pointerMove")
	e.AppendInt(1)
	e.AppendFloat(2.5)
	e.AppendFloat(3.5)
	e.AppendVec3(value.Vec3{X: 1, Y: -2.5, Z: 3.25})
	e.AppendQuat(value.Identity())
	e.AppendBool(true)
	e.AppendText("t")
	if e.State().Pending != 7 {
		t.Fatalf("pending = %d, want 7", e.State().Pending)
	}
	e.EndCall()

	if len(got) != 12 {
		t.Fatalf("got %d slots, want 12", len(got))
	}
	if got[0].Int != 1 || got[1].Number != 2.5 || got[2].Number != 3.5 {
		t.Errorf("scalar args = %v", got[:3])
	}
	if got[3].Number != 1 || got[4].Number != -2.5 || got[5].Number != 3.25 {
		t.Errorf("vec3 args = %v", got[3:6])
	}
	if got[6].Number != 1 || !got[10].Bool || got[11].Text != "t" {
		t.Errorf("tail args = %v", got[6:])
	}
	if vm.Top() != 0 {
		t.Errorf("stack not cleaned: %d", vm.Top())
	}
}

func TestEngine_StartWhileInProgress(t *testing.T) {
	vm := newFakeVM()
	vm.funcs["a"] = func([]marshal.Slot) error { return nil }
	e := New(vm)

	e.StartCall("a")
	expectContract(t, func() { e.StartCall("a") })
	expectContract(t, func() { e.Register(bind.NewRegistry()) })
	expectContract(t, func() { e.LoadFile("main.lua") })
}

func TestEngine_RuntimeErrorLogsOneWarning(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	vm := newFakeVM()
	boom := stderrors.New("main.lua:3: attempt to index a nil value")
	vm.funcs["update"] = func([]marshal.Slot) error { return boom }
	vm.funcs["shutdown"] = func([]marshal.Slot) error { return nil }
	e := New(vm, WithLogger(zap.New(core)))

	e.StartCall("update")
	e.AppendFloat(0.016)
	err := e.EndCall()
	if !stderrors.Is(err, boom) {
		t.Fatalf("EndCall error = %v", err)
	}

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(warnings))
	}
	if warnings[0].Message != "script error" {
		t.Errorf("message = %q", warnings[0].Message)
	}
	if warnings[0].ContextMap()["function"] != "update" {
		t.Errorf("fields = %v", warnings[0].ContextMap())
	}

	if e.State().InProgress {
		t.Fatal("engine left accumulating after a runtime error")
	}
	if !e.StartCall("shutdown") {
		t.Fatal("engine not ready for the next call")
	}
	if err := e.EndCall(); err != nil {
		t.Fatal(err)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatal("successful call logged a warning")
	}
}

func TestEngine_CustomSink(t *testing.T) {
	vm := newFakeVM()
	vm.funcs["f"] = func([]marshal.Slot) error { return stderrors.New("bad") }

	var sunk []string
	e := New(vm, WithErrorSink(func(function string, err error) {
		sunk = append(sunk, function)
	}))

	if !e.Call("f") {
		t.Fatal("Call should report the function as found")
	}
	e.Call("f")
	if len(sunk) != 2 || sunk[0] != "f" {
		t.Fatalf("sink got %v", sunk)
	}
}

func TestEngine_ContractPanicResetsState(t *testing.T) {
	vm := newFakeVM()
	vm.funcs["f"] = func([]marshal.Slot) error {
		errors.Fatal(errors.PhaseGraphics, "trying to destroy an unexisting view")
		return nil
	}
	e := New(vm)

	expectContract(t, func() { e.Call("f") })
	if e.State().InProgress {
		t.Fatal("contract panic left the engine accumulating")
	}
}

func TestEngine_Register(t *testing.T) {
	vm := newFakeVM()
	e := New(vm)

	reg := bind.NewRegistry()
	m := reg.RegisterModule("system", nil)
	bind.Func0R(m, "getTime", func() float64 { return 1 })
	e.Register(reg)

	if len(vm.tables) != 1 || vm.tables[0] != "system" {
		t.Fatalf("tables = %v", vm.tables)
	}
	if len(vm.defined) != 1 || vm.defined[0].Name != "getTime" {
		t.Fatalf("defined = %v", vm.defined)
	}
}

func TestEngine_LoadFile(t *testing.T) {
	vm := newFakeVM()
	base := t.TempDir()
	e := New(vm, WithBaseFolder(base))

	if err := e.LoadFile("main.lua"); err != nil {
		t.Fatal(err)
	}
	abs := filepath.Join(base, "other", "x.lua")
	if err := e.LoadFile(abs); err != nil {
		t.Fatal(err)
	}
	if vm.loaded[0] != filepath.Join(base, "main.lua") || vm.loaded[1] != abs {
		t.Fatalf("loaded = %v", vm.loaded)
	}

	err := e.Eval("console", "syntax error")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidData}) {
		t.Fatalf("Eval error = %v", err)
	}
}

func TestEngine_Shutdown(t *testing.T) {
	vm := newFakeVM()
	vm.funcs["f"] = func([]marshal.Slot) error { return nil }
	e := New(vm)

	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !vm.closed {
		t.Fatal("VM not closed")
	}
	if e.StartCall("f") {
		t.Fatal("StartCall after Shutdown should fail")
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
}
