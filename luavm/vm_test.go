package luavm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/script"
	"github.com/wippyai/oak/value"
)

type thing struct {
	name string
	n    int
}

type fixture struct {
	vm     *VM
	eng    *script.Engine
	reg    *bind.Registry
	things *bind.Class[thing]
	held   *thing
	got    []any
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{vm: New(opts...), reg: bind.NewRegistry()}
	f.eng = script.New(f.vm)
	t.Cleanup(func() { f.eng.Shutdown() })

	m := f.reg.RegisterModule("test", nil)
	bind.Func1(m, "int", func(i int) { f.got = append(f.got, i) })
	bind.Func1(m, "float", func(x float64) { f.got = append(f.got, x) })
	bind.Func1(m, "bool", func(b bool) { f.got = append(f.got, b) })
	bind.Func1(m, "text", func(s string) { f.got = append(f.got, s) })
	bind.Func1(m, "vec", func(v value.Vec3) { f.got = append(f.got, v) })
	bind.Func1(m, "quat", func(q value.Quat) { f.got = append(f.got, q) })
	bind.Func0R(m, "origin", func() value.Vec3 { return value.Vec3{X: 1, Y: -2.5, Z: 3.25} })
	bind.Func0R(m, "identity", value.Identity)
	bind.Func0(m, "violate", func() {
		errors.Fatal(errors.PhaseGraphics, "trying to destroy an unexisting view")
	})

	f.things = bind.RegisterClass[thing](f.reg, "Thing")
	bind.Func1R(m, "make", func(name string) *thing { return &thing{name: name} })
	bind.Func1R(m, "find", func(string) *thing { return nil })
	bind.Method0R(f.things, "getName", func(x *thing) string { return x.name })
	bind.Method1(f.things, "add", func(x *thing, n int) { x.n += n })
	bind.Method0R(f.things, "count", func(x *thing) int { return x.n })

	holder := f.reg.RegisterModule("holder", nil)
	bind.Func0R(holder, "get", func() *thing { return f.held })

	f.eng.Register(f.reg)
	return f
}

func (f *fixture) eval(t *testing.T, src string) {
	t.Helper()
	if err := f.eng.Eval("test", src); err != nil {
		t.Fatalf("eval: %v", err)
	}
}

func TestVM_ArgumentsFromNative(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `
		function pointerDown(id, button, x, y)
			test.int(id)
			test.int(button)
			test.float(x)
			test.float(y)
		end
	`)

	if !f.eng.StartCall("pointerDown") {
		t.Fatal("pointerDown not found")
	}
	f.eng.AppendInt(1)
	f.eng.AppendInt(0)
	f.eng.AppendFloat(2.5)
	f.eng.AppendFloat(-3.5)
	if err := f.eng.EndCall(); err != nil {
		t.Fatal(err)
	}

	want := []any{1, 0, 2.5, -3.5}
	if len(f.got) != len(want) {
		t.Fatalf("got %v", f.got)
	}
	for i := range want {
		if f.got[i] != want[i] {
			t.Errorf("arg %d = %v, want %v", i, f.got[i], want[i])
		}
	}
	if f.vm.Top() != 0 {
		t.Errorf("stack not balanced: %d", f.vm.Top())
	}
}

func TestVM_CompositeRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `
		test.vec(test.origin())
		test.quat(test.identity())
		local x, y, z = test.origin()
		test.float(x + y + z)
	`)

	if f.got[0] != (value.Vec3{X: 1, Y: -2.5, Z: 3.25}) {
		t.Errorf("vec3 = %v", f.got[0])
	}
	if f.got[1] != value.Identity() {
		t.Errorf("quat = %v", f.got[1])
	}
	if f.got[2] != 1.75 {
		t.Errorf("sum = %v", f.got[2])
	}
}

func TestVM_CompositeArgumentFromNative(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `
		function move(x, y, z, w, qx, qy, qz)
			test.vec(x, y, z)
			test.quat(w, qx, qy, qz)
		end
	`)

	f.eng.Call("move",
		value.Vector(value.Vec3{X: 1, Y: -2.5, Z: 3.25}),
		value.Rotation(value.Quat{W: 0.5, X: 0.5, Y: -0.5, Z: 0.5}))

	if f.got[0] != (value.Vec3{X: 1, Y: -2.5, Z: 3.25}) {
		t.Errorf("vec3 = %v", f.got[0])
	}
	if f.got[1] != (value.Quat{W: 0.5, X: 0.5, Y: -0.5, Z: 0.5}) {
		t.Errorf("quat = %v", f.got[1])
	}
}

func TestVM_ScalarConversions(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `
		test.int(2.9)
		test.int(-2.9)
		test.bool(nil)
		test.bool(0)
		test.text(12)
		test.int(1, "extra", "args")
	`)

	want := []any{2, -2, false, true, "12", 1}
	for i := range want {
		if f.got[i] != want[i] {
			t.Errorf("value %d = %#v, want %#v", i, f.got[i], want[i])
		}
	}
}

func TestVM_MissingFunction(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `notAFunction = 3`)

	if f.vm.Function("update") {
		t.Error("missing global reported as function")
	}
	if f.vm.Function("notAFunction") {
		t.Error("number global reported as function")
	}
	if f.vm.Top() != 0 {
		t.Errorf("Function disturbed the stack: %d", f.vm.Top())
	}
}

func TestVM_RuntimeError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFixture(t)
	f.eng = script.New(f.vm, script.WithLogger(zap.New(core)))
	f.eval(t, `
		function update(dt)
			error("boom at " .. dt)
		end
		function shutdown() test.text("bye") end
	`)

	f.eng.StartCall("update")
	f.eng.AppendFloat(0.5)
	err := f.eng.EndCall()
	if err == nil || !strings.Contains(err.Error(), "boom at 0.5") {
		t.Fatalf("error = %v", err)
	}
	if strings.Contains(err.Error(), "stack traceback") {
		t.Errorf("error carries a traceback: %v", err)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.FilterLevelExact(zapcore.WarnLevel).Len())
	}
	if f.vm.Top() != 0 {
		t.Errorf("stack not restored: %d", f.vm.Top())
	}

	if !f.eng.Call("shutdown") || len(f.got) != 1 || f.got[0] != "bye" {
		t.Fatalf("engine unusable after error: %v", f.got)
	}
}

func TestVM_ContractViolationPropagates(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `
		function update()
			pcall(test.violate)
		end
		function ok() test.int(1) end
	`)

	func() {
		defer func() {
			e, ok := errors.AsContract(recover())
			if !ok {
				t.Fatal("expected contract violation to reach native code")
			}
			if e.Phase != errors.PhaseGraphics {
				t.Errorf("phase = %s", e.Phase)
			}
		}()
		f.eng.Call("update")
	}()

	if f.eng.State().InProgress {
		t.Fatal("engine left accumulating")
	}
	if f.vm.Top() != 0 {
		t.Fatalf("stack not restored: %d", f.vm.Top())
	}
	f.eng.Call("ok")
	if len(f.got) != 1 {
		t.Fatal("VM unusable after contract violation")
	}
}

func TestVM_Methods(t *testing.T) {
	f := newFixture(t)
	f.eval(t, `
		local a = test.make("alpha")
		a:add(2)
		a:add(3)
		Thing.add(a, 1)
		test.int(a:count())
		test.text(a:getName())
		test.bool(test.find("none") == nil)
		test.text(tostring(a):sub(1, 6))
	`)

	want := []any{6, "alpha", true, "Thing@"}
	for i := range want {
		if f.got[i] != want[i] {
			t.Errorf("value %d = %#v, want %#v", i, f.got[i], want[i])
		}
	}
}

func TestVM_SameObjectCompareEqual(t *testing.T) {
	f := newFixture(t)
	f.held = &thing{name: "shared"}

	f.eval(t, `test.bool(holder.get() == holder.get())`)
	if f.got[0] != true {
		t.Fatal("two references to one object compare unequal")
	}
}

func TestVM_StaleHandle(t *testing.T) {
	f := newFixture(t)
	obj := &thing{name: "gone"}
	f.held = obj

	f.eval(t, `
		held = holder.get()
		function poke() held:add(1) end
	`)
	f.things.Release(obj)

	f.eng.StartCall("poke")
	err := f.eng.EndCall()
	if err == nil || !strings.Contains(err.Error(), string(errors.KindStaleHandle)) {
		t.Fatalf("error = %v", err)
	}
	if obj.n != 0 {
		t.Fatal("stale handle reached the object")
	}
}

func TestVM_Sandbox(t *testing.T) {
	f := newFixture(t, WithSandbox(true))
	f.eval(t, `test.bool(dofile == nil and loadfile == nil and require == nil)`)
	if f.got[0] != true {
		t.Fatal("sandbox left file loaders in place")
	}

	g := newFixture(t)
	g.eval(t, `test.bool(dofile ~= nil)`)
	if g.got[0] != true {
		t.Fatal("dofile missing without sandbox")
	}
	g.eval(t, `test.bool(os == nil)`)
	if g.got[1] != true {
		t.Fatal("os opened without WithOSLib")
	}

	h := newFixture(t, WithOSLib(true))
	h.eval(t, `test.bool(os ~= nil and os.time ~= nil)`)
	if h.got[0] != true {
		t.Fatal("WithOSLib did not open os")
	}
}

func TestVM_PrintLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := newFixture(t, WithLogger(zap.New(core)))
	f.eval(t, `print("hello", 42)`)

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "hello\t42" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestVM_LoadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.lua"), []byte(`function initialize() test.text("init") end`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`function (`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t)
	eng := script.New(f.vm, script.WithBaseFolder(dir))
	if err := eng.LoadFile("main.lua"); err != nil {
		t.Fatal(err)
	}
	eng.Call("initialize")
	if len(f.got) != 1 || f.got[0] != "init" {
		t.Fatalf("got %v", f.got)
	}

	if err := eng.LoadFile("bad.lua"); err == nil {
		t.Fatal("expected syntax error")
	}
	if err := eng.LoadFile("missing.lua"); err == nil {
		t.Fatal("expected file error")
	}
	if f.vm.Top() != 0 {
		t.Errorf("stack not balanced: %d", f.vm.Top())
	}
}
