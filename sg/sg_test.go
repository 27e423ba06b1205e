package sg

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/value"
)

type recorder struct {
	events []string
}

func (r *recorder) WorldCreated(w *World) { r.events = append(r.events, "created "+w.Name()) }
func (r *recorder) WorldDestroyed(w *World) { r.events = append(r.events, "destroyed "+w.Name()) }
func (r *recorder) EntityDestroyed(e *Entity) { r.events = append(r.events, "entity "+e.Name()) }

type tag struct {
	class    string
	entity   *Entity
	detached *[]string
}

func (t *tag) ClassName() string { return t.class }
func (t *tag) Detach() { *t.detached = append(*t.detached, t.class+"@"+t.entity.Name()) }

type tagFactory struct {
	claims   map[string]bool
	detached []string
	calls    int
}

func (f *tagFactory) CreateComponent(e *Entity, className string) Component {
	f.calls++
	if !f.claims[className] {
		return nil
	}
	return &tag{class: className, entity: e, detached: &f.detached}
}

func expectContract(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if _, ok := errors.AsContract(recover()); !ok {
			t.Fatal("expected contract violation")
		}
	}()
	fn()
}

func TestWorldLifecycle_Notifications(t *testing.T) {
	m := NewWorldManager()
	rec := &recorder{}
	m.AddWorldListener(rec)
	m.AddEntityListener(rec)

	w := m.CreateWorld("main")
	w.CreateEntity("a")
	w.CreateEntity("b")
	m.DestroyWorld(w)

	want := []string{"created main", "entity b", "entity a", "destroyed main"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
	if w.Alive() {
		t.Error("destroyed world reports alive")
	}
	if len(m.Worlds()) != 0 {
		t.Errorf("Worlds() = %d, want 0", len(m.Worlds()))
	}
}

func TestDestroyWorld_Twice(t *testing.T) {
	m := NewWorldManager()
	w := m.CreateWorld("main")
	m.DestroyWorld(w)

	expectContract(t, func() { m.DestroyWorld(w) })
}

func TestRemoveWorldListener(t *testing.T) {
	m := NewWorldManager()
	rec := &recorder{}
	m.AddWorldListener(rec)
	m.RemoveWorldListener(rec)

	m.CreateWorld("main")

	if len(rec.events) != 0 {
		t.Errorf("removed listener received %v", rec.events)
	}
}

func TestFindWorldAndEntity(t *testing.T) {
	m := NewWorldManager()
	w := m.CreateWorld("main")
	e := w.CreateEntity("camera")

	if m.FindWorld("main") != w {
		t.Error("FindWorld(main) failed")
	}
	if m.FindWorld("other") != nil {
		t.Error("FindWorld(other) should be nil")
	}
	if w.FindEntity("camera") != e {
		t.Error("FindEntity(camera) failed")
	}
	if w.FindEntity("nope") != nil {
		t.Error("FindEntity(nope) should be nil")
	}
	if e.World() != w {
		t.Error("entity world mismatch")
	}
}

func TestEntity_Transform(t *testing.T) {
	m := NewWorldManager()
	e := m.CreateWorld("main").CreateEntity("e")

	if e.Rotation() != value.Identity() {
		t.Errorf("initial rotation = %v, want identity", e.Rotation())
	}
	e.SetPosition(value.Vec3{X: 1, Y: 2, Z: 3})
	e.SetRotation(value.Quat{W: 0, X: 1})
	if e.Position() != (value.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position = %v", e.Position())
	}
	if e.Rotation() != (value.Quat{X: 1}) {
		t.Errorf("rotation = %v", e.Rotation())
	}
}

func TestComponents_FactoryProtocol(t *testing.T) {
	m := NewWorldManager()
	f := &tagFactory{claims: map[string]bool{"Camera": true, "Cube": true}}
	m.Factories().Register("Camera", f)
	m.Factories().Register("Cube", f)

	e := m.CreateWorld("main").CreateEntity("e")

	if c, ok := e.AddComponent("Unknown"); ok || c != nil {
		t.Errorf("AddComponent(Unknown) = %v, %v", c, ok)
	}
	if f.calls != 0 {
		t.Error("factory asked for an unclaimed name")
	}
	if len(e.Components()) != 0 {
		t.Error("unknown component attached")
	}

	c, ok := e.AddComponent("Camera")
	if !ok || c.ClassName() != "Camera" {
		t.Fatalf("AddComponent(Camera) = %v, %v", c, ok)
	}
	e.AddComponent("Cube")
	if e.Component("Cube") == nil {
		t.Error("Component(Cube) missing")
	}

	e.Destroy()
	if len(f.detached) != 2 || f.detached[0] != "Cube@e" || f.detached[1] != "Camera@e" {
		t.Errorf("detached = %v, want [Cube@e Camera@e]", f.detached)
	}
	if _, ok := e.AddComponent("Camera"); ok {
		t.Error("destroyed entity accepted a component")
	}
}

func TestComponentFactories_Replace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := NewWorldManager(WithLogger(zap.New(core)))
	first := &tagFactory{claims: map[string]bool{"Cube": true}}
	second := &tagFactory{claims: map[string]bool{"Cube": true}}

	m.Factories().Register("Cube", first)
	m.Factories().Register("Cube", second)
	m.CreateWorld("main").CreateEntity("e").AddComponent("Cube")

	if first.calls != 0 || second.calls != 1 {
		t.Errorf("calls = %d/%d, want 0/1", first.calls, second.calls)
	}
	if logs.FilterMessage("component factory replaced").Len() != 1 {
		t.Error("replacement not logged")
	}

	m.Factories().Unregister("Cube")
	if m.Factories().Registered("Cube") {
		t.Error("Cube still registered")
	}
}

func TestDestroyEntity_Foreign(t *testing.T) {
	m := NewWorldManager()
	a := m.CreateWorld("a")
	b := m.CreateWorld("b")
	e := a.CreateEntity("e")

	expectContract(t, func() { b.DestroyEntity(e) })
}

func TestCreateEntity_DestroyedWorld(t *testing.T) {
	m := NewWorldManager()
	w := m.CreateWorld("main")
	m.DestroyWorld(w)

	expectContract(t, func() { w.CreateEntity("late") })
}

func TestClose_DestroysNewestFirst(t *testing.T) {
	m := NewWorldManager()
	rec := &recorder{}
	m.AddWorldListener(rec)
	m.CreateWorld("a")
	m.CreateWorld("b")
	rec.events = nil

	m.Close()

	if len(rec.events) != 2 || rec.events[0] != "destroyed b" || rec.events[1] != "destroyed a" {
		t.Errorf("events = %v", rec.events)
	}
}
