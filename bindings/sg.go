package bindings

import (
	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/sg"
)

// Scene is the sg module. It releases the handles of worlds and entities
// as they are destroyed.
type Scene struct {
	manager  *sg.WorldManager
	Worlds   *bind.Class[sg.World]
	Entities *bind.Class[sg.Entity]
}

// RegisterSg publishes manager as the sg module with the World and Entity
// classes.
func RegisterSg(reg *bind.Registry, manager *sg.WorldManager) *Scene {
	s := &Scene{
		manager:  manager,
		Worlds:   bind.RegisterClass[sg.World](reg, "World"),
		Entities: bind.RegisterClass[sg.Entity](reg, "Entity"),
	}

	m := reg.RegisterModule("sg", manager)
	bind.Func1R(m, "createWorld", manager.CreateWorld)
	bind.Func1(m, "destroyWorld", manager.DestroyWorld)
	bind.Func1R(m, "findWorld", manager.FindWorld)

	bind.Method0R(s.Worlds, "getName", (*sg.World).Name)
	bind.Method1R(s.Worlds, "createEntity", (*sg.World).CreateEntity)
	bind.Method1R(s.Worlds, "findEntity", (*sg.World).FindEntity)

	bind.Method0R(s.Entities, "getName", (*sg.Entity).Name)
	bind.Method1R(s.Entities, "addComponent", func(e *sg.Entity, className string) bool {
		_, ok := e.AddComponent(className)
		return ok
	})
	bind.Method1(s.Entities, "setPosition", (*sg.Entity).SetPosition)
	bind.Method0R(s.Entities, "getPosition", (*sg.Entity).Position)
	bind.Method1(s.Entities, "setRotation", (*sg.Entity).SetRotation)
	bind.Method0R(s.Entities, "getRotation", (*sg.Entity).Rotation)
	bind.Method0(s.Entities, "destroy", (*sg.Entity).Destroy)

	manager.AddWorldListener(s)
	manager.AddEntityListener(s)
	return s
}

func (s *Scene) WorldCreated(*sg.World) {}

func (s *Scene) WorldDestroyed(w *sg.World) { s.Worlds.Release(w) }

func (s *Scene) EntityDestroyed(e *sg.Entity) { s.Entities.Release(e) }

// Close unsubscribes s from its manager.
func (s *Scene) Close() {
	s.manager.RemoveWorldListener(s)
	s.manager.RemoveEntityListener(s)
}

var (
	_ sg.WorldListener  = (*Scene)(nil)
	_ sg.EntityListener = (*Scene)(nil)
)
