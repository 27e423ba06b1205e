package sg

import (
	"github.com/wippyai/oak/value"
)

var identity = value.Identity()

// Entity is a named transform with components.
type Entity struct {
	world      *World
	name       string
	components []Component
	position   value.Vec3
	rotation   value.Quat
	destroyed  bool
}

func (e *Entity) Name() string { return e.name }

// World returns the world e was created in.
func (e *Entity) World() *World { return e.world }

// Alive reports whether e has not been destroyed.
func (e *Entity) Alive() bool { return !e.destroyed }

func (e *Entity) Position() value.Vec3 { return e.position }
func (e *Entity) SetPosition(p value.Vec3) { e.position = p }
func (e *Entity) Rotation() value.Quat { return e.rotation }
func (e *Entity) SetRotation(q value.Quat) { e.rotation = q }

// AddComponent asks the world's factories for className. It reports false
// when no factory produced a component.
func (e *Entity) AddComponent(className string) (Component, bool) {
	if e.destroyed {
		return nil, false
	}
	c := e.world.manager.factories.Create(e, className)
	if c == nil {
		return nil, false
	}
	e.components = append(e.components, c)
	return c, true
}

// Components returns the attached components in attach order.
func (e *Entity) Components() []Component {
	out := make([]Component, len(e.components))
	copy(out, e.components)
	return out
}

// Component returns the first component of className, or nil.
func (e *Entity) Component(className string) Component {
	for _, c := range e.components {
		if c.ClassName() == className {
			return c
		}
	}
	return nil
}

// Destroy removes e from its world.
func (e *Entity) Destroy() {
	e.world.DestroyEntity(e)
}
