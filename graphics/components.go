package graphics

import (
	"github.com/wippyai/oak/sg"
	"github.com/wippyai/oak/value"
)

// Component class names claimed by the engine.
const (
	ClassCamera   = "Camera"
	ClassCube     = "Cube"
	ClassDemoQuad = "DemoQuad"
)

// Camera defaults.
const (
	DefaultFOV  = 60.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

var componentClasses = []string{ClassCamera, ClassCube, ClassDemoQuad}

type renderable interface {
	draw(d Driver)
}

// Camera gives an entity's transform lens settings. Views whose camera
// entity carries one render through it.
type Camera struct {
	entity *sg.Entity
	bundle *GraphicWorld
	FOV    float64
	Near   float64
	Far    float64
}

func (c *Camera) ClassName() string { return ClassCamera }
func (c *Camera) Detach() {}

// Entity returns the entity c is attached to.
func (c *Camera) Entity() *sg.Entity { return c.entity }

// Bundle returns the graphic world c is bound to.
func (c *Camera) Bundle() *GraphicWorld { return c.bundle }

func (c *Camera) eye() Eye {
	return Eye{
		Position: c.entity.Position(),
		Rotation: c.entity.Rotation(),
		FOV:      c.FOV,
		Near:     c.Near,
		Far:      c.Far,
	}
}

// Cube draws a cube at its entity's transform.
type Cube struct {
	entity *sg.Entity
	bundle *GraphicWorld
	Color  value.Vec3
	Size   float64
}

func (c *Cube) ClassName() string { return ClassCube }
func (c *Cube) Detach() { c.bundle.remove(c) }
func (c *Cube) Entity() *sg.Entity { return c.entity }
func (c *Cube) Bundle() *GraphicWorld { return c.bundle }

func (c *Cube) draw(d Driver) {
	d.DrawCube(c.entity.Position(), c.entity.Rotation(), c.Size, c.Color)
}

// DemoQuad draws a flat square at its entity's transform.
type DemoQuad struct {
	entity *sg.Entity
	bundle *GraphicWorld
	Color  value.Vec3
	Size   float64
}

func (q *DemoQuad) ClassName() string { return ClassDemoQuad }
func (q *DemoQuad) Detach() { q.bundle.remove(q) }
func (q *DemoQuad) Entity() *sg.Entity { return q.entity }
func (q *DemoQuad) Bundle() *GraphicWorld { return q.bundle }

func (q *DemoQuad) draw(d Driver) {
	d.DrawQuad(q.entity.Position(), q.entity.Rotation(), q.Size, q.Color)
}
