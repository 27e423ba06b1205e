package graphics

import (
	"github.com/wippyai/oak/sg"
)

// View renders one graphic world from a camera at a priority.
type View struct {
	bundle   *GraphicWorld
	camera   *sg.Entity
	priority int
}

// Bundle returns the graphic world v renders.
func (v *View) Bundle() *GraphicWorld { return v.bundle }

func (v *View) Priority() int { return v.priority }

// SetPriority orders v among views; lower priorities render first.
func (v *View) SetPriority(p int) { v.priority = p }

func (v *View) Camera() *sg.Entity { return v.camera }

// SetCamera renders v from e. Entities of another world, and destroyed
// ones, leave the default eye in place.
func (v *View) SetCamera(e *sg.Entity) { v.camera = e }

// Eye returns the viewpoint v renders from.
func (v *View) Eye() Eye {
	e := v.camera
	if e == nil || !e.Alive() || e.World() != v.bundle.world {
		return DefaultEye()
	}
	if c, ok := e.Component(ClassCamera).(*Camera); ok {
		return c.eye()
	}
	eye := DefaultEye()
	eye.Position = e.Position()
	eye.Rotation = e.Rotation()
	return eye
}

// Render draws v through d.
func (v *View) Render(d Driver) {
	d.BeginView(v.priority, v.Eye())
	v.bundle.Render(d)
	d.EndView()
}
