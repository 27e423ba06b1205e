package graphics

import (
	"github.com/wippyai/oak/value"
)

// Eye is the viewpoint a view renders from.
type Eye struct {
	Position value.Vec3
	Rotation value.Quat
	FOV      float64
	Near     float64
	Far      float64
}

// DefaultEye looks down -Z from ten units away.
func DefaultEye() Eye {
	return Eye{
		Position: value.Vec3{Z: 10},
		Rotation: value.Identity(),
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// Driver is the rendering backend. Colours are RGB in [0, 1].
type Driver interface {
	SetClearColor(c value.Vec3)
	SetClearDepth(d float64)
	Clear()
	BeginView(priority int, eye Eye)
	DrawCube(center value.Vec3, rotation value.Quat, size float64, color value.Vec3)
	DrawQuad(center value.Vec3, rotation value.Quat, size float64, color value.Vec3)
	EndView()
}
