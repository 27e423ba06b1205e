package bindings

import (
	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/graphics"
	"github.com/wippyai/oak/sg"
)

// RegisterGraphics publishes eng as the graphics module with the View
// class. The World and Entity classes must already be registered.
// View:setCamera(nil) goes back to the default eye.
func RegisterGraphics(reg *bind.Registry, eng *graphics.Engine) *bind.Class[graphics.View] {
	views := bind.RegisterClass[graphics.View](reg, "View")

	m := reg.RegisterModule("graphics", eng)
	bind.Func1R(m, "createView", eng.CreateView)
	bind.Func1(m, "destroyView", func(v *graphics.View) {
		eng.DestroyView(v)
		views.Release(v)
	})
	bind.Func1(m, "setBackgroundColor", eng.SetBackgroundColor)
	bind.Func0R(m, "getBackgroundColor", eng.BackgroundColor)

	bind.Method1(views, "setPriority", (*graphics.View).SetPriority)
	bind.Method0R(views, "getPriority", (*graphics.View).Priority)
	bind.Method1(views, "setCamera", func(v *graphics.View, camera bind.Optional[sg.Entity]) {
		v.SetCamera(camera.Obj)
	})
	return views
}
