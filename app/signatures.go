package app

import (
	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/bindings"
	"github.com/wippyai/oak/driver"
	"github.com/wippyai/oak/graphics"
	"github.com/wippyai/oak/sg"
	"github.com/wippyai/oak/system"
)

// Signatures lists every binding a script can reach, in registration order.
func Signatures() []string {
	worlds := sg.NewWorldManager()
	gfx := graphics.New(driver.NewTrace(nil), worlds)
	defer gfx.Close()

	reg := bind.NewRegistry()
	bindings.RegisterSystem(reg, system.NewModule(nil, system.NewClock(nil)))
	scene := bindings.RegisterSg(reg, worlds)
	defer scene.Close()
	bindings.RegisterGraphics(reg, gfx)

	entries := reg.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Signature()
	}
	return out
}
