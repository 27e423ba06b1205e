package graphics

import (
	"slices"

	"github.com/wippyai/oak/sg"
)

// GraphicWorld is the render state of one world.
type GraphicWorld struct {
	world       *sg.World
	renderables []renderable
}

func newGraphicWorld(w *sg.World) *GraphicWorld {
	return &GraphicWorld{world: w}
}

// World returns the world b belongs to.
func (b *GraphicWorld) World() *sg.World { return b.world }

// Len returns the number of renderables.
func (b *GraphicWorld) Len() int { return len(b.renderables) }

// Render draws every renderable in attach order.
func (b *GraphicWorld) Render(d Driver) {
	for _, r := range b.renderables {
		r.draw(d)
	}
}

func (b *GraphicWorld) add(r renderable) {
	b.renderables = append(b.renderables, r)
}

func (b *GraphicWorld) remove(r renderable) {
	if i := slices.Index(b.renderables, r); i >= 0 {
		b.renderables = slices.Delete(b.renderables, i, i+1)
	}
}

func (b *GraphicWorld) destroy() {
	b.renderables = nil
}
