package graphics

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/sg"
	"github.com/wippyai/oak/value"
)

// DefaultBackground is the clear colour of a new engine.
var DefaultBackground = value.Vec3{X: 0.4, Y: 0.6, Z: 0.7}

// ClearDepth is the depth every frame is cleared to.
const ClearDepth = 1.0

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithBackground sets the initial clear colour.
func WithBackground(c value.Vec3) Option {
	return func(e *Engine) { e.background = c }
}

// Engine owns one GraphicWorld per world and the active views.
type Engine struct {
	log        *zap.Logger
	driver     Driver
	worlds     *sg.WorldManager
	bundles    []*GraphicWorld
	views      []*View
	background value.Vec3
	closed     bool
}

// New creates an engine drawing through driver and subscribes it to
// worlds. Worlds that already exist get their GraphicWorld immediately.
func New(driver Driver, worlds *sg.WorldManager, opts ...Option) *Engine {
	e := &Engine{
		log:        zap.NewNop(),
		driver:     driver,
		worlds:     worlds,
		background: DefaultBackground,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, w := range worlds.Worlds() {
		e.WorldCreated(w)
	}
	worlds.AddWorldListener(e)
	for _, name := range componentClasses {
		worlds.Factories().Register(name, e)
	}
	return e
}

// Close detaches the engine from its world manager. Every world must have
// been destroyed first.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	errors.Assert(len(e.bundles) == 0, errors.PhaseGraphics,
		"%d graphic worlds are still alive, destroy their worlds first", len(e.bundles))
	for _, name := range componentClasses {
		e.worlds.Factories().Unregister(name)
	}
	e.worlds.RemoveWorldListener(e)
	e.closed = true
	e.log.Debug("graphics engine closed")
}

// Driver returns the driver frames are rendered through.
func (e *Engine) Driver() Driver { return e.driver }

// WorldCreated creates the GraphicWorld of w.
func (e *Engine) WorldCreated(w *sg.World) {
	errors.Assert(e.bundleIndex(w) < 0, errors.PhaseGraphics, "world %q already has a graphic world", w.Name())
	e.bundles = append(e.bundles, newGraphicWorld(w))
	e.log.Debug("graphic world created", zap.String("world", w.Name()))
}

// WorldDestroyed destroys the GraphicWorld of w. No view may still
// reference it.
func (e *Engine) WorldDestroyed(w *sg.World) {
	i := e.bundleIndex(w)
	if i < 0 {
		errors.Fatal(errors.PhaseGraphics, "trying to destroy an unexisting graphic world %q", w.Name())
	}
	b := e.bundles[i]
	if n := e.viewsOf(b); n > 0 {
		errors.Fatal(errors.PhaseGraphics, "world %q is destroyed while %d views still reference it", w.Name(), n)
	}
	b.destroy()

	last := len(e.bundles) - 1
	e.bundles[i] = e.bundles[last]
	e.bundles[last] = nil
	e.bundles = e.bundles[:last]
	e.log.Debug("graphic world destroyed", zap.String("world", w.Name()))
}

func (e *Engine) bundleIndex(w *sg.World) int {
	for i, b := range e.bundles {
		if b.world == w {
			return i
		}
	}
	return -1
}

func (e *Engine) viewsOf(b *GraphicWorld) int {
	n := 0
	for _, v := range e.views {
		if v.bundle == b {
			n++
		}
	}
	return n
}

// Bundle returns the GraphicWorld of w, or nil.
func (e *Engine) Bundle(w *sg.World) *GraphicWorld {
	if i := e.bundleIndex(w); i >= 0 {
		return e.bundles[i]
	}
	return nil
}

// Bundles returns every live GraphicWorld.
func (e *Engine) Bundles() []*GraphicWorld { return slices.Clone(e.bundles) }

// CreateView creates a view of w at priority 0. The world must be
// registered. The caller owns the view and destroys it with DestroyView.
func (e *Engine) CreateView(w *sg.World) *View {
	b := e.Bundle(w)
	if b == nil {
		errors.Fatal(errors.PhaseGraphics, "trying to create a view for an unregistered world")
	}
	v := &View{bundle: b}
	e.views = append(e.views, v)
	return v
}

// DestroyView stops rendering v. v must be tracked.
func (e *Engine) DestroyView(v *View) {
	i := slices.Index(e.views, v)
	if i < 0 {
		errors.Fatal(errors.PhaseGraphics, "trying to destroy an unexisting view")
	}
	e.views = slices.Delete(e.views, i, i+1)
}

// Views returns the active views in render order as of the last frame,
// followed by views created since.
func (e *Engine) Views() []*View { return slices.Clone(e.views) }

func (e *Engine) SetBackgroundColor(c value.Vec3) { e.background = c }
func (e *Engine) BackgroundColor() value.Vec3 { return e.background }

// RenderFrame clears colour and depth, then renders every view by
// ascending priority.
func (e *Engine) RenderFrame() {
	e.driver.SetClearColor(e.background)
	e.driver.SetClearDepth(ClearDepth)
	e.driver.Clear()

	slices.SortStableFunc(e.views, func(a, b *View) int {
		return cmp.Compare(a.priority, b.priority)
	})
	for _, v := range e.views {
		v.Render(e.driver)
	}
}

// CreateComponent implements sg.ComponentFactory for the engine's class
// names. Other names produce nothing.
func (e *Engine) CreateComponent(entity *sg.Entity, className string) sg.Component {
	if !slices.Contains(componentClasses, className) {
		return nil
	}
	b := e.Bundle(entity.World())
	if b == nil {
		errors.Fatal(errors.PhaseGraphics, "entity %q belongs to a world without graphic world", entity.Name())
	}

	switch className {
	case ClassCamera:
		return &Camera{entity: entity, bundle: b, FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar}
	case ClassCube:
		c := &Cube{entity: entity, bundle: b, Size: 1, Color: value.Vec3{X: 1, Y: 1, Z: 1}}
		b.add(c)
		return c
	default:
		q := &DemoQuad{entity: entity, bundle: b, Size: 1, Color: value.Vec3{X: 0.9, Y: 0.5, Z: 0.1}}
		b.add(q)
		return q
	}
}

var (
	_ sg.WorldListener    = (*Engine)(nil)
	_ sg.ComponentFactory = (*Engine)(nil)
)
