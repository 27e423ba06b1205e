package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/bindings"
	"github.com/wippyai/oak/config"
	"github.com/wippyai/oak/driver"
	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/graphics"
	"github.com/wippyai/oak/input"
	"github.com/wippyai/oak/luavm"
	"github.com/wippyai/oak/script"
	"github.com/wippyai/oak/sg"
	"github.com/wippyai/oak/system"
	"github.com/wippyai/oak/value"
	"github.com/wippyai/oak/wasmvm"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the root logger. Collaborators get named children.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithDriver sets the graphics driver. The default records draw calls
// without output.
func WithDriver(d graphics.Driver) Option {
	return func(a *App) { a.driver = d }
}

// WithClock sets the frame clock.
func WithClock(c *system.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithVM runs scripts on vm instead of the VM the configured backend
// selects.
func WithVM(vm script.VM) Option {
	return func(a *App) { a.vm = vm }
}

// App is one running program.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	driver graphics.Driver
	clock  *system.Clock
	vm     script.VM

	worlds   *sg.WorldManager
	input    *input.Engine
	graphics *graphics.Engine
	script   *script.Engine
	registry *bind.Registry
	scene    *bindings.Scene
	views    *bind.Class[graphics.View]

	initialized bool
	closed      bool
}

// New creates an App for cfg. A nil cfg uses config.Default.
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if a.driver == nil {
		a.driver = driver.NewTrace(nil)
	}
	if a.clock == nil {
		a.clock = system.NewClock(nil)
	}
	return a
}

// Initialize builds every collaborator, the declared scene and the script
// bindings, then loads the script and calls its initialize hook. Shutdown
// must be called even when Initialize fails.
func (a *App) Initialize(ctx context.Context) error {
	errors.Assert(!a.initialized, errors.PhaseLoad, "application is already initialized")
	a.initialized = true

	a.clock.Reset()
	a.worlds = sg.NewWorldManager(sg.WithLogger(a.log.Named("sg")))
	a.input = input.New(input.WithLogger(a.log.Named("input")))
	a.input.AddListener(a)
	a.graphics = graphics.New(a.driver, a.worlds,
		graphics.WithLogger(a.log.Named("graphics")),
		graphics.WithBackground(a.cfg.Background()))

	vm, err := a.newVM(ctx)
	if err != nil {
		return err
	}
	a.script = script.New(vm,
		script.WithLogger(a.log.Named("script")),
		script.WithBaseFolder(a.cfg.BaseFolder))

	a.registry = bind.NewRegistry(bind.WithLogger(a.log.Named("bind")))
	bindings.RegisterSystem(a.registry, system.NewModule(a.log, a.clock))
	a.scene = bindings.RegisterSg(a.registry, a.worlds)
	a.views = bindings.RegisterGraphics(a.registry, a.graphics)
	a.script.Register(a.registry)

	a.buildScene()

	if err := a.script.LoadFile(a.cfg.Script); err != nil {
		return err
	}
	a.script.Call("initialize")
	a.log.Info("application initialized",
		zap.String("script", a.cfg.Script),
		zap.String("backend", a.cfg.Backend),
		zap.Int("worlds", len(a.worlds.Worlds())))
	return nil
}

func (a *App) newVM(ctx context.Context) (script.VM, error) {
	if a.vm != nil {
		return a.vm, nil
	}
	switch a.cfg.Backend {
	case "wasm":
		return wasmvm.New(ctx,
			wasmvm.WithLogger(a.log.Named("wasm")),
			wasmvm.WithWASI(!a.cfg.Sandbox))
	case "lua", "":
		return luavm.New(
			luavm.WithLogger(a.log.Named("lua")),
			luavm.WithSandbox(a.cfg.Sandbox)), nil
	default:
		return nil, errors.InvalidInput(errors.PhaseConfig, "unknown backend "+a.cfg.Backend)
	}
}

// buildScene creates the worlds, entities and views the configuration
// declares.
func (a *App) buildScene() {
	for _, wc := range a.cfg.Worlds {
		w := a.worlds.CreateWorld(wc.Name)
		for _, ec := range wc.Entities {
			e := w.CreateEntity(ec.Name)
			pos, rot := ec.Transform()
			e.SetPosition(pos)
			e.SetRotation(rot)
			for _, class := range ec.Components {
				if _, ok := e.AddComponent(class); !ok {
					a.log.Warn("unknown component class",
						zap.String("world", wc.Name),
						zap.String("entity", ec.Name),
						zap.String("class", class))
				}
			}
		}
		for _, vc := range wc.Views {
			v := a.graphics.CreateView(w)
			v.SetPriority(vc.Priority)
			if vc.Camera != "" {
				v.SetCamera(w.FindEntity(vc.Camera))
			}
		}
	}
}

// Update runs one frame: input events, the update hook, then rendering.
func (a *App) Update() {
	errors.Assert(a.initialized && !a.closed, errors.PhaseCall, "update outside of the application lifetime")
	a.clock.FrameStart()
	a.input.Update()
	a.script.Call("update", value.Float(a.clock.Elapsed()))
	a.graphics.RenderFrame()
}

// Step runs n frames back to back.
func (a *App) Step(n int) {
	for range n {
		a.Update()
	}
}

// Run updates at the configured frame rate until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.FrameInterval())
	defer ticker.Stop()

	a.log.Info("frame loop started", zap.Int("frame_rate", a.cfg.FrameRate))
	for {
		select {
		case <-ctx.Done():
			a.log.Info("frame loop stopped")
			return nil
		case <-ticker.C:
			a.Update()
		}
	}
}

// Shutdown calls the shutdown hook and tears every collaborator down in
// reverse order. It is safe to call more than once.
func (a *App) Shutdown() error {
	if !a.initialized || a.closed {
		return nil
	}
	a.closed = true

	var err error
	if a.script != nil {
		a.script.Call("shutdown")
		err = a.script.Shutdown()
	}
	for _, v := range a.graphics.Views() {
		a.graphics.DestroyView(v)
		if a.views != nil {
			a.views.Release(v)
		}
	}
	a.worlds.Close()
	a.graphics.Close()
	if a.scene != nil {
		a.scene.Close()
	}
	a.input.RemoveListener(a)
	if a.registry != nil {
		a.registry.Close()
	}
	a.log.Info("application shut down")
	return err
}

func (a *App) PointerDown(id, button int, pos input.Point) {
	a.script.Call("pointerDown", value.Int(int64(id)), value.Int(int64(button)), value.Float(pos.X), value.Float(pos.Y))
}

func (a *App) PointerUp(id, button int, pos input.Point) {
	a.script.Call("pointerUp", value.Int(int64(id)), value.Int(int64(button)), value.Float(pos.X), value.Float(pos.Y))
}

func (a *App) PointerMove(id int, pos, movement input.Point) {
	a.script.Call("pointerMove", value.Int(int64(id)), value.Float(pos.X), value.Float(pos.Y),
		value.Float(movement.X), value.Float(movement.Y))
}

func (a *App) Config() *config.Config { return a.cfg }
func (a *App) Input() *input.Engine { return a.input }
func (a *App) Graphics() *graphics.Engine { return a.graphics }
func (a *App) Worlds() *sg.WorldManager { return a.worlds }
func (a *App) Script() *script.Engine { return a.script }
func (a *App) Registry() *bind.Registry { return a.registry }
func (a *App) Clock() *system.Clock { return a.clock }

var _ input.Listener = (*App)(nil)
