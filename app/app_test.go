package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/oak/config"
	"github.com/wippyai/oak/driver"
	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/input"
	"github.com/wippyai/oak/system"
)

const lifecycle = `
frames = 0

function initialize()
	system.logInfo("initialize")
end

function update(dt)
	frames = frames + 1
	system.logInfo("update " .. dt)
end

function pointerDown(id, button, x, y)
	system.logInfo("down " .. id .. " " .. button .. " " .. x .. " " .. y)
end

function pointerUp(id, button, x, y)
	system.logInfo("up " .. id .. " " .. button .. " " .. x .. " " .. y)
end

function pointerMove(id, x, y, dx, dy)
	system.logInfo("move " .. id .. " " .. x .. " " .. y .. " " .. dx .. " " .. dy)
end

function shutdown()
	system.logInfo("shutdown " .. frames)
end
`

type fixture struct {
	app   *App
	trace *driver.Trace
	logs  *observer.ObservedLogs
	now   time.Time
}

func newFixture(t *testing.T, cfg *config.Config, source string) *fixture {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.lua"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.BaseFolder = dir

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{trace: driver.NewTrace(nil), logs: logs, now: time.Unix(0, 0)}
	clock := system.NewClock(func() time.Time { return f.now })
	f.app = New(cfg, WithLogger(zap.New(core)), WithDriver(f.trace), WithClock(clock))
	t.Cleanup(func() { f.app.Shutdown() })
	return f
}

func (f *fixture) init(t *testing.T) {
	t.Helper()
	if err := f.app.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

func (f *fixture) scriptLogs() []string {
	var out []string
	for _, e := range f.logs.FilterField(zap.String("source", "script")).All() {
		out = append(out, e.Message)
	}
	return out
}

func TestApp_Lifecycle(t *testing.T) {
	f := newFixture(t, nil, lifecycle)
	f.init(t)

	for range 2 {
		f.now = f.now.Add(500 * time.Millisecond)
		f.app.Step(1)
	}
	if err := f.app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := f.app.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}

	want := []string{"initialize", "update 0.5", "update 0.5", "shutdown 2"}
	if got := f.scriptLogs(); !slices.Equal(got, want) {
		t.Fatalf("script log = %q, want %q", got, want)
	}
}

func TestApp_PointerHooks(t *testing.T) {
	f := newFixture(t, nil, lifecycle)
	f.init(t)

	in := f.app.Input()
	in.PointerDown(1, 0, input.Point{X: 2.5, Y: 3})
	in.PointerMove(1, input.Point{X: 4.5, Y: 2})
	in.PointerUp(1, 0, input.Point{X: 4.5, Y: 2})
	f.app.Step(1)

	want := []string{"initialize", "down 1 0 2.5 3", "move 1 4.5 2 2 -1", "up 1 0 4.5 2", "update 0"}
	if got := f.scriptLogs(); !slices.Equal(got, want) {
		t.Fatalf("script log = %q, want %q", got, want)
	}
}

func TestApp_DeclaredScene(t *testing.T) {
	cfg, err := config.Parse([]byte(`
background_color = [0, 0, 0]

world "main" {
  entity "camera" {
    components = ["Camera"]
    position   = [0, 0, 8]
  }
  entity "box" {
    components = ["Cube", "Teapot"]
    position   = [1, 0, 0]
  }
  view "front" {
    priority = 4
    camera   = "camera"
  }
}
`), "oak.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f := newFixture(t, cfg, `
function initialize()
	local w = sg.findWorld("main")
	system.logInfo(w:findEntity("box"):getName())
end
`)
	f.init(t)

	w := f.app.Worlds().FindWorld("main")
	if w == nil || len(w.Entities()) != 2 {
		t.Fatal("declared world not built")
	}
	views := f.app.Graphics().Views()
	if len(views) != 1 || views[0].Priority() != 4 || views[0].Camera() != w.FindEntity("camera") {
		t.Fatalf("declared view not built: %v", views)
	}
	if f.logs.FilterMessage("unknown component class").Len() != 1 {
		t.Error("unknown component not reported")
	}

	f.app.Step(1)
	if !slices.Equal(f.trace.Views(), []int{4}) {
		t.Errorf("rendered views = %v", f.trace.Views())
	}
	lines := strings.Join(f.trace.Lines(), "\n")
	if !strings.Contains(lines, "clear-color (0, 0, 0)") || !strings.Contains(lines, "cube at=(1, 0, 0)") {
		t.Errorf("frame = %s", lines)
	}
	if got := f.scriptLogs(); !slices.Equal(got, []string{"box"}) {
		t.Errorf("script log = %q", got)
	}
}

func TestApp_ScriptViewsTornDown(t *testing.T) {
	f := newFixture(t, nil, `
function initialize()
	local w = sg.createWorld("scratch")
	local v = graphics.createView(w)
	v:setCamera(w:createEntity("eye"))
end
`)
	f.init(t)
	if len(f.app.Graphics().Views()) != 1 {
		t.Fatal("script view missing")
	}

	if err := f.app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if len(f.app.Graphics().Views()) != 0 || len(f.app.Worlds().Worlds()) != 0 {
		t.Error("views or worlds survived shutdown")
	}
}

func TestApp_RuntimeErrorKeepsRunning(t *testing.T) {
	f := newFixture(t, nil, `
frames = 0
function update()
	frames = frames + 1
	if frames == 1 then error("first frame") end
	system.logInfo("frame " .. frames)
end
`)
	f.init(t)
	f.app.Step(2)

	if f.logs.FilterMessage("script error").Len() != 1 {
		t.Errorf("expected one script error")
	}
	if got := f.scriptLogs(); !slices.Equal(got, []string{"frame 2"}) {
		t.Errorf("script log = %q", got)
	}
	if len(f.trace.Views()) != 0 || !slices.Contains(f.trace.Lines(), "clear") {
		t.Error("frames not rendered")
	}
}

func TestApp_MissingScript(t *testing.T) {
	cfg := config.Default()
	cfg.Script = "absent.lua"
	f := newFixture(t, cfg, "")

	err := f.app.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected a load error")
	}
	e, ok := err.(*errors.Error)
	if !ok || e.Phase != errors.PhaseLoad {
		t.Fatalf("error = %v", err)
	}
	if err := f.app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestApp_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "python"
	f := newFixture(t, cfg, "")

	if err := f.app.Initialize(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if err := f.app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestApp_UpdateBeforeInitialize(t *testing.T) {
	f := newFixture(t, nil, "")
	defer func() {
		if _, ok := errors.AsContract(recover()); !ok {
			t.Fatal("expected contract violation")
		}
	}()
	f.app.Update()
}

func TestApp_Run(t *testing.T) {
	cfg := config.Default()
	cfg.FrameRate = 200
	f := newFixture(t, cfg, `function update() system.logInfo("tick") end`)
	f.init(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := f.app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.scriptLogs()) == 0 {
		t.Error("no frames ran")
	}
}

func TestSignatures(t *testing.T) {
	sigs := Signatures()
	for _, prefix := range []string{"system.logInfo: func(string)", "sg.createWorld: func(string) -> World", "graphics.createView: func(World) -> View", "World.createEntity: func(string) -> Entity", "View.setPriority: func(s64)"} {
		if !slices.ContainsFunc(sigs, func(s string) bool { return strings.HasPrefix(s, prefix) }) {
			t.Errorf("no signature starts with %q", prefix)
		}
	}
}
