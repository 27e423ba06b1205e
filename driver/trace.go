package driver

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/oak/graphics"
	"github.com/wippyai/oak/value"
)

// Trace is a driver that records the calls of the current frame. A frame
// starts with SetClearColor.
type Trace struct {
	log    *zap.Logger
	lines  []string
	views  []int
	frames int
}

// NewTrace creates a Trace. Each recorded line is also logged at debug
// level when log is not nil.
func NewTrace(log *zap.Logger) *Trace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trace{log: log}
}

func (t *Trace) record(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	t.lines = append(t.lines, line)
	t.log.Debug("draw", zap.String("call", line))
}

func (t *Trace) SetClearColor(c value.Vec3) {
	t.Reset()
	t.frames++
	t.record("clear-color %v", c)
}

func (t *Trace) SetClearDepth(d float64) { t.record("clear-depth %g", d) }
func (t *Trace) Clear() { t.record("clear") }
func (t *Trace) EndView() { t.record("end") }

func (t *Trace) BeginView(priority int, eye graphics.Eye) {
	t.views = append(t.views, priority)
	t.record("view priority=%d eye=%v", priority, eye.Position)
}

func (t *Trace) DrawCube(center value.Vec3, _ value.Quat, size float64, color value.Vec3) {
	t.record("cube at=%v size=%g color=%v", center, size, color)
}

func (t *Trace) DrawQuad(center value.Vec3, _ value.Quat, size float64, color value.Vec3) {
	t.record("quad at=%v size=%g color=%v", center, size, color)
}

// Frames returns the number of frames started.
func (t *Trace) Frames() int { return t.frames }

// Lines returns the recorded calls.
func (t *Trace) Lines() []string { return slices.Clone(t.lines) }

// Views returns the priorities of every view begun, in render order.
func (t *Trace) Views() []int { return slices.Clone(t.views) }

// Reset forgets everything recorded.
func (t *Trace) Reset() {
	t.lines = nil
	t.views = nil
}

var _ graphics.Driver = (*Trace)(nil)
