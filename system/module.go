package system

import (
	"go.uber.org/zap"
)

// Module backs the system script module.
type Module struct {
	log   *zap.Logger
	clock *Clock
}

// NewModule creates a module logging to log and reading clock.
func NewModule(log *zap.Logger, clock *Clock) *Module {
	if log == nil {
		log = zap.NewNop()
	}
	return &Module{log: log.With(zap.String("source", "script")), clock: clock}
}

func (m *Module) LogInfo(text string) { m.log.Info(text) }
func (m *Module) LogWarning(text string) { m.log.Warn(text) }
func (m *Module) LogError(text string) { m.log.Error(text) }

// GetTime returns seconds since the clock was reset.
func (m *Module) GetTime() float64 { return m.clock.Time() }

// GetElapsedTime returns the duration of the previous frame in seconds.
func (m *Module) GetElapsedTime() float64 { return m.clock.Elapsed() }
