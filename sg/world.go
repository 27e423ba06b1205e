package sg

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/oak/errors"
)

// WorldListener observes world lifecycle. WorldCreated is sent after the
// world is registered; WorldDestroyed after its entities were destroyed.
type WorldListener interface {
	WorldCreated(w *World)
	WorldDestroyed(w *World)
}

// EntityListener observes entity destruction.
type EntityListener interface {
	EntityDestroyed(e *Entity)
}

// Option configures a WorldManager.
type Option func(*WorldManager)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(m *WorldManager) {
		if l != nil {
			m.log = l
		}
	}
}

// WorldManager owns every world.
type WorldManager struct {
	log             *zap.Logger
	factories       *ComponentFactories
	worlds          []*World
	listeners       []WorldListener
	entityListeners []EntityListener
}

// NewWorldManager creates a manager with no worlds.
func NewWorldManager(opts ...Option) *WorldManager {
	m := &WorldManager{log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.factories = newComponentFactories(m.log)
	return m
}

// Factories returns the component factory registry shared by every world.
func (m *WorldManager) Factories() *ComponentFactories { return m.factories }

// AddWorldListener subscribes l to world lifecycle events.
func (m *WorldManager) AddWorldListener(l WorldListener) {
	m.listeners = append(m.listeners, l)
}

// RemoveWorldListener unsubscribes l.
func (m *WorldManager) RemoveWorldListener(l WorldListener) {
	if i := slices.Index(m.listeners, l); i >= 0 {
		m.listeners = slices.Delete(m.listeners, i, i+1)
	}
}

// AddEntityListener subscribes l to entity destruction.
func (m *WorldManager) AddEntityListener(l EntityListener) {
	m.entityListeners = append(m.entityListeners, l)
}

// RemoveEntityListener unsubscribes l.
func (m *WorldManager) RemoveEntityListener(l EntityListener) {
	if i := slices.Index(m.entityListeners, l); i >= 0 {
		m.entityListeners = slices.Delete(m.entityListeners, i, i+1)
	}
}

// CreateWorld registers a new world and notifies listeners.
func (m *WorldManager) CreateWorld(name string) *World {
	w := &World{name: name, manager: m}
	m.worlds = append(m.worlds, w)
	m.log.Debug("world created", zap.String("world", name))
	for _, l := range slices.Clone(m.listeners) {
		l.WorldCreated(w)
	}
	return w
}

// DestroyWorld destroys the entities of w, unregisters it and notifies
// listeners. w must be registered.
func (m *WorldManager) DestroyWorld(w *World) {
	i := slices.Index(m.worlds, w)
	if i < 0 {
		errors.Fatal(errors.PhaseScene, "trying to destroy an unexisting world")
	}
	for j := len(w.entities) - 1; j >= 0; j-- {
		w.DestroyEntity(w.entities[j])
	}
	m.worlds = slices.Delete(m.worlds, i, i+1)
	w.destroyed = true
	m.log.Debug("world destroyed", zap.String("world", w.name))
	for _, l := range slices.Clone(m.listeners) {
		l.WorldDestroyed(w)
	}
}

// Worlds returns the registered worlds in creation order.
func (m *WorldManager) Worlds() []*World {
	return slices.Clone(m.worlds)
}

// FindWorld returns the first world called name, or nil.
func (m *WorldManager) FindWorld(name string) *World {
	for _, w := range m.worlds {
		if w.name == name {
			return w
		}
	}
	return nil
}

// Close destroys every remaining world, newest first.
func (m *WorldManager) Close() {
	for len(m.worlds) > 0 {
		m.DestroyWorld(m.worlds[len(m.worlds)-1])
	}
}

// World is a logical simulation scope.
type World struct {
	manager   *WorldManager
	name      string
	entities  []*Entity
	destroyed bool
}

func (w *World) Name() string { return w.name }

// Alive reports whether w is still registered with its manager.
func (w *World) Alive() bool { return !w.destroyed }

// CreateEntity adds an entity at the origin with identity rotation.
func (w *World) CreateEntity(name string) *Entity {
	errors.Assert(!w.destroyed, errors.PhaseScene, "world %q is destroyed", w.name)
	e := &Entity{name: name, world: w, rotation: identity}
	w.entities = append(w.entities, e)
	return e
}

// DestroyEntity detaches the components of e and removes it from w.
func (w *World) DestroyEntity(e *Entity) {
	i := slices.Index(w.entities, e)
	if i < 0 {
		errors.Fatal(errors.PhaseScene, "entity %q does not belong to world %q", e.name, w.name)
	}
	for j := len(e.components) - 1; j >= 0; j-- {
		e.components[j].Detach()
	}
	e.components = nil
	w.entities = slices.Delete(w.entities, i, i+1)
	e.destroyed = true
	for _, l := range slices.Clone(w.manager.entityListeners) {
		l.EntityDestroyed(e)
	}
}

// Entities returns the entities of w in creation order.
func (w *World) Entities() []*Entity {
	return slices.Clone(w.entities)
}

// FindEntity returns the first entity called name, or nil.
func (w *World) FindEntity(name string) *Entity {
	for _, e := range w.entities {
		if e.name == name {
			return e
		}
	}
	return nil
}
