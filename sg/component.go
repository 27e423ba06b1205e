package sg

import (
	"slices"

	"go.uber.org/zap"
)

// Component is behavior attached to an entity.
type Component interface {
	ClassName() string
	// Detach is called once when the component leaves its entity.
	Detach()
}

// ComponentFactory produces components for the class names it claims. It
// returns nil for names it does not recognise.
type ComponentFactory interface {
	CreateComponent(e *Entity, className string) Component
}

// ComponentFactories maps class names to the factory that claimed them.
type ComponentFactories struct {
	log    *zap.Logger
	byName map[string]ComponentFactory
}

func newComponentFactories(log *zap.Logger) *ComponentFactories {
	return &ComponentFactories{
		log:    log,
		byName: make(map[string]ComponentFactory),
	}
}

// Register claims name for f. Claiming a name twice replaces the previous
// registrant.
func (c *ComponentFactories) Register(name string, f ComponentFactory) {
	if _, ok := c.byName[name]; ok {
		c.log.Debug("component factory replaced", zap.String("class", name))
	}
	c.byName[name] = f
}

// Unregister releases name.
func (c *ComponentFactories) Unregister(name string) {
	delete(c.byName, name)
}

// Registered reports whether a factory claims name.
func (c *ComponentFactories) Registered(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns the claimed class names, sorted.
func (c *ComponentFactories) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Create asks the registrant of className for a component bound to e.
func (c *ComponentFactories) Create(e *Entity, className string) Component {
	f, ok := c.byName[className]
	if !ok {
		return nil
	}
	return f.CreateComponent(e, className)
}
