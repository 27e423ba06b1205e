package input

import (
	"slices"

	"go.uber.org/zap"
)

// Point is a position in window coordinates.
type Point struct {
	X, Y float64
}

func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

// Listener receives pointer events.
type Listener interface {
	PointerDown(id, button int, pos Point)
	PointerUp(id, button int, pos Point)
	PointerMove(id int, pos, movement Point)
}

// EventType identifies a queued event.
type EventType uint8

const (
	EventDown EventType = iota
	EventUp
	EventMove
)

func (t EventType) String() string {
	switch t {
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventMove:
		return "move"
	default:
		return "unknown"
	}
}

// Event is one queued pointer event.
type Event struct {
	Pos      Point
	Movement Point
	ID       int
	Button   int
	Type     EventType
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for dispatched events.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine queues pointer events until Update.
type Engine struct {
	log       *zap.Logger
	last      map[int]Point
	listeners []Listener
	queue     []Event
}

func New(opts ...Option) *Engine {
	e := &Engine{
		log:  zap.NewNop(),
		last: make(map[int]Point),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) RemoveListener(l Listener) {
	if i := slices.Index(e.listeners, l); i >= 0 {
		e.listeners = slices.Delete(e.listeners, i, i+1)
	}
}

// PointerDown queues a press of button by pointer id.
func (e *Engine) PointerDown(id, button int, pos Point) {
	e.last[id] = pos
	e.queue = append(e.queue, Event{Type: EventDown, ID: id, Button: button, Pos: pos})
}

// PointerUp queues a release of button by pointer id.
func (e *Engine) PointerUp(id, button int, pos Point) {
	e.last[id] = pos
	e.queue = append(e.queue, Event{Type: EventUp, ID: id, Button: button, Pos: pos})
}

// PointerMove queues a move of pointer id. Movement is relative to the
// last known position of that pointer, zero for its first event.
func (e *Engine) PointerMove(id int, pos Point) {
	var movement Point
	if prev, ok := e.last[id]; ok {
		movement = pos.Sub(prev)
	}
	e.last[id] = pos
	e.queue = append(e.queue, Event{Type: EventMove, ID: id, Pos: pos, Movement: movement})
}

// Pending returns the number of queued events.
func (e *Engine) Pending() int { return len(e.queue) }

// Update dispatches the queued events in order. Events queued by listeners
// wait for the next Update.
func (e *Engine) Update() {
	queue := e.queue
	e.queue = nil
	listeners := slices.Clone(e.listeners)
	for _, ev := range queue {
		e.log.Debug("pointer event",
			zap.Stringer("type", ev.Type),
			zap.Int("id", ev.ID),
			zap.Float64("x", ev.Pos.X),
			zap.Float64("y", ev.Pos.Y))
		for _, l := range listeners {
			switch ev.Type {
			case EventDown:
				l.PointerDown(ev.ID, ev.Button, ev.Pos)
			case EventUp:
				l.PointerUp(ev.ID, ev.Button, ev.Pos)
			case EventMove:
				l.PointerMove(ev.ID, ev.Pos, ev.Movement)
			}
		}
	}
}
