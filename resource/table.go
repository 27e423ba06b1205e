package resource

import (
	"reflect"
	"slices"
	"sync"
)

// Table maps native objects to handles and back. One live handle exists per
// comparable object, so wrapping the same object twice yields the same
// handle.
type Table struct {
	backend   *LocalBackend
	live      map[any]Handle
	observers []Observer
	mu        sync.RWMutex
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
		live:    make(map[any]Handle),
	}
}

// Insert returns the handle of value, allocating one when value has none.
// A closed table returns the invalid handle 0.
func (t *Table) Insert(typeID uint32, value any) Handle {
	key, keyed := liveKey(value)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}
	if keyed {
		if h, ok := t.live[key]; ok {
			t.mu.Unlock()
			return h
		}
	}
	h, err := t.backend.Create(typeID, value)
	if err != nil {
		t.mu.Unlock()
		return 0
	}
	if keyed {
		t.live[key] = h
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h
}

// Get returns the object behind handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetTyped returns the object behind handle when it was inserted with typeID.
func (t *Table) GetTyped(handle Handle, typeID uint32) (any, bool) {
	if id, ok := t.backend.TypeID(handle); !ok || id != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Lookup returns the live handle of value.
func (t *Table) Lookup(value any) (Handle, bool) {
	key, keyed := liveKey(value)
	if !keyed {
		return 0, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.live[key]
	return h, ok
}

// Valid reports whether handle references a live object.
func (t *Table) Valid(handle Handle) bool {
	return t.backend.Valid(handle)
}

// Remove invalidates handle and returns the object it referenced. Every
// copy of the handle held by a script becomes stale.
func (t *Table) Remove(handle Handle) (any, bool) {
	typeID, _ := t.backend.TypeID(handle)
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	if key, keyed := liveKey(value); keyed {
		t.mu.Lock()
		if t.live[key] == handle {
			delete(t.live, key)
		}
		t.mu.Unlock()
	}

	t.notify(Event{Type: EventDropped, Handle: handle, TypeID: typeID, Value: value})
	return value, true
}

// Subscribe adds an observer for handle lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Clear removes every live handle, notifying observers for each.
func (t *Table) Clear() {
	var handles []Handle
	t.backend.Each(func(h Handle, _ uint32, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops every handle without notifying observers and rejects
// further inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	t.closed = true
	clear(t.live)
	t.mu.Unlock()
	return t.backend.Close()
}

// notify runs observers outside the lock so they may call back into the table.
func (t *Table) notify(e Event) {
	t.mu.RLock()
	observers := slices.Clone(t.observers)
	t.mu.RUnlock()
	for _, o := range observers {
		o.OnResourceEvent(e)
	}
}

func liveKey(v any) (any, bool) {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return nil, false
	}
	return v, true
}

// Typed is a view over a Table restricted to one type ID.
type Typed[T any] struct {
	table  *Table
	typeID uint32
}

// NewTyped returns a typed view of table for typeID.
func NewTyped[T any](table *Table, typeID uint32) *Typed[T] {
	return &Typed[T]{table: table, typeID: typeID}
}

// TypeID returns the type ID this view inserts and accepts.
func (v *Typed[T]) TypeID() uint32 { return v.typeID }

// Insert adds value and returns its handle.
func (v *Typed[T]) Insert(value T) Handle {
	return v.table.Insert(v.typeID, value)
}

// Get returns the value for handle when it is live and of this type.
func (v *Typed[T]) Get(handle Handle) (T, bool) {
	var zero T
	raw, ok := v.table.GetTyped(handle, v.typeID)
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Lookup returns the live handle of value.
func (v *Typed[T]) Lookup(value T) (Handle, bool) {
	return v.table.Lookup(value)
}

// Remove drops the value for handle when it is of this type.
func (v *Typed[T]) Remove(handle Handle) (T, bool) {
	var zero T
	if _, ok := v.table.GetTyped(handle, v.typeID); !ok {
		return zero, false
	}
	raw, ok := v.table.Remove(handle)
	if !ok {
		return zero, false
	}
	value, _ := raw.(T)
	return value, true
}
