package resource

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("resource backend closed")

// LocalBackend is an in-memory slot arena. Dropping a slot bumps its
// generation so handles issued before the drop never resolve again.
type LocalBackend struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value      any
	typeID     uint32
	generation uint32
	valid      bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Create stores a value and returns a handle.
func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if n := len(b.freeList); n > 0 {
		idx := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		e := &b.entries[idx]
		e.value = value
		e.typeID = typeID
		e.valid = true
		return makeHandle(idx, e.generation), nil
	}

	idx := uint32(len(b.entries))
	b.entries = append(b.entries, entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	})
	return makeHandle(idx, 0), nil
}

// lookup returns the live entry for handle. Caller holds mu.
func (b *LocalBackend) lookup(handle Handle) (*entry, bool) {
	if handle == 0 {
		return nil, false
	}
	idx := handle.Index()
	if int(idx) >= len(b.entries) {
		return nil, false
	}
	e := &b.entries[idx]
	if !e.valid || e.generation != handle.Generation() {
		return nil, false
	}
	return e, true
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// TypeID returns the type ID recorded for handle.
func (b *LocalBackend) TypeID(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle)
	if !ok {
		return 0, false
	}
	return e.typeID, true
}

// Valid reports whether handle references a live slot.
func (b *LocalBackend) Valid(handle Handle) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.lookup(handle)
	return ok
}

// Drop removes a value and returns it. The slot's generation is bumped
// before it goes back on the free list.
func (b *LocalBackend) Drop(handle Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle)
	if !ok {
		return nil, false
	}

	value := e.value
	e.value = nil
	e.valid = false
	e.generation++
	b.freeList = append(b.freeList, handle.Index())
	return value, true
}

// Len returns the number of live slots.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries) - len(b.freeList)
}

// Each calls fn for every live slot until fn returns false.
func (b *LocalBackend) Each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	type item struct {
		h      Handle
		typeID uint32
		value  any
	}
	items := make([]item, 0, len(b.entries))
	for i := range b.entries {
		e := &b.entries[i]
		if e.valid {
			items = append(items, item{makeHandle(uint32(i), e.generation), e.typeID, e.value})
		}
	}
	b.mu.RUnlock()

	for _, it := range items {
		if !fn(it.h, it.typeID, it.value) {
			return
		}
	}
}

// Close releases every slot and rejects further creates.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.entries = nil
	b.freeList = nil
	return nil
}
