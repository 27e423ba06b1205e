// Package resource provides generation-checked handles for native objects
// that are handed to scripts.
//
// Scripts never see Go pointers. Every native object a script can hold
// (a world, an entity, a view) is stored in a Table and the script receives
// an opaque Handle instead. When the object is destroyed its handle is
// removed; the slot may be reused later, but under a new generation, so an
// old handle held by a script is detectably invalid rather than silently
// pointing at a different object.
//
// # Handle Layout
//
//	 63            32 31             0
//	┌────────────────┬────────────────┐
//	│   generation   │  slot index+1  │
//	└────────────────┴────────────────┘
//
// Handle 0 is reserved and always invalid.
//
// # Table
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, view)
//
//	// The same object always maps to the same live handle
//	again, _ := table.Lookup(view)
//
//	// Type-checked retrieval
//	value, ok := table.GetTyped(handle, typeID)
//
//	// Remove invalidates the handle
//	table.Remove(handle)
//
// # Observers
//
// Register observers to track handle lifecycle events:
//
//	table.Subscribe(observer) // receives EventCreated / EventDropped
//
// # Memory Management
//
// Handles are not garbage collected. The owner of the native object must
// call Remove (or Release through the binding layer) when the object dies.
package resource
