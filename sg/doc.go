// Package sg is a small scene graph: worlds own entities, entities own
// components.
//
// A WorldManager creates and destroys worlds and notifies WorldListeners in
// order, so secondary systems can keep per-world state in step:
//
//	wm := sg.NewWorldManager()
//	wm.AddWorldListener(gfx)
//	w := wm.CreateWorld("main")     // gfx.WorldCreated(w)
//	wm.DestroyWorld(w)              // entities destroyed, then gfx.WorldDestroyed(w)
//
// Components are produced by name through the ComponentFactories registry.
// A factory claims the class names it recognises; asking for an unclaimed
// name yields no component.
package sg
