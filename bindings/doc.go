// Package bindings publishes the engine's native surface to scripts.
//
// Three modules are registered on a bind.Registry:
//
//	system    logInfo, logWarning, logError, getTime, getElapsedTime
//	sg        createWorld, destroyWorld, findWorld
//	graphics  createView, destroyView, setBackgroundColor, getBackgroundColor
//
// together with the World, Entity and View classes. RegisterSg must run
// before RegisterGraphics, which refers to the World and Entity classes.
//
// Worlds, entities and views handed to scripts are released when the native
// object is destroyed, so a script holding one gets a stale handle error
// instead of reaching a dead object.
package bindings
