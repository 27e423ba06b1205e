// Package app is the application shell. It owns the collaborators of one
// running program and drives the script through its lifecycle:
//
//	initialize()                     once, after the script file is loaded
//	update(elapsed)                  every frame, elapsed in seconds
//	pointerDown(id, button, x, y)    input events, dispatched before update
//	pointerUp(id, button, x, y)
//	pointerMove(id, x, y, dx, dy)
//	shutdown()                       once, before the engine is torn down
//
// Every hook is optional. A hook raising a runtime error is logged and the
// frame goes on.
package app
