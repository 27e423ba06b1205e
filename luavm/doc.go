// Package luavm runs scripts on gopher-lua.
//
// The VM maps the marshaller's stack directly onto the Lua stack. Numbers
// are Lua numbers; integers are numbers truncated toward zero when read
// back. Booleans follow Lua truthiness. References are userdata carrying a
// value.Ref whose metatable is the class table, so methods are called with
// the colon syntax:
//
//	local world = sg.createWorld("main")
//	local cam = world:createEntity("camera")
//	cam:setPosition(0, 2, -5)
//	local view = graphics.createView(world)
//	view:setCamera(cam)
//
// Composite values are flattened: a vec3 argument is three numbers and a
// vec3 result is three return values.
//
// Protected calls go through one persistent error handler. Runtime errors
// come back as *lua.ApiError without the stack trace. Contract violations
// raised by bound functions are held while Lua unwinds and re-raised as a
// panic once the protected call has returned.
package luavm
