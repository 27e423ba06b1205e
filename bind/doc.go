// Package bind declares the native surface visible to scripts.
//
// A Registry holds modules (one long-lived native instance under an exposed
// name) and classes (native types whose objects scripts hold as handles).
// Each function or method is published as an Entry whose Adapter speaks the
// VM calling convention through a marshal.Stack:
//
//	reg := bind.NewRegistry()
//	sys := reg.RegisterModule("system", clock)
//	bind.Func1(sys, "logInfo", logger.LogInfo)
//	bind.Func0R(sys, "getTime", clock.Time)
//
//	views := bind.RegisterClass[graphics.View](reg, "View")
//	bind.Method1(views, "setPriority", (*graphics.View).SetPriority)
//
// Adapters pop arguments in reverse declaration order (the last declared
// argument is on top), then the receiver for methods, convert each through
// the marshaller, call the target and push the result.
//
// Supported Go types are int, int32, int64, bool, float32, float64, string,
// value.Vec3, value.Quat, value.Ref and *T for any registered class T.
// Using any other type is a binding-author error and panics at registration.
//
// Objects of a class cross the boundary as generation-checked handles.
// Unwrapping a handle whose object was released is a recoverable error that
// reaches the script as a runtime error.
//
// A VM makes the registry visible to scripts by implementing Binder and
// calling Install.
package bind
