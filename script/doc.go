// Package script lets native code invoke scripted functions safely.
//
// An Engine wraps one VM and runs the call protocol:
//
//	if eng.StartCall("pointerDown") {
//		eng.AppendInt(id)
//		eng.AppendInt(button)
//		eng.AppendFloat(x)
//		eng.AppendFloat(y)
//		eng.EndCall()
//	}
//
// The engine is either Idle or Accumulating:
//
//	Idle --StartCall(found)--> Accumulating --Append*--> Accumulating --EndCall--> Idle
//	Idle --StartCall(missing)--> Idle
//
// StartCall reports false for a missing hook so optional hooks can be
// skipped. Appending while Idle and ending while Idle are no-ops. EndCall
// runs a protected call; a runtime error raised by the script goes to the
// error sink (one warning log by default) and the engine returns to Idle.
// Starting a call while one is accumulating is a contract violation.
//
// Only one call is in flight at a time. A scripted function may call bound
// native functions, which may start a new call only after the current one
// has returned to Idle.
package script
