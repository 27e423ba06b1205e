package errors

import "fmt"

// Contract builds the error carried by a contract violation panic.
func Contract(phase Phase, msg string, args ...any) *Error {
	detail := msg
	if len(args) > 0 {
		detail = fmt.Sprintf(msg, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindContract,
		Detail: detail,
	}
}

// Fatal panics with a contract violation. It never returns.
func Fatal(phase Phase, msg string, args ...any) {
	panic(Contract(phase, msg, args...))
}

// Assert panics with a contract violation when cond is false.
func Assert(cond bool, phase Phase, msg string, args ...any) {
	if !cond {
		Fatal(phase, msg, args...)
	}
}

// AsContract reports whether a recovered panic value is a contract violation.
func AsContract(recovered any) (*Error, bool) {
	e, ok := recovered.(*Error)
	if !ok || e.Kind != KindContract {
		return nil, false
	}
	return e, true
}
