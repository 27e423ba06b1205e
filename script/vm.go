package script

import (
	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/marshal"
)

// VM is a stack-based script virtual machine.
type VM interface {
	marshal.Stack
	bind.Binder

	// Function pushes the global callable name. It returns false and leaves
	// the stack untouched when name is missing or not callable.
	Function(name string) bool
	// Call runs a protected call of the callable below the top nargs slots.
	// The callable and its arguments are popped. Runtime errors are returned;
	// contract violations raised by bound native functions propagate as
	// panics after the VM has restored its stack.
	Call(nargs int) error
	// LoadFile loads and runs the script at path.
	LoadFile(path string) error
	// Eval loads and runs source. name labels the chunk in error messages.
	Eval(name, source string) error
	Close() error
}
