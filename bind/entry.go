package bind

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/value"
)

// Target says how an entry is invoked.
type Target uint8

const (
	// ModuleFunction is called as owner.name(args...).
	ModuleFunction Target = iota
	// InstanceMethod is called as object:name(args...) with the receiver
	// below the arguments.
	InstanceMethod
)

func (t Target) String() string {
	if t == InstanceMethod {
		return "method"
	}
	return "function"
}

// Adapter runs one binding against a VM stack and returns the number of
// slots it pushed.
type Adapter func(s marshal.Stack) (int, error)

// Entry is one published function or method. It is immutable after
// registration.
type Entry struct {
	Adapter Adapter
	Owner   string
	Name    string
	Args    []value.Kind
	Return  value.Kind
	Target  Target

	// Classes names the class of each KindRef argument, "" elsewhere.
	Classes []string

	// ReturnClass names the class of a KindRef result.
	ReturnClass string
}

// Params returns the stack kinds the adapter consumes, receiver first.
func (e *Entry) Params() []value.Kind {
	if e.Target != InstanceMethod {
		return e.Args
	}
	params := make([]value.Kind, 0, len(e.Args)+1)
	params = append(params, value.KindRef)
	return append(params, e.Args...)
}

// ParamClasses returns the class name per Params entry, receiver first.
func (e *Entry) ParamClasses() []string {
	if e.Target != InstanceMethod {
		return e.Classes
	}
	classes := make([]string, 0, len(e.Classes)+1)
	classes = append(classes, e.Owner)
	return append(classes, e.Classes...)
}

// Arity returns the number of stack slots the adapter consumes.
func (e *Entry) Arity() int {
	return marshal.Arity(e.Params())
}

// Function describes e as a WIT function. Class references become
// resources named after their class and methods borrow their receiver.
func (e *Entry) Function() *wit.Function {
	f := &wit.Function{Name: e.Name, Kind: &wit.Freestanding{}}
	if e.Target == InstanceMethod {
		self := resourceType(e.Owner)
		f.Kind = &wit.Method{Type: self}
		f.Params = append(f.Params, wit.Param{
			Name: "self",
			Type: &wit.TypeDef{Kind: &wit.Borrow{Type: self}},
		})
	}
	for i, k := range e.Args {
		var class string
		if i < len(e.Classes) {
			class = e.Classes[i]
		}
		f.Params = append(f.Params, wit.Param{Type: witType(k, class)})
	}
	if e.Return != value.KindNone {
		f.Results = []wit.Param{{Type: witType(e.Return, e.ReturnClass)}}
	}
	return f
}

// Signature renders the entry as its owner followed by the WIT function,
// e.g. "View.setPriority: func(s64);" or "system.getTime: func() -> f64;".
func (e *Entry) Signature() string {
	return e.Owner + "." + e.Function().WIT(nil, "")
}

func resourceType(class string) *wit.TypeDef {
	return &wit.TypeDef{Name: &class, Kind: &wit.Resource{}}
}

func witType(k value.Kind, class string) wit.Type {
	if k == value.KindRef && class != "" {
		return resourceType(class)
	}
	return k.WIT()
}
