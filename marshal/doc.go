// Package marshal converts between native values and a script VM's
// dynamic stack.
//
// A Stack is the narrow view of a VM the marshaller needs: push primitive
// slots and read them back by index, where negative indices count from the
// top (-1 is the top slot). Push writes composite values in field order:
//
//	vec3: x, y, z          -> slots -3, -2, -1
//	quat: w, x, y, z       -> slots -4, -3, -2, -1
//
// Pop reads the same fields from the mirrored indices and then removes the
// whole arity, so Pop(s, k) after Push(s, v) yields v.
//
// Marshalling never fails recoverably. Asking for a kind the marshaller does
// not know is a binding mismatch and panics with a contract violation.
package marshal
