// Package value defines the native values that cross the script boundary.
//
// A Value is a tagged union over the fixed set of kinds the marshaller
// understands. Each kind has a fixed stack arity:
//
//	Kind      Arity  Push order      WIT
//	int       1      -               s64
//	bool      1      -               bool
//	float     1      -               f64
//	vec3      3      x, y, z         tuple<f64, f64, f64>
//	quat      4      w, x, y, z      tuple<f64, f64, f64, f64>
//	text      1      -               string
//	ref       1      -               u64 (resource handle)
//
// Composite kinds are pushed in field order and read back from the mirrored
// stack indices, so a push followed by a pop reproduces every field exactly.
package value
