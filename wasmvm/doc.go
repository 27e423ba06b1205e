// Package wasmvm runs core WebAssembly guests as scripts on wazero.
//
// Every bound module and class becomes a wazero host module named after it,
// exporting one function per entry. Values cross the boundary flattened to
// core types:
//
//	int   -> i64
//	bool  -> i32 (0 or 1)
//	float -> f64
//	vec3  -> f64 f64 f64          (x, y, z)
//	quat  -> f64 f64 f64 f64      (w, x, y, z)
//	text  -> i32 i32              (pointer, length in guest memory)
//	ref   -> i64                  (handle, 0 is nil)
//
// Methods take the receiver handle first. Results use multiple return
// values. Text handed to a guest, as an argument or a result, is copied
// into memory obtained from the guest's exported cabi_realloc.
//
// Guests are reactors: a module is instantiated by LoadFile or Eval, its
// optional _initialize export runs once, and its other exports become the
// callable script functions. When two guests export the same name the most
// recently loaded one wins.
package wasmvm
