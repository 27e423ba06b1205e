package wasmvm

import (
	"encoding/binary"
	"math"
)

// Core value type bytes.
const (
	i32 byte = 0x7f
	i64 byte = 0x7e
	f64 byte = 0x7c
)

type wasmImport struct {
	module  string
	name    string
	params  []byte
	results []byte
}

type wasmFunc struct {
	export  string
	params  []byte
	results []byte
	body    []byte
}

// wasmModule encodes a minimal core module: imports come first in the
// function index space, then funcs in order.
type wasmModule struct {
	imports []wasmImport
	funcs   []wasmFunc
	memory  bool
}

func (m wasmModule) encode() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var types, imports, funcs, exports, bodies [][]byte
	for _, imp := range m.imports {
		idx := uint32(len(types))
		types = append(types, funcType(imp.params, imp.results))
		entry := append(wasmName(imp.module), wasmName(imp.name)...)
		entry = append(entry, 0x00)
		imports = append(imports, append(entry, uleb(idx)...))
	}
	if m.memory {
		exports = append(exports, append(wasmName("memory"), 0x02, 0x00))
	}
	for i, fn := range m.funcs {
		idx := uint32(len(types))
		types = append(types, funcType(fn.params, fn.results))
		funcs = append(funcs, uleb(idx))
		if fn.export != "" {
			entry := append(wasmName(fn.export), 0x00)
			exports = append(exports, append(entry, uleb(uint32(len(m.imports)+i))...))
		}
		body := append([]byte{0x00}, fn.body...)
		body = append(body, 0x0b)
		bodies = append(bodies, append(uleb(uint32(len(body))), body...))
	}

	out = append(out, section(1, vec(types))...)
	if len(imports) > 0 {
		out = append(out, section(2, vec(imports))...)
	}
	if len(funcs) > 0 {
		out = append(out, section(3, vec(funcs))...)
	}
	if m.memory {
		out = append(out, section(5, vec([][]byte{{0x00, 0x01}}))...)
	}
	if len(exports) > 0 {
		out = append(out, section(7, vec(exports))...)
	}
	if len(bodies) > 0 {
		out = append(out, section(10, vec(bodies))...)
	}
	return out
}

func funcType(params, results []byte) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(len(params)))...)
	out = append(out, params...)
	out = append(out, uleb(uint32(len(results)))...)
	return append(out, results...)
}

func section(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint32(len(content)))...)
	return append(out, content...)
}

func vec(items [][]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

func wasmName(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// Instructions.

func code(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func localGet(i uint32) []byte { return append([]byte{0x20}, uleb(i)...) }
func call(i uint32) []byte { return append([]byte{0x10}, uleb(i)...) }
func i32Const(v int32) []byte { return append([]byte{0x41}, sleb(int64(v))...) }
func i64Const(v int64) []byte { return append([]byte{0x42}, sleb(v)...) }

func f64Const(v float64) []byte {
	out := []byte{0x44, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(out[1:], math.Float64bits(v))
	return out
}

var unreachable = []byte{0x00}

// reallocFunc is a cabi_realloc that always hands out offset 1024.
var reallocFunc = wasmFunc{
	export:  CabiRealloc,
	params:  []byte{i32, i32, i32, i32},
	results: []byte{i32},
	body:    i32Const(1024),
}
