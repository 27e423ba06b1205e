package wasmvm

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/oak"
	"github.com/wippyai/oak/errors"
)

// CabiRealloc is the guest export used to allocate memory.
const CabiRealloc = "cabi_realloc"

// guestMemory adapts a wazero memory to oak.Memory.
type guestMemory struct {
	mem api.Memory
}

func memoryOf(mod api.Module) (guestMemory, error) {
	mem := mod.Memory()
	if mem == nil {
		return guestMemory{}, errors.NotFound(errors.PhaseHost, "memory of module", mod.Name())
	}
	return guestMemory{mem: mem}, nil
}

func (m guestMemory) Read(offset, length uint32) ([]byte, error) {
	buf, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseHost, nil, int(offset)+int(length), int(m.mem.Size()))
	}
	return append([]byte(nil), buf...), nil
}

func (m guestMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseHost, nil, int(offset)+len(data), int(m.mem.Size()))
	}
	return nil
}

func (m guestMemory) Size() uint32 {
	return m.mem.Size()
}

// allocator calls a guest's cabi_realloc as malloc.
type allocator struct {
	ctx   context.Context
	fn    api.Function
	stack [4]uint64
}

func allocatorOf(ctx context.Context, mod api.Module) (*allocator, error) {
	fn := mod.ExportedFunction(CabiRealloc)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseHost, "export", CabiRealloc)
	}
	return &allocator{ctx: ctx, fn: fn}, nil
}

func (a *allocator) Alloc(size, align uint32) (uint32, error) {
	a.stack[0] = 0
	a.stack[1] = 0
	a.stack[2] = uint64(align)
	a.stack[3] = uint64(size)
	if err := a.fn.CallWithStack(a.ctx, a.stack[:]); err != nil {
		return 0, errors.AllocationFailed(errors.PhaseHost, size, align, err)
	}
	return api.DecodeU32(a.stack[0]), nil
}

// writeText copies s into guest memory and returns its pointer and length.
func writeText(ctx context.Context, mod api.Module, s string) (uint32, uint32, error) {
	if len(s) == 0 {
		return 0, 0, nil
	}
	mem, err := memoryOf(mod)
	if err != nil {
		return 0, 0, err
	}
	alloc, err := allocatorOf(ctx, mod)
	if err != nil {
		return 0, 0, err
	}
	return storeText(mem, alloc, s)
}

func storeText(mem oak.Memory, alloc oak.Allocator, s string) (uint32, uint32, error) {
	size := uint32(len(s))
	ptr, err := alloc.Alloc(size, 1)
	if err != nil {
		return 0, 0, err
	}
	if err := mem.Write(ptr, []byte(s)); err != nil {
		return 0, 0, err
	}
	return ptr, size, nil
}

// readText copies length bytes at ptr out of guest memory.
func readText(mod api.Module, ptr, length uint32) (string, error) {
	if length == 0 {
		return "", nil
	}
	mem, err := memoryOf(mod)
	if err != nil {
		return "", err
	}
	return loadText(mem, ptr, length)
}

func loadText(mem oak.Memory, ptr, length uint32) (string, error) {
	buf, err := mem.Read(ptr, length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

var (
	_ oak.Memory    = guestMemory{}
	_ oak.Allocator = (*allocator)(nil)
)
