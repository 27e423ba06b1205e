package oak

// Memory is a guest's linear memory as seen by the host.
type Memory interface {
	// Read returns a copy of length bytes at offset.
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}

// Allocator reserves memory inside a guest.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
}
