// Package mem provides the low-level addressing and reading primitives the
// runtime core builds on. Every other package in this module reads
// TypeDescriptors, GCDescs, and dispatch cells through a mem.Reader rather
// than dereferencing pointers directly, so that the same descriptor-parsing
// code can run against a real in-process address space (DirectReader) or
// against a synthetic byte buffer in tests (FakeReader).
package mem

// Address is a machine word naming a byte in the address space the core
// operates over. It is deliberately not a Go pointer: the core must be able
// to represent addresses that don't (yet) correspond to any live Go value,
// such as a relative-pointer target computed by arithmetic.
type Address uint64

// Add returns the address n bytes past a. n may be negative.
func (a Address) Add(n int64) Address {
	return Address(int64(a) + n)
}

// Sub returns a - b, in bytes.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

func (a Address) IsNil() bool {
	return a == 0
}

// Reader abstracts reading from the address space the core is interpreting.
// Both implementations (DirectReader, FakeReader) carry an arch.Architecture
// and decode multi-byte values through its ByteOrder/PointerSize rather than
// a fixed assumption, so the same descriptor-parsing code runs against
// either target profile this core supports (see arch.AMD64, arch.ARM64).
type Reader interface {
	PtrSize() int64
	ReadU8(a Address) uint8
	ReadU16(a Address) uint16
	ReadU32(a Address) uint32
	ReadU64(a Address) uint64
	ReadI32(a Address) int32
	ReadPtr(a Address) Address
	ReadAt(b []byte, a Address)
}

// Writer abstracts the mutations this core performs: initializing the
// fields of memory rthelpers has just received from the allocator
// (spec.md §4.6's new_fast/new_array/new_md_array_*, which store a
// descriptor pointer, an array length, or MD-array dimension words into
// memory nothing else can have observed yet), and SetKD's element store.
// The dispatch engine never writes: it only returns resolved targets, and
// patching a dispatch cell's cache is left to the caller.
type Writer interface {
	WritePtr(a Address, v Address)
	WriteU32(a Address, v uint32)
}

// ReadWriter is the union runtimecore.Hub takes, since it both reads
// descriptors and hands a Writer to rthelpers.
type ReadWriter interface {
	Reader
	Writer
}
