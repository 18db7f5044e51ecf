package mem

import (
	"unsafe"

	"github.com/protonos/runtimecore/arch"
)

// DirectReader reads (and, through the Writer half, patches) the calling
// process's own address space. This is what the kernel core uses at
// runtime: unlike the teacher's internal/core, which read another,
// ptrace'd process's memory out of an ELF core file, this core *is* the
// process whose memory it's interpreting, so a raw unsafe.Pointer
// dereference is the correct and only primitive needed. Pointer width and
// byte order still come from Arch rather than from the host Go runtime's
// own word size, because the memory being interpreted is a boot image
// built for Arch's target, which need not match the process reading it
// (e.g. an ARM64 image inspected from an AMD64 tool build).
type DirectReader struct {
	Arch arch.Architecture
}

// NewDirectReader returns a DirectReader for the given target profile
// (arch.AMD64 or arch.ARM64, on every target this core currently
// supports).
func NewDirectReader(a arch.Architecture) DirectReader {
	return DirectReader{Arch: a}
}

func (r DirectReader) PtrSize() int64 { return int64(r.Arch.PointerSize) }

func (DirectReader) ReadU8(a Address) uint8 {
	return *(*uint8)(unsafe.Pointer(uintptr(a)))
}

func (r DirectReader) ReadU16(a Address) uint16 {
	return r.Arch.ByteOrder.Uint16(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), 2))
}

func (r DirectReader) ReadU32(a Address) uint32 {
	return r.Arch.ByteOrder.Uint32(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), 4))
}

func (r DirectReader) ReadU64(a Address) uint64 {
	return r.Arch.ByteOrder.Uint64(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), 8))
}

func (r DirectReader) ReadI32(a Address) int32 {
	return int32(r.ReadU32(a))
}

// ReadPtr decodes a pointer through Arch.Uintptr rather than dereferencing
// a native Go pointer, so a cross-profile pointer width is honored exactly
// like every other multi-byte field.
func (r DirectReader) ReadPtr(a Address) Address {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), r.Arch.PointerSize)
	return Address(r.Arch.Uintptr(buf))
}

func (DirectReader) ReadAt(b []byte, a Address) {
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), len(b))
	copy(b, src)
}

func (r DirectReader) WritePtr(a Address, v Address) {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), r.Arch.PointerSize)
	r.Arch.PutUintptr(buf, uint64(v))
}

func (r DirectReader) WriteU32(a Address, v uint32) {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(a))), 4)
	r.Arch.ByteOrder.PutUint32(buf, v)
}
