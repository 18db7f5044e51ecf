package mem

import (
	"fmt"

	"github.com/protonos/runtimecore/arch"
)

// FakeReader is a []byte-backed Reader/Writer used throughout this
// module's tests: a FakeReader addresses bytes starting at Base the same
// way a DirectReader addresses the real process's memory, so the same
// TypeDescriptor/GCDesc/dispatch code runs unmodified against either one.
// Modeled on the teacher's habit of layering a narrow reading interface
// (core.Process's Read* methods) under gocore, swapped here for a buffer
// instead of an ELF core file. Like DirectReader, it decodes multi-byte
// values through an arch.Architecture rather than a package-wide
// assumption, so a test or descdump invocation can target either
// supported profile.
type FakeReader struct {
	Base  Address
	Arch  arch.Architecture
	Bytes []byte
}

// NewFakeReader returns a FakeReader for profile a whose addressable
// range is [base, base+len(b)).
func NewFakeReader(base Address, a arch.Architecture, b []byte) *FakeReader {
	return &FakeReader{Base: base, Arch: a, Bytes: b}
}

func (f *FakeReader) off(a Address) int64 {
	o := a.Sub(f.Base)
	if o < 0 || o >= int64(len(f.Bytes)) {
		panic(fmt.Sprintf("fake read out of range: addr=%#x base=%#x len=%d", a, f.Base, len(f.Bytes)))
	}
	return o
}

func (f *FakeReader) PtrSize() int64 { return int64(f.Arch.PointerSize) }

func (f *FakeReader) ReadU8(a Address) uint8 {
	return f.Bytes[f.off(a)]
}

func (f *FakeReader) ReadU16(a Address) uint16 {
	o := f.off(a)
	return f.Arch.ByteOrder.Uint16(f.Bytes[o : o+2])
}

func (f *FakeReader) ReadU32(a Address) uint32 {
	o := f.off(a)
	return f.Arch.ByteOrder.Uint32(f.Bytes[o : o+4])
}

func (f *FakeReader) ReadU64(a Address) uint64 {
	o := f.off(a)
	return f.Arch.ByteOrder.Uint64(f.Bytes[o : o+8])
}

func (f *FakeReader) ReadI32(a Address) int32 {
	return int32(f.ReadU32(a))
}

// ReadPtr decodes a pointer through Arch.Uintptr, the same width- and
// order-aware path DirectReader uses, rather than assuming a fixed
// 8-byte little-endian layout.
func (f *FakeReader) ReadPtr(a Address) Address {
	o := f.off(a)
	return Address(f.Arch.Uintptr(f.Bytes[o : o+int64(f.Arch.PointerSize)]))
}

func (f *FakeReader) ReadAt(b []byte, a Address) {
	o := f.off(a)
	copy(b, f.Bytes[o:o+int64(len(b))])
}

func (f *FakeReader) WritePtr(a Address, v Address) {
	o := f.off(a)
	f.Arch.PutUintptr(f.Bytes[o:o+int64(f.Arch.PointerSize)], uint64(v))
}

func (f *FakeReader) WriteU32(a Address, v uint32) {
	o := f.off(a)
	f.Arch.ByteOrder.PutUint32(f.Bytes[o:o+4], v)
}
