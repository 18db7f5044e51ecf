// Package desctest builds synthetic TypeDescriptor/GCDesc/dispatch-cell
// byte layouts for unit tests across typedesc, gcdesc, dispatch, and
// assign. It plays the role the teacher's generated core files played for
// gocore_test.go, but since this core's layouts are fixed (not
// DWARF-derived), a plain byte-offset image is the natural fixture —
// there's no toolchain to invoke to produce one.
package desctest

import (
	"encoding/binary"

	"github.com/protonos/runtimecore/arch"
	"github.com/protonos/runtimecore/mem"
)

// Image is a single flat buffer addressed starting at Base, with helpers
// to poke typed values at absolute addresses. Tests lay out descriptors,
// vtables, interface maps, and GCDesc series directly against it and then
// wrap it in a mem.FakeReader to hand to the package under test.
type Image struct {
	Base mem.Address
	Buf  []byte
}

// NewImage allocates an all-zero image of size bytes starting at base.
// Zero-filled matches alloc_zeroed's contract (spec.md §3), which is what
// every real descriptor and object this core touches was produced by.
func NewImage(base mem.Address, size int) *Image {
	return &Image{Base: base, Buf: make([]byte, size)}
}

func (im *Image) off(a mem.Address) int64 {
	return a.Sub(im.Base)
}

// Addr returns the address at byte offset off within the image.
func (im *Image) Addr(off int64) mem.Address {
	return im.Base.Add(off)
}

func (im *Image) PutU8(a mem.Address, v uint8) {
	im.Buf[im.off(a)] = v
}

func (im *Image) PutU16(a mem.Address, v uint16) {
	o := im.off(a)
	binary.LittleEndian.PutUint16(im.Buf[o:o+2], v)
}

func (im *Image) PutU32(a mem.Address, v uint32) {
	o := im.off(a)
	binary.LittleEndian.PutUint32(im.Buf[o:o+4], v)
}

func (im *Image) PutU64(a mem.Address, v uint64) {
	o := im.off(a)
	binary.LittleEndian.PutUint64(im.Buf[o:o+8], v)
}

func (im *Image) PutI32(a mem.Address, v int32) {
	im.PutU32(a, uint32(v))
}

func (im *Image) PutPtr(a mem.Address, v mem.Address) {
	im.PutU64(a, uint64(v))
}

// PutRelPtr writes the 4-byte signed relative offset at slot a such that
// resolving it (slot + offset) lands on target. target == 0 writes the
// spec's "absent optional field" zero sentinel instead.
func (im *Image) PutRelPtr(slot mem.Address, target mem.Address) {
	if target == 0 {
		im.PutI32(slot, 0)
		return
	}
	im.PutI32(slot, int32(target.Sub(slot)))
}

// Reader returns a mem.Reader/Writer backed by this image, targeting the
// AMD64 profile (every fixture in this module lays out an AMD64-shaped
// image; ARM64 differs only in instruction encoding, which this core
// never touches).
func (im *Image) Reader() *mem.FakeReader {
	return mem.NewFakeReader(im.Base, arch.AMD64, im.Buf)
}
