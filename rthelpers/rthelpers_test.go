package rthelpers

import (
	"testing"

	"github.com/protonos/runtimecore/internal/desctest"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// bumpAllocator is a trivial linear allocator over a desctest.Image,
// standing in for the real collector's alloc_zeroed.
type bumpAllocator struct {
	im   *desctest.Image
	next mem.Address
	end  mem.Address
}

func newBumpAllocator(im *desctest.Image, start, size int64) *bumpAllocator {
	return &bumpAllocator{im: im, next: im.Base.Add(start), end: im.Base.Add(start + size)}
}

func (a *bumpAllocator) AllocZeroed(size int64) mem.Address {
	obj := a.next
	if obj.Add(size) > a.end {
		return 0
	}
	a.next = obj.Add(size)
	return obj
}

func descriptorFor(im *desctest.Image, addr mem.Address, flags typedesc.Flags, baseSize uint32, componentSize uint16) typedesc.TypeDescriptor {
	im.PutU16(addr.Add(0), componentSize)
	im.PutU16(addr.Add(2), uint16(flags>>16))
	im.PutU32(addr.Add(4), baseSize)
	im.PutPtr(addr.Add(8), 0)
	im.PutU16(addr.Add(16), 0)
	im.PutU16(addr.Add(18), 0)
	im.PutU32(addr.Add(20), 0)
	return typedesc.New(im.Reader(), addr)
}

func TestNewFastStoresDescriptorAndZeroes(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x1000_0000), 0x1000)
	desc := descriptorFor(im, mem.Address(0x1000_0100), 0, 24, 0)
	alloc := newBumpAllocator(im, 0x200, 0x100)
	h := New(alloc, im.Reader())

	obj := h.NewFast(desc)
	if obj == 0 {
		t.Fatalf("NewFast returned 0")
	}
	if got := im.Reader().ReadPtr(obj); got != desc.Addr {
		t.Fatalf("object header = %#x, want descriptor %#x", got, desc.Addr)
	}
}

func TestNewFastValueTypeGetsExtraSlot(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x1000_1000), 0x1000)
	desc := descriptorFor(im, mem.Address(0x1000_1100), typedesc.IsValueType, 16, 0)
	alloc := newBumpAllocator(im, 0x200, 0x100)
	h := New(alloc, im.Reader())

	before := alloc.next
	h.NewFast(desc)
	used := alloc.next.Sub(before)
	if used != 24 {
		t.Fatalf("allocated %d bytes, want 24 (base_size=16 + 8)", used)
	}
}

func TestNewArrayStoresDescriptorAndLength(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x1000_2000), 0x2000)
	desc := descriptorFor(im, mem.Address(0x1000_2100), typedesc.HasComponentSize, 24, 8)
	alloc := newBumpAllocator(im, 0x300, 0x1000)
	h := New(alloc, im.Reader())

	obj := h.NewArray(desc, 5)
	if obj == 0 {
		t.Fatalf("NewArray returned 0")
	}
	if got := im.Reader().ReadPtr(obj); got != desc.Addr {
		t.Fatalf("descriptor ptr = %#x, want %#x", got, desc.Addr)
	}
	if got := im.Reader().ReadU32(obj.Add(8)); got != 5 {
		t.Fatalf("length = %d, want 5", got)
	}
}

func TestNewMDArray2DLayoutAndAccessors(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x1000_3000), 0x4000)
	desc := descriptorFor(im, mem.Address(0x1000_3100), typedesc.HasComponentSize, 0, 8)
	alloc := newBumpAllocator(im, 0x300, 0x2000)
	h := New(alloc, im.Reader())

	obj := h.NewMDArray2D(desc, 3, 4)
	if obj == 0 {
		t.Fatalf("NewMDArray2D returned 0")
	}
	r := im.Reader()
	if got := r.ReadPtr(obj); got != desc.Addr {
		t.Fatalf("descriptor ptr = %#x, want %#x", got, desc.Addr)
	}
	if got := r.ReadU32(obj.Add(8)); got != 12 {
		t.Fatalf("total_length = %d, want 12", got)
	}
	if got := r.ReadU32(obj.Add(12)); got != 2 {
		t.Fatalf("rank = %d, want 2", got)
	}

	val := mem.Address(0xABCD0000)
	ok := SetKD(r, r, obj, 2, 8, []uint32{2, 1}, val, PanicFatalStop)
	if !ok {
		t.Fatalf("SetKD(2,1) out of bounds")
	}
	addr, ok := GetKD(r, obj, 2, 8, []uint32{2, 1}, PanicFatalStop)
	if !ok {
		t.Fatalf("GetKD(2,1) out of bounds")
	}
	if got := r.ReadPtr(addr); got != val {
		t.Fatalf("element[2,1] = %#x, want %#x", got, val)
	}

	var fatalReason string
	fatal := func(reason string) { fatalReason = reason }
	if _, ok := GetKD(r, obj, 2, 8, []uint32{3, 0}, fatal); ok {
		t.Fatalf("GetKD(3,0) should be out of bounds (dim0=3)")
	}
	if fatalReason == "" {
		t.Fatalf("GetKD(3,0) did not invoke FatalStop")
	}
}

func TestSetKDOutOfBoundsInvokesFatalStop(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x1000_5000), 0x4000)
	desc := descriptorFor(im, mem.Address(0x1000_5100), typedesc.HasComponentSize, 0, 8)
	alloc := newBumpAllocator(im, 0x300, 0x2000)
	h := New(alloc, im.Reader())
	r := im.Reader()

	obj := h.NewMDArray2D(desc, 3, 4)

	var fatalCalled bool
	fatal := func(reason string) { fatalCalled = true }
	if ok := SetKD(r, r, obj, 2, 8, []uint32{9, 9}, mem.Address(1), fatal); ok {
		t.Fatalf("SetKD(9,9) should be out of bounds")
	}
	if !fatalCalled {
		t.Fatalf("SetKD(9,9) did not invoke FatalStop")
	}
}
