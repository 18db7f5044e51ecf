package runtimecore

import (
	"testing"

	"github.com/protonos/runtimecore/aotdir"
	"github.com/protonos/runtimecore/internal/desctest"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
	"go.uber.org/zap"
)

type noLoader struct{}

func (noLoader) GenericDefinition(typedesc.TypeDescriptor) typedesc.TypeDescriptor {
	return typedesc.TypeDescriptor{}
}

type noStub struct{}

func (noStub) EnsureVtableSlotCompiled(obj mem.Address, slot int) mem.Address { return 0 }

type bumpAlloc struct {
	im   *desctest.Image
	next mem.Address
	end  mem.Address
}

func (a *bumpAlloc) AllocZeroed(size int64) mem.Address {
	obj := a.next
	if obj.Add(size) > a.end {
		return 0
	}
	a.next = obj.Add(size)
	return obj
}

func descriptorAt(im *desctest.Image, addr mem.Address, flags typedesc.Flags, baseSize uint32, componentSize uint16) typedesc.TypeDescriptor {
	im.PutU16(addr.Add(0), componentSize)
	im.PutU16(addr.Add(2), uint16(flags>>16))
	im.PutU32(addr.Add(4), baseSize)
	im.PutPtr(addr.Add(8), 0)
	im.PutU16(addr.Add(16), 0)
	im.PutU16(addr.Add(18), 0)
	im.PutU32(addr.Add(20), 0)
	return typedesc.New(im.Reader(), addr)
}

func newHub(im *desctest.Image, allocStart, allocSize int64) *Hub {
	alloc := &bumpAlloc{im: im, next: im.Base.Add(allocStart), end: im.Base.Add(allocStart + allocSize)}
	return New(im.Reader(), zap.NewNop(), noLoader{}, alloc, func(mem.Address) bool { return false }, noStub{})
}

func TestHubRegisterAndLookupHash(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2000_0000), 0x1000)
	h := newHub(im, 0x800, 0x400)

	if err := h.RegisterAotHash("Foo", "Bar", mem.Address(0x4000), 0, aotdir.ElemI4, true, false, 0, 0, 0, 0, 0); err != nil {
		t.Fatalf("RegisterAotHash: %v", err)
	}
	h.FreezeDirectory()

	e := h.LookupHash("Foo", "Bar", 0, 0, 0, false)
	if e == nil {
		t.Fatalf("LookupHash found nothing")
	}
	if e.NativeCode != mem.Address(0x4000) {
		t.Fatalf("NativeCode = %#x, want 0x4000", e.NativeCode)
	}
}

func TestHubRegisterAndLookupToken(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2001_0000), 0x1000)
	h := newHub(im, 0x800, 0x400)

	if err := h.RegisterAotToken(1, 0x06000001, mem.Address(0x5000), 0); err != nil {
		t.Fatalf("RegisterAotToken: %v", err)
	}
	h.FreezeDirectory()

	e := h.LookupToken(1, 0x06000001)
	if e == nil {
		t.Fatalf("LookupToken found nothing")
	}
	if e.NativeCode != mem.Address(0x5000) {
		t.Fatalf("NativeCode = %#x, want 0x5000", e.NativeCode)
	}
	if h.LookupToken(1, 0xDEAD) != nil {
		t.Fatalf("LookupToken should miss on unknown token")
	}
}

func TestHubNewFastAndNewArray(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2002_0000), 0x2000)
	h := newHub(im, 0x800, 0x1000)

	desc := descriptorAt(im, mem.Address(0x2002_0100), 0, 24, 0)
	obj := h.GetRhpNewFastPtr(desc)
	if obj == 0 {
		t.Fatalf("GetRhpNewFastPtr returned 0")
	}
	if got := im.Reader().ReadPtr(obj); got != desc.Addr {
		t.Fatalf("object header = %#x, want %#x", got, desc.Addr)
	}

	arrDesc := descriptorAt(im, mem.Address(0x2002_0200), typedesc.HasComponentSize, 24, 8)
	arr := h.GetRhpNewArrayPtr(arrDesc, 3)
	if arr == 0 {
		t.Fatalf("GetRhpNewArrayPtr returned 0")
	}
	if got := im.Reader().ReadU32(arr.Add(8)); got != 3 {
		t.Fatalf("array length = %d, want 3", got)
	}
}

func TestHubMDArrayHelperDispatchesByRank(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2003_0000), 0x4000)
	h := newHub(im, 0x800, 0x2000)

	desc := descriptorAt(im, mem.Address(0x2003_0100), typedesc.HasComponentSize, 0, 8)
	arr2 := h.GetMDArrayHelperPtr(desc, []uint32{2, 3})
	if got := im.Reader().ReadU32(arr2.Add(12)); got != 2 {
		t.Fatalf("rank = %d, want 2", got)
	}

	arr3 := h.GetMDArrayHelperPtr(desc, []uint32{2, 3, 4})
	if got := im.Reader().ReadU32(arr3.Add(12)); got != 3 {
		t.Fatalf("rank = %d, want 3", got)
	}
}

func TestHubIsAssignableToReflexive(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2004_0000), 0x1000)
	h := newHub(im, 0x800, 0x100)

	desc := descriptorAt(im, mem.Address(0x2004_0100), 0, 24, 0)
	if !h.GetIsAssignableToPtr(desc, desc) {
		t.Fatalf("a type should be assignable to itself")
	}
}

func TestHubResolveVirtualMethodNoDescriptor(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2005_0000), 0x100)
	h := newHub(im, 0x80, 0x20)

	if got := h.RhpResolveVirtualMethod(0, 0); got != 0 {
		t.Fatalf("resolving a nil object should yield 0, got %#x", got)
	}
}

func TestHubEnumerateStaticRootsEmptyRegion(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x2006_0000), 0x100)
	h := newHub(im, 0x80, 0x20)

	seen := 0
	h.EnumerateStaticRoots(im.Base, 4, func(offset int64, target mem.Address) bool {
		seen++
		return true
	})
	if seen != 0 {
		t.Fatalf("expected no roots over a zeroed region, saw %d", seen)
	}
}
