package gcdesc

import (
	"testing"

	"github.com/protonos/runtimecore/internal/desctest"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// buildDescriptor writes a minimal descriptor header at addr with the
// given flags/base size, returning the image it was written into so the
// caller can still poke the series table behind it.
func buildDescriptor(im *desctest.Image, addr mem.Address, flags typedesc.Flags, baseSize uint32) typedesc.TypeDescriptor {
	im.PutU16(addr.Add(0), 0)                    // component_size
	im.PutU16(addr.Add(2), uint16(flags>>16))    // flags
	im.PutU32(addr.Add(4), baseSize)              // base_size
	im.PutPtr(addr.Add(8), 0)                     // related_type
	im.PutU16(addr.Add(16), 0)                    // num_vtable_slots
	im.PutU16(addr.Add(18), 0)                    // num_interfaces
	im.PutU32(addr.Add(20), 0)                    // type_hash
	return typedesc.New(im.Reader(), addr)
}

// Scenario #5 (spec.md §8): descriptor with base_size=40, series_count=1,
// series[-1] = {adjusted_size=-32, start_offset=8}; must emit exactly one
// callback at object+8.
func TestEnumerateObjectReferencesRegular(t *testing.T) {
	const descAddr = mem.Address(0x2000_1000)
	const objAddr = mem.Address(0x2000_0000)
	im := desctest.NewImage(mem.Address(0x2000_0000), 0x2000)

	desc := buildDescriptor(im, descAddr, typedesc.HasPointers, 40)

	// series_count = 1 at desc[-1]; entry at desc[-2]=adjusted_size,
	// desc[-3]=start_offset.
	im.PutU64(descAddr.Add(-8), uint64(1))
	im.PutU64(descAddr.Add(-16), uint64(int64(-32)))
	im.PutU64(descAddr.Add(-24), uint64(int64(8)))

	target := mem.Address(0x3000_0000)
	im.PutPtr(objAddr.Add(8), target)

	var got []int64
	EnumerateObjectReferences(im.Reader(), objAddr, desc, func(off int64, tgt mem.Address) bool {
		got = append(got, off)
		if tgt != target {
			t.Errorf("target = %#x, want %#x", tgt, target)
		}
		return true
	})
	if len(got) != 1 || got[0] != 8 {
		t.Fatalf("callbacks = %v, want exactly [8]", got)
	}
}

func TestEnumerateObjectReferencesNoPointers(t *testing.T) {
	const descAddr = mem.Address(0x2000_1000)
	const objAddr = mem.Address(0x2000_0000)
	im := desctest.NewImage(mem.Address(0x2000_0000), 0x2000)
	desc := buildDescriptor(im, descAddr, typedesc.IsValueType, 16)

	called := false
	EnumerateObjectReferences(im.Reader(), objAddr, desc, func(int64, mem.Address) bool {
		called = true
		return true
	})
	if called {
		t.Fatalf("expected no callbacks for a descriptor without HasPointers")
	}
}

// A value-type array ([]struct{ref,...}) replays its series once per
// element, with adjusted_size used raw (not offset by base_size).
func TestEnumerateObjectReferencesValueTypeArray(t *testing.T) {
	const descAddr = mem.Address(0x2000_1000)
	const objAddr = mem.Address(0x2000_0000)
	im := desctest.NewImage(mem.Address(0x2000_0000), 0x4000)

	// base_size = header(24) + length*component_size, so elements_start
	// (object + base_size - length*component_size) lands right after the
	// 24-byte array header; component_size = 16, one ref field at offset
	// 8 within each element, per series below.
	const length = 3
	const componentSize = 16
	const headerSize = 24
	baseSize := uint32(headerSize + length*componentSize)
	desc := buildDescriptor(im, descAddr, typedesc.HasPointers, baseSize)
	im.PutU16(descAddr.Add(0), componentSize) // component_size

	im.PutU64(descAddr.Add(-8), uint64(int64(-1))) // series_count = -1
	im.PutU64(descAddr.Add(-16), uint64(int64(8))) // adjusted_size (raw)
	im.PutU64(descAddr.Add(-24), uint64(int64(8))) // start_offset

	im.PutU32(objAddr.Add(8), length) // array length, 4 bytes after descriptor slot

	elementsStart := objAddr.Add(int64(baseSize) - int64(length)*componentSize)
	var targets []mem.Address
	for i := int64(0); i < length; i++ {
		tgt := mem.Address(0x5000_0000 + uint64(i)*0x1000)
		im.PutPtr(elementsStart.Add(i*16+8), tgt)
		targets = append(targets, tgt)
	}

	var gotOffsets []int64
	var gotTargets []mem.Address
	EnumerateObjectReferences(im.Reader(), objAddr, desc, func(off int64, tgt mem.Address) bool {
		gotOffsets = append(gotOffsets, off)
		gotTargets = append(gotTargets, tgt)
		return true
	})
	if len(gotOffsets) != length {
		t.Fatalf("got %d callbacks, want %d", len(gotOffsets), length)
	}
	for i := range targets {
		if gotTargets[i] != targets[i] {
			t.Errorf("element %d: target = %#x, want %#x", i, gotTargets[i], targets[i])
		}
		wantOff := elementsStart.Add(int64(i)*16 + 8).Sub(objAddr)
		if gotOffsets[i] != wantOff {
			t.Errorf("element %d: offset = %d, want %d", i, gotOffsets[i], wantOff)
		}
	}
}

func TestEnumerateStaticRootsSkipsUninitialized(t *testing.T) {
	const regionStart = mem.Address(0x1000_0000)
	im := desctest.NewImage(mem.Address(0x1000_0000), 0x3000)

	// Slot 0: uninitialized marker (low bit set on the block word).
	block0 := regionStart.Add(0x100)
	im.PutRelPtr(regionStart.Add(0), block0)
	im.PutPtr(block0, mem.Address(0x9000_0001))

	// Slot 1: absent (zero rel ptr).
	im.PutRelPtr(regionStart.Add(4), 0)

	// Slot 2: holder object with HasPointers and one reference field.
	holderAddr := regionStart.Add(0x800)
	holderDescAddr := regionStart.Add(0x1800)
	block2 := regionStart.Add(0x200)
	im.PutRelPtr(regionStart.Add(8), block2)
	im.PutPtr(block2, holderAddr)
	im.PutPtr(holderAddr, holderDescAddr) // object header -> descriptor

	buildDescriptor(im, holderDescAddr, typedesc.HasPointers, 16)
	im.PutU64(holderDescAddr.Add(-8), uint64(int64(1)))
	im.PutU64(holderDescAddr.Add(-16), uint64(int64(-8)))
	im.PutU64(holderDescAddr.Add(-24), uint64(int64(8)))
	target := mem.Address(0x7000_0000)
	im.PutPtr(holderAddr.Add(8), target)

	var refs []Ref
	EnumerateStaticRoots(im.Reader(), regionStart, 3, func(off int64, tgt mem.Address) bool {
		refs = append(refs, Ref{Offset: off, Target: tgt})
		return true
	})
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1 (uninitialized/absent slots must be skipped): %+v", len(refs), refs)
	}
	if refs[0].Target != target || refs[0].Offset != 8 {
		t.Fatalf("ref = %+v, want offset=8 target=%#x", refs[0], target)
	}
}

func TestWalkerBatchesMultipleObjects(t *testing.T) {
	const base = mem.Address(0x1000_0000)
	im := desctest.NewImage(base, 0x4000)

	descA := base.Add(0x2000)
	descB := base.Add(0x2100)
	objA := base.Add(0)
	objB := base.Add(0x100)

	dA := buildDescriptor(im, descA, typedesc.HasPointers, 16)
	im.PutU64(descA.Add(-8), uint64(int64(1)))
	im.PutU64(descA.Add(-16), uint64(int64(-8)))
	im.PutU64(descA.Add(-24), uint64(int64(0)))
	im.PutPtr(objA.Add(0), mem.Address(0xAAAA))

	dB := buildDescriptor(im, descB, typedesc.HasPointers, 16)
	im.PutU64(descB.Add(-8), uint64(int64(1)))
	im.PutU64(descB.Add(-16), uint64(int64(-8)))
	im.PutU64(descB.Add(-24), uint64(int64(0)))
	im.PutPtr(objB.Add(0), mem.Address(0xBBBB))

	w := NewWalker(im.Reader())
	var refs []Ref
	w.Walk([]Object{{Addr: objA, Desc: dA}, {Addr: objB, Desc: dB}}, func(r Ref) bool {
		refs = append(refs, r)
		return true
	})
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Object != objA || refs[1].Object != objB {
		t.Fatalf("refs out of order: %+v", refs)
	}
}
