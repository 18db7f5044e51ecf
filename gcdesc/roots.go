package gcdesc

import (
	"github.com/protonos/runtimecore/arch"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// EnumerateStaticRoots walks the static-root region, an array of count
// 4-byte relative pointers starting at regionStart (spec.md §4.3). Each
// non-zero entry resolves to a static block; the word stored there is
// either an uninitialized marker (low bit set, skipped) or a pointer to a
// static-holder object, whose descriptor's GCDesc is then enumerated the
// same way a regular heap object would be.
func EnumerateStaticRoots(r mem.Reader, regionStart mem.Address, count int, fn RefCallback) {
	for i := 0; i < count; i++ {
		slot := regionStart.Add(int64(i) * arch.RelPtrSize)
		blockAddr := mem.At(r, slot).RelPtrAt(0)
		if blockAddr == 0 {
			continue
		}
		blockWord := r.ReadPtr(blockAddr)
		if uint64(blockWord)&1 != 0 {
			continue // uninitialized marker
		}
		holder := blockWord
		if holder == 0 {
			continue
		}
		desc := typedesc.HeaderAt(r, holder)
		if desc.IsNil() {
			continue
		}
		EnumerateObjectReferences(r, holder, desc, fn)
	}
}
