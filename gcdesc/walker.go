package gcdesc

import (
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// Object pairs an address with the descriptor governing it. Walker takes
// these from the caller rather than discovering them itself: unlike the
// teacher's Process, which owns a heapTable built from inferior memory
// layout, this core has no heap table of its own — the collector (or, in
// tests, a synthetic object list) is the only thing that knows which
// addresses are live objects.
type Object struct {
	Addr mem.Address
	Desc typedesc.TypeDescriptor
}

// Ref is one reference-slot edge found by a Walker pass: Object is the
// address of the object the slot was found in.
type Ref struct {
	Object mem.Address
	Offset int64
	Target mem.Address
}

// Walker batches EnumerateObjectReferences over a caller-supplied object
// set and reports edges through a single ForEachRoot-shaped iterator,
// grounded on the teacher's ForEachObject/ForEachRoot pattern
// (internal/gocore/object.go). It exists for tooling and tests that want
// to assert a whole-heap invariant ("every reported pointer is
// word-aligned and in-bounds", spec.md §8) in one pass rather than one
// object at a time; the actual collector still owns mark/sweep state.
type Walker struct {
	R mem.Reader
}

func NewWalker(r mem.Reader) *Walker {
	return &Walker{R: r}
}

// Walk calls fn once per reference edge found across objs, in order. If fn
// returns false, Walk stops immediately.
func (w *Walker) Walk(objs []Object, fn func(Ref) bool) {
	for _, o := range objs {
		stop := false
		EnumerateObjectReferences(w.R, o.Addr, o.Desc, func(off int64, target mem.Address) bool {
			if !fn(Ref{Object: o.Addr, Offset: off, Target: target}) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}
