// Package rthelpers implements the Runtime Helpers (spec.md §4.6): the
// allocation entry points and MD-array accessors compiled code calls
// directly. The allocation helpers write only into memory the Allocator
// has just handed back — never into existing live objects — and SetKD
// stores into an existing MD array's element; these are the only writes
// this core performs.
//
// Grounded on the teacher's internal/gocore/object.go size/stride
// arithmetic (ForEachPtr's `x.Add(i * ptrSize)` indexing, markObjects'
// `min.Add(i * ptrSize)` walk), generalized from "walk an existing
// object's layout" to "compute the layout of one being constructed".
package rthelpers

import (
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// Allocator is the allocator boundary from spec.md §6 ("To the
// allocator"): alloc/alloc_zeroed, returning 0 on exhaustion. Every
// object this package constructs goes through AllocZeroed, matching
// spec.md §4.6's "zero-initialize" requirement on new_fast/new_array.
type Allocator interface {
	AllocZeroed(size int64) mem.Address
}

// Helpers bundles the Allocator and the mem.Writer used to stamp a
// newly-allocated object's header fields.
type Helpers struct {
	Alloc Allocator
	W     mem.Writer
}

func New(alloc Allocator, w mem.Writer) *Helpers {
	return &Helpers{Alloc: alloc, W: w}
}

// NewFast is new_fast(desc) (spec.md §4.6): allocate base_size bytes (+8
// when desc is a JIT-created value-type descriptor with component_size
// == 0, since such descriptors under-report their own boxed size by one
// pointer-sized slot), zero-initialize, and store desc at offset 0.
func (h *Helpers) NewFast(desc typedesc.TypeDescriptor) mem.Address {
	size := int64(desc.BaseSize())
	if desc.ComponentSize() == 0 && desc.Has(typedesc.IsValueType) {
		size += 8
	}
	obj := h.Alloc.AllocZeroed(size)
	if obj == 0 {
		return 0
	}
	h.W.WritePtr(obj, desc.Addr)
	return obj
}

// NewArray is new_array(desc, n) (spec.md §4.6): allocate base_size + n *
// component_size bytes, store desc at offset 0 and the element count at
// offset 8 (the universal array-length slot every managed array carries
// immediately after its header, the same slot gcdesc.EnumerateObjectReferences
// reads when walking a value-type array's GCDesc).
func (h *Helpers) NewArray(desc typedesc.TypeDescriptor, n uint32) mem.Address {
	size := int64(desc.BaseSize()) + int64(n)*int64(desc.ComponentSize())
	obj := h.Alloc.AllocZeroed(size)
	if obj == 0 {
		return 0
	}
	h.W.WritePtr(obj, desc.Addr)
	h.W.WriteU32(obj.Add(8), n)
	return obj
}
