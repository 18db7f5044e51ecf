package rthelpers

import (
	"fmt"

	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// FatalStop is the environment's fatal-abort hook (spec.md §7: "Fatal
// (kernel-abort) conditions are delegated to the environment's
// fatal_stop(); within the core only bounds-check failures on array
// element helpers invoke it"). GetKD/SetKD/AddressKD call it when an
// index is out of bounds, the one site this core is allowed to pull that
// trigger. Shaped like dispatch.StubClassifier/StubResolver — an
// explicit collaborator the caller supplies, not shared package state.
type FatalStop func(reason string)

// PanicFatalStop is a FatalStop that panics with reason. The default
// callers reach for when no kernel abort routine is wired in yet (tests,
// cmd/descdump).
func PanicFatalStop(reason string) {
	panic(reason)
}

// mdHeaderSize is the fixed portion of an MD-array header before the
// per-rank dimension/lower-bound words: desc (8) + total_length (4) +
// rank (4) (spec.md §4.6: "header = 16 + 8*rank bytes containing {desc,
// total_length, rank, dims[rank], lo_bounds[rank]=0}" — rank itself is
// folded into the 16-byte fixed portion alongside desc/total_length,
// leaving 8 bytes per rank for one 4-byte dims word + one 4-byte
// lo_bounds word).
const mdHeaderSize = 16

// dimsOffset is the byte offset of dims[0] within an MD array's header,
// matching the get_kD/set_kD/address_kD accessor formula "offset 16 + i*4".
const dimsOffset = 16

// NewMDArray allocates a rank-dimensional array: header (16 + 8*rank
// bytes: desc, total_length, rank, dims[rank], lo_bounds[rank]=0) plus
// total_length * component_size bytes of element storage (spec.md §4.6).
// NewMDArray2D/NewMDArray3D are thin rank-fixed wrappers over this.
func (h *Helpers) NewMDArray(desc typedesc.TypeDescriptor, dims []uint32) mem.Address {
	rank := len(dims)
	total := uint64(1)
	for _, d := range dims {
		total *= uint64(d)
	}
	headerSize := int64(mdHeaderSize) + int64(rank)*8
	size := headerSize + int64(total)*int64(desc.ComponentSize())

	obj := h.Alloc.AllocZeroed(size)
	if obj == 0 {
		return 0
	}
	h.W.WritePtr(obj, desc.Addr)
	h.W.WriteU32(obj.Add(8), uint32(total))
	h.W.WriteU32(obj.Add(12), uint32(rank))
	for i, d := range dims {
		h.W.WriteU32(obj.Add(dimsOffset+int64(i)*4), d)
		// lo_bounds[i] = 0, already zeroed by AllocZeroed.
	}
	return obj
}

// NewMDArray2D is new_md_array_2d(desc, d0, d1).
func (h *Helpers) NewMDArray2D(desc typedesc.TypeDescriptor, d0, d1 uint32) mem.Address {
	return h.NewMDArray(desc, []uint32{d0, d1})
}

// NewMDArray3D is new_md_array_3d(desc, d0, d1, d2).
func (h *Helpers) NewMDArray3D(desc typedesc.TypeDescriptor, d0, d1, d2 uint32) mem.Address {
	return h.NewMDArray(desc, []uint32{d0, d1, d2})
}

// dimsAndBoundsOffset returns the byte offset of the lo_bounds[rank]
// region, immediately following dims[rank].
func dimsAndBoundsOffset(rank int) int64 {
	return dimsOffset + int64(rank)*4
}

// rowMajorIndex computes the linear element index for indices into a
// rank-dimensional array whose dims[] live at dimsOffset, per spec.md
// §4.6's get_kD/set_kD/address_kD formula. Returns ok=false if any index
// is out of bounds for its dimension.
func rowMajorIndex(r mem.Reader, obj mem.Address, rank int, indices []uint32) (int64, bool) {
	lowerBoundsOff := dimsAndBoundsOffset(rank)
	idx := int64(0)
	for i := 0; i < rank; i++ {
		dim := r.ReadU32(obj.Add(dimsOffset + int64(i)*4))
		lo := r.ReadU32(obj.Add(lowerBoundsOff + int64(i)*4))
		rel := indices[i] - lo
		if rel >= dim {
			return 0, false
		}
		idx = idx*int64(dim) + int64(rel)
	}
	return idx, true
}

// elementsOffset is the byte offset of element 0 within an MD array with
// the given rank.
func elementsOffset(rank int) int64 {
	return mdHeaderSize + int64(rank)*8
}

// GetKD is get_kD: return the address of the element at indices within an
// MD array of the given rank and component size. An out-of-bounds index invokes fatal
// before returning ok=false, per spec.md §7 — fatal is given the chance
// to halt the kernel; the zero/false return exists for the case where it
// doesn't (tests, or a non-halting fatal during development).
func GetKD(r mem.Reader, obj mem.Address, rank int, componentSize uint16, indices []uint32, fatal FatalStop) (mem.Address, bool) {
	idx, ok := rowMajorIndex(r, obj, rank, indices)
	if !ok {
		if fatal != nil {
			fatal(fmt.Sprintf("get_kD: index %v out of bounds for rank-%d array at %#x", indices, rank, obj))
		}
		return 0, false
	}
	return obj.Add(elementsOffset(rank) + idx*int64(componentSize)), true
}

// AddressKD is address_kD: identical to GetKD — both return the address
// of the element; the distinction between "get" and "address" lives in
// the JIT-generated caller (load-through vs. take-address), not here.
func AddressKD(r mem.Reader, obj mem.Address, rank int, componentSize uint16, indices []uint32, fatal FatalStop) (mem.Address, bool) {
	return GetKD(r, obj, rank, componentSize, indices, fatal)
}

// SetKD is set_kD: write a pointer-sized value at indices within an MD
// array. Reference-element arrays are the only ones the object model
// itself ever needs to write through (value-element stores are plain
// compiled-code memcpy, outside this core's concern).
func SetKD(w mem.Writer, r mem.Reader, obj mem.Address, rank int, componentSize uint16, indices []uint32, v mem.Address, fatal FatalStop) bool {
	addr, ok := GetKD(r, obj, rank, componentSize, indices, fatal)
	if !ok {
		return false
	}
	w.WritePtr(addr, v)
	return true
}
