// Package typedesc implements the TypeDescriptor layout described in
// spec.md §3/§4.1: the 24-byte fixed header every object's first word
// points to, its trailing vtable/interface-map/optional-fields sections,
// and the flag word that tells every other package in this module how to
// interpret an object or a type.
//
// A TypeDescriptor value is a thin (Reader, Address) pair, the same shape
// the teacher's runtimeType used over a DWARF-described region
// (internal/gocore/type.go): all state lives in the backing memory, never
// copied into the Go struct, because descriptors here are either baked
// into the boot image or heap-allocated by the loader and must be read
// fresh every time (spec.md's "Lifecycle" note: never mutated after
// publication, but also never assumed cached).
package typedesc

import (
	"fmt"

	"github.com/protonos/runtimecore/arch"
	"github.com/protonos/runtimecore/internal/rtconfig"
	"github.com/protonos/runtimecore/internal/rtlog"
	"github.com/protonos/runtimecore/mem"
	"go.uber.org/zap"
)

// Header field byte offsets, in the order spec.md §3 lists them.
const (
	offComponentSize  = 0
	offFlags          = 2
	offBaseSize       = 4
	offRelatedType    = 8
	offNumVtableSlots = 16
	offNumInterfaces  = 18
	offTypeHash       = 20
)

// TypeDescriptor is a view over the 24-byte header (and its trailing
// sections) at Addr, read through R. The zero value is the nil descriptor.
type TypeDescriptor struct {
	R    mem.Reader
	Addr mem.Address
}

// New wraps the descriptor at a. Does not validate a — reading a
// TypeDescriptor at a bad address is a caller bug, consistent with the
// teacher's "Read* operations panic if the inferior is not readable".
func New(r mem.Reader, a mem.Address) TypeDescriptor {
	return TypeDescriptor{R: r, Addr: a}
}

// HeaderAt reads the TypeDescriptor pointer stored in an object's first
// word (every managed object's universal header) and returns the
// descriptor it points to. Returns the nil descriptor if obj itself is 0.
func HeaderAt(r mem.Reader, obj mem.Address) TypeDescriptor {
	if obj == 0 {
		return TypeDescriptor{}
	}
	return New(r, r.ReadPtr(obj))
}

func (t TypeDescriptor) IsNil() bool { return t.R == nil || t.Addr == 0 }

func (t TypeDescriptor) region() mem.Region { return mem.At(t.R, t.Addr) }

func (t TypeDescriptor) ComponentSize() uint16 {
	return t.region().U16At(offComponentSize)
}

func (t TypeDescriptor) rawFlags() uint16 {
	return t.region().U16At(offFlags)
}

// FlagsCombined reproduces spec.md's flags_combined = (flags << 16) |
// component_size.
func (t TypeDescriptor) FlagsCombined() Flags {
	return Flags(uint32(t.rawFlags())<<16 | uint32(t.ComponentSize()))
}

func (t TypeDescriptor) Has(bit Flags) bool { return t.FlagsCombined().Has(bit) }

func (t TypeDescriptor) BaseSize() uint32 {
	return t.region().U32At(offBaseSize)
}

// RelatedTypeAddr returns the raw related_type pointer, before the
// semantic overload (parent / element / first type arg / nullable
// underlying) implied by the descriptor's flags is applied.
func (t TypeDescriptor) RelatedTypeAddr() mem.Address {
	return t.region().PtrAt(offRelatedType)
}

func (t TypeDescriptor) NumVtableSlots() uint16 {
	return t.region().U16At(offNumVtableSlots)
}

func (t TypeDescriptor) NumInterfaces() uint16 {
	return t.region().U16At(offNumInterfaces)
}

func (t TypeDescriptor) TypeHash() uint32 {
	return t.region().U32At(offTypeHash)
}

// IsReferenceType is the universal invariant from spec.md §8.
func (t TypeDescriptor) IsReferenceType() bool {
	return t.Has(IsArray) ||
		t.Has(IsInterface) ||
		(t.Has(HasComponentSize) && t.ComponentSize() > 0) ||
		t.Has(HasPointers) ||
		t.RelatedTypeAddr() != 0
}

// String renders a short diagnostic label. Never consulted by the
// dispatch/assignability/GC hot paths — purely for diagnostics such as
// test failure messages, the same role the teacher's (t *Type)
// String() played.
func (t TypeDescriptor) String() string {
	if t.IsNil() {
		return "<nil TypeDescriptor>"
	}
	return fmt.Sprintf("type@%#x(size=%d,slots=%d,ifaces=%d)",
		t.Addr, t.BaseSize(), t.NumVtableSlots(), t.NumInterfaces())
}

// VtableSlot returns the code pointer at vtable index i, or 0 if i is out
// of range (spec.md §4.1).
func (t TypeDescriptor) VtableSlot(i int) mem.Address {
	if i < 0 || uint16(i) >= t.NumVtableSlots() {
		return 0
	}
	return t.region().PtrAt(arch.VtableSlotOffset(i))
}

// VirtualSlot is the unified lookup from spec.md §4.1: regular vtable for
// i < num_vtable_slots, otherwise (AOT descriptors only) the (i -
// num_vtable_slots)-th sealed virtual slot. Returns 0 on out-of-range or
// missing table.
func (t TypeDescriptor) VirtualSlot(i int) mem.Address {
	n := int(t.NumVtableSlots())
	if i < n {
		return t.VtableSlot(i)
	}
	if !t.Has(HasDispatchMap) {
		return 0
	}
	return t.GetSealedVirtualSlot(i - n)
}

// GetParent returns the parent class descriptor, or the nil descriptor if
// t is an array, interface, or nullable (those give related_type a
// different meaning — spec.md §3's "related_type: overloaded").
func (t TypeDescriptor) GetParent() TypeDescriptor {
	if t.Has(IsArray) || t.Has(IsInterface) || t.Has(IsNullable) {
		return TypeDescriptor{}
	}
	a := t.RelatedTypeAddr()
	if a == 0 {
		return TypeDescriptor{}
	}
	return New(t.R, a)
}

// GetArrayElement returns the element type descriptor, or nil if t is not
// an array.
func (t TypeDescriptor) GetArrayElement() TypeDescriptor {
	if !t.Has(IsArray) {
		return TypeDescriptor{}
	}
	a := t.RelatedTypeAddr()
	if a == 0 {
		return TypeDescriptor{}
	}
	return New(t.R, a)
}

// GetFirstTypeArg returns the first generic type argument. Only
// meaningful on interface descriptors: variance (spec.md §4.4) is defined
// solely over generic interface instantiations, so that's the only case
// this core ever needs to read related_type this way. Returns nil for a
// bare (non-generic) interface, same as any other unset related_type.
func (t TypeDescriptor) GetFirstTypeArg() TypeDescriptor {
	if !t.Has(IsInterface) {
		return TypeDescriptor{}
	}
	a := t.RelatedTypeAddr()
	if a == 0 {
		return TypeDescriptor{}
	}
	return New(t.R, a)
}

// GetNullableUnderlying returns the underlying type of a Nullable<T>
// descriptor, or nil if t isn't nullable.
func (t TypeDescriptor) GetNullableUnderlying() TypeDescriptor {
	if !t.Has(IsNullable) {
		return TypeDescriptor{}
	}
	a := t.RelatedTypeAddr()
	if a == 0 {
		return TypeDescriptor{}
	}
	return New(t.R, a)
}

// InterfaceEntry is one row of an interface map. StartSlot is only
// meaningful for kernel-layout maps (16-byte entries); it is always 0 for
// AOT-layout maps, which instead require a DispatchMap lookup to resolve a
// method slot.
type InterfaceEntry struct {
	Descriptor TypeDescriptor
	StartSlot  uint16
}

func (e InterfaceEntry) IsValid() bool { return !e.Descriptor.IsNil() }

// GetInterface dispatches on HasDispatchMap to pick the 8-byte (AOT) or
// 16-byte (kernel) interface-map entry layout (spec.md §4.1).
func (t TypeDescriptor) GetInterface(index int) InterfaceEntry {
	n := int(t.NumInterfaces())
	if index < 0 || index >= n {
		return InterfaceEntry{}
	}
	mapOff := arch.InterfaceMapOffset(int(t.NumVtableSlots()))
	reg := t.region()
	if t.Has(HasDispatchMap) {
		entryOff := mapOff + int64(index)*arch.AotInterfaceEntrySize
		ptr := reg.PtrAt(entryOff)
		if ptr == 0 {
			return InterfaceEntry{}
		}
		return InterfaceEntry{Descriptor: New(t.R, ptr)}
	}
	entryOff := mapOff + int64(index)*arch.KernelInterfaceEntrySize
	ptr := reg.PtrAt(entryOff)
	if ptr == 0 {
		return InterfaceEntry{}
	}
	startSlot := reg.U16At(entryOff + 8)
	return InterfaceEntry{Descriptor: New(t.R, ptr), StartSlot: startSlot}
}

// FindInterfaceIndex performs the exact-pointer-equality linear scan from
// spec.md §4.1. Returns -1 if target is not implemented.
func (t TypeDescriptor) FindInterfaceIndex(target TypeDescriptor) int {
	n := int(t.NumInterfaces())
	for i := 0; i < n; i++ {
		if e := t.GetInterface(i); e.IsValid() && e.Descriptor.Addr == target.Addr {
			return i
		}
	}
	return -1
}

// optionalFieldsOffset computes the byte offset of the four trailing
// relative-pointer slots, valid only when Has(HasDispatchMap).
func (t TypeDescriptor) optionalFieldsOffset() int64 {
	return arch.OptionalFieldsOffset(int(t.NumVtableSlots()), int(t.NumInterfaces()), true)
}

// Optional-fields sub-offsets, in the order spec.md §3 lists them:
// TypeManagerIndirection, WritableData, DispatchMap, SealedVirtualSlotsTable.
const (
	optTypeManagerIndirection = 0
	optWritableData           = 4
	optDispatchMap            = 8
	optSealedVirtualSlots     = 12
)

// GetDispatchMap reads, validates, and returns the AOT dispatch map, or
// nil if t has no dispatch map or the map fails validation (spec.md §4.1's
// "Dispatch-map validation rationale": bounds/count checks convert UB from
// an erased-placeholder RelPtr into a clean null).
func (t TypeDescriptor) GetDispatchMap() *DispatchMap {
	return t.GetDispatchMapWithConfig(rtconfig.DefaultValidation)
}

func (t TypeDescriptor) GetDispatchMapWithConfig(cfg rtconfig.Validation) *DispatchMap {
	if !t.Has(HasDispatchMap) {
		return nil
	}
	slotOff := t.optionalFieldsOffset() + optDispatchMap
	slot := t.Addr.Add(slotOff)
	rel := t.R.ReadI32(slot)
	if rel == 0 {
		return nil
	}
	if int64(rel) > cfg.MaxRelPtrOffset || int64(rel) < -cfg.MaxRelPtrOffset {
		rtlog.Warnf("dispatch map rejected: relative offset out of bounds",
			zap.Uint64("descriptor", uint64(t.Addr)), zap.Int32("offset", rel))
		return nil
	}
	target := slot.Add(int64(rel))
	if uint64(target) < cfg.MinValidAddress || uint64(target) > cfg.MaxValidAddress {
		rtlog.Warnf("dispatch map rejected: target address out of bounds",
			zap.Uint64("descriptor", uint64(t.Addr)), zap.Uint64("target", uint64(target)))
		return nil
	}
	dm := &DispatchMap{R: t.R, Addr: target}
	dm.readHeader()
	if dm.Count() > (int(t.NumInterfaces())+1)*cfg.MaxEntryCountPerInterface {
		rtlog.Warnf("dispatch map rejected: entry count exceeds sanity bound",
			zap.Uint64("descriptor", uint64(t.Addr)), zap.Int("count", dm.Count()))
		return nil
	}
	return dm
}

// GetSealedVirtualSlot resolves the sealedIndex-th sealed virtual slot:
// the SealedVirtualSlotsTable RelPtr locates a table whose entries are
// themselves 4-byte RelPtrs to code (spec.md §4.1).
func (t TypeDescriptor) GetSealedVirtualSlot(sealedIndex int) mem.Address {
	if !t.Has(HasDispatchMap) || sealedIndex < 0 {
		return 0
	}
	tableStart := t.region().RelPtrAt(t.optionalFieldsOffset() + optSealedVirtualSlots)
	if tableStart == 0 {
		return 0
	}
	entryAddr := tableStart.Add(int64(sealedIndex) * arch.RelPtrSize)
	return mem.At(t.R, entryAddr).RelPtrAt(0)
}
