// Package arch describes the machine-word properties the runtime core
// needs in order to interpret a TypeDescriptor without hard-coding a
// single target ISA.
package arch

import "encoding/binary"

// Architecture carries the subset of a target machine's ABI that the
// object-model core depends on: pointer width and byte order, both of
// which mem.DirectReader/mem.FakeReader read through rather than
// hard-coding, so the same descriptor-parsing code runs on either target
// profile. It does not (and should not) grow concerns like instruction
// encoding; those belong to the JIT, which is out of scope for this
// core. The managed-"int"-width decoding the teacher's Architecture also
// carried (Int/Uint, keyed off a separate IntSize) has no counterpart
// here: every scalar field in the TypeDescriptor/GCDesc/AotMethodEntry
// wire formats is a spec-fixed width (u16/u32/u64), so the only
// arch-variable quantity this core ever decodes is a pointer.
type Architecture struct {
	// PointerSize is the size of a pointer, in bytes.
	PointerSize int
	// ByteOrder is the byte order for pointers and fixed-width fields.
	ByteOrder binary.ByteOrder
}

// Uintptr decodes a pointer-sized value from buf, per a.ByteOrder.
func (a *Architecture) Uintptr(buf []byte) uint64 {
	if len(buf) != a.PointerSize {
		panic("bad PointerSize")
	}
	switch a.PointerSize {
	case 4:
		return uint64(a.ByteOrder.Uint32(buf[:4]))
	case 8:
		return a.ByteOrder.Uint64(buf[:8])
	}
	panic("no PointerSize")
}

// PutUintptr encodes v into buf as a pointer-sized value, per a.ByteOrder.
func (a *Architecture) PutUintptr(buf []byte, v uint64) {
	if len(buf) != a.PointerSize {
		panic("bad PointerSize")
	}
	switch a.PointerSize {
	case 4:
		a.ByteOrder.PutUint32(buf[:4], uint32(v))
	case 8:
		a.ByteOrder.PutUint64(buf[:8], v)
	default:
		panic("no PointerSize")
	}
}

// AMD64 and ARM64 are the two machine profiles this core targets. Both are
// little-endian with 8-byte pointers; they're kept as distinct values
// (rather than collapsing to one) because a 32-bit profile is a plausible
// future addition and callers should name the one they mean.
var AMD64 = Architecture{
	PointerSize: 8,
	ByteOrder:   binary.LittleEndian,
}

var ARM64 = Architecture{
	PointerSize: 8,
	ByteOrder:   binary.LittleEndian,
}

// Layout constants from the TypeDescriptor wire format (spec.md §3/§8).
// These are architecture-independent: the header is always 24 bytes and
// every vtable/interface-map slot is a pointer-sized (8-byte) machine word
// regardless of target ISA, because the boot image format itself is fixed.
const (
	// DescriptorHeaderSize is the size, in bytes, of the fixed
	// TypeDescriptor header that precedes every trailing section.
	DescriptorHeaderSize = 24

	// VtableSlotSize is the size of one vtable entry (a code pointer).
	VtableSlotSize = 8

	// AotInterfaceEntrySize is the size of one interface-map entry in an
	// AOT-emitted (HasDispatchMap) descriptor: a bare descriptor pointer.
	AotInterfaceEntrySize = 8

	// KernelInterfaceEntrySize is the size of one interface-map entry in
	// a kernel-synthesized descriptor: descriptor pointer + u16 start
	// slot + 6 bytes of padding.
	KernelInterfaceEntrySize = 16

	// OptionalFieldsSize is the size of the four trailing 4-byte relative
	// pointers (TypeManagerIndirection, WritableData, DispatchMap,
	// SealedVirtualSlotsTable) present only on AOT descriptors that carry
	// HasDispatchMap.
	OptionalFieldsSize = 16

	// RelPtrSize is the width of a relative pointer slot.
	RelPtrSize = 4
)

// VtableSlotOffset returns the byte offset of vtable slot i, relative to
// the start of the TypeDescriptor header (spec.md §8 testable property).
func VtableSlotOffset(i int) int64 {
	return DescriptorHeaderSize + int64(i)*VtableSlotSize
}

// InterfaceMapOffset returns the byte offset of the interface map,
// relative to the start of the TypeDescriptor header.
func InterfaceMapOffset(numVtableSlots int) int64 {
	return VtableSlotOffset(numVtableSlots)
}

// OptionalFieldsOffset returns the byte offset of the optional-fields
// block, relative to the start of the TypeDescriptor header.
func OptionalFieldsOffset(numVtableSlots, numInterfaces int, hasDispatchMap bool) int64 {
	entrySize := int64(KernelInterfaceEntrySize)
	if hasDispatchMap {
		entrySize = AotInterfaceEntrySize
	}
	return InterfaceMapOffset(numVtableSlots) + int64(numInterfaces)*entrySize
}
