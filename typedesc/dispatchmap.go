package typedesc

import "github.com/protonos/runtimecore/mem"

// DispatchMap is the AOT-only table mapping (interface_index,
// interface_method_slot) -> impl_method_slot (spec.md §3 "DispatchMap").
// It is always obtained through TypeDescriptor.GetDispatchMap, which
// performs the bounds/count validation before handing one out — there is
// no exported constructor here, matching the spec's contract that a
// malformed map simply doesn't exist as far as callers are concerned.
type DispatchMap struct {
	R    mem.Reader
	Addr mem.Address // address of the 8-byte header

	standardCount       uint16
	defaultCount        uint16
	standardStaticCount uint16
	defaultStaticCount  uint16
}

const dispatchMapEntrySize = 6 // u16 interface_index, u16 interface_method_slot, u16 impl_method_slot
const dispatchMapHeaderSize = 8

func (d *DispatchMap) readHeader() {
	r := mem.At(d.R, d.Addr)
	d.standardCount = r.U16At(0)
	d.defaultCount = r.U16At(2)
	d.standardStaticCount = r.U16At(4)
	d.defaultStaticCount = r.U16At(6)
}

func (d *DispatchMap) StandardCount() int       { return int(d.standardCount) }
func (d *DispatchMap) DefaultCount() int        { return int(d.defaultCount) }
func (d *DispatchMap) StandardStaticCount() int { return int(d.standardStaticCount) }
func (d *DispatchMap) DefaultStaticCount() int  { return int(d.defaultStaticCount) }

// Count is the number of instance-method entries: standard_count +
// default_count (the two counts the spec says are actually stored as
// entries; the *_static counts describe a disjoint region this core
// doesn't need to walk for instance dispatch).
func (d *DispatchMap) Count() int {
	return int(d.standardCount) + int(d.defaultCount)
}

// DispatchMapEntry is one row: interface_index, interface_method_slot,
// impl_method_slot. An impl_method_slot >= the implementor's
// num_vtable_slots denotes a sealed virtual slot (spec.md §3).
type DispatchMapEntry struct {
	InterfaceIndex      uint16
	InterfaceMethodSlot uint16
	ImplMethodSlot      uint16
}

// Entry returns the i-th entry. i must be < Count().
func (d *DispatchMap) Entry(i int) DispatchMapEntry {
	off := int64(dispatchMapHeaderSize + i*dispatchMapEntrySize)
	r := mem.At(d.R, d.Addr)
	return DispatchMapEntry{
		InterfaceIndex:      r.U16At(off),
		InterfaceMethodSlot: r.U16At(off + 2),
		ImplMethodSlot:      r.U16At(off + 4),
	}
}

// Find performs the linear scan spec.md §3 requires ("entries are
// searched linearly") for a (interfaceIndex, interfaceMethodSlot) pair.
func (d *DispatchMap) Find(interfaceIndex, interfaceMethodSlot uint16) (implMethodSlot uint16, ok bool) {
	for i := 0; i < d.Count(); i++ {
		e := d.Entry(i)
		if e.InterfaceIndex == interfaceIndex && e.InterfaceMethodSlot == interfaceMethodSlot {
			return e.ImplMethodSlot, true
		}
	}
	return 0, false
}

// Entries returns every entry in the map, used by the dispatch engine's
// Tier A/Tier B fallback scans (spec.md §4.2) which must examine every
// row rather than an exact match.
func (d *DispatchMap) Entries() []DispatchMapEntry {
	out := make([]DispatchMapEntry, d.Count())
	for i := range out {
		out[i] = d.Entry(i)
	}
	return out
}
