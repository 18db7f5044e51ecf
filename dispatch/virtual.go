// Package dispatch implements the Dispatch Engine (spec.md §4.2): virtual
// call resolution through a descriptor's vtable/sealed-slot table,
// interface call resolution via get_interface_method_slot (with its
// cross-world Tier A/Tier B fallback), and AOT dispatch-cell parsing for
// resolve_interface_method. It depends on typedesc for descriptor layout
// and on assign for find_variant_compatible_index, never the reverse —
// the same one-directional shape the teacher's gocore package uses when
// Process methods consult *Type without *Type ever calling back into
// Process.
package dispatch

import (
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// StubClassifier reports whether a code pointer read from a vtable slot
// is a lazy-compilation stub rather than compiled code (spec.md §9 "Lazy
// vtable compilation"). The encoding of a stub marker is a JIT concern
// external to this core, so it's supplied by the caller rather than
// hard-coded here.
type StubClassifier func(codePtr mem.Address) bool

// StubResolver is the JIT's ensure_vtable_slot_compiled callback: it
// compiles (or waits for compilation of) the given virtual slot and
// returns the final, patched code pointer. This engine never caches the
// stub address itself, per spec.md §9.
type StubResolver interface {
	EnsureVtableSlotCompiled(obj mem.Address, slot int) mem.Address
}

// ResolveVirtual implements spec.md §4.2's virtual call resolution: read
// obj's descriptor, resolve slot through its unified virtual_slot lookup,
// and if what's stored there is a lazy stub, hand off to the JIT's
// resolver rather than returning the stub address. Returns 0 if obj has
// no descriptor or the slot is out of range.
func ResolveVirtual(r mem.Reader, obj mem.Address, slot int, isStub StubClassifier, resolver StubResolver) mem.Address {
	desc := typedesc.HeaderAt(r, obj)
	if desc.IsNil() {
		return 0
	}
	ptr := desc.VirtualSlot(slot)
	if ptr == 0 {
		return 0
	}
	if isStub != nil && isStub(ptr) && resolver != nil {
		return resolver.EnsureVtableSlotCompiled(obj, slot)
	}
	return ptr
}
