package dispatch

import (
	"github.com/protonos/runtimecore/assign"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// ResolveInterfaceMethod implements spec.md §4.2's
// resolve_interface_method(obj, cell): classify the call site's dispatch
// cell, resolve the target interface's implementing slot on obj's actual
// type, and read that slot's code pointer. methodSlot is the call site's
// statically-known interface method slot (baked in by the JIT at the call
// site external to this core); a KindCacheHeader classification's own
// decoded TypeAndSlotIndex slot overrides it when present, since that is
// the authoritative cached value.
//
// Returns 0 if the interface is not implemented; the caller is expected
// to fault on a null code pointer, matching the teacher's core.Type
// methods which return a zero Address rather than an error for "not
// found" lookups.
func ResolveInterfaceMethod(r mem.Reader, obj mem.Address, cellAddr mem.Address, methodSlot int, loader assign.Loader) mem.Address {
	desc := typedesc.HeaderAt(r, obj)
	if desc.IsNil() {
		return 0
	}

	cl := Classify(Cell{R: r, Addr: cellAddr})
	if cl.Kind == KindVTableOffset {
		return desc.VtableSlot(int(cl.VtableOffset / 8))
	}

	slot := methodSlot
	if cl.HasCache && cl.MetadataToken == 0 {
		slot = int(cl.InterfaceSlot)
	}

	iface := typedesc.New(r, cl.InterfaceType)
	if iface.IsNil() {
		return 0
	}

	implSlot := GetInterfaceMethodSlot(desc, iface, slot, loader)
	if implSlot < 0 {
		return 0
	}
	return desc.VirtualSlot(int(implSlot))
}
