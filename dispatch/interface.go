package dispatch

import (
	"go.uber.org/zap"

	"github.com/protonos/runtimecore/assign"
	"github.com/protonos/runtimecore/internal/rterr"
	"github.com/protonos/runtimecore/internal/rtlog"
	"github.com/protonos/runtimecore/typedesc"
)

// GetInterfaceMethodSlot implements spec.md §4.2's
// get_interface_method_slot(iface, method_slot): resolve which vtable (or
// sealed-slot) index on t implements method_slot of iface. Returns
// rterr.NotFoundSlot when no resolution is possible at any tier.
func GetInterfaceMethodSlot(t, iface typedesc.TypeDescriptor, methodSlot int, loader assign.Loader) int32 {
	idx := assign.FindVariantCompatibleIndex(t, iface, loader)
	if idx >= 0 {
		entry := t.GetInterface(idx)
		if t.Has(typedesc.HasDispatchMap) {
			dm := t.GetDispatchMap()
			if dm == nil {
				return rterr.NotFoundSlot
			}
			if slot, ok := dm.Find(uint16(idx), uint16(methodSlot)); ok {
				return int32(slot)
			}
			return rterr.NotFoundSlot
		}
		return int32(entry.StartSlot) + int32(methodSlot)
	}

	// Map not found: a cross-world descriptor mismatch. Only AOT
	// descriptors carry a dispatch map to fall back to.
	if !t.Has(typedesc.HasDispatchMap) {
		return rterr.NotFoundSlot
	}
	dm := t.GetDispatchMap()
	if dm == nil {
		return rterr.NotFoundSlot
	}

	// Tier A: matching method slot, and the candidate interface has the
	// same num_vtable_slots as the target (a sanity check that the
	// interface shapes at least agree).
	for _, e := range dm.Entries() {
		if int(e.InterfaceMethodSlot) != methodSlot {
			continue
		}
		candidate := t.GetInterface(int(e.InterfaceIndex))
		if candidate.IsValid() && candidate.Descriptor.NumVtableSlots() == iface.NumVtableSlots() {
			return int32(e.ImplMethodSlot)
		}
	}

	// Tier B: accept the first matching method slot regardless of
	// slot-count agreement. Acknowledged unsafe (spec.md §9 design
	// notes); record evidence every time it fires.
	for _, e := range dm.Entries() {
		if int(e.InterfaceMethodSlot) == methodSlot {
			rtlog.Warnf("interface dispatch Tier-B fallback fired",
				zap.Uint64("type", uint64(t.Addr)),
				zap.Uint64("iface", uint64(iface.Addr)),
				zap.Int("method_slot", methodSlot),
				zap.Uint16("interface_index", e.InterfaceIndex))
			return int32(e.ImplMethodSlot)
		}
	}
	return rterr.NotFoundSlot
}
