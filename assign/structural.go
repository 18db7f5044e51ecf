package assign

import (
	"github.com/protonos/runtimecore/internal/rtconfig"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// world is which compilation pathway produced a descriptor; address
// range is the only classifier this core has (spec.md §9).
type world int

const (
	kernelWorld world = iota
	aotWorld
)

func classifyWorld(a mem.Address, cfg rtconfig.Worlds) world {
	if uint64(a) >= cfg.AotImageMin {
		return aotWorld
	}
	return kernelWorld
}

// StructurallyEquivalent decides whether two descriptor pointers
// represent the same logical type across the AOT/kernel world split
// (spec.md §4.4 "Structural equivalence"), using the default world
// classification.
func StructurallyEquivalent(a, b typedesc.TypeDescriptor) bool {
	return StructurallyEquivalentWithConfig(a, b, rtconfig.DefaultWorlds)
}

// StructurallyEquivalentWithConfig is StructurallyEquivalent with an
// explicit world-classification config (used by tests).
//
// The spec states four rules as constraints rather than a single ordered
// algorithm; this is the concrete resolution this core uses, chosen to
// honor all four literally: a same-world hash mismatch always disqualifies
// a pair (rule 2), independent of whether slot counts happen to agree
// (rule 1's parenthetical only excuses a malformed slot *count*, not a
// provable hash difference).
func StructurallyEquivalentWithConfig(a, b typedesc.TypeDescriptor, cfg rtconfig.Worlds) bool {
	if a.IsNil() || b.IsNil() {
		return false
	}
	if a.Addr == b.Addr {
		return true
	}

	sameWorld := classifyWorld(a.Addr, cfg) == classifyWorld(b.Addr, cfg)
	ha, hb := a.TypeHash(), b.TypeHash()
	bothHashed := ha != 0 && hb != 0

	if sameWorld && bothHashed && ha != hb {
		return false
	}
	slotsMatch := a.NumVtableSlots() == b.NumVtableSlots()
	if !slotsMatch && !(bothHashed && ha == hb) {
		return false
	}

	relA, relB := a.RelatedTypeAddr(), b.RelatedTypeAddr()
	switch {
	case relA != 0 && relB != 0:
		// Rule 3: both generic — base sizes must agree.
		return a.BaseSize() == b.BaseSize()
	case relA != 0 || relB != 0:
		// Rule 3: only one generic — trustworthy only cross-world (an
		// AOT interface descriptor may omit related_type).
		return !sameWorld
	default:
		// Rule 4: neither generic.
		if sameWorld {
			return true // already passed the rule 1/2 gate above
		}
		return slotsMatch
	}
}

// FindVariantCompatibleIndex implements spec.md §4.1's
// find_variant_compatible_index: exact match, then structural/variance
// compatibility (preferring the largest start_slot on kernel-layout
// maps), then the "does an implemented interface itself implement the
// target" fallback. Returns -1 if nothing matches.
func FindVariantCompatibleIndex(t, target typedesc.TypeDescriptor, loader Loader) int {
	n := int(t.NumInterfaces())

	for i := 0; i < n; i++ {
		e := t.GetInterface(i)
		if e.IsValid() && e.Descriptor.Addr == target.Addr {
			return i
		}
	}

	best := -1
	bestStartSlot := -1
	for i := 0; i < n; i++ {
		e := t.GetInterface(i)
		if !e.IsValid() {
			continue
		}
		if StructurallyEquivalent(e.Descriptor, target) || VarianceCompatible(e.Descriptor, target, loader) {
			if int(e.StartSlot) > bestStartSlot {
				best = i
				bestStartSlot = int(e.StartSlot)
			}
		}
	}
	if best >= 0 {
		return best
	}

	for i := 0; i < n; i++ {
		e := t.GetInterface(i)
		if !e.IsValid() {
			continue
		}
		if IsAssignableTo(e.Descriptor, target, loader) {
			return i
		}
	}
	return -1
}
