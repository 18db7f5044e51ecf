package assign

import "github.com/protonos/runtimecore/typedesc"

// IsAssignableTo implements spec.md §4.4's is_assignable_to(src, tgt):
// whether an instance of src may be stored in a location typed tgt.
func IsAssignableTo(src, tgt typedesc.TypeDescriptor, loader Loader) bool {
	if src.IsNil() || tgt.IsNil() {
		return false
	}
	if src.Addr == tgt.Addr {
		return true
	}

	if tgt.Has(typedesc.IsInterface) {
		if directlyImplements(src, tgt) {
			return true
		}
		for p := src.GetParent(); !p.IsNil(); p = p.GetParent() {
			if directlyImplements(p, tgt) {
				return true
			}
		}
		if variantImplements(src, tgt, loader) {
			return true
		}
		for p := src.GetParent(); !p.IsNil(); p = p.GetParent() {
			if variantImplements(p, tgt, loader) {
				return true
			}
		}
		return false
	}

	if tgt.Has(typedesc.IsArray) {
		if !src.Has(typedesc.IsArray) {
			return false
		}
		srcElem := src.GetArrayElement()
		tgtElem := tgt.GetArrayElement()
		if srcElem.IsNil() || tgtElem.IsNil() {
			return false
		}
		// Value-type arrays are invariant: Int32[] is never assignable
		// to Object[] even though Int32 boxes into an Object.
		if srcElem.Has(typedesc.IsValueType) || tgtElem.Has(typedesc.IsValueType) {
			return false
		}
		return IsAssignableTo(srcElem, tgtElem, loader)
	}

	// tgt is an ordinary class: walk src's parent chain for a match.
	for p := src; !p.IsNil(); p = p.GetParent() {
		if p.Addr == tgt.Addr {
			return true
		}
	}
	return false
}

// directlyImplements is the exact-pointer-equality check spec.md's
// is_assignable_to calls "src.implements_interface(tgt)" — the same test
// TypeDescriptor.FindInterfaceIndex performs.
func directlyImplements(t, target typedesc.TypeDescriptor) bool {
	return t.FindInterfaceIndex(target) >= 0
}

// variantImplements scans t's own interface list (not its parents') for
// an entry that is either target itself or variance-compatible with it.
func variantImplements(t, target typedesc.TypeDescriptor, loader Loader) bool {
	n := int(t.NumInterfaces())
	for i := 0; i < n; i++ {
		e := t.GetInterface(i)
		if !e.IsValid() {
			continue
		}
		if e.Descriptor.Addr == target.Addr {
			return true
		}
		if VarianceCompatible(e.Descriptor, target, loader) {
			return true
		}
	}
	return false
}

// VarianceCompatible implements spec.md §4.4's variance-compatibility
// check between two generic interface instantiations.
func VarianceCompatible(ifaceSrc, ifaceTgt typedesc.TypeDescriptor, loader Loader) bool {
	if ifaceSrc.IsNil() || ifaceTgt.IsNil() {
		return false
	}
	if !ifaceSrc.Has(typedesc.IsInterface) || !ifaceTgt.Has(typedesc.IsInterface) {
		return false
	}

	defSrc := loader.GenericDefinition(ifaceSrc)
	defTgt := loader.GenericDefinition(ifaceTgt)
	if defSrc.IsNil() || defTgt.IsNil() || defSrc.Addr != defTgt.Addr {
		return false
	}
	if !defSrc.Has(typedesc.HasVariance) {
		return false
	}

	srcArg := ifaceSrc.GetFirstTypeArg()
	tgtArg := ifaceTgt.GetFirstTypeArg()
	if srcArg.IsNil() || tgtArg.IsNil() {
		return false
	}

	switch defSrc.TypeHash() & 0x3 {
	case 1: // covariant
		return IsAssignableTo(srcArg, tgtArg, loader)
	case 2: // contravariant
		return IsAssignableTo(tgtArg, srcArg, loader)
	default: // invariant
		return srcArg.Addr == tgtArg.Addr
	}
}
