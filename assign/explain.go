package assign

import "github.com/protonos/runtimecore/typedesc"

// Explain renders which rule of is_assignable_to accepted or rejected the
// pair. Used by cmd/descdump's "isassignable" command (both the
// standalone subcommand and the repl's command of the same name) to
// report not just the boolean verdict but which rule produced it.
// Diagnostic only — never consulted by IsAssignableTo itself, the same
// pairing the teacher uses between a boolean predicate and a prose
// explanation in its reporting commands (cmd/viewcore's
// histogram/breakdown style output).
func Explain(src, tgt typedesc.TypeDescriptor, loader Loader) string {
	if src.IsNil() || tgt.IsNil() {
		return "rejected: nil descriptor"
	}
	if src.Addr == tgt.Addr {
		return "accepted: reflexive (src == tgt)"
	}

	if tgt.Has(typedesc.IsInterface) {
		if directlyImplements(src, tgt) {
			return "accepted: src directly implements tgt"
		}
		for p := src.GetParent(); !p.IsNil(); p = p.GetParent() {
			if directlyImplements(p, tgt) {
				return "accepted: a parent of src directly implements tgt"
			}
		}
		if variantImplements(src, tgt, loader) {
			return "accepted: src implements an interface variance-compatible with tgt"
		}
		for p := src.GetParent(); !p.IsNil(); p = p.GetParent() {
			if variantImplements(p, tgt, loader) {
				return "accepted: a parent of src implements an interface variance-compatible with tgt"
			}
		}
		return "rejected: tgt is an interface src (or its parents) never implements"
	}

	if tgt.Has(typedesc.IsArray) {
		if !src.Has(typedesc.IsArray) {
			return "rejected: tgt is an array, src is not"
		}
		srcElem, tgtElem := src.GetArrayElement(), tgt.GetArrayElement()
		if srcElem.IsNil() || tgtElem.IsNil() {
			return "rejected: missing array element type"
		}
		if srcElem.Has(typedesc.IsValueType) || tgtElem.Has(typedesc.IsValueType) {
			return "rejected: value-type arrays are invariant"
		}
		if IsAssignableTo(srcElem, tgtElem, loader) {
			return "accepted: element types are covariantly assignable"
		}
		return "rejected: element types are not assignable"
	}

	for p := src; !p.IsNil(); p = p.GetParent() {
		if p.Addr == tgt.Addr {
			return "accepted: tgt is in src's parent chain"
		}
	}
	return "rejected: tgt is a class not in src's parent chain"
}
