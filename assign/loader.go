// Package assign implements the Assignability Engine (spec.md §4.4):
// is_assignable_to, variance compatibility, cross-world structural
// equivalence, and find_variant_compatible_index. It depends one-way on
// typedesc; the reverse dependency (typedesc needing assign) never
// arises, because every operation here takes TypeDescriptor values as
// plain parameters rather than living as TypeDescriptor methods — the
// same "operations as functions over a view type" shape the teacher uses
// for Process methods over *Type (internal/gocore/type.go), just split
// across a package boundary instead of a receiver.
package assign

import "github.com/protonos/runtimecore/typedesc"

// Loader resolves the generic definition descriptor of a generic
// interface instantiation. It's an opaque external collaborator (spec.md
// §4.4's "resolved by an external loader") — this core has no metadata
// reader of its own, the same boundary the teacher draws around
// DWARF/symbol lookups living outside gocore proper.
type Loader interface {
	GenericDefinition(instantiation typedesc.TypeDescriptor) typedesc.TypeDescriptor
}
