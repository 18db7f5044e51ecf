// Package aotdir implements the AOT Method Directory (spec.md §4.5): two
// append-only block-chain registries — one hash-indexed, one
// token-indexed — that the JIT consults to find boot-image-compiled
// helpers by name/signature or by (assembly_id, method_token).
//
// Grounded on the teacher's internal/gocore/module.go funcTab: an
// append-then-sort-then-binary-search registry built during a single
// init pass and never mutated again, the same append-only lifecycle
// spec.md §5 requires here.
package aotdir

// Hash64 computes the DJB2 variant spec.md §4.5 specifies: h = ((h<<5)+h)
// ^ byte, seed 5381. Applied identically to managed strings and
// null-terminated byte strings, so both registration paths (hash-table
// keys built from []byte here) agree with whatever produced the boot
// image's embedded hashes.
func Hash64(b []byte) uint64 {
	var h uint64 = 5381
	for _, c := range b {
		h = ((h << 5) + h) ^ uint64(c)
	}
	return h
}
