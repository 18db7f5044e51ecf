package aotdir

import (
	"sort"

	"github.com/protonos/runtimecore/internal/rterr"
	"github.com/protonos/runtimecore/internal/rtconfig"
	"github.com/protonos/runtimecore/mem"
)

// block is one fixed-size link of the append-only chain (spec.md §4.5:
// "fixed-size blocks linked forward, entries stored contiguously within
// a block"), mirroring the teacher's funcTab.entries slice except split
// into bounded chunks rather than one ever-growing slice — the boot
// image registers entries in one burst at kernel init, so a block chain
// buys nothing over a plain growing slice functionally, but it is the
// layout spec.md §4.5 names, so it's kept explicit rather than collapsed
// into a single slice.
type block struct {
	entries []MethodEntry
	next    *block
}

// Registry is the hash-indexed AOT method directory. Entries are
// appended during kernel init (register_aot_hash); Freeze() sorts for
// binary search before the JIT may call Lookup.
type Registry struct {
	head, tail *block
	count      int
	frozen     bool
	sorted     []MethodEntry // built by Freeze, sorted by TypeNameHash then MethodNameHash
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	r := &Registry{}
	b := &block{}
	r.head, r.tail = b, b
	return r
}

// Add appends an entry to the tail block, allocating a new block when
// the current one reaches rtconfig.AotDirBlockSize entries (spec.md
// §4.5). Returns rterr.ErrFrozen if called after Freeze.
func (r *Registry) Add(e MethodEntry) error {
	if r.frozen {
		return rterr.ErrFrozen
	}
	if len(r.tail.entries) >= rtconfig.AotDirBlockSize {
		nb := &block{}
		r.tail.next = nb
		r.tail = nb
	}
	r.tail.entries = append(r.tail.entries, e)
	r.count++
	return nil
}

// RegisterHash is register_aot_hash (spec.md §6): builds the entry from
// its constituent fields and hashes the names with Hash64.
func (r *Registry) RegisterHash(typeName, methodName string, code mem.Address, argCount int, returnKind ReturnKind, hasThis, isVirtual bool, returnStructSize uint8, typeGenericArity, methodGenericArity uint8, sig uint64, instantiationHash uint32) error {
	var flags MethodFlags
	if hasThis {
		flags |= HasThis
	}
	if isVirtual {
		flags |= IsVirtual
	}
	return r.Add(MethodEntry{
		TypeNameHash:       Hash64([]byte(typeName)),
		MethodNameHash:     Hash64([]byte(methodName)),
		SignatureHash:      sig,
		NativeCode:         code,
		InstantiationHash:  instantiationHash,
		ArgCount:           uint16(argCount),
		ReturnKind:         returnKind,
		ReturnStructSize:   returnStructSize,
		TypeGenericArity:   typeGenericArity,
		MethodGenericArity: methodGenericArity,
		Flags:              flags,
	})
}

// Freeze sorts all entries by (TypeNameHash, MethodNameHash) into a
// flat slice for sort.Search-based lookup, mirroring the teacher's
// funcTab.sort() + binary-search funcTab.find(). After Freeze, Add
// returns rterr.ErrFrozen.
func (r *Registry) Freeze() {
	if r.frozen {
		return
	}
	out := make([]MethodEntry, 0, r.count)
	for b := r.head; b != nil; b = b.next {
		out = append(out, b.entries...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TypeNameHash != out[j].TypeNameHash {
			return out[i].TypeNameHash < out[j].TypeNameHash
		}
		return out[i].MethodNameHash < out[j].MethodNameHash
	})
	r.sorted = out
	r.frozen = true
}

// candidateRange returns the slice of r.sorted sharing typeNameHash,
// located via sort.Search the way funcTab.find binary-searches on min.
func (r *Registry) candidateRange(typeNameHash uint64) []MethodEntry {
	lo := sort.Search(len(r.sorted), func(i int) bool {
		return r.sorted[i].TypeNameHash >= typeNameHash
	})
	hi := sort.Search(len(r.sorted), func(i int) bool {
		return r.sorted[i].TypeNameHash > typeNameHash
	})
	return r.sorted[lo:hi]
}

// Lookup implements spec.md §4.5's three-tier lookup. Falls back to a
// linear scan of every entry when Freeze hasn't been called yet (kernel
// init may want to look something up before registration is complete,
// though that is not the expected steady-state path).
func (r *Registry) Lookup(typeName, methodName string, argCount int, signatureHash uint64, instantiationHash uint32, isCharPtrVariant bool) *MethodEntry {
	name := MethodName(methodName, isCharPtrVariant)
	typeNameHash := Hash64([]byte(typeName))
	methodNameHash := Hash64([]byte(name))

	var candidates []MethodEntry
	if r.frozen {
		candidates = r.candidateRange(typeNameHash)
	} else {
		for b := r.head; b != nil; b = b.next {
			for _, e := range b.entries {
				if e.TypeNameHash == typeNameHash {
					candidates = append(candidates, e)
				}
			}
		}
	}

	// Tier 1: exact match on all four fields.
	if signatureHash != 0 {
		for i := range candidates {
			e := &candidates[i]
			if e.MethodNameHash == methodNameHash && e.SignatureHash == signatureHash && e.InstantiationHash == instantiationHash {
				return e
			}
		}
	}

	// Tier 2: open generic — matching name/signature, any instantiation.
	for i := range candidates {
		e := &candidates[i]
		if e.MethodNameHash == methodNameHash && e.SignatureHash == signatureHash && e.TypeGenericArity > 0 {
			return e
		}
	}

	// Tier 3: legacy by arg count — names only, then arg_count, with the
	// arg_count==0 && !has_this relaxation.
	for i := range candidates {
		e := &candidates[i]
		if e.MethodNameHash != methodNameHash {
			continue
		}
		if int(e.ArgCount) == argCount {
			return e
		}
		if argCount == 0 && !e.HasThis() {
			return e
		}
	}
	return nil
}

// Count returns the total number of registered entries.
func (r *Registry) Count() int { return r.count }
