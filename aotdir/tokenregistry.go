package aotdir

import (
	"sort"

	"github.com/protonos/runtimecore/internal/rterr"
	"github.com/protonos/runtimecore/internal/rtconfig"
	"github.com/protonos/runtimecore/mem"
)

type tokenBlock struct {
	entries []TokenEntry
	next    *tokenBlock
}

// tokenKey packs (assembly_id, method_token) into a single comparable
// value for sorting and exact lookup.
type tokenKey struct {
	assemblyID  uint32
	methodToken uint32
}

// TokenRegistry is the token-indexed AOT method directory, keyed by
// (assembly_id, method_token) (spec.md §4.5).
type TokenRegistry struct {
	head, tail *tokenBlock
	count      int
	frozen     bool
	byKey      map[tokenKey]TokenEntry
	sortedKeys []tokenKey
}

func NewTokenRegistry() *TokenRegistry {
	b := &tokenBlock{}
	return &TokenRegistry{head: b, tail: b, byKey: make(map[tokenKey]TokenEntry)}
}

// Add appends an entry. A duplicate (assembly_id, method_token) pair
// registered with a different code pointer is rejected with
// rterr.ErrDuplicateToken — append-only registration assumes each slot
// is registered exactly once (spec.md §5).
func (r *TokenRegistry) Add(e TokenEntry) error {
	if r.frozen {
		return rterr.ErrFrozen
	}
	key := tokenKey{assemblyID: e.AssemblyID, methodToken: e.MethodToken}
	if existing, ok := r.byKey[key]; ok {
		if existing.NativeCode != e.NativeCode {
			return rterr.ErrDuplicateToken
		}
		return nil
	}
	if len(r.tail.entries) >= rtconfig.AotDirBlockSize {
		nb := &tokenBlock{}
		r.tail.next = nb
		r.tail = nb
	}
	r.tail.entries = append(r.tail.entries, e)
	r.byKey[key] = e
	r.count++
	return nil
}

// RegisterToken is register_aot_token (spec.md §6).
func (r *TokenRegistry) RegisterToken(assemblyID, methodToken uint32, code mem.Address, flags MethodFlags) error {
	return r.Add(TokenEntry{AssemblyID: assemblyID, MethodToken: methodToken, NativeCode: code, Flags: flags})
}

// Freeze records the registered keys in sorted order and makes later Add
// calls fail with rterr.ErrFrozen. Lookup does not use the sorted keys: it
// reads the byKey map, frozen or not.
func (r *TokenRegistry) Freeze() {
	if r.frozen {
		return
	}
	keys := make([]tokenKey, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].assemblyID != keys[j].assemblyID {
			return keys[i].assemblyID < keys[j].assemblyID
		}
		return keys[i].methodToken < keys[j].methodToken
	})
	r.sortedKeys = keys
	r.frozen = true
}

// Lookup is lookup_token (spec.md §6): exact (assembly_id, method_token)
// match, or nil.
func (r *TokenRegistry) Lookup(assemblyID, methodToken uint32) *TokenEntry {
	key := tokenKey{assemblyID: assemblyID, methodToken: methodToken}
	if e, ok := r.byKey[key]; ok {
		return &e
	}
	return nil
}

func (r *TokenRegistry) Count() int { return r.count }
