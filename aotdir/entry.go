package aotdir

import "github.com/protonos/runtimecore/mem"

// MethodFlags is the AotMethodEntry/AotTokenEntry flags byte (spec.md
// §3's AotMethodEntry record).
type MethodFlags uint8

const (
	HasThis MethodFlags = 1 << iota
	IsVirtual
	HasRefParams
	HasPointerParams
)

// ReturnKind is the entry's return-value classification, reusing the
// same element-type tag space signature parameters use.
type ReturnKind = ElementTypeTag

// MethodEntry is one row of the hash-indexed directory, spec.md §3's
// AotMethodEntry (48 bytes in the boot image; stored here unpacked for
// Go-native field access rather than mirrored byte-for-byte, since this
// directory is built at kernel-init time from register_aot_hash calls,
// not parsed from a wire buffer the way TypeDescriptor is).
type MethodEntry struct {
	TypeNameHash      uint64
	MethodNameHash    uint64
	SignatureHash     uint64
	NativeCode        mem.Address
	InstantiationHash uint32
	ArgCount          uint16
	ReturnKind        ReturnKind
	ReturnStructSize  uint8
	TypeGenericArity  uint8
	MethodGenericArity uint8
	Flags             MethodFlags
}

func (e MethodEntry) HasThis() bool { return e.Flags&HasThis != 0 }

// TokenEntry is one row of the token-indexed directory, spec.md §3's
// AotTokenEntry.
type TokenEntry struct {
	AssemblyID   uint32
	MethodToken  uint32
	NativeCode   mem.Address
	Flags        MethodFlags
}

// ctorPtrVariant is the synthetic method name spec.md §4.5 reserves for
// a constructor overload that takes a pointer parameter rather than an
// array parameter; the caller distinguishes the two via a boolean
// selector on lookup rather than by signature alone.
const ctorPtrVariant = ".ctor$ptr"

// MethodName returns name, or the ".ctor$ptr" synthetic name when the
// caller has signaled the pointer-parameter constructor variant.
func MethodName(name string, isCharPtrVariant bool) string {
	if isCharPtrVariant && name == ".ctor" {
		return ctorPtrVariant
	}
	return name
}
