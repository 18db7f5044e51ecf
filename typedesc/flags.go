package typedesc

// Flags is the 32-bit flags_combined word: (flags << 16) | component_size
// (spec.md §3). Individual bits are tested with Has, never by masking the
// raw field directly, so a renumbering of the bit layout only touches this
// file.
type Flags uint32

const (
	HasComponentSize Flags = 0x80000000 // array or string
	HasPointers      Flags = 0x01000000 // GCDesc present before the descriptor
	IsDelegate       Flags = 0x00800000
	HasVariance      Flags = 0x00400000 // generic definition only
	IsValueType      Flags = 0x00200000
	HasFinalizer     Flags = 0x00100000
	IsArray          Flags = 0x00080000
	HasDispatchMap   Flags = 0x00040000 // AOT-emitted
	IsInterface      Flags = 0x00020000
	IsNullable       Flags = 0x00010000
)

func (f Flags) Has(bit Flags) bool {
	return f&bit != 0
}
