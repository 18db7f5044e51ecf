package dispatch

import (
	"github.com/protonos/runtimecore/mem"
)

// cellSize is the width of one InterfaceDispatchCell / terminator cell:
// two machine words, {stub: ptr, cache: uptr} (spec.md §3).
const cellSize = 16

// Cell is an InterfaceDispatchCell, addressed at a call site.
type Cell struct {
	R    mem.Reader
	Addr mem.Address
}

func (c Cell) Stub() mem.Address { return c.R.ReadPtr(c.Addr) }
func (c Cell) Cache() uint64     { return uint64(c.R.ReadPtr(c.Addr.Add(8))) }
func (c Cell) Next() Cell        { return Cell{R: c.R, Addr: c.Addr.Add(cellSize)} }

// CellKind is which of the cache encodings a dispatch cell's cache word
// was classified as (spec.md §4.2).
type CellKind int

const (
	// KindVTableOffset: cache is a direct vtable byte offset.
	KindVTableOffset CellKind = iota
	// KindCacheHeader: cache points at a {interface_type,
	// slot_or_token_encoded} header.
	KindCacheHeader
	// KindInlinePointer: cache is itself the interface pointer or
	// metadata token, low bit masked off.
	KindInlinePointer
	// KindRelativePointer: cache is a relative offset to the interface
	// pointer.
	KindRelativePointer
	// KindIndirectedRelativePointer: as KindRelativePointer, but the
	// resolved address holds a pointer to dereference once more.
	KindIndirectedRelativePointer
	// KindTerminatorWalk: the defensive fallback — walk forward until a
	// cell with Stub()==0 and read its terminator encoding. Unreachable
	// for well-formed cache values since the low-two-bits classification
	// above is already exhaustive; kept for literal fidelity to the
	// "Otherwise" branch.
	KindTerminatorWalk
)

// Classification is the decoded record resolve_interface_method consults
// to perform its final lookup (spec.md §4.2).
type Classification struct {
	Kind          CellKind
	VtableOffset  int64
	InterfaceType mem.Address
	MetadataToken uint32
	InterfaceSlot uint16
	HasCache      bool
}

// slotOrTokenKind selects which half of a cache header's encoded second
// word is live.
type slotOrTokenKind int

const (
	encodedTypeAndSlotIndex slotOrTokenKind = iota
	encodedMetadataToken
)

// Classify decodes cell.Cache() per spec.md §4.2's low-two-bits-and-
// magnitude rule.
func Classify(cell Cell) Classification {
	r := cell.R
	cache := cell.Cache()
	lowBits := cache & 0x3

	switch {
	case lowBits == 0 && cache < 0x1000:
		return Classification{Kind: KindVTableOffset, VtableOffset: int64(cache)}

	case lowBits == 0 && cache >= 0x1000:
		header := mem.Address(cache)
		ifaceType := r.ReadPtr(header)
		encoded := uint64(r.ReadPtr(header.Add(8)))
		cl := Classification{Kind: KindCacheHeader, InterfaceType: ifaceType, HasCache: true}
		switch slotOrTokenKind(encoded & 0x3) {
		case encodedTypeAndSlotIndex:
			cl.InterfaceSlot = uint16(encoded >> 2)
		case encodedMetadataToken:
			cl.MetadataToken = uint32(encoded >> 2)
		}
		return cl

	case lowBits == 1:
		return Classification{Kind: KindInlinePointer, InterfaceType: mem.Address(cache &^ 0x3)}

	case lowBits == 3:
		cacheSlot := cell.Addr.Add(8)
		target := cacheSlot.Add(int64(int32(cache &^ 0x3)))
		return Classification{Kind: KindRelativePointer, InterfaceType: target}

	case lowBits == 2:
		cacheSlot := cell.Addr.Add(8)
		indirect := cacheSlot.Add(int64(int32(cache &^ 0x3)))
		target := r.ReadPtr(indirect)
		return Classification{Kind: KindIndirectedRelativePointer, InterfaceType: target}

	default:
		walk := cell
		for walk.Stub() != 0 {
			walk = walk.Next()
		}
		term := walk.Cache()
		return Classification{
			Kind:          KindTerminatorWalk,
			InterfaceType: mem.Address(term >> 16),
			InterfaceSlot: uint16(term & 0xFFFF),
		}
	}
}
