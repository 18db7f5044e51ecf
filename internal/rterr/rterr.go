// Package rterr centralizes the sentinel values the core's error-handling
// design (spec.md §7) is built on. The core never returns a Go error across
// its external interfaces — every failure is an in-band sentinel (nil
// pointer, -1, false) — so this package exists only to give those
// sentinels names, and to hold the handful of real errors aotdir returns
// for registration misuse, which does cross a human-facing boundary.
package rterr

import "errors"

// NotFoundSlot is the sentinel returned by slot-resolution operations
// (get_interface_method_slot, dispatch-cell resolution) that find no
// match. spec.md §7 calls this "NotFound".
const NotFoundSlot int32 = -1

var (
	// ErrDuplicateToken is returned by aotdir when a (assembly_id,
	// method_token) pair is registered twice with a different code
	// pointer; the teacher's append-only registries assume registration
	// happens once per entry during kernel init (spec.md §5), so a
	// collision here is a real usage error, not a dispatch miss.
	ErrDuplicateToken = errors.New("rterr: duplicate (assembly_id, method_token) registration")

	// ErrFrozen is returned when Add* is called on an aotdir registry
	// after Freeze() has sorted it for binary search.
	ErrFrozen = errors.New("rterr: registry is frozen")
)
