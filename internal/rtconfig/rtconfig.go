// Package rtconfig holds the boot-time tunables of the runtime core. There
// is no configuration file, environment variable, or flag parsing here —
// by the time this core runs, there's no filesystem and no process
// environment to read one from — so, following the teacher's habit of
// naming tunables as constants close to their point of use (heapInfoSize,
// heapTableSize in internal/gocore/object.go), this package is a plain
// struct with documented defaults that the kernel's init code may override
// before the first TypeDescriptor is parsed.
package rtconfig

// Validation holds the dispatch-map validation thresholds from spec.md
// §4.1/§9. These are heuristic guards against parsing uninitialized or
// erased-placeholder memory, not protocol constants, so they're
// configurable rather than baked into typedesc as literals.
type Validation struct {
	// MaxRelPtrOffset bounds the magnitude of a relative pointer's
	// offset. spec.md: "reject if |relative_offset| > 1 MiB".
	MaxRelPtrOffset int64

	// MinValidAddress and MaxValidAddress bound the address a resolved
	// RelPtr may land at. spec.md: "[0x10000, 0xFFFF_8000_0000_0000]".
	MinValidAddress uint64
	MaxValidAddress uint64

	// MaxEntryCountPerInterface bounds DispatchMap entry counts: reject
	// if total entries exceed (num_interfaces + 1) * this factor.
	MaxEntryCountPerInterface int
}

// DefaultValidation is the threshold set spec.md documents.
var DefaultValidation = Validation{
	MaxRelPtrOffset:           1 << 20,
	MinValidAddress:           0x10000,
	MaxValidAddress:           0xFFFF_8000_0000_0000,
	MaxEntryCountPerInterface: 50,
}

// Worlds classifies descriptor addresses into the AOT or kernel world for
// structural equivalence (spec.md §4.4, §9). The boundary is conservative
// and boot-image-specific, so it lives in config rather than as a typedesc
// constant.
type Worlds struct {
	// AotImageMin is the address at or above which a descriptor pointer
	// is considered to live in the AOT boot image. spec.md: "conservatively
	// >= 0x1D00_0000".
	AotImageMin uint64
}

var DefaultWorlds = Worlds{
	AotImageMin: 0x1D00_0000,
}

// Tracing gates the debug-console-style instrumentation spec.md §9 flags as
// an open question ("should be gated behind a compile-time switch").
// It is a runtime bool rather than a build tag, so it can be switched on
// without a rebuild. internal/rtlog.Tracef checks it once per call and does
// nothing while it is false; nothing in this module sets it to true.
var Tracing = false

// AotDirBlockSize is the number of entries per block in aotdir's
// append-only block chains (spec.md §9 "choose a fixed block size").
const AotDirBlockSize = 256
