// Package rtlog is the structured-logging seam for the few places this
// core wants to record evidence of something unusual without changing
// behavior: a rejected DispatchMap, or a Tier-B interface-dispatch
// fallback firing (spec.md §9's open question). It mirrors the zap-backed logging idiom used throughout
// wippyai-wasm-runtime's runtime package (runtime/host.go, runtime/runtime.go),
// the pack's nearest example of a host runtime with a JIT-facing boundary.
package rtlog

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/protonos/runtimecore/internal/rtconfig"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Set installs the logger used by Warnf/Tracef. Passing nil installs a
// no-op logger. Kernel init calls this once, before any dispatch or
// descriptor parsing happens (single-threaded start-up, spec.md §5).
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

func logger() *zap.Logger {
	return current.Load()
}

// Warnf records an unusual-but-handled condition: a validation rejection
// or a Tier-B fallback. Always active, independent
// of rtconfig.Tracing, because these are evidence of a latent correctness
// risk (spec.md §9), not routine tracing.
func Warnf(msg string, fields ...zap.Field) {
	logger().Warn(msg, fields...)
}

// Tracef records routine dispatch-path detail. Gated on rtconfig.Tracing
// so the hot path pays for field construction only when a developer has
// opted in; functional behavior never depends on whether this fires
// (spec.md §9's "clean reimplementation should gate tracing behind a
// compile-time switch... functional behavior is independent").
func Tracef(msg string, fields ...zap.Field) {
	if !rtconfig.Tracing {
		return
	}
	logger().Debug(msg, fields...)
}
