// Package runtimecore is the composition root (spec.md §6): it wires
// typedesc/assign/dispatch/gcdesc/aotdir/rthelpers behind the exact
// external-interface function names spec.md §6 names, the single surface
// compiled code, the GC, and the loader call into this core through.
//
// Grounded on internal/gocore.Process, the teacher's own composition
// root: one struct holding heap/modules/funcTab/rtConsts behind an
// exported method set, constructed once at attach time and handed to
// every consumer (cmd/viewcore's subcommands, the ogle debugger). Hub
// plays the same role, constructed once at kernel init and handed to the
// JIT, the GC, and the loader.
package runtimecore

import (
	"github.com/protonos/runtimecore/aotdir"
	"github.com/protonos/runtimecore/assign"
	"github.com/protonos/runtimecore/dispatch"
	"github.com/protonos/runtimecore/gcdesc"
	"github.com/protonos/runtimecore/internal/rtlog"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/rthelpers"
	"github.com/protonos/runtimecore/typedesc"
	"go.uber.org/zap"
)

// Hub composes every engine in this core behind spec.md §6's external
// interface. The JIT, GC, and loader only ever see a *Hub; the host-side
// cmd/descdump tool is the one caller that uses assign and gcdesc
// directly.
type Hub struct {
	R   mem.ReadWriter
	Log *zap.Logger

	methods *aotdir.Registry
	tokens  *aotdir.TokenRegistry
	loader  assign.Loader
	helpers *rthelpers.Helpers

	isStub   dispatch.StubClassifier
	resolver dispatch.StubResolver
}

// New constructs a Hub over the given address space. loader resolves
// generic definitions for the Assignability Engine (spec.md §4.4);
// alloc backs Runtime Helpers allocation (spec.md §4.6); isStub/resolver
// drive lazy virtual-slot compilation (spec.md §4.2). log receives the
// Tier B evidence warnings GetInterfaceMethodSlot emits and any
// dispatch-map validation rejections (spec.md §9).
func New(r mem.ReadWriter, log *zap.Logger, loader assign.Loader, alloc rthelpers.Allocator, isStub dispatch.StubClassifier, resolver dispatch.StubResolver) *Hub {
	rtlog.Set(log)
	return &Hub{
		R:        r,
		Log:      log,
		methods:  aotdir.NewRegistry(),
		tokens:   aotdir.NewTokenRegistry(),
		loader:   loader,
		helpers:  rthelpers.New(alloc, r),
		isStub:   isStub,
		resolver: resolver,
	}
}

// RegisterAotHash is register_aot_hash: add one method to the
// hash-indexed AOT Method Directory (spec.md §4.5). Called during kernel
// init, once per AOT-compiled method, before FreezeDirectory freezes
// the registry.
func (h *Hub) RegisterAotHash(typeName, methodName string, code mem.Address, argCount int, returnKind aotdir.ReturnKind, hasThis, isVirtual bool, returnStructSize uint8, typeGenericArity, methodGenericArity uint8, sig uint64, instantiationHash uint32) error {
	return h.methods.RegisterHash(typeName, methodName, code, argCount, returnKind, hasThis, isVirtual, returnStructSize, typeGenericArity, methodGenericArity, sig, instantiationHash)
}

// RegisterAotToken is register_aot_token: add one method to the
// token-indexed AOT Method Directory (spec.md §4.5).
func (h *Hub) RegisterAotToken(assemblyID, methodToken uint32, code mem.Address, flags aotdir.MethodFlags) error {
	return h.tokens.RegisterToken(assemblyID, methodToken, code, flags)
}

// FreezeDirectory freezes both AOT registries, enabling binary-search
// lookup in the hash-indexed one (spec.md §4.5); token lookup is a map
// lookup before and after. Called once, after every RegisterAot* call
// during kernel init and before the first LookupHash/LookupToken.
func (h *Hub) FreezeDirectory() {
	h.methods.Freeze()
	h.tokens.Freeze()
}

// LookupHash is lookup_hash: the 3-tier AOT method lookup (spec.md §4.5).
func (h *Hub) LookupHash(typeName, methodName string, argCount int, signatureHash uint64, instantiationHash uint32, isCharPtrVariant bool) *aotdir.MethodEntry {
	return h.methods.Lookup(typeName, methodName, argCount, signatureHash, instantiationHash, isCharPtrVariant)
}

// LookupToken is lookup_token: the exact (assembly_id, method_token)
// lookup (spec.md §4.5).
func (h *Hub) LookupToken(assemblyID, methodToken uint32) *aotdir.TokenEntry {
	return h.tokens.Lookup(assemblyID, methodToken)
}

// GetRhpNewFastPtr is get_rhp_new_fast_ptr: the allocation entry point
// compiled code calls for `new T()` (spec.md §4.6).
func (h *Hub) GetRhpNewFastPtr(desc typedesc.TypeDescriptor) mem.Address {
	return h.helpers.NewFast(desc)
}

// GetRhpNewArrayPtr is get_rhp_new_array_ptr: the allocation entry point
// for `new T[n]` (spec.md §4.6).
func (h *Hub) GetRhpNewArrayPtr(desc typedesc.TypeDescriptor, n uint32) mem.Address {
	return h.helpers.NewArray(desc, n)
}

// GetMDArrayHelperPtr is get_md_array_helper_ptr(rank): dispatches to
// the rank-specific MD-array constructor (spec.md §4.6). Ranks above 3
// fall back to the general rthelpers.NewMDArray via dims.
func (h *Hub) GetMDArrayHelperPtr(desc typedesc.TypeDescriptor, dims []uint32) mem.Address {
	switch len(dims) {
	case 2:
		return h.helpers.NewMDArray2D(desc, dims[0], dims[1])
	case 3:
		return h.helpers.NewMDArray3D(desc, dims[0], dims[1], dims[2])
	default:
		return h.helpers.NewMDArray(desc, dims)
	}
}

// GetIsAssignableToPtr is get_is_assignable_to_ptr: the Assignability
// Engine entry point (spec.md §4.4).
func (h *Hub) GetIsAssignableToPtr(src, tgt typedesc.TypeDescriptor) bool {
	return assign.IsAssignableTo(src, tgt, h.loader)
}

// GetInterfaceMethodPtr is get_interface_method_ptr: resolve an
// interface method slot to its implementation slot without going
// through a dispatch cell (spec.md §4.2).
func (h *Hub) GetInterfaceMethodPtr(t, iface typedesc.TypeDescriptor, methodSlot int) int32 {
	return dispatch.GetInterfaceMethodSlot(t, iface, methodSlot, h.loader)
}

// RhpResolveInterfaceMethod is resolve_interface_method: the full
// dispatch-cell classification-and-resolution path (spec.md §4.2, §5).
func (h *Hub) RhpResolveInterfaceMethod(obj, cellAddr mem.Address, methodSlot int) mem.Address {
	return dispatch.ResolveInterfaceMethod(h.R, obj, cellAddr, methodSlot, h.loader)
}

// RhpResolveVirtualMethod resolves a virtual call slot, handing off to
// the stub resolver on a lazily-compiled target (spec.md §4.2).
func (h *Hub) RhpResolveVirtualMethod(obj mem.Address, slot int) mem.Address {
	return dispatch.ResolveVirtual(h.R, obj, slot, h.isStub, h.resolver)
}

// EnumerateObjectReferences is enumerate_object_references: the GC's
// per-object reference walk (spec.md §4.3).
func (h *Hub) EnumerateObjectReferences(obj mem.Address, fn gcdesc.RefCallback) {
	desc := typedesc.HeaderAt(h.R, obj)
	if desc.IsNil() {
		return
	}
	gcdesc.EnumerateObjectReferences(h.R, obj, desc, fn)
}

// EnumerateStaticRoots is enumerate_static_roots: the GC's static-root
// scan (spec.md §4.3).
func (h *Hub) EnumerateStaticRoots(regionStart mem.Address, count int, fn gcdesc.RefCallback) {
	gcdesc.EnumerateStaticRoots(h.R, regionStart, count, fn)
}
