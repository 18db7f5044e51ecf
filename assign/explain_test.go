package assign

import (
	"strings"
	"testing"

	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

func TestExplainReflexive(t *testing.T) {
	f := newFixture()
	a := f.descriptor(mem.Address(0x1000_5000), 0, 0, 0, 0)

	got := Explain(a, a, nil)
	if !strings.Contains(got, "reflexive") {
		t.Fatalf("Explain(a, a) = %q, want mention of reflexive", got)
	}
}

func TestExplainParentChain(t *testing.T) {
	f := newFixture()
	base := f.descriptor(mem.Address(0x1000_5100), 0, 0, 0, 0)
	derived := f.descriptor(mem.Address(0x1000_5200), 0, base.Addr, 0, 0)

	if got := Explain(derived, base, nil); !strings.Contains(got, "accepted") || !strings.Contains(got, "parent chain") {
		t.Fatalf("Explain(derived, base) = %q, want acceptance via parent chain", got)
	}
	if got := Explain(base, derived, nil); !strings.Contains(got, "rejected") {
		t.Fatalf("Explain(base, derived) = %q, want rejection", got)
	}
}

func TestExplainInterfaceRejection(t *testing.T) {
	f := newFixture()
	base := f.descriptor(mem.Address(0x1000_5300), 0, 0, 0, 0)
	unrelatedIface := f.descriptor(mem.Address(0x1000_5400), typedesc.IsInterface, 0, 0, 0)

	got := Explain(base, unrelatedIface, nil)
	if !strings.Contains(got, "rejected") {
		t.Fatalf("Explain(base, unrelatedIface) = %q, want rejection", got)
	}
}

func TestExplainNilDescriptor(t *testing.T) {
	if got := Explain(typedesc.TypeDescriptor{}, typedesc.TypeDescriptor{}, nil); !strings.Contains(got, "nil") {
		t.Fatalf("Explain(nil, nil) = %q, want mention of nil descriptor", got)
	}
}
