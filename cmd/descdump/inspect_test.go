package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/protonos/runtimecore/internal/desctest"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

func TestDumpDescriptorReportsFlagsAndVtable(t *testing.T) {
	im := desctest.NewImage(mem.Address(0x9000_0000), 0x200)
	addr := mem.Address(0x9000_0000)

	im.PutU16(addr.Add(0), 0)
	im.PutU16(addr.Add(2), uint16(typedesc.IsValueType>>16))
	im.PutU32(addr.Add(4), 16)
	im.PutPtr(addr.Add(8), 0)
	im.PutU16(addr.Add(16), 1)
	im.PutU16(addr.Add(18), 0)
	im.PutU32(addr.Add(20), 0xABCD)
	im.PutPtr(addr.Add(24), mem.Address(0x1234))

	t0 := typedesc.New(im.Reader(), addr)

	var buf bytes.Buffer
	dumpDescriptor(&buf, t0)
	out := buf.String()

	if !strings.Contains(out, "base_size") || !strings.Contains(out, "16") {
		t.Fatalf("output missing base_size: %q", out)
	}
	if !strings.Contains(out, "is_value_type") {
		t.Fatalf("output missing is_value_type flag: %q", out)
	}
	if !strings.Contains(out, "vtable[0]") {
		t.Fatalf("output missing vtable[0]: %q", out)
	}
}
