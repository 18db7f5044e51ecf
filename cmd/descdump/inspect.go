package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <image> <descriptor-addr-hex>",
		Short: "dump one TypeDescriptor's layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			im, r, err := mapImage(args[0])
			if err != nil {
				return err
			}
			defer im.Close()

			n, err := strconv.ParseUint(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("bad descriptor address %q: %w", args[1], err)
			}
			dumpDescriptor(cmd.OutOrStdout(), typedesc.New(r, mem.Address(n)))
			return nil
		},
	}
}

func dumpDescriptor(w io.Writer, t typedesc.TypeDescriptor) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "address\t%#x\n", t.Addr)
	fmt.Fprintf(tw, "component_size\t%d\n", t.ComponentSize())
	fmt.Fprintf(tw, "base_size\t%d\n", t.BaseSize())
	fmt.Fprintf(tw, "num_vtable_slots\t%d\n", t.NumVtableSlots())
	fmt.Fprintf(tw, "num_interfaces\t%d\n", t.NumInterfaces())
	fmt.Fprintf(tw, "type_hash\t%#x\n", t.TypeHash())
	fmt.Fprintf(tw, "related_type\t%#x\n", t.RelatedTypeAddr())
	fmt.Fprintf(tw, "is_reference_type\t%v\n", t.IsReferenceType())

	for _, f := range []struct {
		name string
		bit  typedesc.Flags
	}{
		{"has_component_size", typedesc.HasComponentSize},
		{"has_pointers", typedesc.HasPointers},
		{"is_delegate", typedesc.IsDelegate},
		{"has_variance", typedesc.HasVariance},
		{"is_value_type", typedesc.IsValueType},
		{"has_finalizer", typedesc.HasFinalizer},
		{"is_array", typedesc.IsArray},
		{"has_dispatch_map", typedesc.HasDispatchMap},
		{"is_interface", typedesc.IsInterface},
		{"is_nullable", typedesc.IsNullable},
	} {
		if t.Has(f.bit) {
			fmt.Fprintf(tw, "flag\t%s\n", f.name)
		}
	}

	for i := 0; i < int(t.NumVtableSlots()); i++ {
		fmt.Fprintf(tw, "vtable[%d]\t%#x\n", i, t.VtableSlot(i))
	}
	for i := 0; i < int(t.NumInterfaces()); i++ {
		e := t.GetInterface(i)
		fmt.Fprintf(tw, "interface[%d]\t%#x (start_slot=%d)\n", i, e.Descriptor.Addr, e.StartSlot)
	}
}
