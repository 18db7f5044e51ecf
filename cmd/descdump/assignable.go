package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/protonos/runtimecore/assign"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

// noGenericLoader is the assign.Loader descdump uses when inspecting a
// raw boot image: without a symbol table there's no generic-instantiation
// metadata to resolve, so every instantiation is treated as its own
// definition. Non-generic assignability questions (the common case when
// poking at a dumped descriptor) are unaffected.
type noGenericLoader struct{}

func (noGenericLoader) GenericDefinition(instantiation typedesc.TypeDescriptor) typedesc.TypeDescriptor {
	return instantiation
}

func newIsAssignableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "isassignable <image> <src-addr> <tgt-addr>",
		Short: "report whether src is assignable to tgt, and which rule decided it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			im, r, err := mapImage(args[0])
			if err != nil {
				return err
			}
			defer im.Close()

			src, err := parseAddr(args[1])
			if err != nil {
				return err
			}
			tgt, err := parseAddr(args[2])
			if err != nil {
				return err
			}
			return runIsAssignable(cmd.OutOrStdout(), r, src, tgt)
		},
	}
}

func runIsAssignable(w io.Writer, r mem.Reader, src, tgt mem.Address) error {
	s := typedesc.New(r, src)
	t := typedesc.New(r, tgt)
	ok := assign.IsAssignableTo(s, t, noGenericLoader{})
	fmt.Fprintf(w, "%v: %s\n", ok, assign.Explain(s, t, noGenericLoader{}))
	return nil
}
