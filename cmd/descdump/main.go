// Command descdump is a developer tool for inspecting a boot image's
// TypeDescriptor layout directly, without booting the kernel. It mmaps
// the image read-only and lets a developer dump a single descriptor
// (inspect) or poke around interactively (repl).
//
// Grounded on cmd/viewcore/main.go's command-dispatch shape and
// objref.go's use of cobra for a single subcommand, generalized here to
// the whole CLI; the repl subcommand borrows the readline idiom from
// ogle/demo/ogler (the teacher's one interactive debugging frontend).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var baseAddr uint64
var archName string

func main() {
	root := &cobra.Command{
		Use:   "descdump",
		Short: "inspect TypeDescriptor layout in a boot image",
	}
	root.PersistentFlags().Uint64Var(&baseAddr, "base", 0, "address the image's first byte is mapped at")
	root.PersistentFlags().StringVar(&archName, "arch", "amd64", "target profile the image was built for (amd64 or arm64)")
	root.AddCommand(newInspectCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newIsAssignableCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
