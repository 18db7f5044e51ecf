package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/protonos/runtimecore/assign"
	"github.com/protonos/runtimecore/gcdesc"
	"github.com/protonos/runtimecore/mem"
	"github.com/protonos/runtimecore/typedesc"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl <image>",
		Short: "interactively query a boot image's descriptors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im, r, err := mapImage(args[0])
			if err != nil {
				return err
			}
			defer im.Close()
			return runRepl(cmd.OutOrStdout(), r)
		},
	}
}

// runRepl implements a handful of commands against the mapped image:
//
//	desc <addr>             dump the descriptor at addr
//	vtable <addr> <slot>     read vtable slot of the descriptor at addr
//	iface <addr> <index>     read interface-map entry index of addr
//	gc <obj> <desc>          enumerate reference slots of obj using desc
//	isassignable <src> <tgt> report assignability of src to tgt, and why
//	quit
func runRepl(w io.Writer, r mem.Reader) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "descdump> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "desc":
			if len(fields) != 2 {
				fmt.Fprintln(w, "usage: desc <addr>")
				continue
			}
			a, err := parseAddr(fields[1])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			dumpDescriptor(w, typedesc.New(r, a))
		case "vtable":
			if len(fields) != 3 {
				fmt.Fprintln(w, "usage: vtable <addr> <slot>")
				continue
			}
			a, err := parseAddr(fields[1])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			slot, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			fmt.Fprintf(w, "%#x\n", typedesc.New(r, a).VtableSlot(slot))
		case "iface":
			if len(fields) != 3 {
				fmt.Fprintln(w, "usage: iface <addr> <index>")
				continue
			}
			a, err := parseAddr(fields[1])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			idx, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			e := typedesc.New(r, a).GetInterface(idx)
			fmt.Fprintf(w, "%#x (start_slot=%d)\n", e.Descriptor.Addr, e.StartSlot)
		case "gc":
			if len(fields) != 3 {
				fmt.Fprintln(w, "usage: gc <obj-addr> <desc-addr>")
				continue
			}
			obj, err := parseAddr(fields[1])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			descAddr, err := parseAddr(fields[2])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			desc := typedesc.New(r, descAddr)
			gcdesc.EnumerateObjectReferences(r, obj, desc, func(offset int64, target mem.Address) bool {
				fmt.Fprintf(w, "+%d -> %#x\n", offset, target)
				return true
			})
		case "isassignable":
			if len(fields) != 3 {
				fmt.Fprintln(w, "usage: isassignable <src-addr> <tgt-addr>")
				continue
			}
			src, err := parseAddr(fields[1])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			tgt, err := parseAddr(fields[2])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			s, t := typedesc.New(r, src), typedesc.New(r, tgt)
			fmt.Fprintf(w, "%v: %s\n", assign.IsAssignableTo(s, t, noGenericLoader{}), assign.Explain(s, t, noGenericLoader{}))
		default:
			fmt.Fprintf(w, "unknown command %q (try desc, vtable, iface, gc, isassignable, quit)\n", fields[0])
		}
	}
}

func parseAddr(s string) (mem.Address, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return mem.Address(n), nil
}
