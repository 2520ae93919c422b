package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vexel/internal/compiler"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.vxc>",
		Short: "dump a .vxc image's storage and subroutine tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func runInspect(input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	info, err := compiler.Inspect(data)
	if err != nil {
		return err
	}

	fmt.Printf("storage (%d entries):\n", len(info.Storage))
	for _, item := range info.Storage {
		fmt.Printf("  @%-6d hash=%016x %q\n", item.Address, item.Hash, item.Text)
	}

	fmt.Printf("subroutines (%d):\n", len(info.Subroutines))
	for i, sub := range info.Subroutines {
		name := info.Name(sub)
		if name == "" {
			name = "<nameless>"
		}
		fmt.Printf("  [%d] %-20s code=@%-6d flags=%02x\n", i, name, sub.CodeAddress, sub.Flags)
	}

	fmt.Printf("main @%d\n", info.MainAddress)
	return nil
}
