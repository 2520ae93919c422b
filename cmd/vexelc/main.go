package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "vexelc",
		Short:   "vexel type-compiler core CLI",
		Version: version,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug-level compiler diagnostics")
	root.PersistentFlags().Bool("no-color", false, "disable colored error output")
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no-color", root.PersistentFlags().Lookup("no-color"))

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		processGlobalFlags()
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, red(err.Error()))
	os.Exit(1)
}
