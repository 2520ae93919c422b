package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vexel/internal/astjson"
	"vexel/internal/compiler"
	"vexel/internal/diag"
)

func newCompileCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "compile <file.json>",
		Short: "compile a JSON-encoded AST into a .vxc bytecode image",
		Long: `compile reads a JSON AST (internal/astjson's format — the
lexer/parser that would normally turn source text into this tree is
outside this module's scope) and writes the linked bytecode image
Build() produces for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <input>.vxc)")
	return cmd
}

func runCompile(input, out string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	file, err := astjson.Decode(data)
	if err != nil {
		return err
	}

	var log *diag.Logger
	if viper.GetBool("verbose") {
		log = diag.Default()
	} else {
		log = diag.Discard()
	}

	prog, diags, err := compiler.Compile(file, log)
	if err != nil {
		return err
	}
	if diags != nil && len(diags.Errors) > 0 {
		fmt.Fprintln(os.Stderr, red(diags.Error()))
	}

	if out == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		out = base + ".vxc"
	}
	if err := os.WriteFile(out, prog.Build(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
