package compiler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"vexel/internal/ast"
	"vexel/internal/diag"
	"vexel/internal/opcode"
	"vexel/internal/resolver"
)

// Compiler drives the AST lowering pass (component E) that populates a
// Program (components B, C, D) ahead of Build (component F).
type Compiler struct {
	Program     *Program
	Log         *diag.Logger
	Diagnostics *multierror.Error
}

// New returns a Compiler with a fresh, empty Program. A nil log
// discards everything.
func New(log *diag.Logger) *Compiler {
	if log == nil {
		log = diag.Discard()
	}
	return &Compiler{Program: NewProgram(), Log: log}
}

// Compile lowers file's statements into a linked Program. The hoisting
// pre-pass (internal/resolver) runs first so a later-declared top-level
// type alias, function or variable resolves from an earlier one's body.
//
// Any compilation-fatal condition (spec §7) aborts the whole call and
// is returned as err; no partial Program is meaningful at that point.
// Embedded CannotFind errors never abort — they're both emitted into
// the bytecode (via Program.PushError) and collected into diags for a
// caller that wants a summary without decoding the image.
func Compile(file *ast.SourceFile, log *diag.Logger) (prog *Program, diags *multierror.Error, err error) {
	c := New(log)

	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			c.Log.Fatal(fe)
			err = fe
		}
	}()

	resolver.Hoist(c.Program, file)
	for _, stmt := range file.Statements {
		c.lower(stmt)
	}

	return c.Program, c.Diagnostics, nil
}

// cannotFind embeds the single recoverable error code this core
// produces: node resolved to nothing in scope.
func (c *Compiler) cannotFind(node ast.Node) {
	c.Program.Emit(opcode.Never, node.Span())
	c.Program.PushError(opcode.CannotFind, node.Span())
	c.Diagnostics = multierror.Append(c.Diagnostics, fmt.Errorf("cannot find name (span %s)", node.Span()))
}

// unknownNode is the forward-compatibility escape hatch spec §6.1
// requires: log at Debug, emit nothing, keep compiling.
func (c *Compiler) unknownNode(node ast.Node) {
	c.Log.UnknownNode(fmt.Sprintf("%T", node), node.Span())
}
