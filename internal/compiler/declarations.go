package compiler

import (
	"vexel/internal/ast"
	"vexel/internal/opcode"
	"vexel/internal/symtab"
)

// lowerTypeAlias ports the original's TypeAliasDeclaration case: the
// name is registered (or reused, if the hoisting pre-pass already
// claimed it) as a routine; a second declaration of the same name is
// silently skipped rather than re-populating the routine — per spec §9
// the duplicate-declaration error embedding is an Open Question this
// core leaves unimplemented, same as the original's own "todo".
func (c *Compiler) lowerTypeAlias(n *ast.TypeAliasDeclaration) {
	if n.Name == nil {
		return
	}
	sym := c.Program.PushSymbolForRoutine(n.Name.EscapedText, symtab.Type, n.Name.Span(), nil)
	if sym.Declarations > 1 {
		return
	}

	c.Program.PushSubroutine(n.Name.EscapedText)
	if len(n.TypeParameters) == 0 {
		c.Program.BlockTailCall()
	}
	for _, p := range n.TypeParameters {
		c.lower(p)
	}
	c.lower(n.Type)
	c.Program.PopSubroutine()
}

// lowerTypeParameter never emits Constraint (spec §9 Open Question:
// constraints are parsed but not checked by this core).
func (c *Compiler) lowerTypeParameter(n *ast.TypeParameter) {
	if n.Name == nil {
		return
	}
	c.Program.PushSymbol(n.Name.EscapedText, symtab.TypeArgument, n.Name.Span(), nil)

	if n.DefaultType != nil {
		c.Program.PushSubroutineNameless()
		c.lower(n.DefaultType)
		sub := c.Program.PopSubroutine()
		c.Program.Emit(opcode.TypeArgumentDefault, n.Name.Span())
		c.Program.PushAddress(uint32(sub.Index))
	} else {
		c.Program.Emit(opcode.TypeArgument, n.Name.Span())
	}
}

func (c *Compiler) lowerParameter(n *ast.Parameter) {
	if n.Type != nil {
		c.lower(n.Type)
	} else {
		c.Program.PushOp(opcode.Unknown)
	}

	c.Program.Emit(opcode.Parameter, n.Span())
	if n.Name != nil {
		c.Program.PushStorage(n.Name.EscapedText)
	} else {
		c.Program.PushStorage("")
	}

	if n.Question {
		c.Program.Emit(opcode.Optional, n.Span())
	}
	if n.Initializer != nil {
		c.lower(n.Initializer)
		c.Program.Emit(opcode.Initializer, n.Initializer.Span())
	}
}

// lowerFunctionDeclaration mirrors the original's split: a function with
// type parameters compiles to a nameless Function subroutine wrapped in
// a FunctionRef (the VM must instantiate it before calling), while a
// function with none compiles directly into its named routine. Inferring
// a return type from the body is never attempted (spec §9 Open
// Question) — an absent ReturnType always becomes Unknown.
func (c *Compiler) lowerFunctionDeclaration(n *ast.FunctionDeclaration) {
	if n.Name == nil {
		return
	}
	sym := c.Program.PushSymbolForRoutine(n.Name.EscapedText, symtab.Function, n.Name.Span(), nil)
	if sym.Declarations > 1 {
		return
	}

	if len(n.TypeParameters) > 0 {
		c.Program.PushSubroutine(n.Name.EscapedText)
		subroutineIndex := c.Program.PushSubroutineNameless()

		for _, p := range n.TypeParameters {
			c.lower(p)
		}
		for _, p := range n.Parameters {
			c.lower(p)
		}
		c.lowerReturnType(n.ReturnType)
		c.Program.Emit(opcode.Function, n.Span())
		c.Program.PopSubroutine()

		c.Program.Emit(opcode.FunctionRef, n.Span())
		c.Program.PushAddress(uint32(subroutineIndex))
		c.Program.PopSubroutine()
		return
	}

	c.Program.PushSubroutine(n.Name.EscapedText)
	for _, p := range n.Parameters {
		c.lower(p)
	}
	c.lowerReturnType(n.ReturnType)
	c.Program.Emit(opcode.Function, n.Span())
	c.Program.PopSubroutine()
}

func (c *Compiler) lowerReturnType(rt ast.TypeNode) {
	if rt != nil {
		c.lower(rt)
		return
	}
	c.Program.PushOp(opcode.Unknown)
}

// lowerVariableDeclaration mirrors the original's two shapes: an
// annotated declaration ("let x: T = v") stores T in the symbol's
// routine (TailCall blocked, since the routine's result is read back
// later) and, when there's an initializer, emits a Call+Assign runtime
// check against it; an unannotated one stores the initializer's widened
// type in the routine and, for non-const declarations, re-emits the
// initializer a second time followed by Set so the current narrowed
// type differs from the declared (widened) one.
func (c *Compiler) lowerVariableDeclaration(n *ast.VariableDeclaration) {
	if n.Name == nil {
		return
	}
	sym := c.Program.PushSymbolForRoutine(n.Name.EscapedText, symtab.Variable, n.Name.Span(), nil)
	if sym.Declarations > 1 {
		return
	}

	if n.Type != nil {
		subroutineIndex := c.Program.PushSubroutine(n.Name.EscapedText)
		c.Program.BlockTailCall()
		c.lower(n.Type)
		c.Program.PopSubroutine()

		if n.Initializer != nil {
			c.lower(n.Initializer)
			c.Program.PushOp(opcode.Call)
			c.Program.PushAddress(uint32(subroutineIndex))
			c.Program.PushU16(0)
			c.Program.Emit(opcode.Assign, n.Name.Span())
		}
		return
	}

	subroutineIndex := c.Program.PushSubroutine(n.Name.EscapedText)
	if n.Initializer != nil {
		c.lower(n.Initializer)
		if !n.Const {
			c.Program.PushOp(opcode.Widen)
		}
		c.Program.PopSubroutine()

		if !n.Const {
			c.lower(n.Initializer)
			c.Program.PushOp(opcode.Set)
			c.Program.PushAddress(uint32(subroutineIndex))
		}
		return
	}

	c.Program.PushOp(opcode.Any)
	c.Program.PopSubroutine()
}
