// Package resolver runs a hoisting pre-pass over a SourceFile's
// top-level declarations before lowering begins.
//
// The checker this core is ported from resolves identifiers in a single
// top-to-bottom pass (see compiler.h's Compiler::handle): a type alias
// can only see names declared textually before it. That doesn't match
// how the source language's type aliases, functions and variables
// actually behave — they're hoisted, so `type A = B; type B = string;`
// must compile. Hoist closes that gap for root-frame declarations only;
// nested/local forward references are unchanged (still CannotFind).
package resolver

import (
	"vexel/internal/ast"
	"vexel/internal/symtab"
)

// RoutineRegistry is the narrow slice of *compiler.Program that Hoist
// needs. Defining it here (rather than importing compiler) keeps this
// package free of a dependency cycle — compiler imports resolver, not
// the other way around.
type RoutineRegistry interface {
	PreRegisterRoutine(name string, kind symtab.SymbolKind, span ast.Node)
}

// Hoist registers a placeholder symbol (and its backing subroutine) in
// the root frame for every top-level TypeAliasDeclaration,
// FunctionDeclaration and VariableDeclaration name, before any of their
// bodies are lowered.
func Hoist(reg RoutineRegistry, file *ast.SourceFile) {
	for _, stmt := range file.Statements {
		hoistStatement(reg, stmt)
	}
}

func hoistStatement(reg RoutineRegistry, stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.TypeAliasDeclaration:
		if n.Name != nil {
			reg.PreRegisterRoutine(n.Name.EscapedText, symtab.Type, n.Name)
		}
	case *ast.FunctionDeclaration:
		if n.Name != nil {
			reg.PreRegisterRoutine(n.Name.EscapedText, symtab.Function, n.Name)
		}
	case *ast.VariableStatement:
		for _, decl := range n.Declarations {
			if decl.Name != nil {
				reg.PreRegisterRoutine(decl.Name.EscapedText, symtab.Variable, decl.Name)
			}
		}
	}
}
