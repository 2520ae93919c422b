package compiler

import (
	"vexel/internal/ast"
	"vexel/internal/opcode"
	"vexel/internal/symtab"
	"vexel/internal/token"
)

var keywordOps = map[ast.KeywordKind]opcode.OpCode{
	ast.KeywordAny:       opcode.Any,
	ast.KeywordNull:      opcode.Null,
	ast.KeywordUndefined: opcode.Undefined,
	ast.KeywordNever:     opcode.Never,
	ast.KeywordBoolean:   opcode.Boolean,
	ast.KeywordString:    opcode.String,
	ast.KeywordNumber:    opcode.Number,
	ast.KeywordTrue:      opcode.True,
	ast.KeywordFalse:     opcode.False,
}

// lower is the structural dispatch over every AST node kind spec §4.E
// describes, mirroring the original checker's Compiler::handle switch
// one case at a time.
func (c *Compiler) lower(node ast.Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {

	case *ast.KeywordTypeNode:
		c.Program.Emit(keywordOps[n.Kind], n.Span())

	case *ast.StringLiteral:
		c.Program.Emit(opcode.StringLiteral, n.Span())
		c.Program.PushStorage(n.Text)

	case *ast.NumericLiteral:
		c.Program.Emit(opcode.NumberLiteral, n.Span())
		c.Program.PushStorage(n.Text)

	case *ast.BigIntLiteral:
		c.Program.Emit(opcode.BigIntLiteral, n.Span())
		c.Program.PushStorage(n.Text)

	case *ast.LiteralType:
		c.lower(n.Literal)

	case *ast.IndexedAccessType:
		if lit, ok := n.IndexType.(*ast.LiteralType); ok {
			if str, ok := lit.Literal.(*ast.StringLiteral); ok && str.Text == "length" {
				c.lower(n.ObjectType)
				c.Program.Emit(opcode.Length, n.Span())
				return
			}
		}
		c.lower(n.ObjectType)
		c.lower(n.IndexType)
		c.Program.Emit(opcode.IndexAccess, n.Span())

	case *ast.TemplateLiteralType:
		c.lowerTemplateLiteralType(n)

	case *ast.UnionType:
		c.Program.PushFrame(false)
		for _, t := range n.Types {
			c.lower(t)
		}
		c.Program.Emit(opcode.Union, n.Span())
		c.Program.PopFrameImplicit()

	case *ast.TypeReference:
		c.lowerReference(n.Name.EscapedText, n.Name, n.TypeArguments, true)

	case *ast.Identifier:
		c.lowerReference(n.EscapedText, n, n.TypeArguments, false)

	case *ast.TypeAliasDeclaration:
		c.lowerTypeAlias(n)

	case *ast.TypeParameter:
		c.lowerTypeParameter(n)

	case *ast.FunctionDeclaration:
		c.lowerFunctionDeclaration(n)

	case *ast.Parameter:
		c.lowerParameter(n)

	case *ast.PropertyAssignment:
		if n.Initializer != nil {
			c.lower(n.Initializer)
		} else {
			c.Program.Emit(opcode.Any, n.Span())
		}
		c.lowerPropertyName(n.Name)
		c.Program.Emit(opcode.PropertySignature, propertyNameSpan(n.Name))
		if n.Question {
			c.Program.PushOp(opcode.Optional)
		}
		if n.ReadonlyMod {
			c.Program.PushOp(opcode.Readonly)
		}

	case *ast.PropertySignature:
		if n.Type != nil {
			c.lower(n.Type)
		} else {
			c.Program.PushOp(opcode.Any)
		}
		c.lowerPropertyName(n.Name)
		c.Program.Emit(opcode.PropertySignature, n.Span())
		if n.Question {
			c.Program.PushOp(opcode.Optional)
		}
		if n.ReadonlyMod {
			c.Program.PushOp(opcode.Readonly)
		}

	case *ast.InterfaceDeclaration:
		c.lowerInterface(n)

	case *ast.TypeLiteral:
		c.Program.PushFrame(false)
		for _, m := range n.Members {
			c.lower(m)
		}
		c.Program.Emit(opcode.ObjectLiteral, n.Span())
		c.Program.PopFrameImplicit()

	case *ast.ParenthesizedExpression:
		c.lower(n.Expression)

	case *ast.ParenthesizedType:
		c.lower(n.Type)

	case *ast.ExpressionWithTypeArguments:
		for _, t := range n.TypeArguments {
			c.lower(t)
		}
		c.lower(n.Expression)
		if len(n.TypeArguments) > 0 {
			c.Program.Emit(opcode.Instantiate, n.Span())
			c.Program.PushU16(uint16(len(n.TypeArguments)))
		}

	case *ast.ObjectLiteralExpression:
		c.Program.PushFrame(false)
		for _, p := range n.Properties {
			c.lower(p)
		}
		c.Program.Emit(opcode.ObjectLiteral, n.Span())
		c.Program.PopFrameImplicit()

	case *ast.CallExpression:
		for _, t := range n.TypeArguments {
			c.lower(t)
		}
		c.lower(n.Callee)
		if len(n.TypeArguments) > 0 {
			c.Program.Emit(opcode.Instantiate, n.Span())
			c.Program.PushU16(uint16(len(n.TypeArguments)))
		}
		for _, a := range n.Arguments {
			c.lower(a)
		}
		c.Program.Emit(opcode.CallExpression, n.Span())
		c.Program.PushU16(uint16(len(n.Arguments)))

	case *ast.ExpressionStatement:
		c.lower(n.Expression)

	case *ast.ConditionalExpression:
		c.Program.PushFrame(false)
		c.lower(n.WhenFalse)
		c.lower(n.WhenTrue)
		c.Program.Emit(opcode.Union, n.Span())
		c.Program.PopFrameImplicit()

	case *ast.ConditionalType:
		c.lowerConditionalType(n)

	case *ast.RestType:
		c.lower(n.Type)
		c.Program.Emit(opcode.Rest, n.Span())

	case *ast.ArrayLiteralExpression:
		c.Program.PushFrame(false)
		for _, e := range n.Elements {
			c.lower(e)
			c.Program.Emit(opcode.TupleMember, e.Span())
		}
		c.Program.Emit(opcode.Tuple, n.Span())
		c.Program.PopFrameImplicit()

	case *ast.ArrayType:
		c.lower(n.ElementType)
		c.Program.Emit(opcode.Array, n.Span())

	case *ast.TupleType:
		c.lowerTupleType(n)

	case *ast.BinaryExpression:
		c.lowerBinaryExpression(n)

	case *ast.VariableStatement:
		for _, decl := range n.Declarations {
			c.lower(decl)
		}

	case *ast.VariableDeclaration:
		c.lowerVariableDeclaration(n)

	default:
		c.unknownNode(node)
	}
}

// lowerReference is the shared body of the TypeReference and bare
// Identifier cases: both resolve name in scope and either load a
// TypeArgument/TypeVariable, or emit a Call to an existing routine.
// registerUsage mirrors the original's asymmetry: only the TypeReference
// case records tail-rest usage of a TypeArgument load, never the bare
// Identifier case.
func (c *Compiler) lowerReference(name string, nameNode ast.Node, typeArguments []ast.TypeNode, registerUsage bool) {
	sym := c.Program.FindSymbol(name)
	if sym == nil {
		c.cannotFind(nameNode)
		return
	}

	if sym.Kind == symtab.TypeArgument || sym.Kind == symtab.TypeVariable {
		c.Program.Emit(opcode.Loads, nameNode.Span())
		c.Program.PushSymbolAddress(sym)
		if registerUsage && sym.Kind == symtab.TypeArgument {
			c.Program.RegisterTypeArgumentUsage(sym)
		}
		return
	}

	for _, t := range typeArguments {
		c.lower(t)
	}
	c.Program.Emit(opcode.Call, nameNode.Span())
	if !sym.HasRoutine {
		fail("reference %q is not a reference to an existing routine", name)
	}
	c.Program.PushAddress(uint32(sym.Routine))
	c.Program.PushU16(uint16(len(typeArguments)))
}

func (c *Compiler) lowerPropertyName(pn ast.PropertyName) {
	if pn.Ident != nil {
		c.Program.PushStringLiteral(pn.Ident.EscapedText, pn.Ident.Span())
		return
	}
	c.lower(pn.Computed)
}

func propertyNameSpan(pn ast.PropertyName) token.Span {
	if pn.Ident != nil {
		return pn.Ident.Span()
	}
	return pn.Computed.Span()
}

func (c *Compiler) lowerTemplateLiteralType(n *ast.TemplateLiteralType) {
	c.Program.PushFrame(false)
	if n.Head.RawText != "" {
		c.Program.Emit(opcode.StringLiteral, n.Head.Span())
		c.Program.PushStorage(n.Head.RawText)
	}

	for _, span := range n.TemplateSpans {
		c.lower(span.Type)
		if span.Literal.RawText != "" {
			c.Program.Emit(opcode.StringLiteral, span.Literal.Span())
			c.Program.PushStorage(span.Literal.RawText)
		}
	}

	c.Program.Emit(opcode.TemplateLiteral, n.Span())
	c.Program.PopFrameImplicit()
}

func (c *Compiler) lowerInterface(n *ast.InterfaceDeclaration) {
	c.Program.PushFrame(false)

	for _, clause := range n.HeritageClauses {
		if !clause.IsExtends {
			continue
		}
		for _, t := range clause.Types {
			c.lower(t)
		}
	}

	for _, m := range n.Members {
		c.lower(m)
	}

	span := n.Span()
	if n.Name != nil {
		span = n.Name.Span()
	}
	c.Program.Emit(opcode.ObjectLiteral, span)
	c.Program.PopFrameImplicit()
}

func (c *Compiler) lowerTupleType(n *ast.TupleType) {
	c.Program.PushFrame(false)
	for _, e := range n.Elements {
		switch el := e.(type) {
		case *ast.NamedTupleMember:
			c.lower(el.Type)
			if el.DotDotDotTok {
				c.Program.PushOp(opcode.Rest)
			}
			c.Program.Emit(opcode.TupleMember, el.Span())
			if el.QuestionTok {
				c.Program.PushOp(opcode.Optional)
			}
		case *ast.OptionalTypeNode:
			c.lower(el.Type)
			c.Program.Emit(opcode.TupleMember, el.Span())
			c.Program.PushOp(opcode.Optional)
		default:
			c.lower(e)
			c.Program.Emit(opcode.TupleMember, e.Span())
		}
	}
	c.Program.Emit(opcode.Tuple, n.Span())
	c.Program.PopFrameImplicit()
}

func (c *Compiler) lowerBinaryExpression(n *ast.BinaryExpression) {
	if n.Operator != ast.OpAssign {
		fail("BinaryExpression operator not handled")
	}
	id, ok := n.Left.(*ast.Identifier)
	if !ok {
		fail("BinaryExpression left only Identifier implemented")
	}

	sym := c.Program.FindSymbol(id.EscapedText)
	if sym == nil {
		c.cannotFind(id)
		return
	}
	if !sym.HasRoutine {
		fail("symbol %q has no routine", id.EscapedText)
	}

	c.lower(n.Right)
	c.Program.Emit(opcode.Set, n.Span())
	c.Program.PushAddress(uint32(sym.Routine))
}
