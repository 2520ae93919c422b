// Package ast defines the AST node kinds the type-compiler consumes.
// The lexer/parser that builds this tree is an external collaborator
// (out of scope for this module); this package only carries the node
// shapes spec'd by the compiler's input contract.
package ast

import "vexel/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Span() token.Span
}

// Stmt is a top-level or block-level statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a value-producing or type-producing expression.
type Expr interface {
	Node
	exprNode()
}

// TypeNode is a type-level expression (may also satisfy Expr in a few
// cases, e.g. LiteralType, mirroring the source grammar).
type TypeNode interface {
	Node
	typeNode()
}

// base carries the common Span() implementation; embed it in every
// concrete node.
type base struct {
	span token.Span
}

func (b base) Span() token.Span { return b.span }

// NewBase is a constructor helper for hand-built test fixtures and for
// nodes synthesized by the compiler itself.
func NewBase(span token.Span) base { return base{span: span} }

// SetSpan overwrites a node's span. External front ends that build nodes
// incrementally (internal/astjson, a future real parser) use this
// instead of reaching into the unexported base field directly.
func (b *base) SetSpan(span token.Span) { b.span = span }

// ---------- Program ----------

// SourceFile is the root of a single compiled source file.
type SourceFile struct {
	base
	Statements []Stmt
}

// ---------- Keyword type nodes ----------

type KeywordKind int

const (
	KeywordAny KeywordKind = iota
	KeywordNull
	KeywordUndefined
	KeywordNever
	KeywordBoolean
	KeywordString
	KeywordNumber
	KeywordTrue
	KeywordFalse
)

// KeywordTypeNode covers the single-opcode keyword/literal-keyword nodes:
// any, null, undefined, never, boolean, string, number, true, false.
type KeywordTypeNode struct {
	base
	Kind KeywordKind
}

func (*KeywordTypeNode) typeNode() {}
func (*KeywordTypeNode) exprNode() {}

// ---------- Literals ----------

type StringLiteral struct {
	base
	Text string
}

func (*StringLiteral) exprNode() {}
func (*StringLiteral) typeNode() {}

type NumericLiteral struct {
	base
	Text string
}

func (*NumericLiteral) exprNode() {}
func (*NumericLiteral) typeNode() {}

type BigIntLiteral struct {
	base
	Text string
}

func (*BigIntLiteral) exprNode() {}
func (*BigIntLiteral) typeNode() {}

// LiteralType forwards to its inner literal (StringLiteral,
// NumericLiteral, BigIntLiteral, or a keyword true/false literal).
type LiteralType struct {
	base
	Literal Expr
}

func (*LiteralType) typeNode() {}

// ---------- Identifiers ----------

// Identifier is used both as a value reference and, via TypeReference,
// as a type name. TypeArguments is non-nil only when used directly as
// an expression identifier carrying explicit type arguments (rare; most
// type references go through TypeReference).
type Identifier struct {
	base
	EscapedText   string
	TypeArguments []TypeNode
}

func (*Identifier) exprNode() {}
func (*Identifier) typeNode() {}

// ---------- Template literal types ----------

// TemplateLiteralPieceKind distinguishes a TemplateMiddle from a
// TemplateTail in TemplateSpan.Literal.
type TemplateLiteralPieceKind int

const (
	TemplateMiddle TemplateLiteralPieceKind = iota
	TemplateTail
)

// TemplatePiece is the literal text segment following a template span's
// interpolated type.
type TemplatePiece struct {
	base
	Kind    TemplateLiteralPieceKind
	RawText string
}

// TemplateSpan is one `${Type}literalText` segment of a template
// literal type.
type TemplateSpan struct {
	base
	Type    TypeNode
	Literal TemplatePiece
}

// TemplateHead is the leading literal text before the first span.
type TemplateHead struct {
	base
	RawText string
}

type TemplateLiteralType struct {
	base
	Head          TemplateHead
	TemplateSpans []TemplateSpan
}

func (*TemplateLiteralType) typeNode() {}

// ---------- Compound type expressions ----------

type UnionType struct {
	base
	Types []TypeNode
}

func (*UnionType) typeNode() {}

type ArrayType struct {
	base
	ElementType TypeNode
}

func (*ArrayType) typeNode() {}

// NamedTupleMember is a tuple element with a label, e.g. `head: string`
// or `...rest: number[]`.
type NamedTupleMember struct {
	base
	Name         string
	Type         TypeNode
	DotDotDotTok bool
	QuestionTok  bool
}

func (*NamedTupleMember) typeNode() {}

// OptionalTypeNode marks a bare tuple element as optional: `T?`.
type OptionalTypeNode struct {
	base
	Type TypeNode
}

func (*OptionalTypeNode) typeNode() {}

// TupleType's Elements holds TypeNode values that are either a bare
// TypeNode, a *NamedTupleMember, or an *OptionalTypeNode.
type TupleType struct {
	base
	Elements []TypeNode
}

func (*TupleType) typeNode() {}

// ArrayLiteralExpression is the value-level array literal, lowered as
// an inferred tuple type.
type ArrayLiteralExpression struct {
	base
	Elements []Expr
}

func (*ArrayLiteralExpression) exprNode() {}

// IndexedAccessType is `T[K]`, specialized when K is the literal
// string "length".
type IndexedAccessType struct {
	base
	ObjectType TypeNode
	IndexType  TypeNode
}

func (*IndexedAccessType) typeNode() {}

// RestType is `...T` used inside a tuple element position.
type RestType struct {
	base
	Type TypeNode
}

func (*RestType) typeNode() {}

// ParenthesizedType forwards to Type.
type ParenthesizedType struct {
	base
	Type TypeNode
}

func (*ParenthesizedType) typeNode() {}

// ParenthesizedExpression forwards to Expression.
type ParenthesizedExpression struct {
	base
	Expression Expr
}

func (*ParenthesizedExpression) exprNode() {}

// ---------- Object / interface members ----------

// PropertyName is either a bare Identifier or a computed Expr (e.g.
// `[a]: string`).
type PropertyName struct {
	Ident    *Identifier // non-nil for a bare identifier name
	Computed Expr        // non-nil for a computed name
}

type PropertySignature struct {
	base
	Name        PropertyName
	Type        TypeNode // nil means implicit Any
	Question    bool
	ReadonlyMod bool
}

func (*PropertySignature) typeNode() {}

type PropertyAssignment struct {
	base
	Name        PropertyName
	Initializer Expr // nil means implicit Any
	Question    bool
	ReadonlyMod bool
}

func (*PropertyAssignment) exprNode() {}

// ObjectMember is satisfied by *PropertySignature (TypeLiteral /
// InterfaceDeclaration members) and *PropertyAssignment
// (ObjectLiteralExpression properties).
type ObjectMember interface {
	Node
}

type TypeLiteral struct {
	base
	Members []ObjectMember
}

func (*TypeLiteral) typeNode() {}

type ObjectLiteralExpression struct {
	base
	Properties []ObjectMember
}

func (*ObjectLiteralExpression) exprNode() {}

// HeritageClause is an `extends` (or `implements`) clause list.
type HeritageClause struct {
	base
	IsExtends bool
	Types     []*ExpressionWithTypeArguments
}

type InterfaceDeclaration struct {
	base
	Name             *Identifier
	HeritageClauses  []HeritageClause
	Members          []ObjectMember
}

func (*InterfaceDeclaration) stmtNode() {}

// ExpressionWithTypeArguments is a heritage-clause entry or a
// type-argument-carrying expression, e.g. `Base<string>`.
type ExpressionWithTypeArguments struct {
	base
	Expression    Expr
	TypeArguments []TypeNode
}

func (*ExpressionWithTypeArguments) exprNode() {}
func (*ExpressionWithTypeArguments) typeNode() {}

// ---------- References & calls ----------

type TypeReference struct {
	base
	Name          *Identifier
	TypeArguments []TypeNode
}

func (*TypeReference) typeNode() {}

type CallExpression struct {
	base
	Callee        Expr
	TypeArguments []TypeNode
	Arguments     []Expr
}

func (*CallExpression) exprNode() {}

// ---------- Statements ----------

type ExpressionStatement struct {
	base
	Expression Expr
}

func (*ExpressionStatement) stmtNode() {}

// ConditionalExpression is the value-level ternary `a ? b : c`. Only
// the two branch types matter to this compiler (spec treats both
// branches as a union without evaluating the condition).
type ConditionalExpression struct {
	base
	Condition Expr
	WhenTrue  Expr
	WhenFalse Expr
}

func (*ConditionalExpression) exprNode() {}

// ConditionalType is `checkType extends extendsType ? trueType : falseType`.
type ConditionalType struct {
	base
	CheckType   TypeNode
	ExtendsType TypeNode
	TrueType    TypeNode
	FalseType   TypeNode
}

func (*ConditionalType) typeNode() {}

// BinaryOperator enumerates the operators BinaryExpression may carry;
// this compiler implements only Assign (see spec §4.E, §7).
type BinaryOperator int

const (
	OpAssign BinaryOperator = iota
	OpOther
)

type BinaryExpression struct {
	base
	Left     Expr
	Operator BinaryOperator
	Right    Expr
}

func (*BinaryExpression) exprNode() {}
func (*BinaryExpression) stmtNode() {}

// ---------- Declarations ----------

type TypeParameter struct {
	base
	Name        *Identifier
	Constraint  TypeNode // never emitted; see spec §9 Open Question
	DefaultType TypeNode
}

type TypeAliasDeclaration struct {
	base
	Name           *Identifier
	TypeParameters []*TypeParameter
	Type           TypeNode
}

func (*TypeAliasDeclaration) stmtNode() {}

type Parameter struct {
	base
	Name        *Identifier
	Type        TypeNode // nil means Unknown
	Question    bool
	Initializer Expr
}

type FunctionDeclaration struct {
	base
	Name           *Identifier
	TypeParameters []*TypeParameter
	Parameters     []*Parameter
	ReturnType     TypeNode // nil means infer Unknown (no body inspection)
	Body           Node     // opaque; this core never compiles bodies
}

func (*FunctionDeclaration) stmtNode() {}

type VariableDeclaration struct {
	base
	Name        *Identifier
	Type        TypeNode // nil means no annotation
	Initializer Expr      // nil means no initializer
	Const       bool
}

func (*VariableDeclaration) stmtNode() {}

func (v *VariableDeclaration) IsConst() bool { return v.Const }

type VariableStatement struct {
	base
	Declarations []*VariableDeclaration
}

func (*VariableStatement) stmtNode() {}
