package astjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vexel/internal/ast"
	"vexel/internal/token"
)

func TestDecodeTypeAliasUnion(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"statements": [{
			"kind": "TypeAliasDeclaration",
			"span": {"start": 0, "end": 20},
			"name": {"kind": "Identifier", "escapedText": "T"},
			"type": {
				"kind": "UnionType",
				"types": [
					{"kind": "Keyword", "name": "string"},
					{"kind": "Keyword", "name": "number"}
				]
			}
		}]
	}`

	file, err := Decode([]byte(src))
	require.NoError(t, err)
	require.Len(t, file.Statements, 1)

	alias, ok := file.Statements[0].(*ast.TypeAliasDeclaration)
	require.True(t, ok)
	assert.Equal(t, "T", alias.Name.EscapedText)
	assert.Equal(t, token.Span{Start: 0, End: 20}, alias.Span())

	union, ok := alias.Type.(*ast.UnionType)
	require.True(t, ok)
	require.Len(t, union.Types, 2)
	assert.Equal(t, ast.KeywordString, union.Types[0].(*ast.KeywordTypeNode).Kind)
	assert.Equal(t, ast.KeywordNumber, union.Types[1].(*ast.KeywordTypeNode).Kind)
}

func TestDecodeGenericTypeAliasWithTypeParameters(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"statements": [{
			"kind": "TypeAliasDeclaration",
			"name": {"kind": "Identifier", "escapedText": "Id"},
			"typeParameters": [{"kind": "TypeParameter", "name": {"kind": "Identifier", "escapedText": "T"}}],
			"type": {"kind": "Identifier", "escapedText": "T"}
		}]
	}`

	file, err := Decode([]byte(src))
	require.NoError(t, err)
	alias := file.Statements[0].(*ast.TypeAliasDeclaration)
	require.Len(t, alias.TypeParameters, 1)
	assert.Equal(t, "T", alias.TypeParameters[0].Name.EscapedText)

	ref, ok := alias.Type.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "T", ref.EscapedText)
}

func TestDecodeTemplateLiteralType(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"statements": [{
			"kind": "TypeAliasDeclaration",
			"name": {"kind": "Identifier", "escapedText": "Greeting"},
			"type": {
				"kind": "TemplateLiteralType",
				"headRawText": "hello ",
				"templateSpans": [
					{"type": {"kind": "Keyword", "name": "string"}, "literalKind": "tail", "literalRawText": "!"}
				]
			}
		}]
	}`

	file, err := Decode([]byte(src))
	require.NoError(t, err)
	alias := file.Statements[0].(*ast.TypeAliasDeclaration)
	tmpl, ok := alias.Type.(*ast.TemplateLiteralType)
	require.True(t, ok)
	assert.Equal(t, "hello ", tmpl.Head.RawText)
	require.Len(t, tmpl.TemplateSpans, 1)
	assert.Equal(t, ast.TemplateTail, tmpl.TemplateSpans[0].Literal.Kind)
	assert.Equal(t, "!", tmpl.TemplateSpans[0].Literal.RawText)
	assert.Equal(t, ast.KeywordString, tmpl.TemplateSpans[0].Type.(*ast.KeywordTypeNode).Kind)
}

func TestDecodeInterfaceDeclarationWithHeritageAndMembers(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"statements": [{
			"kind": "InterfaceDeclaration",
			"name": {"kind": "Identifier", "escapedText": "Dog"},
			"heritageClauses": [{
				"isExtends": true,
				"types": [{
					"kind": "ExpressionWithTypeArguments",
					"expression": {"kind": "Identifier", "escapedText": "Animal"}
				}]
			}],
			"members": [{
				"kind": "PropertySignature",
				"name": {"ident": "name"},
				"type": {"kind": "Keyword", "name": "string"}
			}, {
				"kind": "PropertySignature",
				"name": {"ident": "legs"},
				"type": {"kind": "Keyword", "name": "number"},
				"question": true
			}]
		}]
	}`

	file, err := Decode([]byte(src))
	require.NoError(t, err)
	iface, ok := file.Statements[0].(*ast.InterfaceDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Dog", iface.Name.EscapedText)

	require.Len(t, iface.HeritageClauses, 1)
	assert.True(t, iface.HeritageClauses[0].IsExtends)
	require.Len(t, iface.HeritageClauses[0].Types, 1)
	assert.Equal(t, "Animal", iface.HeritageClauses[0].Types[0].Expression.(*ast.Identifier).EscapedText)

	require.Len(t, iface.Members, 2)
	first := iface.Members[0].(*ast.PropertySignature)
	assert.Equal(t, "name", first.Name.Ident.EscapedText)
	assert.False(t, first.Question)

	second := iface.Members[1].(*ast.PropertySignature)
	assert.Equal(t, "legs", second.Name.Ident.EscapedText)
	assert.True(t, second.Question)
}

func TestDecodeObjectLiteralExpressionWithComputedName(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"statements": [{
			"kind": "ExpressionStatement",
			"expression": {
				"kind": "ObjectLiteralExpression",
				"properties": [{
					"kind": "PropertyAssignment",
					"name": {"computed": {"kind": "Identifier", "escapedText": "key"}},
					"initializer": {"kind": "StringLiteral", "text": "value"}
				}]
			}
		}]
	}`

	file, err := Decode([]byte(src))
	require.NoError(t, err)
	stmt := file.Statements[0].(*ast.ExpressionStatement)
	obj := stmt.Expression.(*ast.ObjectLiteralExpression)
	require.Len(t, obj.Properties, 1)

	prop := obj.Properties[0].(*ast.PropertyAssignment)
	require.NotNil(t, prop.Name.Computed)
	assert.Equal(t, "key", prop.Name.Computed.(*ast.Identifier).EscapedText)
	assert.Equal(t, "value", prop.Initializer.(*ast.StringLiteral).Text)
}

func TestDecodeTupleWithNamedAndRestMembers(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"statements": [{
			"kind": "TypeAliasDeclaration",
			"name": {"kind": "Identifier", "escapedText": "X"},
			"type": {
				"kind": "TupleType",
				"elements": [
					{"kind": "NamedTupleMember", "name": "head", "type": {"kind": "Keyword", "name": "string"}},
					{"kind": "RestType", "type": {"kind": "ArrayType", "elementType": {"kind": "Keyword", "name": "number"}}}
				]
			}
		}]
	}`

	file, err := Decode([]byte(src))
	require.NoError(t, err)
	alias := file.Statements[0].(*ast.TypeAliasDeclaration)
	tuple := alias.Type.(*ast.TupleType)
	require.Len(t, tuple.Elements, 2)

	named := tuple.Elements[0].(*ast.NamedTupleMember)
	assert.Equal(t, "head", named.Name)

	rest := tuple.Elements[1].(*ast.RestType)
	arr, ok := rest.Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, ast.KeywordNumber, arr.ElementType.(*ast.KeywordTypeNode).Kind)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"kind": "SourceFile", "statements": [{"kind": "SomethingMadeUp"}]}`))
	assert.Error(t, err)
}

func TestDecodeRejectsNonSourceFileRoot(t *testing.T) {
	_, err := Decode([]byte(`{"kind": "Identifier", "escapedText": "x"}`))
	assert.Error(t, err)
}

func TestDecodeOmittedSpanIsNoPos(t *testing.T) {
	file, err := Decode([]byte(`{"kind": "SourceFile", "statements": [
		{"kind": "TypeAliasDeclaration", "name": {"kind": "Identifier", "escapedText": "T"}, "type": {"kind": "Keyword", "name": "any"}}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, token.NoPos, file.Statements[0].Span())
}
