// Package astjson decodes the JSON AST format cmd/vexelc's compile
// subcommand reads. The lexer/parser that would normally produce an
// internal/ast tree from source text is an external collaborator this
// module never implements (see spec §1 Non-goals); this package is the
// stop-gap front door so the CLI has something to read until one exists.
// Each node is a JSON object carrying a "kind" discriminator matching the
// Go type name in internal/ast (except "Keyword", with a "name" field,
// for KeywordTypeNode and "OptionalType" for OptionalTypeNode), plus a
// "span" of {"start","end"} byte
// offsets (omitted spans decode to token.NoPos/token.NoPos).
package astjson

import (
	"encoding/json"
	"fmt"

	"vexel/internal/ast"
	"vexel/internal/token"
)

// Decode parses data into a *ast.SourceFile.
func Decode(data []byte) (*ast.SourceFile, error) {
	node, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	file, ok := node.(*ast.SourceFile)
	if !ok {
		return nil, fmt.Errorf("astjson: root node must be a SourceFile, got %T", node)
	}
	return file, nil
}

func decodeSpan(raw map[string]json.RawMessage) token.Span {
	var sp struct {
		Start int `json:"start"`
		End   int `json:"end"`
	}
	if s, ok := raw["span"]; ok {
		_ = json.Unmarshal(s, &sp)
	}
	return token.Span{Start: token.Pos(sp.Start), End: token.Pos(sp.End)}
}

var keywordKinds = map[string]ast.KeywordKind{
	"any":       ast.KeywordAny,
	"null":      ast.KeywordNull,
	"undefined": ast.KeywordUndefined,
	"never":     ast.KeywordNever,
	"boolean":   ast.KeywordBoolean,
	"string":    ast.KeywordString,
	"number":    ast.KeywordNumber,
	"true":      ast.KeywordTrue,
	"false":     ast.KeywordFalse,
}

// spannable is implemented by every ast node via base.SetSpan.
type spannable interface {
	SetSpan(token.Span)
}

func decodeNode(data []byte) (node ast.Node, err error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	var kind string
	if k, ok := raw["kind"]; ok {
		_ = json.Unmarshal(k, &kind)
	}
	span := decodeSpan(raw)

	defer func() {
		if err == nil && node != nil {
			if s, ok := node.(spannable); ok {
				s.SetSpan(span)
			}
		}
	}()

	str := func(key string) string {
		var s string
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, &s)
		}
		return s
	}
	boolean := func(key string) bool {
		var b bool
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, &b)
		}
		return b
	}
	child := func(key string) (ast.Node, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		return decodeNode(v)
	}
	list := func(key string) ([]json.RawMessage, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	switch kind {
	case "SourceFile":
		items, err := list("statements")
		if err != nil {
			return nil, err
		}
		var stmts []ast.Stmt
		for _, it := range items {
			n, err := decodeNode(it)
			if err != nil {
				return nil, err
			}
			s, ok := n.(ast.Stmt)
			if !ok {
				return nil, fmt.Errorf("astjson: SourceFile statement is not a Stmt: %T", n)
			}
			stmts = append(stmts, s)
		}
		return &ast.SourceFile{Statements: stmts}, nil

	case "Keyword":
		kw, ok := keywordKinds[str("name")]
		if !ok {
			return nil, fmt.Errorf("astjson: unknown keyword %q", str("name"))
		}
		return &ast.KeywordTypeNode{Kind: kw}, nil

	case "StringLiteral":
		return &ast.StringLiteral{Text: str("text")}, nil
	case "NumericLiteral":
		return &ast.NumericLiteral{Text: str("text")}, nil
	case "BigIntLiteral":
		return &ast.BigIntLiteral{Text: str("text")}, nil

	case "LiteralType":
		lit, err := child("literal")
		if err != nil {
			return nil, err
		}
		expr, _ := lit.(ast.Expr)
		return &ast.LiteralType{Literal: expr}, nil

	case "Identifier":
		typeArgs, err := decodeTypeNodeList(raw, "typeArguments")
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{EscapedText: str("escapedText"), TypeArguments: typeArgs}, nil

	case "TypeReference":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		if name == nil {
			name = &ast.Identifier{EscapedText: str("escapedText")}
		}
		typeArgs, err := decodeTypeNodeList(raw, "typeArguments")
		if err != nil {
			return nil, err
		}
		return &ast.TypeReference{Name: name, TypeArguments: typeArgs}, nil

	case "UnionType":
		types, err := decodeTypeNodeList(raw, "types")
		if err != nil {
			return nil, err
		}
		return &ast.UnionType{Types: types}, nil

	case "ArrayType":
		el, err := child("elementType")
		if err != nil {
			return nil, err
		}
		elType, _ := el.(ast.TypeNode)
		return &ast.ArrayType{ElementType: elType}, nil

	case "TupleType":
		elems, err := decodeTypeNodeList(raw, "elements")
		if err != nil {
			return nil, err
		}
		return &ast.TupleType{Elements: elems}, nil

	case "NamedTupleMember":
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		return &ast.NamedTupleMember{
			Name: str("name"), Type: typ,
			DotDotDotTok: boolean("dotDotDot"), QuestionTok: boolean("question"),
		}, nil

	case "OptionalType":
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		return &ast.OptionalTypeNode{Type: typ}, nil

	case "RestType":
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		return &ast.RestType{Type: typ}, nil

	case "ParenthesizedType":
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		return &ast.ParenthesizedType{Type: typ}, nil

	case "ParenthesizedExpression":
		e, err := child("expression")
		if err != nil {
			return nil, err
		}
		expr, _ := e.(ast.Expr)
		return &ast.ParenthesizedExpression{Expression: expr}, nil

	case "IndexedAccessType":
		obj, err := child("objectType")
		if err != nil {
			return nil, err
		}
		idx, err := child("indexType")
		if err != nil {
			return nil, err
		}
		objT, _ := obj.(ast.TypeNode)
		idxT, _ := idx.(ast.TypeNode)
		return &ast.IndexedAccessType{ObjectType: objT, IndexType: idxT}, nil

	case "ConditionalType":
		ck, err := child("checkType")
		if err != nil {
			return nil, err
		}
		ex, err := child("extendsType")
		if err != nil {
			return nil, err
		}
		tt, err := child("trueType")
		if err != nil {
			return nil, err
		}
		ft, err := child("falseType")
		if err != nil {
			return nil, err
		}
		ckT, _ := ck.(ast.TypeNode)
		exT, _ := ex.(ast.TypeNode)
		ttT, _ := tt.(ast.TypeNode)
		ftT, _ := ft.(ast.TypeNode)
		return &ast.ConditionalType{CheckType: ckT, ExtendsType: exT, TrueType: ttT, FalseType: ftT}, nil

	case "ConditionalExpression":
		cond, err := child("condition")
		if err != nil {
			return nil, err
		}
		wt, err := child("whenTrue")
		if err != nil {
			return nil, err
		}
		wf, err := child("whenFalse")
		if err != nil {
			return nil, err
		}
		condE, _ := cond.(ast.Expr)
		wtE, _ := wt.(ast.Expr)
		wfE, _ := wf.(ast.Expr)
		return &ast.ConditionalExpression{Condition: condE, WhenTrue: wtE, WhenFalse: wfE}, nil

	case "TypeAliasDeclaration":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		typeParams, err := decodeTypeParameterList(raw, "typeParameters")
		if err != nil {
			return nil, err
		}
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		return &ast.TypeAliasDeclaration{Name: name, TypeParameters: typeParams, Type: typ}, nil

	case "TypeParameter":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		c, err := child("constraint")
		if err != nil {
			return nil, err
		}
		d, err := child("defaultType")
		if err != nil {
			return nil, err
		}
		cT, _ := c.(ast.TypeNode)
		dT, _ := d.(ast.TypeNode)
		return &ast.TypeParameter{Name: name, Constraint: cT, DefaultType: dT}, nil

	case "Parameter":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		initN, err := child("initializer")
		if err != nil {
			return nil, err
		}
		init, _ := initN.(ast.Expr)
		return &ast.Parameter{Name: name, Type: typ, Question: boolean("question"), Initializer: init}, nil

	case "FunctionDeclaration":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		typeParams, err := decodeTypeParameterList(raw, "typeParameters")
		if err != nil {
			return nil, err
		}
		paramItems, err := list("parameters")
		if err != nil {
			return nil, err
		}
		var params []*ast.Parameter
		for _, it := range paramItems {
			n, err := decodeNode(it)
			if err != nil {
				return nil, err
			}
			p, ok := n.(*ast.Parameter)
			if !ok {
				return nil, fmt.Errorf("astjson: FunctionDeclaration parameter is not a Parameter: %T", n)
			}
			params = append(params, p)
		}
		rt, err := child("returnType")
		if err != nil {
			return nil, err
		}
		rtT, _ := rt.(ast.TypeNode)
		return &ast.FunctionDeclaration{Name: name, TypeParameters: typeParams, Parameters: params, ReturnType: rtT}, nil

	case "VariableDeclaration":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		initN, err := child("initializer")
		if err != nil {
			return nil, err
		}
		init, _ := initN.(ast.Expr)
		return &ast.VariableDeclaration{Name: name, Type: typ, Initializer: init, Const: boolean("const")}, nil

	case "VariableStatement":
		items, err := list("declarations")
		if err != nil {
			return nil, err
		}
		var decls []*ast.VariableDeclaration
		for _, it := range items {
			n, err := decodeNode(it)
			if err != nil {
				return nil, err
			}
			d, ok := n.(*ast.VariableDeclaration)
			if !ok {
				return nil, fmt.Errorf("astjson: VariableStatement entry is not a VariableDeclaration: %T", n)
			}
			decls = append(decls, d)
		}
		return &ast.VariableStatement{Declarations: decls}, nil

	case "ExpressionStatement":
		e, err := child("expression")
		if err != nil {
			return nil, err
		}
		expr, _ := e.(ast.Expr)
		return &ast.ExpressionStatement{Expression: expr}, nil

	case "CallExpression":
		callee, err := child("callee")
		if err != nil {
			return nil, err
		}
		calleeE, _ := callee.(ast.Expr)
		typeArgs, err := decodeTypeNodeList(raw, "typeArguments")
		if err != nil {
			return nil, err
		}
		argItems, err := list("arguments")
		if err != nil {
			return nil, err
		}
		var args []ast.Expr
		for _, it := range argItems {
			n, err := decodeNode(it)
			if err != nil {
				return nil, err
			}
			e, ok := n.(ast.Expr)
			if !ok {
				return nil, fmt.Errorf("astjson: CallExpression argument is not an Expr: %T", n)
			}
			args = append(args, e)
		}
		return &ast.CallExpression{Callee: calleeE, TypeArguments: typeArgs, Arguments: args}, nil

	case "BinaryExpression":
		l, err := child("left")
		if err != nil {
			return nil, err
		}
		r, err := child("right")
		if err != nil {
			return nil, err
		}
		lE, _ := l.(ast.Expr)
		rE, _ := r.(ast.Expr)
		op := ast.OpOther
		if str("operator") == "=" {
			op = ast.OpAssign
		}
		return &ast.BinaryExpression{Left: lE, Operator: op, Right: rE}, nil

	case "ArrayLiteralExpression":
		items, err := list("elements")
		if err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for _, it := range items {
			n, err := decodeNode(it)
			if err != nil {
				return nil, err
			}
			e, ok := n.(ast.Expr)
			if !ok {
				return nil, fmt.Errorf("astjson: ArrayLiteralExpression element is not an Expr: %T", n)
			}
			elems = append(elems, e)
		}
		return &ast.ArrayLiteralExpression{Elements: elems}, nil

	case "TemplateLiteralType":
		spanItems, err := list("templateSpans")
		if err != nil {
			return nil, err
		}
		var spans []ast.TemplateSpan
		for _, it := range spanItems {
			sp, err := decodeTemplateSpan(it)
			if err != nil {
				return nil, err
			}
			spans = append(spans, sp)
		}
		return &ast.TemplateLiteralType{
			Head:          ast.TemplateHead{RawText: str("headRawText")},
			TemplateSpans: spans,
		}, nil

	case "PropertySignature":
		name, err := decodePropertyName(raw)
		if err != nil {
			return nil, err
		}
		t, err := child("type")
		if err != nil {
			return nil, err
		}
		typ, _ := t.(ast.TypeNode)
		return &ast.PropertySignature{
			Name: name, Type: typ,
			Question: boolean("question"), ReadonlyMod: boolean("readonly"),
		}, nil

	case "PropertyAssignment":
		name, err := decodePropertyName(raw)
		if err != nil {
			return nil, err
		}
		init, err := child("initializer")
		if err != nil {
			return nil, err
		}
		initE, _ := init.(ast.Expr)
		return &ast.PropertyAssignment{
			Name: name, Initializer: initE,
			Question: boolean("question"), ReadonlyMod: boolean("readonly"),
		}, nil

	case "TypeLiteral":
		members, err := decodeObjectMembers(raw, "members")
		if err != nil {
			return nil, err
		}
		return &ast.TypeLiteral{Members: members}, nil

	case "ObjectLiteralExpression":
		props, err := decodeObjectMembers(raw, "properties")
		if err != nil {
			return nil, err
		}
		return &ast.ObjectLiteralExpression{Properties: props}, nil

	case "ExpressionWithTypeArguments":
		e, err := child("expression")
		if err != nil {
			return nil, err
		}
		expr, _ := e.(ast.Expr)
		typeArgs, err := decodeTypeNodeList(raw, "typeArguments")
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionWithTypeArguments{Expression: expr, TypeArguments: typeArgs}, nil

	case "InterfaceDeclaration":
		nameNode, err := child("name")
		if err != nil {
			return nil, err
		}
		name, _ := nameNode.(*ast.Identifier)
		clauseItems, err := list("heritageClauses")
		if err != nil {
			return nil, err
		}
		var clauses []ast.HeritageClause
		for _, it := range clauseItems {
			hc, err := decodeHeritageClause(it)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, hc)
		}
		members, err := decodeObjectMembers(raw, "members")
		if err != nil {
			return nil, err
		}
		return &ast.InterfaceDeclaration{Name: name, HeritageClauses: clauses, Members: members}, nil

	default:
		return nil, fmt.Errorf("astjson: unsupported node kind %q", kind)
	}
}

func decodeTypeNodeList(raw map[string]json.RawMessage, key string) ([]ast.TypeNode, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, err
	}
	var out []ast.TypeNode
	for _, it := range items {
		n, err := decodeNode(it)
		if err != nil {
			return nil, err
		}
		t, ok := n.(ast.TypeNode)
		if !ok {
			return nil, fmt.Errorf("astjson: %s entry is not a TypeNode: %T", key, n)
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeTypeParameterList(raw map[string]json.RawMessage, key string) ([]*ast.TypeParameter, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, err
	}
	var out []*ast.TypeParameter
	for _, it := range items {
		n, err := decodeNode(it)
		if err != nil {
			return nil, err
		}
		t, ok := n.(*ast.TypeParameter)
		if !ok {
			return nil, fmt.Errorf("astjson: %s entry is not a TypeParameter: %T", key, n)
		}
		out = append(out, t)
	}
	return out, nil
}

// decodePropertyName reads raw["name"], an object shaped either
// {"ident": "foo"} for a bare identifier member name or {"computed":
// <node>} for a bracketed computed name, e.g. `[a]: string`.
func decodePropertyName(raw map[string]json.RawMessage) (ast.PropertyName, error) {
	v, ok := raw["name"]
	if !ok {
		return ast.PropertyName{}, fmt.Errorf("astjson: property member missing %q", "name")
	}
	var nameRaw map[string]json.RawMessage
	if err := json.Unmarshal(v, &nameRaw); err != nil {
		return ast.PropertyName{}, err
	}
	if identRaw, ok := nameRaw["ident"]; ok {
		var text string
		if err := json.Unmarshal(identRaw, &text); err != nil {
			return ast.PropertyName{}, err
		}
		return ast.PropertyName{Ident: &ast.Identifier{EscapedText: text}}, nil
	}
	if computedRaw, ok := nameRaw["computed"]; ok {
		n, err := decodeNode(computedRaw)
		if err != nil {
			return ast.PropertyName{}, err
		}
		expr, ok := n.(ast.Expr)
		if !ok {
			return ast.PropertyName{}, fmt.Errorf("astjson: computed property name is not an Expr: %T", n)
		}
		return ast.PropertyName{Computed: expr}, nil
	}
	return ast.PropertyName{}, fmt.Errorf("astjson: property name needs %q or %q", "ident", "computed")
}

// decodeObjectMembers decodes raw[key] into a slice of ast.ObjectMember —
// each entry must itself decode to a *ast.PropertySignature or
// *ast.PropertyAssignment, the only two concrete ObjectMember kinds this
// module produces.
func decodeObjectMembers(raw map[string]json.RawMessage, key string) ([]ast.ObjectMember, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, err
	}
	var out []ast.ObjectMember
	for _, it := range items {
		n, err := decodeNode(it)
		if err != nil {
			return nil, err
		}
		m, ok := n.(ast.ObjectMember)
		if !ok {
			return nil, fmt.Errorf("astjson: %s entry is not an ObjectMember: %T", key, n)
		}
		out = append(out, m)
	}
	return out, nil
}

// decodeTemplateSpan decodes one `${Type}literalText` segment: {"type":
// <TypeNode>, "literalKind": "middle"|"tail", "literalRawText": "..."}.
func decodeTemplateSpan(data json.RawMessage) (ast.TemplateSpan, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ast.TemplateSpan{}, err
	}
	tv, ok := raw["type"]
	if !ok {
		return ast.TemplateSpan{}, fmt.Errorf("astjson: template span missing %q", "type")
	}
	tn, err := decodeNode(tv)
	if err != nil {
		return ast.TemplateSpan{}, err
	}
	typ, ok := tn.(ast.TypeNode)
	if !ok {
		return ast.TemplateSpan{}, fmt.Errorf("astjson: template span type is not a TypeNode: %T", tn)
	}
	var literalKind string
	if v, ok := raw["literalKind"]; ok {
		_ = json.Unmarshal(v, &literalKind)
	}
	var rawText string
	if v, ok := raw["literalRawText"]; ok {
		_ = json.Unmarshal(v, &rawText)
	}
	kind := ast.TemplateMiddle
	if literalKind == "tail" {
		kind = ast.TemplateTail
	}
	return ast.TemplateSpan{Type: typ, Literal: ast.TemplatePiece{Kind: kind, RawText: rawText}}, nil
}

// decodeHeritageClause decodes an `extends`/`implements` clause list:
// {"isExtends": bool, "types": [<ExpressionWithTypeArguments>, ...]}.
func decodeHeritageClause(data json.RawMessage) (ast.HeritageClause, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ast.HeritageClause{}, err
	}
	var isExtends bool
	if v, ok := raw["isExtends"]; ok {
		_ = json.Unmarshal(v, &isExtends)
	}
	var typeItems []json.RawMessage
	if v, ok := raw["types"]; ok {
		if err := json.Unmarshal(v, &typeItems); err != nil {
			return ast.HeritageClause{}, err
		}
	}
	var types []*ast.ExpressionWithTypeArguments
	for _, it := range typeItems {
		n, err := decodeNode(it)
		if err != nil {
			return ast.HeritageClause{}, err
		}
		t, ok := n.(*ast.ExpressionWithTypeArguments)
		if !ok {
			return ast.HeritageClause{}, fmt.Errorf("astjson: heritage clause type is not an ExpressionWithTypeArguments: %T", n)
		}
		types = append(types, t)
	}
	return ast.HeritageClause{IsExtends: isExtends, Types: types}, nil
}
