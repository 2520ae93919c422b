package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vexel/internal/ast"
	"vexel/internal/opcode"
)

// TestBuildInspectRoundTripsStorageAndSubroutines exercises invariants
// 6-8 from spec §8: the leading Jump lands on SourceMap, every storage
// entry decodes back to its original text, and the subroutine table
// matches Program's in-memory subroutines by name and count.
func TestBuildInspectRoundTripsStorageAndSubroutines(t *testing.T) {
	alias := &ast.TypeAliasDeclaration{
		Name: &ast.Identifier{EscapedText: "T"},
		Type: &ast.UnionType{Types: []ast.TypeNode{
			&ast.KeywordTypeNode{Kind: ast.KeywordString},
			&ast.KeywordTypeNode{Kind: ast.KeywordNumber},
		}},
	}
	file := &ast.SourceFile{Statements: []ast.Stmt{alias}}
	prog, _, err := Compile(file, nil)
	require.NoError(t, err)

	bin := prog.Build()
	require.GreaterOrEqual(t, len(bin), 5)
	assert.Equal(t, byte(opcode.Jump), bin[0])

	jumpTarget := opcode.ReadU32(bin, 1)
	require.Less(t, int(jumpTarget), len(bin))
	assert.Equal(t, byte(opcode.SourceMap), bin[jumpTarget])

	info, err := Inspect(bin)
	require.NoError(t, err)

	require.Len(t, info.Subroutines, len(prog.Subroutines))
	for i, sub := range prog.Subroutines {
		assert.Equal(t, sub.Identifier, info.Name(info.Subroutines[i]))
	}

	// Storage holds at least the subroutine's own interned name ("T").
	var sawName bool
	for _, entry := range info.Storage {
		if entry.Text == "T" {
			sawName = true
		}
	}
	assert.True(t, sawName)

	assert.Equal(t, byte(opcode.Halt), bin[len(bin)-1])
}

// TestBuildEveryCodeAddressWithinSubroutineBytes: each decoded
// subroutine's CodeAddress plus its compiled Ops length never runs past
// the image, and neither does the Main code address. Source-map
// positions are not checked here.
func TestBuildEveryCodeAddressWithinSubroutineBytes(t *testing.T) {
	aliasA := &ast.TypeAliasDeclaration{Name: &ast.Identifier{EscapedText: "A"}, Type: &ast.KeywordTypeNode{Kind: ast.KeywordString}}
	aliasB := &ast.TypeAliasDeclaration{Name: &ast.Identifier{EscapedText: "B"}, Type: &ast.TypeReference{Name: &ast.Identifier{EscapedText: "A"}}}
	file := &ast.SourceFile{Statements: []ast.Stmt{aliasA, aliasB}}
	prog, _, err := Compile(file, nil)
	require.NoError(t, err)

	bin := prog.Build()
	info, err := Inspect(bin)
	require.NoError(t, err)

	require.Len(t, info.Subroutines, 2)
	for i, sub := range info.Subroutines {
		end := int(sub.CodeAddress) + len(prog.Subroutines[i].Ops)
		assert.LessOrEqual(t, end, len(bin))
	}
	assert.LessOrEqual(t, int(info.MainAddress), len(bin))
}

// TestInspectRejectsNonImage is the error-return path: a buffer whose
// first byte isn't Jump is never a well-formed image.
func TestInspectRejectsNonImage(t *testing.T) {
	_, err := Inspect([]byte{0xff, 0, 0, 0, 0})
	assert.Error(t, err)
}

// TestInspectRejectsTruncatedImage: a buffer too short to even hold the
// leading Jump's u32 target is rejected rather than panicking.
func TestInspectRejectsTruncatedImage(t *testing.T) {
	_, err := Inspect([]byte{byte(opcode.Jump), 1, 2})
	assert.Error(t, err)
}

func TestContentHashIsDeterministicAndDistinguishesText(t *testing.T) {
	a1 := contentHash("hello")
	a2 := contentHash("hello")
	b := contentHash("world")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}
