package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vexel/internal/token"
)

func TestPushSymbolAssignsSequentialIndex(t *testing.T) {
	root := NewRoot()
	a := root.PushSymbol("a", Variable, token.NoPos)
	b := root.PushSymbol("b", Variable, token.NoPos)

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 1, a.Declarations)
}

func TestPushSymbolRedeclarationBumpsDeclarations(t *testing.T) {
	root := NewRoot()
	first := root.PushSymbol("x", Variable, token.NoPos)
	second := root.PushSymbol("x", Variable, token.NoPos)

	require.Same(t, first, second)
	assert.Equal(t, 2, second.Declarations)
}

func TestPushSymbolTypeVariableAlwaysFresh(t *testing.T) {
	root := NewRoot()
	first := root.PushSymbol("T", TypeVariable, token.NoPos)
	second := root.PushSymbol("T", TypeVariable, token.NoPos)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.Declarations)
	assert.Equal(t, 1, second.Declarations)
}

func TestFindSymbolShadowing(t *testing.T) {
	root := NewRoot()
	root.PushSymbol("x", Variable, token.NoPos)
	child := root.Push()
	inner := child.PushSymbol("x", Variable, token.NoPos)

	found := child.FindSymbol("x")
	require.Same(t, inner, found)
}

func TestFindSymbolWalksToRoot(t *testing.T) {
	root := NewRoot()
	outer := root.PushSymbol("y", Variable, token.NoPos)
	child := root.Push().Push()

	found := child.FindSymbol("y")
	require.Same(t, outer, found)
}

func TestFindSymbolRedeclarationKeepsOriginalKind(t *testing.T) {
	root := NewRoot()
	root.PushSymbol("z", Variable, token.NoPos)
	latest := root.PushSymbol("z", Function, token.NoPos)
	_ = latest // redeclaration returns the same symbol; kind unchanged

	found := root.FindSymbol("z")
	assert.Equal(t, Variable, found.Kind)
	assert.Equal(t, 2, found.Declarations)
}

func TestFrameOffsetCountsHops(t *testing.T) {
	root := NewRoot()
	sym := root.PushSymbol("a", Variable, token.NoPos)

	f1 := root.Push()
	f2 := f1.Push()
	f3 := f2.Push()

	assert.Equal(t, 0, FrameOffset(root, sym))
	assert.Equal(t, 1, FrameOffset(f1, sym))
	assert.Equal(t, 2, FrameOffset(f2, sym))
	assert.Equal(t, 3, FrameOffset(f3, sym))
}

func TestSymbolKindHasRoutine(t *testing.T) {
	assert.True(t, Variable.HasRoutine())
	assert.True(t, Function.HasRoutine())
	assert.True(t, Class.HasRoutine())
	assert.True(t, Type.HasRoutine())
	assert.False(t, TypeArgument.HasRoutine())
	assert.False(t, TypeVariable.HasRoutine())
	assert.False(t, Inline.HasRoutine())
}
