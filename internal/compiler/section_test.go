package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vexel/internal/opcode"
	"vexel/internal/symtab"
)

// TestOptimiseRewritesTailCall exercises Optimise's core rewrite: a
// Call that is the last thing the subroutine's single root section does
// becomes TailCall, at exactly section.End-1-4-2 (spec §4.D).
func TestOptimiseRewritesTailCall(t *testing.T) {
	sub := newSubroutine("T", 0, symtab.Type)
	sub.pushOp(opcode.Call)
	sub.Ops = opcode.PutU32(sub.Ops, 7)
	sub.Ops = opcode.PutU16(sub.Ops, 0)
	sub.end()

	sub.Optimise()

	assert.Equal(t, byte(opcode.TailCall), sub.Ops[0])
}

// TestOptimiseLeavesNonTailCallUntouched: a Call buried in a branch that
// is followed by real straight-line code (a sibling section with
// OpCount > 0) is never a tail section, so its Call stays a Call.
func TestOptimiseLeavesNonTailCallUntouched(t *testing.T) {
	sub := newSubroutine("T", 0, symtab.Type)
	sub.pushSection()
	callAt := sub.ip()
	sub.pushOp(opcode.Call)
	sub.Ops = opcode.PutU32(sub.Ops, 7)
	sub.Ops = opcode.PutU16(sub.Ops, 0)
	sub.popSection()

	sub.pushOp(opcode.Any) // code after the branch returns here
	sub.end()

	sub.Optimise()

	assert.Equal(t, byte(opcode.Call), sub.Ops[callAt])
}

// TestOptimiseRewritesRestReuse: a Rest recorded as a TypeArgumentUsage
// inside a tail section becomes RestReuse.
func TestOptimiseRewritesRestReuse(t *testing.T) {
	sub := newSubroutine("T", 0, symtab.Type)
	sub.pushOp(opcode.Loads)
	sub.Ops = opcode.PutU16(sub.Ops, 0)
	sub.Ops = opcode.PutU16(sub.Ops, 0)

	restAt := sub.ip()
	sub.registerTypeArgumentUsage(0, restAt)
	sub.pushOp(opcode.Rest)
	sub.end()

	sub.Optimise()

	assert.Equal(t, byte(opcode.RestReuse), sub.Ops[restAt])
}

// TestOptimiseBlockTailCallPreventsRewrite: a section flagged
// block_tail_call never yields a tail section, even when it would
// otherwise qualify (childless, no following siblings).
func TestOptimiseBlockTailCallPreventsRewrite(t *testing.T) {
	sub := newSubroutine("T", 0, symtab.Type)
	sub.blockTailCall()
	callAt := sub.ip()
	sub.pushOp(opcode.Call)
	sub.Ops = opcode.PutU32(sub.Ops, 7)
	sub.Ops = opcode.PutU16(sub.Ops, 0)
	sub.end()

	sub.Optimise()

	assert.Equal(t, byte(opcode.Call), sub.Ops[callAt])
}

// TestSectionTreeAutoCreatesSiblingOnPop verifies the section bookkeeping
// spec §4.D describes: popSection ends the active section and starts a
// new sibling of its parent (linked through the parent's Next), making
// that sibling active.
func TestSectionTreeAutoCreatesSiblingOnPop(t *testing.T) {
	sub := newSubroutine("T", 0, symtab.Type)
	sub.pushSection()
	childIdx := sub.ActiveSection
	sub.popSection()

	assert.NotEqual(t, childIdx, sub.ActiveSection)
	assert.True(t, sub.Sections[0].HasChild)
	assert.GreaterOrEqual(t, sub.Sections[0].Next, 0)
}

func TestRootSectionUpIsSentinel(t *testing.T) {
	sub := newSubroutine("T", 0, symtab.Type)
	assert.Equal(t, -1, sub.Sections[0].Up)
}
