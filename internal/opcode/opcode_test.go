package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamSizeKnownOpcodes(t *testing.T) {
	cases := []struct {
		op   OpCode
		size int
	}{
		{Call, 4 + 2},
		{TailCall, 4 + 2},
		{Jump, 4},
		{JumpCondition, 4},
		{Distribute, 4},
		{FrameReturnJump, 4},
		{Loads, 2 + 2},
		{StringLiteral, 4},
		{NumberLiteral, 4},
		{BigIntLiteral, 4},
		{TypeArgumentDefault, 4},
		{Set, 4},
		{Error, 2},
		{Subroutine, 4 + 4 + 1},
		{Main, 4},
		{SourceMap, 4},
		{CallExpression, 2},
		{Instantiate, 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.size, ParamSize(c.op), "opcode %v", c.op)
	}
}

func TestParamSizeNoOperandOpcodes(t *testing.T) {
	for _, op := range []OpCode{Halt, Return, Frame, FrameEnd, Any, Null, Union, Tuple,
		TupleMember, Rest, RestReuse, Array, TypeArgument, Assign, Widen} {
		assert.Equal(t, 0, ParamSize(op), "opcode %v", op)
	}
}

func TestRestAndCallTransferableToTailVariant(t *testing.T) {
	// Rest/RestReuse and Call/TailCall must keep identical widths, since
	// Optimise rewrites one byte in place without touching surrounding
	// operands.
	assert.Equal(t, ParamSize(Rest), ParamSize(RestReuse))
	assert.Equal(t, ParamSize(Call), ParamSize(TailCall))
}
