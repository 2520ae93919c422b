package compiler

import (
	"vexel/internal/ast"
	"vexel/internal/opcode"
	"vexel/internal/symtab"
)

// lowerConditionalType ports the original checker's ConditionalType case
// exactly: the ip-relative jump arithmetic below is the sole source of
// correctness for the VM's control flow and is reproduced bit-for-bit,
// including the distributive-over-identifier wrapper. Do not simplify
// without re-deriving every offset against the original.
//
// Shape of the emitted code:
//
//	[Distribute wrapper, only if checkType is a bare identifier]
//	  <load checkType>
//	  Distribute -> distributeJumpIp (patched to jump past the whole thing)
//	<checkType> <extendsType> Extends
//	JumpCondition -> falseJumpAddressIp (patched to falseProgram, relative to relativeTo)
//	<trueType>
//	Jump -> trueJumpAddressIp (patched to falseEndIp, relative to the Jump opcode's own ip)
//	<falseType>
//	[FrameReturnJump back to the distribute loop, only if distributive]
func (c *Compiler) lowerConditionalType(n *ast.ConditionalType) {
	p := c.Program

	var distributiveOverIdentifier *ast.Identifier
	if ref, ok := n.CheckType.(*ast.TypeReference); ok {
		distributiveOverIdentifier = ref.Name
	}

	p.PushSection()

	var distributeJumpIp int
	if distributiveOverIdentifier != nil {
		c.lower(n.CheckType) // loads the input type; Distribute pops it

		p.BlockTailCall()
		p.PushFrame(true)

		p.PushSymbol(distributiveOverIdentifier.EscapedText, symtab.TypeVariable, distributiveOverIdentifier.Span(), nil)

		p.PushOp(opcode.Distribute)
		distributeJumpIp = p.ip()
		p.PushAddress(0)
	}

	frame := p.PushFrame(false)
	frame.Conditional = true

	c.lower(n.CheckType)
	c.lower(n.ExtendsType)
	p.Emit(opcode.Extends, n.Span())

	p.PushOp(opcode.JumpCondition)
	relativeTo := p.ip()
	falseJumpAddressIp := p.ip()
	p.PushAddress(0) // trueProgram is directly behind it

	p.PushSection()
	c.lower(n.TrueType)
	p.PopSection()

	p.IgnoreNextSectionOp()
	p.PushOp(opcode.Jump)
	trueJumpAddressIp := p.ip()
	p.PushAddress(0)

	falseProgram := p.ip() + 1
	p.PushSection()
	c.lower(n.FalseType)
	p.PopSection()
	falseEndIp := p.ip()

	p.PushI32At(int32(falseProgram-relativeTo), falseJumpAddressIp)
	p.PushI32At(int32(falseEndIp-trueJumpAddressIp+1), trueJumpAddressIp)

	if distributiveOverIdentifier != nil {
		p.PushAddressAt(uint32(falseEndIp-distributeJumpIp+6), distributeJumpIp)
		p.IgnoreNextSectionOp()
		p.PushOp(opcode.FrameReturnJump)
		p.PushI32(-int32(p.ip() - distributeJumpIp))
		p.PopFrameImplicit()
	} else {
		p.IgnoreNextSectionOp()
		p.PopFrame()
	}

	p.PopSection()
}
