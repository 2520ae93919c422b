package compiler

import (
	"vexel/internal/ast"
	"vexel/internal/opcode"
	"vexel/internal/symtab"
	"vexel/internal/token"
)

// Program owns everything a single-file compilation produces before
// Build links it into one byte image: the storage interner, the root of
// the symbol table, every subroutine, and the "main" opcode buffer —
// code that lives outside any named subroutine (top-level
// ExpressionStatements, the re-emitted initializer of a non-const
// VariableDeclaration, embedded Error opcodes).
type Program struct {
	Storage *StorageInterner

	Root    *symtab.Frame
	Current *symtab.Frame

	Subroutines []*Subroutine
	active      []*Subroutine

	MainOps       []byte
	MainSourceMap []SourceMapEntry
}

// NewProgram returns an empty Program ready for lowering.
func NewProgram() *Program {
	root := symtab.NewRoot()
	return &Program{
		Storage: &StorageInterner{},
		Root:    root,
		Current: root,
	}
}

func (p *Program) activeSubroutine() *Subroutine {
	if len(p.active) == 0 {
		return nil
	}
	return p.active[len(p.active)-1]
}

// ops returns a pointer to whichever byte buffer emission currently
// targets: the active subroutine's, or Program's own "main" buffer.
func (p *Program) ops() *[]byte {
	if sub := p.activeSubroutine(); sub != nil {
		return &sub.Ops
	}
	return &p.MainOps
}

// ip is the current write position of whichever buffer is active.
func (p *Program) ip() int { return len(*p.ops()) }

// PushOp appends a bare opcode byte.
func (p *Program) PushOp(op opcode.OpCode) {
	if sub := p.activeSubroutine(); sub != nil {
		sub.pushOp(op)
		return
	}
	p.MainOps = append(p.MainOps, byte(op))
}

// Emit appends op and records a source-map entry for span pointing at
// the opcode's position.
func (p *Program) Emit(op opcode.OpCode, span token.Span) {
	p.PushSourceMap(span)
	p.PushOp(op)
}

// PushU16/PushU32/PushI32 append little-endian operand bytes to the
// currently active buffer.
func (p *Program) PushU16(v uint16) {
	b := p.ops()
	*b = opcode.PutU16(*b, v)
}

func (p *Program) PushU32(v uint32) {
	b := p.ops()
	*b = opcode.PutU32(*b, v)
}

func (p *Program) PushI32(v int32) {
	b := p.ops()
	*b = opcode.PutI32(*b, v)
}

// PushAddress writes a u32 subroutine or storage index — the two kinds
// of addresses resolved at link time in Build.
func (p *Program) PushAddress(addr uint32) { p.PushU32(addr) }

// PushAddressAt overwrites the u32 at a previously recorded ip (within
// the buffer active when that ip was recorded) — used to back-patch the
// relative jump offsets of conditional-type lowering.
func (p *Program) PushAddressAt(v uint32, at int) {
	opcode.PatchU32(*p.ops(), at, v)
}

func (p *Program) PushI32At(v int32, at int) {
	opcode.PatchI32(*p.ops(), at, v)
}

// PushStorage interns s and writes its address as a u32.
func (p *Program) PushStorage(s string) {
	p.PushAddress(p.Storage.Register(s))
}

// PushStringLiteral emits StringLiteral followed by s's storage address.
func (p *Program) PushStringLiteral(s string, span token.Span) {
	p.Emit(opcode.StringLiteral, span)
	p.PushStorage(s)
}

// PushError embeds a recoverable CannotFind-style error. Errors are
// always recorded against "main" — the original checker's comment reads
// "errors need to be part of main" — regardless of which subroutine is
// currently active, preserved here verbatim.
func (p *Program) PushError(code opcode.ErrorCode, span token.Span) {
	p.MainSourceMap = append(p.MainSourceMap, SourceMapEntry{IP: 0, SourcePos: int(span.Start), SourceEnd: int(span.End)})
	p.MainOps = append(p.MainOps, byte(opcode.Error))
	p.MainOps = opcode.PutU16(p.MainOps, uint16(code))
}

// PushSourceMap records the current ip against span, in whichever
// source map is currently active.
func (p *Program) PushSourceMap(span token.Span) {
	if sub := p.activeSubroutine(); sub != nil {
		sub.SourceMap = append(sub.SourceMap, SourceMapEntry{IP: sub.ip(), SourcePos: int(span.Start), SourceEnd: int(span.End)})
		return
	}
	p.MainSourceMap = append(p.MainSourceMap, SourceMapEntry{IP: len(p.MainOps), SourcePos: int(span.Start), SourceEnd: int(span.End)})
}

// --- Frames ---

// PushFrame opens a child of Current. Unless implicit, it also emits
// the Frame opcode. Implicit frames are used where no Frame opcode is
// wanted: a subroutine's own call frame and a distributive conditional
// type's loop frame. Union, Tuple and ObjectLiteral do emit Frame, and
// are closed with PopFrameImplicit because their own opcode ends the
// runtime frame.
func (p *Program) PushFrame(implicit bool) *symtab.Frame {
	if !implicit {
		p.PushOp(opcode.Frame)
	}
	p.Current = p.Current.Push()
	return p.Current
}

// PopFrameImplicit detaches Current without emitting FrameEnd.
func (p *Program) PopFrameImplicit() {
	if p.Current.Previous != nil {
		p.Current = p.Current.Previous
	}
}

// PopFrame emits FrameEnd, then detaches Current.
func (p *Program) PopFrame() {
	p.PushOp(opcode.FrameEnd)
	p.PopFrameImplicit()
}

// FindSymbol looks up name from Current outward.
func (p *Program) FindSymbol(name string) *symtab.Symbol {
	return p.Current.FindSymbol(name)
}

// PushSymbol inserts or re-declares name in frame (Current if nil).
func (p *Program) PushSymbol(name string, kind symtab.SymbolKind, span token.Span, frame *symtab.Frame) *symtab.Symbol {
	if frame == nil {
		frame = p.Current
	}
	return frame.PushSymbol(name, kind, span)
}

// PushSymbolForRoutine is PushSymbol plus lazy subroutine attachment: if
// the resulting symbol has no routine yet, a fresh Subroutine is
// constructed, its identifier interned, and it's appended to
// Subroutines. Re-entering with the same name (the hoisting pre-pass
// registered it, or this is a repeat visit) returns the existing
// symbol/routine untouched.
func (p *Program) PushSymbolForRoutine(name string, kind symtab.SymbolKind, span token.Span, frame *symtab.Frame) *symtab.Symbol {
	sym := p.PushSymbol(name, kind, span, frame)
	if sym.HasRoutine {
		return sym
	}
	p.attachRoutine(sym, name, kind)
	return sym
}

func (p *Program) attachRoutine(sym *symtab.Symbol, name string, kind symtab.SymbolKind) {
	sub := newSubroutine(name, len(p.Subroutines), kind)
	sub.NameAddress = p.Storage.Register(name)
	sym.Routine = symtab.SubroutineID(len(p.Subroutines))
	sym.HasRoutine = true
	p.Subroutines = append(p.Subroutines, sub)
}

// PreRegisterRoutine implements resolver.RoutineRegistry: it eagerly
// creates a symbol (with Declarations starting at 0, so the first real
// visit's PushSymbol increments it to 1 — "first declaration", not a
// duplicate) and its backing Subroutine in the root frame, so
// forward-referencing top-level declarations resolve to a real routine
// index before their body is ever lowered.
func (p *Program) PreRegisterRoutine(name string, kind symtab.SymbolKind, node ast.Node) {
	for _, s := range p.Root.Symbols {
		if s.Name == name {
			return
		}
	}
	sym := &symtab.Symbol{Name: name, Kind: kind, Frame: p.Root, Index: len(p.Root.Symbols), Span: node.Span()}
	p.Root.Symbols = append(p.Root.Symbols, sym)
	p.attachRoutine(sym, name, kind)
}

// PushSymbolAddress writes the (frameOffset, symbolIndex) pair a Loads
// instruction addresses symbol by, counting hops from Current up to the
// frame that owns symbol.
func (p *Program) PushSymbolAddress(sym *symtab.Symbol) {
	p.PushU16(uint16(symtab.FrameOffset(p.Current, sym)))
	p.PushU16(uint16(sym.Index))
}

// RegisterTypeArgumentUsage records that the active subroutine's active
// section just loaded a TypeArgument, for the tail-rest rewrite in
// Optimise.
func (p *Program) RegisterTypeArgumentUsage(sym *symtab.Symbol) {
	sub := p.activeSubroutine()
	if sub == nil {
		return
	}
	sub.registerTypeArgumentUsage(sym.Index, sub.ip())
}

// --- Subroutines ---

// PushSubroutineNameless creates a fresh, symbol-less Subroutine (kind
// Inline), pushes its implicit call frame, and makes it the active
// emission target — used for a generic function's inner signature and
// a type parameter's default-type body.
func (p *Program) PushSubroutineNameless() int {
	sub := newSubroutine("", len(p.Subroutines), symtab.Inline)
	p.PushFrame(true)
	p.Subroutines = append(p.Subroutines, sub)
	p.active = append(p.active, sub)
	return sub.Index
}

// PushSubroutine finds name's symbol in Current's own symbol list (not
// walking to enclosing frames — by the time this is called the symbol
// was just pushed into Current via PushSymbolForRoutine), pushes its
// implicit call frame, and activates its routine.
func (p *Program) PushSubroutine(name string) int {
	for _, s := range p.Current.Symbols {
		if s.Name == name {
			p.PushFrame(true)
			sub := p.Subroutines[s.Routine]
			p.active = append(p.active, sub)
			return int(s.Routine)
		}
	}
	fail("no symbol found for %s", name)
	return 0
}

// PopSubroutine closes the active subroutine's implicit frame, finishes
// its final section, runs Optimise, appends Return, and deactivates it.
func (p *Program) PopSubroutine() *Subroutine {
	if len(p.active) == 0 {
		fail("no active subroutine found")
	}
	p.PopFrameImplicit()
	sub := p.active[len(p.active)-1]
	if len(sub.Ops) == 0 {
		fail("routine %q is empty", sub.Identifier)
	}

	sub.end()
	sub.Optimise()
	sub.Ops = append(sub.Ops, byte(opcode.Return))

	p.active = p.active[:len(p.active)-1]
	return sub
}

// --- Section delegation (no-ops when no subroutine is active) ---

func (p *Program) PushSection() {
	if sub := p.activeSubroutine(); sub != nil {
		sub.pushSection()
	}
}

func (p *Program) PopSection() {
	if sub := p.activeSubroutine(); sub != nil {
		sub.popSection()
	}
}

func (p *Program) BlockTailCall() {
	if sub := p.activeSubroutine(); sub != nil {
		sub.blockTailCall()
	}
}

func (p *Program) IgnoreNextSectionOp() {
	if sub := p.activeSubroutine(); sub != nil {
		sub.ignoreNextSectionOP()
	}
}
