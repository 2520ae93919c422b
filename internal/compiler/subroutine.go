package compiler

import (
	"vexel/internal/opcode"
	"vexel/internal/symtab"
)

// SourceMapEntry maps one subroutine-local (or, for Program's main
// buffer, program-global) instruction pointer back to a source span.
type SourceMapEntry struct {
	IP                   int
	SourcePos, SourceEnd int
}

// Subroutine is one independently addressable program within the
// output image: a type alias's body, a function signature, a variable's
// declared type, or a nameless helper (a generic function's inner
// signature, a default type argument).
type Subroutine struct {
	Ops        []byte
	SourceMap  []SourceMapEntry
	Identifier string
	Index      int
	NameAddress uint32
	Kind       symtab.SymbolKind

	Sections      []Section
	ActiveSection int

	ignoreNextSectionOp bool
}

func newSubroutine(identifier string, index int, kind symtab.SymbolKind) *Subroutine {
	sub := &Subroutine{Identifier: identifier, Index: index, Kind: kind}
	sub.Sections = []Section{newSection(0, -1)}
	return sub
}

func (s *Subroutine) ip() int { return len(s.Ops) }

// pushOp appends an opcode byte and, unless a one-shot
// ignoreNextSectionOp is pending, updates the active section's
// bookkeeping (LastOp, OpCount).
func (s *Subroutine) pushOp(op opcode.OpCode) {
	s.Ops = append(s.Ops, byte(op))
	if !s.ignoreNextSectionOp {
		sec := &s.Sections[s.ActiveSection]
		sec.LastOp = op
		sec.OpCount++
	}
	s.ignoreNextSectionOp = false
}

func (s *Subroutine) ignoreNextSectionOP() { s.ignoreNextSectionOp = true }

func (s *Subroutine) blockTailCall() {
	s.Sections[s.ActiveSection].IsBlockTailCall = true
}

// pushSection opens a child of the current section and makes it active.
func (s *Subroutine) pushSection() {
	s.Sections[s.ActiveSection].HasChild = true
	child := newSection(s.ip(), s.ActiveSection)
	s.Sections = append(s.Sections, child)
	s.ActiveSection = len(s.Sections) - 1
}

// end records the active section's End at the current ip, without
// changing what's active — used once per subroutine right before
// Optimise runs.
func (s *Subroutine) end() {
	s.Sections[s.ActiveSection].End = s.ip()
}

// popSection ends the active section and returns control to its parent.
// If the parent has no Next sibling yet, one is auto-created — sharing
// the parent's own Up — and made active: this is the "code after the
// branch returns here" continuation the tail analysis walks.
func (s *Subroutine) popSection() {
	s.Sections[s.ActiveSection].End = s.ip()
	s.ActiveSection = s.Sections[s.ActiveSection].Up

	if s.Sections[s.ActiveSection].Next == -1 {
		parentUp := s.Sections[s.ActiveSection].Up
		next := newSection(s.ip(), parentUp)
		s.Sections = append(s.Sections, next)
		s.Sections[s.ActiveSection].Next = len(s.Sections) - 1
		s.ActiveSection = len(s.Sections) - 1
	}
}

func (s *Subroutine) registerTypeArgumentUsage(symbolIndex, ip int) {
	sec := &s.Sections[s.ActiveSection]
	for i := range sec.TypeArgumentUsages {
		if sec.TypeArgumentUsages[i].SymbolIndex == symbolIndex {
			// Mirrors the original checker's registerTypeArgumentUsage: a
			// repeat usage of the same type argument within one section
			// overwrites the recorded SymbolIndex with the new ip rather
			// than updating an IP field. Preserved verbatim.
			sec.TypeArgumentUsages[i].SymbolIndex = ip
			return
		}
	}
	sec.TypeArgumentUsages = append(sec.TypeArgumentUsages, TypeArgumentUsage{SymbolIndex: symbolIndex, IP: ip})
}

// ended reports whether sec contributes no further straight-line code:
// either it has no Next sibling and emitted no instructions itself, or
// its Next sibling chain is, recursively, ended.
func (s *Subroutine) ended(sec *Section) bool {
	if sec.Next >= 0 {
		return s.ended(&s.Sections[sec.Next])
	}
	return sec.OpCount == 0
}

// Optimise runs the flow-sensitive tail analysis: every section that is
// itself childless, not blocked, and whose sibling chain and every
// ancestor's sibling chain is ended is a tail section. A tail section's
// trailing Call becomes TailCall; any Rest it recorded a type-argument
// usage for becomes RestReuse.
func (s *Subroutine) Optimise() {
	for i := range s.Sections {
		sec := &s.Sections[i]
		if sec.HasChild {
			continue
		}
		if sec.IsBlockTailCall {
			continue
		}
		if sec.Next >= 0 && !s.ended(sec) {
			continue
		}

		tail := true
		curIdx := sec.Up
		for curIdx >= 0 {
			cur := &s.Sections[curIdx]
			if cur.IsBlockTailCall {
				tail = false
				break
			}
			if !s.ended(cur) {
				tail = false
				break
			}
			curIdx = cur.Up
		}

		if !tail {
			continue
		}

		if sec.LastOp == opcode.Call {
			s.Ops[sec.End-1-4-2] = byte(opcode.TailCall)
		}

		for _, usage := range sec.TypeArgumentUsages {
			if opcode.OpCode(s.Ops[usage.IP]) == opcode.Rest {
				s.Ops[usage.IP] = byte(opcode.RestReuse)
			}
		}
	}
}
