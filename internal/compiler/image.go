package compiler

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"vexel/internal/opcode"
)

// contentHash is the 64-bit content hash spec §4.F requires each
// storage entry to carry: blake2b-256, truncated to its first 8 bytes.
// The VM must use this same function to dedup storage entries at load
// time; the compiler itself treats it as an opaque bytes->u64 function.
func contentHash(text string) uint64 {
	sum := blake2b.Sum256([]byte(text))
	return binary.LittleEndian.Uint64(sum[:8])
}

// Build links storage, source maps, the subroutine table and all code
// segments into one self-contained byte image, per spec §4.F:
//
//  1. Jump + u32 target (back-patched to the first byte after storage).
//  2. Storage entries: u64 hash, u16 length, text bytes.
//  3. SourceMap opcode + u32 size, then every entry (subroutines in
//     declaration order, then main), each u32 absolute bytecode
//     position + u32 source pos + u32 source end.
//  4. One Subroutine header per subroutine: u32 name address, u32 code
//     address, u8 flags.
//  5. Main opcode + u32 main code address.
//  6. Every subroutine's raw opcode bytes, concatenated in order.
//  7. Main's raw opcode bytes.
//  8. Halt.
func (p *Program) Build() []byte {
	var bin []byte

	address := uint32(5) // Jump opcode + its u32 target
	bin = append(bin, byte(opcode.Jump))
	bin = opcode.PutU32(bin, 0) // patched below

	for _, item := range p.Storage.Entries() {
		address += 8 + 2 + uint32(len(item.Text))
	}
	opcode.PatchU32(bin, 1, address)

	for _, item := range p.Storage.Entries() {
		bin = opcode.PutU64(bin, contentHash(item.Text))
		bin = opcode.PutU16(bin, uint16(len(item.Text)))
		bin = append(bin, item.Text...)
	}

	sourceMapSize := uint32(0)
	for _, sub := range p.Subroutines {
		sourceMapSize += uint32(len(sub.SourceMap)) * (4 * 3)
	}
	sourceMapSize += uint32(len(p.MainSourceMap)) * (4 * 3)

	bin = append(bin, byte(opcode.SourceMap))
	bin = opcode.PutU32(bin, sourceMapSize)
	address += 1 + 4 + sourceMapSize

	bytecodePosOffset := address
	bytecodePosOffset += uint32(len(p.Subroutines)) * (1 + 4 + 4 + 1)
	bytecodePosOffset += 1 + 4 // Main opcode + address

	for _, sub := range p.Subroutines {
		for _, entry := range sub.SourceMap {
			bin = opcode.PutU32(bin, bytecodePosOffset+uint32(entry.IP))
			bin = opcode.PutU32(bin, uint32(entry.SourcePos))
			bin = opcode.PutU32(bin, uint32(entry.SourceEnd))
		}
		bytecodePosOffset += uint32(len(sub.Ops))
	}
	for _, entry := range p.MainSourceMap {
		bin = opcode.PutU32(bin, bytecodePosOffset+uint32(entry.IP))
		bin = opcode.PutU32(bin, uint32(entry.SourcePos))
		bin = opcode.PutU32(bin, uint32(entry.SourceEnd))
	}

	address += 1 + 4
	address += uint32(len(p.Subroutines)) * (1 + 4 + 4 + 1)

	for _, sub := range p.Subroutines {
		bin = append(bin, byte(opcode.Subroutine))
		bin = opcode.PutU32(bin, sub.NameAddress)
		bin = opcode.PutU32(bin, address)
		bin = append(bin, 0) // flags: always 0 in this core
		address += uint32(len(sub.Ops))
	}

	bin = append(bin, byte(opcode.Main))
	bin = opcode.PutU32(bin, address)

	for _, sub := range p.Subroutines {
		bin = append(bin, sub.Ops...)
	}
	bin = append(bin, p.MainOps...)
	bin = append(bin, byte(opcode.Halt))

	return bin
}
