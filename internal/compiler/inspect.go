package compiler

import (
	"encoding/binary"
	"fmt"

	"vexel/internal/opcode"
)

// ImageStorageEntry is one decoded storage-section entry: its address in
// the image, its content hash as written by the serializer, and its text.
type ImageStorageEntry struct {
	Address uint32
	Hash    uint64
	Text    string
}

// ImageSubroutine is one decoded subroutine-table header entry.
type ImageSubroutine struct {
	NameAddress uint32
	CodeAddress uint32
	Flags       byte
}

// ImageInfo is the header metadata Inspect extracts from a built image —
// everything short of re-executing the bytecode itself.
type ImageInfo struct {
	Storage     []ImageStorageEntry
	Subroutines []ImageSubroutine
	MainAddress uint32
}

// Name resolves a subroutine's NameAddress against the decoded storage
// table, returning "" if the address isn't a storage entry (shouldn't
// happen for a well-formed image).
func (info *ImageInfo) Name(sub ImageSubroutine) string {
	for _, item := range info.Storage {
		if item.Address == sub.NameAddress {
			return item.Text
		}
	}
	return ""
}

// Inspect walks a built image's header sections (spec §4.F / image.go's
// Build) without executing any bytecode: the leading Jump target, every
// storage entry up to it, the source-map block (skipped, not decoded —
// diagnostic rendering is out of scope), and the subroutine table up to
// the Main header.
func Inspect(bin []byte) (*ImageInfo, error) {
	if len(bin) < 5 || opcode.OpCode(bin[0]) != opcode.Jump {
		return nil, fmt.Errorf("compiler: not a vexel image (missing leading Jump)")
	}
	storageEnd := opcode.ReadU32(bin, 1)

	info := &ImageInfo{}
	pos := 5
	for uint32(pos) < storageEnd {
		if pos+8+2 > len(bin) {
			return nil, fmt.Errorf("compiler: truncated storage entry at byte %d", pos)
		}
		entryAddr := uint32(pos)
		hash := binary.LittleEndian.Uint64(bin[pos : pos+8])
		length := int(opcode.ReadU16(bin, pos+8))
		textStart := pos + 10
		textEnd := textStart + length
		if textEnd > len(bin) {
			return nil, fmt.Errorf("compiler: truncated storage text at byte %d", pos)
		}
		info.Storage = append(info.Storage, ImageStorageEntry{
			Address: entryAddr, Hash: hash, Text: string(bin[textStart:textEnd]),
		})
		pos = textEnd
	}

	if pos >= len(bin) || opcode.OpCode(bin[pos]) != opcode.SourceMap {
		return nil, fmt.Errorf("compiler: expected SourceMap opcode at byte %d", pos)
	}
	pos++
	if pos+4 > len(bin) {
		return nil, fmt.Errorf("compiler: truncated SourceMap size at byte %d", pos)
	}
	sourceMapSize := opcode.ReadU32(bin, pos)
	pos += 4 + int(sourceMapSize)

	for pos < len(bin) && opcode.OpCode(bin[pos]) == opcode.Subroutine {
		pos++
		if pos+4+4+1 > len(bin) {
			return nil, fmt.Errorf("compiler: truncated Subroutine header at byte %d", pos)
		}
		nameAddr := opcode.ReadU32(bin, pos)
		pos += 4
		codeAddr := opcode.ReadU32(bin, pos)
		pos += 4
		flags := bin[pos]
		pos++
		info.Subroutines = append(info.Subroutines, ImageSubroutine{
			NameAddress: nameAddr, CodeAddress: codeAddr, Flags: flags,
		})
	}

	if pos >= len(bin) || opcode.OpCode(bin[pos]) != opcode.Main {
		return nil, fmt.Errorf("compiler: expected Main opcode at byte %d", pos)
	}
	pos++
	if pos+4 > len(bin) {
		return nil, fmt.Errorf("compiler: truncated Main address at byte %d", pos)
	}
	info.MainAddress = opcode.ReadU32(bin, pos)

	return info, nil
}
