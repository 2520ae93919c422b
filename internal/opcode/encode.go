package opcode

import "encoding/binary"

// PutU16 appends a little-endian u16 to buf and returns the new slice.
func PutU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutU32 appends a little-endian u32 to buf and returns the new slice.
func PutU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// PutI32 appends a little-endian signed i32 to buf and returns the new slice.
func PutI32(buf []byte, v int32) []byte {
	return PutU32(buf, uint32(v))
}

// PutU64 appends a little-endian u64 to buf and returns the new slice.
func PutU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// ReserveU32 appends four placeholder bytes to buf and returns the new
// slice along with the offset those bytes start at, so the caller can
// back-patch it once the real value (usually a relative jump target) is
// known.
func ReserveU32(buf []byte) ([]byte, int) {
	at := len(buf)
	return PutU32(buf, 0), at
}

// PatchU32 overwrites the u32 at offset at with v.
func PatchU32(buf []byte, at int, v uint32) {
	binary.LittleEndian.PutUint32(buf[at:at+4], v)
}

// PatchI32 overwrites the i32 at offset at with v.
func PatchI32(buf []byte, at int, v int32) {
	PatchU32(buf, at, uint32(v))
}

// ReadU16 reads a little-endian u16 at offset at.
func ReadU16(buf []byte, at int) uint16 {
	return binary.LittleEndian.Uint16(buf[at : at+2])
}

// ReadU32 reads a little-endian u32 at offset at.
func ReadU32(buf []byte, at int) uint32 {
	return binary.LittleEndian.Uint32(buf[at : at+4])
}
