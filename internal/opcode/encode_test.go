package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutPrimitives(t *testing.T) {
	var buf []byte
	buf = PutU16(buf, 0x0201)
	buf = PutU32(buf, 0x06050403)
	buf = PutI32(buf, -1)
	buf = PutU64(buf, 0x0f0e0d0c0b0a0908)

	require.Len(t, buf, 2+4+4+8)
	assert.Equal(t, []byte{0x01, 0x02}, buf[0:2])
	assert.Equal(t, []byte{0x03, 0x04, 0x05, 0x06}, buf[2:6])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf[6:10])
	assert.Equal(t, uint32(0x06050403), ReadU32(buf, 2))
	assert.Equal(t, uint16(0x0201), ReadU16(buf, 0))
}

func TestReserveAndPatchU32(t *testing.T) {
	buf := []byte{byte(Jump)}
	buf, at := ReserveU32(buf)
	require.Equal(t, 1, at)
	require.Len(t, buf, 5)
	assert.Equal(t, uint32(0), ReadU32(buf, at))

	PatchU32(buf, at, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), ReadU32(buf, at))
}

func TestPatchI32RoundTripsNegative(t *testing.T) {
	buf := make([]byte, 4)
	PatchI32(buf, 0, -42)
	got := int32(ReadU32(buf, 0))
	assert.Equal(t, int32(-42), got)
}
