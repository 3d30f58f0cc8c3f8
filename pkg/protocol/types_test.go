package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, 2, 127, 128, 255, 25565, 2097151, -1, -2147483648, 2147483647}
	for _, v := range values {
		var buf bytes.Buffer
		_, err := WriteVarInt(&buf, v)
		require.NoError(t, err)
		require.Equal(t, VarIntSize(v), buf.Len())

		got, _, err := ReadVarInt(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestReadVarIntTooBig(t *testing.T) {
	// Six continuation bytes with the high bit always set never terminates
	// within the 5-byte limit.
	buf := bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	_, _, err := ReadVarInt(buf)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedFrame)
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range values {
		var buf bytes.Buffer
		_, err := WriteVarLong(&buf, v)
		require.NoError(t, err)

		got, _, err := ReadVarLong(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteString(&buf, "hello, world"))
	got, err := ReadString(&buf)
	require.NoError(t, err)
	require.Equal(t, "hello, world", got)
}

func TestPackedPositionRoundTrip(t *testing.T) {
	cases := []struct{ x, y, z int64 }{
		{0, 0, 0},
		{1, 50, 1},
		{-1, -1, -1},
		{33554431, 2047, 33554431},
		{-33554432, -2048, -33554432},
	}
	for _, c := range cases {
		packed := PackPosition(c.x, c.y, c.z)
		x, y, z := UnpackPosition(packed)
		require.Equal(t, c.x, x)
		require.Equal(t, c.y, y)
		require.Equal(t, c.z, z)
	}
}

func TestPackPositionKnownValue(t *testing.T) {
	// x in the high 26 bits, z in the middle 26, y in the low 12:
	// (1<<38) | (1<<12) | 50.
	require.Equal(t, uint64(0x4000001032), PackPosition(1, 50, 1))
}

func TestPacketRoundTrip(t *testing.T) {
	p := MarshalPacket(0x00, func(w *bytes.Buffer) {
		WriteString(w, "status")
	})
	var buf bytes.Buffer
	require.NoError(t, WritePacket(&buf, p))

	got, err := ReadPacket(&buf)
	require.NoError(t, err)
	require.Equal(t, int32(0x00), got.ID)

	str, err := ReadString(bytes.NewReader(got.Data))
	require.NoError(t, err)
	require.Equal(t, "status", str)
}

func TestReadPacketRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, MaxPacketLength+1)
	_, err := ReadPacket(&buf)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedFrame)
}
