package server

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mars762/server/pkg/protocol"
)

func TestDecodeHandshake(t *testing.T) {
	var buf bytes.Buffer
	protocol.WriteVarInt(&buf, 762)
	protocol.WriteString(&buf, "localhost")
	protocol.WriteUint16(&buf, 25565)
	protocol.WriteVarInt(&buf, int32(protocol.StateStatus))

	pkt := &protocol.Packet{ID: opHandshake, Data: buf.Bytes()}
	reaction, err := decodePacket(protocol.StateHandshaking, pkt)
	require.NoError(t, err)

	h, ok := reaction.(handshakePacket)
	require.True(t, ok)
	require.EqualValues(t, 762, h.ProtocolVersion)
	require.Equal(t, "localhost", h.Address)
	require.EqualValues(t, 25565, h.Port)
	require.EqualValues(t, protocol.StateStatus, h.NextState)
}

func TestDecodeLoginStartNoUUID(t *testing.T) {
	var buf bytes.Buffer
	protocol.WriteString(&buf, "Alex")
	protocol.WriteBool(&buf, false)

	pkt := &protocol.Packet{ID: opLoginStart, Data: buf.Bytes()}
	reaction, err := decodePacket(protocol.StateLogin, pkt)
	require.NoError(t, err)

	l, ok := reaction.(loginStart)
	require.True(t, ok)
	require.Equal(t, "Alex", l.Name)
	require.False(t, l.HasUUID)
}

func TestDecodeUnknownPacketOutsidePlay(t *testing.T) {
	pkt := &protocol.Packet{ID: 0x7F, Data: nil}
	_, err := decodePacket(protocol.StateStatus, pkt)
	require.Error(t, err)
	require.ErrorIs(t, err, protocol.ErrUnknownPacket)
}

func TestPlayStatePacketsDiscarded(t *testing.T) {
	pkt := &protocol.Packet{ID: 0x12, Data: []byte{1, 2, 3}}
	reaction, err := decodePacket(protocol.StatePlay, pkt)
	require.NoError(t, err)
	require.Nil(t, reaction)
}

func TestOfflineUUIDDeterministic(t *testing.T) {
	a := OfflineUUID("Alex")
	b := OfflineUUID("Alex")
	require.Equal(t, a, b)
	require.NotEqual(t, a, OfflineUUID("Steve"))
}

func TestStatusJSONShape(t *testing.T) {
	srv := New(Config{Address: ":0", MaxPlayers: 10, MOTD: "hi", Seed: 1})
	js, err := srv.StatusJSON()
	require.NoError(t, err)

	var doc statusDocument
	require.NoError(t, json.Unmarshal([]byte(js), &doc))
	require.Equal(t, "hi", doc.Description.Text)
	require.Equal(t, protocol.ProtocolVersion, doc.Version.Protocol)
	require.Equal(t, 10, doc.Players.Max)
}
