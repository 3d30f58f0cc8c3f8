package server

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/mars762/server/pkg/nbt"
	"github.com/mars762/server/pkg/protocol"
	"github.com/mars762/server/pkg/world"
)

// Client-to-server opcodes, scoped to the states that matter to this
// server; PLAY-state packets are all consumed and discarded.
const (
	opHandshake  = 0x00
	opStatusReq  = 0x00
	opPingReq    = 0x01
	opLoginStart = 0x00
)

// Server-to-client opcodes.
const (
	opStatusResponse          = 0x00
	opPongResponse            = 0x01
	opLoginSuccess            = 0x02
	opKeepAlive               = 0x23
	opChunkDataAndLight       = 0x24
	opSetDefaultSpawnPosition = 0x50
)

// handshakePacket is the sole HANDSHAKE-state packet.
type handshakePacket struct {
	ProtocolVersion int32
	Address         string
	Port            uint16
	NextState       int32
}

func readHandshake(r io.Reader) (handshakePacket, error) {
	var h handshakePacket
	var err error
	h.ProtocolVersion, _, err = protocol.ReadVarInt(r)
	if err != nil {
		return h, err
	}
	h.Address, err = protocol.ReadString(r)
	if err != nil {
		return h, err
	}
	h.Port, err = protocol.ReadUint16(r)
	if err != nil {
		return h, err
	}
	h.NextState, _, err = protocol.ReadVarInt(r)
	return h, err
}

// pingRequest carries the echo timestamp.
type pingRequest struct {
	Timestamp uint64
}

func readPingRequest(r io.Reader) (pingRequest, error) {
	ts, err := protocol.ReadUint64Raw(r)
	return pingRequest{Timestamp: ts}, err
}

// loginStart carries the requested username and an optional client-supplied
// UUID.
type loginStart struct {
	Name    string
	HasUUID bool
	UUID    [16]byte
}

func readLoginStart(r io.Reader) (loginStart, error) {
	var l loginStart
	var err error
	l.Name, err = protocol.ReadString(r)
	if err != nil {
		return l, err
	}
	l.HasUUID, l.UUID, err = protocol.ReadOptionalUUID(r)
	return l, err
}

// decodePacket decodes the packet for the connection's current state and
// returns the reaction to perform. It never mutates connection state
// itself; the caller applies whatever the reaction specifies.
func decodePacket(state int32, pkt *protocol.Packet) (reaction any, err error) {
	defer func() {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = errors.Wrap(protocol.ErrMalformedFrame, "truncated packet body")
		}
	}()
	r := bytes.NewReader(pkt.Data)
	switch {
	case state == protocol.StateHandshaking && pkt.ID == opHandshake:
		return readHandshake(r)
	case state == protocol.StateStatus && pkt.ID == opStatusReq:
		return struct{}{}, nil
	case state == protocol.StateStatus && pkt.ID == opPingReq:
		return readPingRequest(r)
	case state == protocol.StateLogin && pkt.ID == opLoginStart:
		return readLoginStart(r)
	case state == protocol.StatePlay:
		return nil, nil // ignored / reserved, consumed and discarded
	default:
		return nil, errors.Wrapf(protocol.ErrUnknownPacket, "state=%d opcode=0x%02x", state, pkt.ID)
	}
}

// buildStatusResponse frames opcode 0x00 with the JSON status document.
func buildStatusResponse(json string) *protocol.Packet {
	return protocol.MarshalPacket(opStatusResponse, func(w *bytes.Buffer) {
		protocol.WriteString(w, json)
	})
}

// buildPongResponse frames opcode 0x01 echoing the ping timestamp.
func buildPongResponse(timestamp uint64) *protocol.Packet {
	return protocol.MarshalPacket(opPongResponse, func(w *bytes.Buffer) {
		protocol.WriteUint64Raw(w, timestamp)
	})
}

// buildLoginSuccess frames opcode 0x02: raw UUID, username, zero properties.
func buildLoginSuccess(id [16]byte, name string) *protocol.Packet {
	return protocol.MarshalPacket(opLoginSuccess, func(w *bytes.Buffer) {
		protocol.WriteUUID(w, id)
		protocol.WriteString(w, name)
		protocol.WriteByte(w, 0)
	})
}

// buildLoginPlay returns the embedded opaque LoginPlay blob unchanged; it
// is written without added framing, since its opcode is baked into the
// blob itself, matching the original's
// get_stored_packet_bytes contract.
func buildLoginPlay() []byte {
	return protocol.LoginPlayBody
}

// buildKeepAlive frames opcode 0x23 carrying a nanosecond timestamp id.
func buildKeepAlive(id uint64) *protocol.Packet {
	return protocol.MarshalPacket(opKeepAlive, func(w *bytes.Buffer) {
		protocol.WriteUint64Raw(w, id)
	})
}

// buildSetDefaultSpawnPosition frames opcode 0x50: packed position + angle.
func buildSetDefaultSpawnPosition(x, y, z int64, angle float32) *protocol.Packet {
	return protocol.MarshalPacket(opSetDefaultSpawnPosition, func(w *bytes.Buffer) {
		protocol.WritePosition(w, x, y, z)
		protocol.WriteFloat32(w, angle)
	})
}

// buildChunkDataAndLight frames opcode 0x24: column coordinates, the
// heightmap NBT compound, the section payloads, and the fixed trailer of
// empty light-mask fields.
func buildChunkDataAndLight(c *world.Chunk) (*protocol.Packet, error) {
	heightmap, err := nbt.MotionBlockingHeightmap()
	if err != nil {
		return nil, errors.Wrap(err, "encode heightmap")
	}

	var sections bytes.Buffer
	for _, sec := range c.Sections {
		if err := world.WriteSection(&sections, sec); err != nil {
			return nil, errors.Wrap(err, "write section")
		}
	}

	return protocol.MarshalPacket(opChunkDataAndLight, func(w *bytes.Buffer) {
		protocol.WriteInt32(w, c.Pos.X)
		protocol.WriteInt32(w, c.Pos.Z)
		w.Write(heightmap)
		protocol.WriteVarInt(w, int32(sections.Len()))
		w.Write(sections.Bytes())

		protocol.WriteVarInt(w, 0) // block-entity count
		protocol.WriteByte(w, 1)
		for i := 0; i < 6; i++ {
			protocol.WriteVarInt(w, 0) // sky/block light masks and arrays
		}
	}), nil
}
