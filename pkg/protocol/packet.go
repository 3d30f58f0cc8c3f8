package protocol

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Connection states, matching the handshake next-state values.
const (
	StateHandshaking = 0
	StateStatus      = 1
	StateLogin       = 2
	StatePlay        = 3
)

// ProtocolVersion is the protocol number this server speaks and advertises.
const ProtocolVersion = 762

// MaxPacketLength bounds the VarInt-prefixed frame length read off the wire.
const MaxPacketLength = 2097151 // max 3-byte VarInt

// Packet represents a framed protocol packet: an opcode and its payload.
type Packet struct {
	ID   int32
	Data []byte
}

// ReadPacket reads one length-prefixed frame and splits out its opcode.
func ReadPacket(r io.Reader) (*Packet, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, errors.Wrapf(ErrMalformedFrame, "packet length too small: %d", length)
	}
	if length > MaxPacketLength {
		return nil, errors.Wrapf(ErrMalformedFrame, "packet length too large: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	pr := bytes.NewReader(payload)
	packetID, idLen, err := ReadVarInt(pr)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedFrame, err.Error())
	}

	return &Packet{
		ID:   packetID,
		Data: payload[idLen:],
	}, nil
}

// WritePacket writes a full frame (length prefix, opcode, payload) in one
// buffered write.
func WritePacket(w io.Writer, p *Packet) error {
	idSize := VarIntSize(p.ID)
	totalLen := int32(idSize + len(p.Data))

	buf := bytes.NewBuffer(make([]byte, 0, VarIntSize(totalLen)+int(totalLen)))
	WriteVarInt(buf, totalLen)
	WriteVarInt(buf, p.ID)
	buf.Write(p.Data)

	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalPacket builds a Packet from an opcode and a payload builder.
func MarshalPacket(id int32, builder func(w *bytes.Buffer)) *Packet {
	var buf bytes.Buffer
	builder(&buf)
	return &Packet{
		ID:   id,
		Data: buf.Bytes(),
	}
}
