package protocol

import "github.com/pkg/errors"

// Sentinel errors a connection's reader/writer tasks classify failures
// against. Wrap these with github.com/pkg/errors to attach context while
// keeping errors.Is/errors.Cause usable by callers.
var (
	// ErrMalformedFrame means the byte stream could not be parsed as a
	// length-prefixed frame (bad VarInt, truncated payload, oversized
	// length).
	ErrMalformedFrame = errors.New("protocol: malformed frame")

	// ErrUnknownPacket means a frame decoded cleanly but its opcode has no
	// handler registered for the connection's current state.
	ErrUnknownPacket = errors.New("protocol: unknown packet for state")

	// ErrProtocolViolation means a packet was recognized but its payload
	// violated a contract the handler enforces (wrong field value, out of
	// range argument, illegal state transition).
	ErrProtocolViolation = errors.New("protocol: violation")

	// ErrQueueClosed means a send onto a connection's outbound queue was
	// abandoned because the connection is shutting down (its context was
	// cancelled) before the queue accepted the packet.
	ErrQueueClosed = errors.New("protocol: outbound queue closed")
)
