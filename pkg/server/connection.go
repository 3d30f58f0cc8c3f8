package server

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mars762/server/pkg/protocol"
	"github.com/mars762/server/pkg/world"
)

// outboundQueueCapacity is the bounded channel size shared by a
// connection's reader and writer tasks.
const outboundQueueCapacity = 16

// keepAliveInterval is how often the writer emits a KeepAlive while in the
// PLAY state.
const keepAliveInterval = 10 * time.Second

// playViewRadius is the chunk coordinate range streamed on entering PLAY:
// [-playViewRadius, playViewRadius) on both axes.
const playViewRadius = 3

// Connection is the per-socket runtime: a shared state cell, a bounded
// outbound queue, and the reader/writer tasks racing over it.
type Connection struct {
	srv   *Server
	conn  net.Conn
	log   zerolog.Logger
	out   chan *protocol.Packet
	state atomic.Int32 // protocol.State*
}

func newConnection(srv *Server, conn net.Conn) *Connection {
	return &Connection{
		srv:  srv,
		conn: conn,
		log:  srv.log.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		out:  make(chan *protocol.Packet, outboundQueueCapacity),
	}
}

// Run drives the connection's reader and writer tasks until either fails,
// then closes the socket. Either task's end cancels the other: the writer
// selects on the cancelled context, and cancelling the context closes the
// socket so the reader's blocked read aborts.
func (c *Connection) Run() {
	defer c.conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()
	g.Go(func() error {
		defer cancel()
		return c.readLoop(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return c.writeLoop(ctx)
	})

	if err := g.Wait(); err != nil {
		c.log.Debug().Err(err).Msg("connection closed")
	}
}

// Close forces the underlying socket closed, unblocking both tasks.
func (c *Connection) Close() {
	c.conn.Close()
}

// enqueue pushes p onto the outbound queue, backing off only when ctx is
// cancelled by the peer task's failure — never on a timer, matching the
// spec's "no timeouts beyond OS defaults" ordering guarantee.
func (c *Connection) enqueue(ctx context.Context, p *protocol.Packet) error {
	select {
	case c.out <- p:
		return nil
	case <-ctx.Done():
		return errors.Wrap(protocol.ErrQueueClosed, "connection shutting down")
	}
}

func (c *Connection) readLoop(ctx context.Context) error {
	c.state.Store(protocol.StateHandshaking)

	for {
		pkt, err := protocol.ReadPacket(c.conn)
		if err != nil {
			return errors.Wrap(err, "read packet")
		}

		state := c.state.Load()
		reaction, err := decodePacket(state, pkt)
		if err != nil {
			return err
		}

		if err := c.react(ctx, state, reaction); err != nil {
			return err
		}
	}
}

func (c *Connection) react(ctx context.Context, state int32, reaction any) error {
	switch v := reaction.(type) {
	case handshakePacket:
		switch v.NextState {
		case protocol.StateStatus, protocol.StateLogin:
			c.state.Store(v.NextState)
		default:
			return errors.Wrapf(protocol.ErrProtocolViolation, "illegal next_state %d", v.NextState)
		}

	case struct{}: // StatusRequest
		json, err := c.srv.StatusJSON()
		if err != nil {
			return err
		}
		return c.enqueue(ctx, buildStatusResponse(json))

	case pingRequest:
		return c.enqueue(ctx, buildPongResponse(v.Timestamp))

	case loginStart:
		return c.handleLogin(ctx, v)

	case nil:
		// PLAY-state packet; nothing to react to.
		return nil
	}
	return nil
}

func (c *Connection) handleLogin(ctx context.Context, l loginStart) error {
	id := l.UUID
	if !l.HasUUID {
		id = OfflineUUID(l.Name)
	}

	if err := c.enqueue(ctx, buildLoginSuccess(id, l.Name)); err != nil {
		return err
	}
	if err := c.enqueue(ctx, &protocol.Packet{ID: rawFrameID, Data: buildLoginPlay()}); err != nil {
		return err
	}

	for x := int32(-playViewRadius); x < playViewRadius; x++ {
		for z := int32(-playViewRadius); z < playViewRadius; z++ {
			chunk := c.srv.world.GetChunk(world.ChunkPos{X: x, Z: z})
			pkt, err := buildChunkDataAndLight(chunk)
			if err != nil {
				return err
			}
			if err := c.enqueue(ctx, pkt); err != nil {
				return err
			}
		}
	}

	if err := c.enqueue(ctx, buildSetDefaultSpawnPosition(0, 50, 0, 0)); err != nil {
		return err
	}

	c.state.Store(protocol.StatePlay)
	return nil
}

func (c *Connection) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case pkt, ok := <-c.out:
			if !ok {
				return nil
			}
			if err := writeFramedPacket(c.conn, pkt); err != nil {
				return errors.Wrap(err, "write packet")
			}

		case <-ticker.C:
			if c.state.Load() != protocol.StatePlay {
				continue
			}
			pkt := buildKeepAlive(uint64(time.Now().UnixNano()))
			if err := writeFramedPacket(c.conn, pkt); err != nil {
				return errors.Wrap(err, "write keepalive")
			}
		}
	}
}

// rawFrameID marks a queued Packet whose Data is already a fully framed,
// pre-recorded blob (LoginPlay) rather than a payload to frame ourselves.
const rawFrameID = -1

// writeFramedPacket writes p's frame, or copies its bytes verbatim when it
// carries a pre-framed blob.
func writeFramedPacket(conn net.Conn, p *protocol.Packet) error {
	if p.ID == rawFrameID {
		_, err := conn.Write(p.Data)
		return err
	}
	return protocol.WritePacket(conn, p)
}
