// Package server implements the accept loop, per-connection runtime, and
// status document for the block-world sandbox protocol.
package server

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mars762/server/pkg/protocol"
	"github.com/mars762/server/pkg/world"
)

// Config holds server configuration.
type Config struct {
	Address    string
	MaxPlayers int
	MOTD       string
	Seed       int64
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:    "127.0.0.1:25565",
		MaxPlayers: 20,
		MOTD:       "A mars.rs-compatible Go server",
	}
}

// Server accepts connections and dispatches each to its own connection
// runtime, backed by a single shared world cache.
type Server struct {
	config   Config
	listener net.Listener
	world    *world.World
	log      zerolog.Logger

	mu     sync.Mutex
	conns  map[*Connection]struct{}
	stopCh chan struct{}
}

// New creates a new server with the given configuration.
func New(config Config) *Server {
	seed := config.Seed
	logger := log.With().Str("component", "server").Logger()
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info().Int64("seed", seed).Msg("no seed configured, seeding from current time")
	}
	return &Server{
		config: config,
		world:  world.NewWorld(seed),
		log:    logger,
		conns:  make(map[*Connection]struct{}),
		stopCh: make(chan struct{}),
	}
}

// Start binds the listener and begins accepting connections in the
// background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.listener = ln
	s.log.Info().Str("addr", s.config.Address).Msg("listening")

	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every tracked connection.
func (s *Server) Stop() {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.log.Error().Err(err).Msg("accept failed")
				continue
			}
		}
		c := newConnection(s, conn)
		s.track(c)
		go func() {
			defer s.untrack(c)
			c.Run()
		}()
	}
}

func (s *Server) track(c *Connection) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *Connection) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// statusVersion and statusPlayers mirror the JSON shape the status document
// requires.
type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusDescription struct {
	Text string `json:"text"`
}

type statusDocument struct {
	Description statusDescription `json:"description"`
	Version     statusVersion     `json:"version"`
	Players     statusPlayers     `json:"players"`
	Favicon     string            `json:"favicon,omitempty"`
}

// favicon is a minimal 1x1 PNG, base64-encoded, standing in for a server
// icon image.
const favicon = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNk+A8AAQUBAScY42YAAAAASUVORK5CYII="

// StatusJSON renders the current status document for a StatusResponse
// packet.
func (s *Server) StatusJSON() (string, error) {
	s.mu.Lock()
	online := len(s.conns)
	s.mu.Unlock()

	doc := statusDocument{
		Description: statusDescription{Text: s.config.MOTD},
		Version:     statusVersion{Name: "mars762", Protocol: protocol.ProtocolVersion},
		Players:     statusPlayers{Max: s.config.MaxPlayers, Online: online},
		Favicon:     "data:image/png;base64," + favicon,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "marshal status document")
	}
	return string(b), nil
}
