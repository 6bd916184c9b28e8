package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/saddleworks/rccemu/internal/cards"
	"github.com/saddleworks/rccemu/internal/config"
	"github.com/saddleworks/rccemu/internal/constants"
	"github.com/saddleworks/rccemu/internal/debuglog"
	"github.com/saddleworks/rccemu/internal/protocol"
)

// Server is the TCP game server that accepts client connections on the
// game channel port.
type Server struct {
	cfg     config.Server
	users   UserRepository
	handler *Handler
	logs    *debuglog.Logs

	listener net.Listener
	mu       sync.Mutex

	clients   map[string]*Client
	clientsMu sync.Mutex
}

// NewServer creates a game server.
func NewServer(cfg config.Server, users UserRepository, logs *debuglog.Logs) *Server {
	return &Server{
		cfg:     cfg,
		users:   users,
		handler: NewHandler(users, logs),
		logs:    logs,
		clients: make(map[string]*Client),
	}
}

// Addr returns the address the server is listening on, nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close closes the listener and stops the server.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// ClientIDs returns the ids of all tracked connections, for the debug API.
func (s *Server) ClientIDs() []string {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) track(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[c.ID()] = c
}

func (s *Server) untrack(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, c.ID())
}

// Run begins listening for client connections on cfg.Host:cfg.TCPPort.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.TCPPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on a ready listener.
// Split out so tests can serve on an arbitrary listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Go(func() {
		slog.Info("game server started", "address", ln.Addr())
		acceptLoop(ctx, &wg, s, ln)
	})

	wg.Wait()

	return nil
}

func acceptLoop(
	ctx context.Context,
	wg *sync.WaitGroup,
	srv *Server,
	ln net.Listener,
) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				slog.Error("Failed to accept new connection", "error", err)
				continue
			}
			wg.Go(func() {
				handleConnection(ctx, srv, conn)
			})
		}
	}
}

func handleConnection(ctx context.Context, srv *Server, conn net.Conn) {
	done := make(chan struct{})
	defer close(done)
	defer conn.Close()

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	client, err := NewClient(conn)
	if err != nil {
		slog.Error("failed to create client", "err", err, "remote", conn.RemoteAddr())
		return
	}

	srv.track(client)
	defer srv.untrack(client)

	slog.Info("new connection", "client", client.ID(), "ip", client.IP())
	srv.logs.TCP.Debug("connection accepted", "client", client.ID(), "ip", client.IP())

	// The client expects the card catalogue before anything else, even
	// before it has sent a byte.
	if err := srv.pushCatalogue(ctx, client, conn); err != nil {
		slog.Error("failed to push catalogue", "err", err, "client", client.ID())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if ok := handleFrame(ctx, srv, client, conn); !ok {
				return
			}
		}
	}
}

// pushCatalogue sends the full card catalogue, seeding the chat card's star
// players from the user table.
func (s *Server) pushCatalogue(ctx context.Context, client *Client, conn net.Conn) error {
	starPlayers, err := s.users.ListPlayerIDs(ctx)
	if err != nil {
		slog.Warn("falling back to default star players", "err", err)
		starPlayers = nil
	}

	payload := cards.EncodeCatalogue(cards.DefaultCatalogue(starPlayers))
	if err := protocol.WriteFrame(conn, payload); err != nil {
		return fmt.Errorf("writing catalogue: %w", err)
	}

	s.logs.DumpBinary("OUTGOING", client.ID(), "card catalogue", payload)
	slog.Debug("catalogue sent", "client", client.ID(), "size", len(payload))
	return nil
}

// handleFrame reads and dispatches one frame. Returns false when the
// connection should close.
func handleFrame(ctx context.Context, srv *Server, client *Client, conn net.Conn) bool {
	deadline := time.Now().Add(constants.ReadTimeoutSeconds * time.Second)
	if err := conn.SetReadDeadline(deadline); err != nil {
		slog.Error("failed to set read deadline", "err", err, "client", client.ID())
		return false
	}

	data, err := protocol.ReadFrame(conn)
	if err != nil {
		var netErr net.Error
		switch {
		case errors.As(err, &netErr) && netErr.Timeout() && !errors.Is(err, protocol.ErrMalformedFrame):
			// Idle between frames. Not an error, keep waiting.
			return true
		case errors.Is(err, io.EOF):
			slog.Info("client disconnected", "client", client.ID())
			return false
		default:
			slog.Warn("closing connection on read error", "err", err, "client", client.ID())
			return false
		}
	}

	srv.logs.DumpBinary("INCOMING", client.ID(), "frame", data)

	reply := srv.handler.HandleMessage(ctx, client, data)
	if reply == nil {
		return true
	}

	if err := protocol.WriteFrame(conn, reply); err != nil {
		slog.Error("failed to write reply", "err", err, "client", client.ID())
		return false
	}
	srv.logs.DumpBinary("OUTGOING", client.ID(), "reply", reply)
	return true
}
