// Package policy implements the Flash cross-domain policy listener. The
// retail client's socket layer requests this file before opening the game
// channel.
package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// policyFile is the permissive cross-domain policy, NUL-terminated as the
// Flash runtime requires.
const policyFile = `<?xml version="1.0"?>
<cross-domain-policy>
    <allow-access-from domain="*" to-ports="*" />
</cross-domain-policy>` + "\x00"

// Server answers every connection with the policy file and closes.
type Server struct {
	host string
	port int

	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a policy server.
func NewServer(host string, port int) *Server {
	return &Server{host: host, port: port}
}

// Addr returns the listening address, nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run begins listening for policy requests.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
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
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("policy server started", "address", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("Failed to accept policy connection", "error", err)
			continue
		}

		// The exchange is a single write; no goroutine pool needed.
		go serve(conn)
	}
}

func serve(conn net.Conn) {
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte(policyFile)); err != nil {
		slog.Warn("failed to serve policy file", "err", err, "remote", conn.RemoteAddr())
		return
	}
	slog.Debug("served policy file", "remote", conn.RemoteAddr())
}
