// Package httpserver serves the REST debug surface and the WebSocket
// endpoint on the game's HTTP port.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/saddleworks/rccemu/internal/cards"
	"github.com/saddleworks/rccemu/internal/config"
	"github.com/saddleworks/rccemu/internal/db"
	"github.com/saddleworks/rccemu/internal/debuglog"
	"github.com/saddleworks/rccemu/internal/model"
)

// UserStore is the slice of the identity store the HTTP surface needs.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	Stats(ctx context.Context) (db.UserStats, error)
}

// ClientLister exposes the game server's tracked connections.
type ClientLister interface {
	ClientIDs() []string
}

// Server is the HTTP/WebSocket server.
type Server struct {
	cfg     config.Server
	users   UserStore
	clients ClientLister
	hub     *Hub
	logs    *debuglog.Logs
}

// NewServer creates the HTTP server.
func NewServer(cfg config.Server, users UserStore, clients ClientLister, logs *debuglog.Logs) *Server {
	return &Server{
		cfg:     cfg,
		users:   users,
		clients: clients,
		hub:     NewHub(),
		logs:    logs,
	}
}

// Router builds the route table. Exposed so tests can drive it through
// httptest without binding a port.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/debug/users", s.handleUsers).Methods(http.MethodGet)
	r.HandleFunc("/debug/tcp_clients", s.handleTCPClients).Methods(http.MethodGet)
	r.HandleFunc("/debug/card_hash/{id}", s.handleCardHash).Methods(http.MethodGet)
	r.HandleFunc("/websocket", s.hub.Handle)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.HTTPPort),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server started", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.logs.HTTP.Debug("request", "path", r.URL.Path, "remote", r.RemoteAddr)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "RCC Server Emulator is running",
		"status":  "online",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.users.Stats(r.Context())
	if err != nil {
		slog.Error("failed to query user stats", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"clients_connected": len(s.clients.ClientIDs()),
		"database_stats":    stats,
	})
}

// userView is the JSON shape of a user on the debug API. Token hashes are
// not exposed.
type userView struct {
	PlayerID    uint32    `json:"player_id"`
	SourceType  string    `json:"source_type"`
	SourceID    string    `json:"source_id"`
	Name        string    `json:"name"`
	UserState   int       `json:"user_state"`
	AccessLevel int       `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
	LastLogin   time.Time `json:"last_login"`
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			PlayerID:    u.PlayerID,
			SourceType:  u.SourceType,
			SourceID:    u.SourceID,
			Name:        u.Name,
			UserState:   u.UserState,
			AccessLevel: u.AccessLevel,
			CreatedAt:   u.CreatedAt,
			LastLogin:   u.LastLogin,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   views,
		"count":   len(views),
	})
}

func (s *Server) handleTCPClients(w http.ResponseWriter, r *http.Request) {
	ids := s.clients.ClientIDs()

	clients := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		clients = append(clients, map[string]string{
			"client_id": id,
			"status":    "connected",
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"tcp_clients": clients,
		"count":       len(clients),
	})
}

func (s *Server) handleCardHash(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]
	hash := cards.Key(cardID)
	logicMain := cards.Key("logic_main")

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"card_id":  cardID,
		"hash":     hash,
		"hash_hex": fmt.Sprintf("0x%08X", hash),
		"verification": map[string]any{
			"logic_main_expected": uint32(3317978623),
			"logic_main_actual":   logicMain,
			"matches":             logicMain == 3317978623,
		},
	})
}
