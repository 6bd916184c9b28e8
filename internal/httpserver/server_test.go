package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddleworks/rccemu/internal/config"
	"github.com/saddleworks/rccemu/internal/db"
	"github.com/saddleworks/rccemu/internal/debuglog"
	"github.com/saddleworks/rccemu/internal/model"
)

// mockStore is a func-field mock for UserStore.
type mockStore struct {
	ListUsersFunc func(ctx context.Context) ([]model.User, error)
	StatsFunc     func(ctx context.Context) (db.UserStats, error)
}

func (m *mockStore) ListUsers(ctx context.Context) ([]model.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) Stats(ctx context.Context) (db.UserStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return db.UserStats{}, nil
}

// mockClients is a static ClientLister.
type mockClients []string

func (m mockClients) ClientIDs() []string { return m }

func newTestServer(store UserStore, clients ClientLister) *httptest.Server {
	s := NewServer(config.DefaultServer(), store, clients, debuglog.New(config.DebugConfig{}))
	return httptest.NewServer(s.Router())
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.Host = "127.0.0.1"
	cfg.HTTPPort = 0 // ephemeral

	s := NewServer(cfg, &mockStore{}, mockClients{}, debuglog.New(config.DebugConfig{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Let ListenAndServe come up, then trigger the graceful path.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancelled Run must shut down cleanly")
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after ctx cancel")
	}
}

func TestRoot(t *testing.T) {
	ts := newTestServer(&mockStore{}, mockClients{})
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "online", body["status"])
}

func TestHealth(t *testing.T) {
	store := &mockStore{
		StatsFunc: func(ctx context.Context) (db.UserStats, error) {
			return db.UserStats{Total: 12, Active24h: 3, New24h: 1}, nil
		},
	}
	ts := newTestServer(store, mockClients{"a", "b"})
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/health")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(2), body["clients_connected"])

	stats, ok := body["database_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(12), stats["total_users"])
}

func TestHealth_StoreError(t *testing.T) {
	store := &mockStore{
		StatsFunc: func(ctx context.Context) (db.UserStats, error) {
			return db.UserStats{}, errors.New("connection refused")
		},
	}
	ts := newTestServer(store, mockClients{})
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/health")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "degraded", body["status"])
}

func TestDebugUsers(t *testing.T) {
	now := time.Now()
	store := &mockStore{
		ListUsersFunc: func(ctx context.Context) ([]model.User, error) {
			return []model.User{
				{PlayerID: 1, SourceType: "Steam", SourceID: "76561198139908495",
					TokenHash: "secret", Name: "Player1", UserState: 1,
					CreatedAt: now, LastLogin: now},
			}, nil
		},
	}
	ts := newTestServer(store, mockClients{})
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/debug/users")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])

	users, ok := body["users"].([]any)
	require.True(t, ok)
	user := users[0].(map[string]any)
	assert.Equal(t, "Player1", user["name"])
	assert.NotContains(t, user, "token_hash", "token hashes must not leak")
}

func TestDebugTCPClients(t *testing.T) {
	ts := newTestServer(&mockStore{}, mockClients{"127.0.0.1:50001"})
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/debug/tcp_clients")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	clients := body["tcp_clients"].([]any)
	entry := clients[0].(map[string]any)
	assert.Equal(t, "127.0.0.1:50001", entry["client_id"])
	assert.Equal(t, "connected", entry["status"])
}

func TestDebugCardHash(t *testing.T) {
	ts := newTestServer(&mockStore{}, mockClients{})
	defer ts.Close()

	status, body := getJSON(t, ts.URL+"/debug/card_hash/logic_main")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3317978623), body["hash"])
	assert.Equal(t, "0xC5C1AA3F", body["hash_hex"])

	verification := body["verification"].(map[string]any)
	assert.Equal(t, true, verification["matches"])
}
