package db

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestGetOrCreateUser_FirstLoginSeedsPlayerData(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresUserRepository(pool)
	ctx := context.Background()

	user, err := repo.GetOrCreateUser(ctx, "Steam", "76561198139908495", HashToken("ticket"))
	if err != nil {
		t.Fatalf("GetOrCreateUser: %v", err)
	}

	if user.PlayerID == 0 {
		t.Error("expected a non-zero player id")
	}
	if user.SourceType != "Steam" || user.SourceID != "76561198139908495" {
		t.Errorf("identity mismatch: %s/%s", user.SourceType, user.SourceID)
	}
	if expected := fmt.Sprintf("Player%d", user.PlayerID); user.Name != expected {
		t.Errorf("expected default name %q, got %q", expected, user.Name)
	}
	if user.UserState != 1 || user.AccessLevel != 0 {
		t.Errorf("expected state 1 / access 0, got %d / %d", user.UserState, user.AccessLevel)
	}
	if user.TokenHash != HashToken("ticket") {
		t.Errorf("token hash not stored: %q", user.TokenHash)
	}
}

func TestGetOrCreateUser_RepeatLoginSamePlayerID(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresUserRepository(pool)
	ctx := context.Background()

	first, err := repo.GetOrCreateUser(ctx, "Steam", "76561198139908495", HashToken("first"))
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	// Same identity, new token.
	second, err := repo.GetOrCreateUser(ctx, "Steam", "76561198139908495", HashToken("second"))
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.PlayerID != second.PlayerID {
		t.Errorf("same identity must keep its player id: %d then %d", first.PlayerID, second.PlayerID)
	}
	if second.TokenHash != HashToken("second") {
		t.Error("repeat login must refresh the token hash")
	}
	if !second.LastLogin.After(first.LastLogin) {
		t.Errorf("repeat login must advance last_login: %v then %v", first.LastLogin, second.LastLogin)
	}

	other, err := repo.GetOrCreateUser(ctx, "Steam", "76561198139908496", HashToken("first"))
	if err != nil {
		t.Fatalf("other login: %v", err)
	}
	if other.PlayerID == first.PlayerID {
		t.Error("different identity must get a different player id")
	}

	var users, players int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&users); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM player_data").Scan(&players); err != nil {
		t.Fatalf("counting player_data: %v", err)
	}
	if users != 2 || players != 2 {
		t.Errorf("expected 2 users and 2 player_data rows, got %d and %d", users, players)
	}
}

func TestGetOrCreateUser_ConcurrentLoginsConverge(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresUserRepository(pool)
	ctx := context.Background()

	const logins = 16

	ids := make([]uint32, logins)
	var g errgroup.Group
	for i := range logins {
		g.Go(func() error {
			user, err := repo.GetOrCreateUser(ctx, "Steam", "76561198139908495", HashToken("race"))
			if err != nil {
				return err
			}
			ids[i] = user.PlayerID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent login failed: %v", err)
	}

	for i, id := range ids {
		if id != ids[0] {
			t.Fatalf("login %d got player id %d, expected %d", i, id, ids[0])
		}
	}

	var users, players int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&users); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM player_data").Scan(&players); err != nil {
		t.Fatalf("counting player_data: %v", err)
	}
	if users != 1 || players != 1 {
		t.Errorf("concurrent logins must converge on one row, got %d users / %d player_data", users, players)
	}
}

func TestStatsAndListPlayerIDs(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresUserRepository(pool)
	ctx := context.Background()

	a, err := repo.GetOrCreateUser(ctx, "Steam", "76561198000000001", HashToken("a"))
	if err != nil {
		t.Fatalf("creating user a: %v", err)
	}
	b, err := repo.GetOrCreateUser(ctx, "Steam", "76561198000000002", HashToken("b"))
	if err != nil {
		t.Fatalf("creating user b: %v", err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.Active24h != 2 || stats.New24h != 2 {
		t.Errorf("expected 2/2/2 for fresh users, got %+v", stats)
	}

	ids, err := repo.ListPlayerIDs(ctx)
	if err != nil {
		t.Fatalf("ListPlayerIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != min(a.PlayerID, b.PlayerID) {
		t.Errorf("expected both player ids ascending, got %v", ids)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	// Most recent login first.
	if users[0].PlayerID != b.PlayerID {
		t.Errorf("expected latest login first, got player %d", users[0].PlayerID)
	}
}
