package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saddleworks/rccemu/internal/model"
)

// PostgresUserRepository implements the game server's UserRepository on
// PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL repository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// GetOrCreateUser atomically returns the user for (sourceType, sourceID),
// creating it on first login. Runs in one transaction: INSERT ... ON CONFLICT
// DO NOTHING, a player_data row with the default name on first insert, a
// last_login/token refresh on repeat login, then the SELECT. Concurrent
// logins for the same key converge on a single row.
func (r *PostgresUserRepository) GetOrCreateUser(ctx context.Context, sourceType, sourceID, tokenHash string) (*model.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning get-or-create tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var playerID uint32
	err = tx.QueryRow(ctx,
		`INSERT INTO users (source_type, source_id, access_token_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (source_type, source_id) DO NOTHING
		 RETURNING player_id`,
		sourceType, sourceID, tokenHash,
	).Scan(&playerID)
	switch {
	case err == nil:
		// First login: seed player_data with the default name.
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_data (player_id, name) VALUES ($1, $2)`,
			playerID, fmt.Sprintf("Player%d", playerID),
		); err != nil {
			return nil, fmt.Errorf("creating player data for %d: %w", playerID, err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Existing user: refresh the token and login time.
		if _, err := tx.Exec(ctx,
			`UPDATE users SET access_token_hash = $1, last_login = $2
			 WHERE source_type = $3 AND source_id = $4`,
			tokenHash, time.Now(), sourceType, sourceID,
		); err != nil {
			return nil, fmt.Errorf("refreshing login for %s/%s: %w", sourceType, sourceID, err)
		}
	default:
		return nil, fmt.Errorf("inserting user %s/%s: %w", sourceType, sourceID, err)
	}

	var u model.User
	err = tx.QueryRow(ctx,
		`SELECT u.player_id, u.source_type, u.source_id, u.access_token_hash,
		        u.user_state, u.access_level, p.name, u.created_at, u.last_login
		 FROM users u JOIN player_data p USING (player_id)
		 WHERE u.source_type = $1 AND u.source_id = $2`,
		sourceType, sourceID,
	).Scan(&u.PlayerID, &u.SourceType, &u.SourceID, &u.TokenHash,
		&u.UserState, &u.AccessLevel, &u.Name, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("querying user %s/%s after insert: %w", sourceType, sourceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing get-or-create tx: %w", err)
	}
	return &u, nil
}

// ListUsers returns the last 100 users by login time, for the debug API.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.player_id, u.source_type, u.source_id, u.access_token_hash,
		        u.user_state, u.access_level, p.name, u.created_at, u.last_login
		 FROM users u JOIN player_data p USING (player_id)
		 ORDER BY u.last_login DESC
		 LIMIT 100`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.PlayerID, &u.SourceType, &u.SourceID, &u.TokenHash,
			&u.UserState, &u.AccessLevel, &u.Name, &u.CreatedAt, &u.LastLogin); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserStats is the aggregate block reported by the health endpoint.
type UserStats struct {
	Total     int `json:"total_users"`
	Active24h int `json:"active_24h"`
	New24h    int `json:"new_24h"`
}

// Stats returns user totals for the health endpoint.
func (r *PostgresUserRepository) Stats(ctx context.Context) (UserStats, error) {
	var s UserStats
	err := r.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE last_login > now() - interval '24 hours'),
		        count(*) FILTER (WHERE created_at > now() - interval '24 hours')
		 FROM users`).Scan(&s.Total, &s.Active24h, &s.New24h)
	if err != nil {
		return UserStats{}, fmt.Errorf("querying user stats: %w", err)
	}
	return s, nil
}

// ListPlayerIDs returns every player id, used to seed the chat card's star
// player list.
func (r *PostgresUserRepository) ListPlayerIDs(ctx context.Context) ([]uint32, error) {
	rows, err := r.pool.Query(ctx, `SELECT player_id FROM users ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("listing player ids: %w", err)
	}
	defer rows.Close()

	var ids []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
