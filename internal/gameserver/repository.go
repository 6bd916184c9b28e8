package gameserver

import (
	"context"

	"github.com/saddleworks/rccemu/internal/model"
)

// UserRepository defines the identity store interface used by the login
// handler. Used for dependency injection in tests.
type UserRepository interface {
	// GetOrCreateUser atomically returns the user for (sourceType,
	// sourceID), creating it on first login. Repeat logins refresh the
	// token hash and last_login. Always returns a user on success.
	GetOrCreateUser(ctx context.Context, sourceType, sourceID, tokenHash string) (*model.User, error)

	// ListPlayerIDs returns all player ids, used to seed the chat card's
	// star player list.
	ListPlayerIDs(ctx context.Context) ([]uint32, error)
}
