package model

import "time"

// User represents a player identity stored in the database. A user is keyed
// by (SourceType, SourceID); PlayerID is the server-assigned numeric
// identity the client sees.
type User struct {
	PlayerID    uint32
	SourceType  string
	SourceID    string
	TokenHash   string
	UserState   int
	AccessLevel int
	Name        string
	CreatedAt   time.Time
	LastLogin   time.Time
}
