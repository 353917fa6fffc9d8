package model

import "time"

const (
	// DefaultGuestName is used when a guest gives no display name
	DefaultGuestName = "Guest"
	// MaxDisplayNameLength is counted in runes
	MaxDisplayNameLength = 24
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is anyone holding a session: a guest or a registered account.
// Match records and solo rounds are keyed by ID.
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool
	CreatedAt   time.Time
}

// Account is the login record behind a registered player. It is stored
// apart from Player so the hash never travels with session lookups.
type Account struct {
	PlayerID     PlayerID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
