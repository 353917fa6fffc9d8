package storage

import (
	"context"

	"github.com/mcoot/wordduel/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Account operations
	SaveAccount(ctx context.Context, acct *model.Account) error
	GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Match record operations.
	// SaveMatchRecords stores every record of one finished game together;
	// either all of them are stored or none are.
	SaveMatchRecords(ctx context.Context, records ...*model.MatchRecord) error
	GetMatchRecord(ctx context.Context, id model.RecordID) (*model.MatchRecord, error)
	// ListMatchRecords returns a player's records, most recent first
	ListMatchRecords(ctx context.Context, userID model.PlayerID) ([]*model.MatchRecord, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error
}
