package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	accounts map[model.PlayerID]*model.Account
	usernameIndex     map[string]model.PlayerID
	records           map[model.RecordID]*model.MatchRecord
	recordsByUser     map[model.PlayerID][]model.RecordID
	dictionaryWords   []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		accounts: make(map[model.PlayerID]*model.Account),
		usernameIndex:     make(map[string]model.PlayerID),
		records:           make(map[model.RecordID]*model.MatchRecord),
		recordsByUser:     make(map[model.PlayerID][]model.RecordID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, acct *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.PlayerID] = acct
	s.usernameIndex[acct.Username] = acct.PlayerID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return acct, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	acct, ok := s.accounts[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return acct, nil
}

// Match record operations

func (s *Storage) SaveMatchRecords(ctx context.Context, records ...*model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		stored := *r
		stored.Words = append([]string(nil), r.Words...)
		if _, exists := s.records[r.ID]; !exists {
			s.recordsByUser[r.UserID] = append(s.recordsByUser[r.UserID], r.ID)
		}
		s.records[r.ID] = &stored
	}
	return nil
}

func (s *Storage) GetMatchRecord(ctx context.Context, id model.RecordID) (*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	out := *r
	return &out, nil
}

func (s *Storage) ListMatchRecords(ctx context.Context, userID model.PlayerID) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.recordsByUser[userID]
	result := make([]*model.MatchRecord, 0, len(ids))
	// Walk backwards so equal timestamps keep newest-saved first
	for i := len(ids) - 1; i >= 0; i-- {
		out := *s.records[ids[i]]
		result = append(result, &out)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PlayedAt.After(result[j].PlayedAt)
	})
	return result, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dictionaryWords == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	result := make([]string, len(s.dictionaryWords))
	copy(result, s.dictionaryWords)
	return result, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords = make([]string, len(words))
	copy(s.dictionaryWords, words)
	return nil
}
