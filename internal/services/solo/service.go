// Package solo runs untimed single-player rounds.
package solo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/wordduel/internal/dependencies/clock"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/rules"
	"github.com/mcoot/wordduel/internal/storage"
)

type round struct {
	model.SoloRound
	used map[string]struct{}
}

// Service keeps at most one open round per player
type Service struct {
	storage storage.Storage
	dict    rules.Dictionary
	scorer  rules.Scorer
	picker  *rules.Picker
	clock   clock.Clock
	logger  *slog.Logger

	mu     sync.Mutex
	rounds map[model.PlayerID]*round
}

// New creates a new solo Service
func New(
	storage storage.Storage,
	dict rules.Dictionary,
	scorer rules.Scorer,
	picker *rules.Picker,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		dict:    dict,
		scorer:  scorer,
		picker:  picker,
		clock:   clock,
		logger:  logger.With(slog.String("component", "solo")),
		rounds:  make(map[model.PlayerID]*round),
	}
}

// Start opens a new round for user, discarding any unfinished one
func (s *Service) Start(ctx context.Context, user model.PlayerID) (model.SoloRound, error) {
	r := &round{
		SoloRound: model.SoloRound{
			UserID:    user,
			Letters:   s.picker.Pick(),
			Words:     []string{},
			StartedAt: s.clock.Now(),
		},
		used: make(map[string]struct{}),
	}

	s.mu.Lock()
	s.rounds[user] = r
	s.mu.Unlock()

	return r.snapshot(), nil
}

// Current returns user's open round
func (s *Service) Current(ctx context.Context, user model.PlayerID) (model.SoloRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rounds[user]
	if !ok {
		return model.SoloRound{}, model.ErrNoSoloRound
	}
	return r.snapshot(), nil
}

// Submit checks a word against user's open round
func (s *Service) Submit(ctx context.Context, user model.PlayerID, raw string) (model.SubmitResult, error) {
	word := rules.Normalize(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[user]
	if !ok {
		return model.SubmitResult{}, model.ErrNoSoloRound
	}
	if reason := rules.Check(r.Letters, word, s.dict, r.used); reason != "" {
		return model.Rejected(word, reason), nil
	}

	points := s.scorer.Score(word)
	r.used[word] = struct{}{}
	r.Words = append(r.Words, word)
	r.Score += points
	return model.Accepted(word, points, r.Score), nil
}

// Finish closes user's round and records it
func (s *Service) Finish(ctx context.Context, user model.PlayerID) (*model.MatchRecord, error) {
	s.mu.Lock()
	r, ok := s.rounds[user]
	delete(s.rounds, user)
	s.mu.Unlock()

	if !ok {
		return nil, model.ErrNoSoloRound
	}

	rec := &model.MatchRecord{
		ID:       model.RecordID(uuid.NewString()),
		UserID:   user,
		Letters:  r.Letters,
		Score:    r.Score,
		Words:    r.Words,
		Mode:     model.ModeSolo,
		PlayedAt: s.clock.Now(),
	}
	if err := s.storage.SaveMatchRecords(ctx, rec); err != nil {
		// Put the round back so the player can retry
		s.mu.Lock()
		if _, replaced := s.rounds[user]; !replaced {
			s.rounds[user] = r
		}
		s.mu.Unlock()
		return nil, err
	}

	s.logger.Info("solo round finished",
		slog.String("user", string(user)),
		slog.String("letters", r.Letters.String()),
		slog.Int("score", r.Score),
		slog.Int("words", len(r.Words)),
	)
	return rec, nil
}

func (r *round) snapshot() model.SoloRound {
	out := r.SoloRound
	out.Words = append([]string{}, r.Words...)
	return out
}
