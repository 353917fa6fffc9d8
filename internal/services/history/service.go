// Package history reads a player's finished games.
package history

import (
	"context"

	"github.com/samber/lo"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// Summary totals a player's recorded duels
type Summary struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Solo   int `json:"solo"`
	Best   int `json:"best_score"`
}

// Service provides read access to match records
type Service struct {
	storage storage.Storage
}

// New creates a new history Service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// List returns user's records, most recent first, optionally by mode
func (s *Service) List(ctx context.Context, user model.PlayerID, mode model.GameMode) ([]*model.MatchRecord, error) {
	recs, err := s.storage.ListMatchRecords(ctx, user)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		return recs, nil
	}
	return lo.Filter(recs, func(r *model.MatchRecord, _ int) bool {
		return r.Mode == mode
	}), nil
}

// Get returns one record, only if it belongs to user
func (s *Service) Get(ctx context.Context, user model.PlayerID, id model.RecordID) (*model.MatchRecord, error) {
	rec, err := s.storage.GetMatchRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != user {
		return nil, model.ErrMatchNotFound
	}
	return rec, nil
}

// Summarize totals user's records
func (s *Service) Summarize(ctx context.Context, user model.PlayerID) (Summary, error) {
	recs, err := s.List(ctx, user, "")
	if err != nil {
		return Summary{}, err
	}

	duels := lo.Filter(recs, func(r *model.MatchRecord, _ int) bool { return r.Mode == model.ModeDuel })
	byOutcome := lo.CountValuesBy(duels, func(r *model.MatchRecord) model.Outcome { return r.Outcome })

	sum := Summary{
		Played: len(duels),
		Wins:   byOutcome[model.OutcomeWin],
		Losses: byOutcome[model.OutcomeLose],
		Draws:  byOutcome[model.OutcomeDraw],
		Solo:   len(recs) - len(duels),
	}
	if len(recs) > 0 {
		sum.Best = lo.MaxBy(recs, func(a, b *model.MatchRecord) bool { return a.Score > b.Score }).Score
	}
	return sum, nil
}
