// Package storagetest holds behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// Suite runs the common storage contract against Storage.
// Backends embed it and assign Storage in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var playedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func duelRecords(id string, at time.Time) []*model.MatchRecord {
	letters := model.LetterPair{Start: 's', End: 'a'}
	return []*model.MatchRecord{
		{
			ID: model.RecordID(id + "-a"), UserID: "alice", OpponentID: "bob",
			Letters: letters, Score: 14, Words: []string{"szkoda", "sałata"},
			Mode: model.ModeDuel, Outcome: model.OutcomeWin, PlayedAt: at,
		},
		{
			ID: model.RecordID(id + "-b"), UserID: "bob", OpponentID: "alice",
			Letters: letters, Score: 9, Words: []string{"sława"},
			Mode: model.ModeDuel, Outcome: model.OutcomeLose, PlayedAt: at,
		},
	}
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		CreatedAt:   playedAt,
	}
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	_ = s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1", DisplayName: "Alice"})

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "player-1"))

	_, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Account tests

func (s *Suite) TestAccountLookups() {
	_ = s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1", DisplayName: "Alice"})
	acct := &model.Account{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    playedAt,
	}
	s.Require().NoError(s.Storage.SaveAccount(s.Ctx, acct))

	byID, err := s.Storage.GetAccount(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byName, err := s.Storage.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), byName.PlayerID)
	s.Equal("hash123", byName.PasswordHash)
}

func (s *Suite) TestGetAccountByUsernameNotFound() {
	_, err := s.Storage.GetAccountByUsername(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Match record tests

func (s *Suite) TestSaveAndGetMatchRecord() {
	s.Require().NoError(s.Storage.SaveMatchRecords(s.Ctx, duelRecords("m1", playedAt)...))

	rec, err := s.Storage.GetMatchRecord(s.Ctx, "m1-a")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), rec.UserID)
	s.Equal(model.PlayerID("bob"), rec.OpponentID)
	s.Equal(model.LetterPair{Start: 's', End: 'a'}, rec.Letters)
	s.Equal(14, rec.Score)
	s.Equal([]string{"szkoda", "sałata"}, rec.Words)
	s.Equal(model.ModeDuel, rec.Mode)
	s.Equal(model.OutcomeWin, rec.Outcome)
	s.True(playedAt.Equal(rec.PlayedAt))
	s.Equal("2024-05-01", rec.Date())
}

func (s *Suite) TestGetMatchRecordNotFound() {
	_, err := s.Storage.GetMatchRecord(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *Suite) TestListMatchRecordsNewestFirst() {
	s.Require().NoError(s.Storage.SaveMatchRecords(s.Ctx, duelRecords("old", playedAt)...))
	s.Require().NoError(s.Storage.SaveMatchRecords(s.Ctx, duelRecords("new", playedAt.Add(time.Hour))...))
	solo := &model.MatchRecord{
		ID: "solo-1", UserID: "alice", Letters: model.LetterPair{Start: 'k', End: 'a'},
		Score: 3, Words: []string{"kawa"}, Mode: model.ModeSolo, PlayedAt: playedAt.Add(30 * time.Minute),
	}
	s.Require().NoError(s.Storage.SaveMatchRecords(s.Ctx, solo))

	recs, err := s.Storage.ListMatchRecords(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(recs, 3)
	s.Equal(model.RecordID("new-a"), recs[0].ID)
	s.Equal(model.RecordID("solo-1"), recs[1].ID)
	s.Equal(model.RecordID("old-a"), recs[2].ID)
	s.Empty(recs[1].OpponentID)
}

func (s *Suite) TestListMatchRecordsEmpty() {
	recs, err := s.Storage.ListMatchRecords(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(recs)
}

// Dictionary tests

func (s *Suite) TestSaveAndGetDictionaryWords() {
	words := []string{"szkoda", "sałata", "kotlet"}
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, words))

	retrieved, err := s.Storage.GetDictionaryWords(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch(words, retrieved)
}

func (s *Suite) TestSaveDictionaryWordsReplacesExisting() {
	_ = s.Storage.SaveDictionaryWords(s.Ctx, []string{"stare", "słowa"})
	_ = s.Storage.SaveDictionaryWords(s.Ctx, []string{"nowe"})

	retrieved, err := s.Storage.GetDictionaryWords(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"nowe"}, retrieved)
}

func (s *Suite) TestGetDictionaryWordsNotLoaded() {
	_, err := s.Storage.GetDictionaryWords(s.Ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}
