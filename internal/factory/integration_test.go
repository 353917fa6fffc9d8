package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordduel/internal/model"
	sqlitestorage "github.com/mcoot/wordduel/internal/storage/sqlite"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.app.LoadTestDictionary()
}

func (s *IntegrationSuite) guest(name string) model.PlayerID {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)
	return session.PlayerID
}

func (s *IntegrationSuite) TestDictionaryFiltersShortWords() {
	s.Equal(32, s.app.DictionaryService.WordCount())
	s.True(s.app.DictionaryService.IsValidWord("sałata"))
	s.False(s.app.DictionaryService.IsValidWord("kot"))
}

// Test: complete 1v1 match from pairing to recorded history
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	ala := s.guest("Ala")
	ola := s.guest("Ola")
	s.app.MockRandom.QueueLetters('s', 'a')

	// Step 1: first connection waits, second pairs
	out, err := s.app.MatchmakingService.Join("c1", ala)
	s.Require().NoError(err)
	s.Equal(model.JoinWaiting, out.Status)

	out, err = s.app.MatchmakingService.Join("c2", ola)
	s.Require().NoError(err)
	s.Equal(model.JoinPaired, out.Status)
	s.Equal(model.LetterPair{Start: 's', End: 'a'}, out.Letters)
	room := out.Room

	// Step 2: words are checked independently per player
	s.True(s.app.MatchmakingService.SubmitWord("c1", room, "Szkoła").Accepted)
	s.True(s.app.MatchmakingService.SubmitWord("c1", room, "sałata").Accepted)
	s.True(s.app.MatchmakingService.SubmitWord("c2", room, "szkoła").Accepted)

	res := s.app.MatchmakingService.SubmitWord("c2", room, "szkoła")
	s.Equal(model.RejectAlreadyUsed, res.Reason)
	res = s.app.MatchmakingService.SubmitWord("c2", room, "kompot")
	s.Equal(model.RejectWrongLetters, res.Reason)

	// Step 3: the deadline resolves the match
	s.app.MockClock.Advance(30 * time.Second)
	s.Equal(0, s.app.MatchmakingService.Stats().ActiveMatches)

	// Step 4: both players see the result in their history
	alaHistory, err := s.app.HistoryService.List(s.ctx, ala, "")
	s.Require().NoError(err)
	s.Require().Len(alaHistory, 1)
	s.Equal(model.OutcomeWin, alaHistory[0].Outcome)
	s.Equal(29, alaHistory[0].Score)
	s.Equal([]string{"szkoła", "sałata"}, alaHistory[0].Words)
	s.Equal(ola, alaHistory[0].OpponentID)

	olaHistory, err := s.app.HistoryService.List(s.ctx, ola, model.ModeDuel)
	s.Require().NoError(err)
	s.Require().Len(olaHistory, 1)
	s.Equal(model.OutcomeLose, olaHistory[0].Outcome)
	s.Equal(21, olaHistory[0].Score)

	// Step 5: late submissions are rejected
	res = s.app.MatchmakingService.SubmitWord("c1", room, "strona")
	s.Equal(model.RejectNoSuchRoom, res.Reason)
}

func (s *IntegrationSuite) TestSoloFlowFeedsSummary() {
	ala := s.guest("Ala")
	s.app.MockRandom.QueueLetters('k', 't')

	round, err := s.app.SoloService.Start(s.ctx, ala)
	s.Require().NoError(err)
	s.Equal(model.LetterPair{Start: 'k', End: 't'}, round.Letters)

	res, err := s.app.SoloService.Submit(s.ctx, ala, "kompot")
	s.Require().NoError(err)
	s.True(res.Accepted)

	rec, err := s.app.SoloService.Finish(s.ctx, ala)
	s.Require().NoError(err)
	s.Equal(model.ModeSolo, rec.Mode)

	summary, err := s.app.HistoryService.Summarize(s.ctx, ala)
	s.Require().NoError(err)
	s.Equal(1, summary.Played)
	s.Equal(1, summary.Solo)
	s.Equal(rec.Score, summary.Best)
}

func (s *IntegrationSuite) TestShutdownCancelsLiveMatches() {
	_, _ = s.app.MatchmakingService.Join("c1", s.guest("Ala"))
	_, _ = s.app.MatchmakingService.Join("c2", s.guest("Ola"))
	s.Equal(1, s.app.MatchmakingService.Stats().ActiveMatches)

	s.Require().NoError(s.app.Shutdown(s.ctx))

	s.Equal(0, s.app.MatchmakingService.Stats().ActiveMatches)
	_, err := s.app.MatchmakingService.Join("c3", s.guest("Ela"))
	s.ErrorIs(err, model.ErrShuttingDown)

	// Timers were stopped, nothing fires later
	s.Zero(s.app.MockClock.PendingTimers())
}

func (s *IntegrationSuite) TestLoadDictionaryFallsBackToStorage() {
	app := NewTestApp()
	missing := filepath.Join(s.T().TempDir(), "missing.txt")

	err := app.LoadDictionary(s.ctx, missing)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)

	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte("Sałata\nkot\nstrona\n"), 0o644))
	s.Require().NoError(app.LoadDictionary(s.ctx, path))
	s.Equal(2, app.DictionaryService.WordCount())

	// A second app sharing the storage can start without the file
	again := newWithDependencies(app.Storage, app.MockClock, app.MockRandom, Config{}, app.logger)
	s.Require().NoError(again.LoadDictionary(s.ctx, missing))
	s.True(again.DictionaryService.IsValidWord("strona"))
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(s.ctx, Config{StorageType: "mongo"})
	s.Error(err)

	_, err = New(s.ctx, Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewWithSQLite() {
	path := filepath.Join(s.T().TempDir(), "wordduel.db")
	words := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(words, []byte("sałata\nstrona\n"), 0o644))

	app, err := New(s.ctx, Config{
		StorageType:    StorageTypeSQLite,
		SQLiteConfig:   &sqlitestorage.Config{Path: path},
		DictionaryPath: words,
	})
	s.Require().NoError(err)
	s.Equal(2, app.DictionaryService.WordCount())
	s.NoError(app.Shutdown(s.ctx))
}
