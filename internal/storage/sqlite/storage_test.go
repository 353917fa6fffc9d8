package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage/storagetest"
	"github.com/mcoot/wordduel/internal/testutil"
)

type StorageSuite struct {
	storagetest.Suite
	path   string
	sqlite *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "wordduel.db")

	st, err := New(s.Ctx, Config{Path: s.path}, testutil.NopLogger())
	s.Require().NoError(err)
	s.sqlite = st
	s.Storage = st
}

func (s *StorageSuite) TearDownTest() {
	if s.sqlite != nil {
		_ = s.sqlite.Close()
	}
}

func (s *StorageSuite) reopen() *Storage {
	s.Require().NoError(s.sqlite.Close())
	st, err := New(s.Ctx, Config{Path: s.path}, testutil.NopLogger())
	s.Require().NoError(err)
	s.sqlite = st
	return st
}

func (s *StorageSuite) TestMigrationsAreIdempotent() {
	st := s.reopen()

	var applied int
	s.Require().NoError(st.db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	s.Equal(2, applied)
}

func (s *StorageSuite) TestRecordsSurviveReopen() {
	rec := &model.MatchRecord{
		ID: "r1", UserID: "alice", Letters: model.LetterPair{Start: 'ż', End: 'a'},
		Score: 5, Words: []string{"żaba"}, Mode: model.ModeSolo,
		PlayedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	s.Require().NoError(s.sqlite.SaveMatchRecords(s.Ctx, rec))

	st := s.reopen()
	got, err := st.GetMatchRecord(s.Ctx, "r1")
	s.Require().NoError(err)
	s.Equal('ż', got.Letters.Start)
	s.Equal([]string{"żaba"}, got.Words)
}

func (s *StorageSuite) TestStoresCalendarDate() {
	rec := &model.MatchRecord{
		ID: "r1", UserID: "alice", Mode: model.ModeSolo,
		PlayedAt: time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC),
	}
	s.Require().NoError(s.sqlite.SaveMatchRecords(s.Ctx, rec))

	var date string
	s.Require().NoError(s.sqlite.db.QueryRow(`SELECT date FROM match_records WHERE id='r1'`).Scan(&date))
	s.Equal("2024-05-01", date)
}

func (s *StorageSuite) TestSaveMatchRecordsIsAtomic() {
	ctx, cancel := context.WithCancel(s.Ctx)
	cancel()

	rec := &model.MatchRecord{ID: "r1", UserID: "alice", Mode: model.ModeSolo, PlayedAt: time.Now()}
	s.Error(s.sqlite.SaveMatchRecords(ctx, rec))

	_, err := s.sqlite.GetMatchRecord(s.Ctx, "r1")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestEmptyDictionaryIsLoaded() {
	s.Require().NoError(s.sqlite.SaveDictionaryWords(s.Ctx, nil))

	words, err := s.sqlite.GetDictionaryWords(s.Ctx)
	s.Require().NoError(err)
	s.Empty(words)
}
