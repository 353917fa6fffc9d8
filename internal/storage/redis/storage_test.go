package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini  *miniredis.Miniredis
	redis *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.MatchRecordTTL = 0

	s.redis = NewWithClient(client, cfg)
	s.Storage = s.redis
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestGuestPlayerTTL() {
	guest := &model.Player{ID: "guest-1", DisplayName: "Guest", IsGuest: true}
	registered := &model.Player{ID: "player-1", DisplayName: "Alice"}
	_ = s.redis.SavePlayer(s.Ctx, guest)
	_ = s.redis.SavePlayer(s.Ctx, registered)

	s.Equal(time.Hour, s.mini.TTL(playerKey("guest-1")))
	s.Zero(s.mini.TTL(playerKey("player-1")))
}

func (s *StorageSuite) TestGuestPlayerExpires() {
	_ = s.redis.SavePlayer(s.Ctx, &model.Player{ID: "guest-1", IsGuest: true})

	s.mini.FastForward(2 * time.Hour)

	_, err := s.redis.GetPlayer(s.Ctx, "guest-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestMatchRecordIndexedPerUser() {
	rec := &model.MatchRecord{
		ID: "r1", UserID: "alice", Mode: model.ModeSolo,
		PlayedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.redis.SaveMatchRecords(s.Ctx, rec))

	members, err := s.mini.ZMembers(recordsForUserIndexKey("alice"))
	s.Require().NoError(err)
	s.Equal([]string{matchRecordKey("r1")}, members)
}

func (s *StorageSuite) TestMatchRecordTTL() {
	s.redis.cfg.MatchRecordTTL = time.Hour
	rec := &model.MatchRecord{ID: "r1", UserID: "alice", Mode: model.ModeSolo, PlayedAt: time.Now()}
	s.Require().NoError(s.redis.SaveMatchRecords(s.Ctx, rec))

	s.Equal(time.Hour, s.mini.TTL(matchRecordKey("r1")))
	s.Equal(time.Hour, s.mini.TTL(recordsForUserIndexKey("alice")))
}

func (s *StorageSuite) TestListSkipsExpiredRecords() {
	rec := &model.MatchRecord{ID: "r1", UserID: "alice", Mode: model.ModeSolo, PlayedAt: time.Now()}
	s.Require().NoError(s.redis.SaveMatchRecords(s.Ctx, rec))
	s.mini.Del(matchRecordKey("r1"))

	recs, err := s.redis.ListMatchRecords(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *StorageSuite) TestDictionaryNoTTL() {
	_ = s.redis.SaveDictionaryWords(s.Ctx, []string{"szkoda"})
	s.Zero(s.mini.TTL(dictionaryKey()))
}
