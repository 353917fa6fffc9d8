package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection with a ping
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, playerKey(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := s.getJSON(ctx, playerKey(id), &player, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, acct *model.Account) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, accountKey(acct.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(acct.Username), string(acct.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error) {
	var acct model.Account
	if err := s.getJSON(ctx, accountKey(playerID), &acct, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.PlayerID(playerIDStr))
}

// Match record operations

func (s *Storage) SaveMatchRecords(ctx context.Context, records ...*model.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	// MULTI/EXEC so both players' records land together
	pipe := s.client.TxPipeline()
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", r.ID, err)
		}
		key := matchRecordKey(r.ID)
		indexKey := recordsForUserIndexKey(r.UserID)
		pipe.Set(ctx, key, data, s.cfg.MatchRecordTTL)
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(r.PlayedAt.UnixMilli()), Member: key})
		if s.cfg.MatchRecordTTL > 0 {
			pipe.Expire(ctx, indexKey, s.cfg.MatchRecordTTL)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatchRecord(ctx context.Context, id model.RecordID) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	if err := s.getJSON(ctx, matchRecordKey(id), &rec, model.ErrMatchNotFound); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) ListMatchRecords(ctx context.Context, userID model.PlayerID) ([]*model.MatchRecord, error) {
	keys, err := s.client.ZRevRange(ctx, recordsForUserIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.MatchRecord{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(values, func(val any, _ int) (*model.MatchRecord, bool) {
		str, ok := val.(string)
		if !ok {
			return nil, false // expired
		}
		var rec model.MatchRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, false
		}
		return &rec, true
	}), nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	return s.client.SMembers(ctx, key).Result()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(words) > 0 {
		members := lo.Map(words, func(w string, _ int) any { return w })
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// getJSON loads key into out, mapping a missing key to notFound
func (s *Storage) getJSON(ctx context.Context, key string, out any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}
