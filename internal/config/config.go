// Package config reads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	Port     int
	LogLevel slog.Level

	StorageType string
	RedisURL    string
	SQLitePath  string

	DictionaryPath     string
	MinWordLength      int
	RoundDuration      time.Duration
	LetterPickAttempts int
	EndOnOpponentLeave bool
	SessionDuration    time.Duration

	SubmitRatePerSec float64
	SubmitRateBurst  int
	AllowedOrigins   []string
}

// Default returns the configuration used when no variables are set
func Default() Config {
	return Config{
		Port:               8080,
		LogLevel:           slog.LevelInfo,
		StorageType:        StorageMemory,
		SQLitePath:         "data/wordduel.db",
		DictionaryPath:     "data/words.txt",
		MinWordLength:      6,
		RoundDuration:      30 * time.Second,
		LetterPickAttempts: 1000,
		SessionDuration:    24 * time.Hour,
		SubmitRatePerSec:   10,
		SubmitRateBurst:    20,
	}
}

// Load reads .env if present, then the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.int("PORT", &cfg.Port)
	r.level("LOG_LEVEL", &cfg.LogLevel)
	r.str("STORAGE_TYPE", &cfg.StorageType)
	r.str("REDIS_URL", &cfg.RedisURL)
	r.str("SQLITE_PATH", &cfg.SQLitePath)
	r.str("DICTIONARY_PATH", &cfg.DictionaryPath)
	r.int("MIN_WORD_LENGTH", &cfg.MinWordLength)
	r.duration("ROUND_DURATION", &cfg.RoundDuration)
	r.int("LETTER_PICK_ATTEMPTS", &cfg.LetterPickAttempts)
	r.bool("END_ON_OPPONENT_LEAVE", &cfg.EndOnOpponentLeave)
	r.duration("SESSION_DURATION", &cfg.SessionDuration)
	r.float("SUBMIT_RATE_PER_SEC", &cfg.SubmitRatePerSec)
	r.int("SUBMIT_RATE_BURST", &cfg.SubmitRateBurst)
	r.list("WS_ALLOWED_ORIGINS", &cfg.AllowedOrigins)

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field rules
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be memory, redis or sqlite, got %q", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.RoundDuration <= 0 {
		return errors.New("ROUND_DURATION must be positive")
	}
	return nil
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) fail(key, val string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q: %w", key, val, err))
}

func (r *reader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *reader) int(key string, dst *int) {
	if v, ok := r.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (r *reader) float(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (r *reader) bool(key string, dst *bool) {
	if v, ok := r.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (r *reader) duration(key string, dst *time.Duration) {
	if v, ok := r.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(key, v, err)
			return
		}
		*dst = d
	}
}

func (r *reader) level(key string, dst *slog.Level) {
	if v, ok := r.get(key); ok {
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			r.fail(key, v, err)
		}
	}
}

func (r *reader) list(key string, dst *[]string) {
	if v, ok := r.get(key); ok {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				*dst = append(*dst, item)
			}
		}
	}
}
