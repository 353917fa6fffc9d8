package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/wordduel/internal/api/ws"
	"github.com/mcoot/wordduel/internal/dependencies/clock"
	"github.com/mcoot/wordduel/internal/dependencies/random"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/auth"
	"github.com/mcoot/wordduel/internal/services/dictionary"
	"github.com/mcoot/wordduel/internal/services/history"
	"github.com/mcoot/wordduel/internal/services/matchmaking"
	"github.com/mcoot/wordduel/internal/services/rules"
	"github.com/mcoot/wordduel/internal/services/scoring"
	"github.com/mcoot/wordduel/internal/services/solo"
	"github.com/mcoot/wordduel/internal/storage"
	"github.com/mcoot/wordduel/internal/storage/memory"
	redisstorage "github.com/mcoot/wordduel/internal/storage/redis"
	sqlitestorage "github.com/mcoot/wordduel/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService  *dictionary.Service
	ScoringService     *scoring.Service
	Picker             *rules.Picker
	AuthService        *auth.Service
	MatchmakingService *matchmaking.Service
	SoloService        *solo.Service
	HistoryService     *history.Service
	Hub                *ws.Hub

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryPath is the path to the dictionary file (optional)
	// If empty, dictionary must be loaded manually
	DictionaryPath string
	// Dictionary configures word filtering
	Dictionary dictionary.Config
	// LetterPickAttempts bounds the random letter pair search
	LetterPickAttempts int
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Matchmaking holds match timing and leave policy
	Matchmaking matchmaking.Config
	// WebSocket holds per-connection limits
	WebSocket ws.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database path (optional for "sqlite")
	SQLiteConfig *sqlitestorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	cfg.AuthConfig = authCfg

	app := newWithDependencies(store, clock.New(), random.New(), cfg, logger)

	if cfg.DictionaryPath != "" {
		if err := app.LoadDictionary(ctx, cfg.DictionaryPath); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func newStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(ctx, *cfg.RedisConfig)
	case StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		if cfg.SQLiteConfig != nil {
			sqliteCfg = *cfg.SQLiteConfig
		}
		return sqlitestorage.New(ctx, sqliteCfg, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis or sqlite", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	dictService := dictionary.New(store, cfg.Dictionary, logger)
	scoringService := scoring.New()
	picker := rules.NewPicker(dictService, rnd, cfg.LetterPickAttempts, logger)
	authService := auth.New(store, clk, cfg.AuthConfig, logger)

	hub := ws.NewHub(cfg.WebSocket, logger)
	mm := matchmaking.New(store, dictService, scoringService, picker, clk, hub, cfg.Matchmaking, logger)
	hub.Attach(mm)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		DictionaryService:  dictService,
		ScoringService:     scoringService,
		Picker:             picker,
		AuthService:        authService,
		MatchmakingService: mm,
		SoloService:        solo.New(store, dictService, scoringService, picker, clk, logger),
		HistoryService:     history.New(store),
		Hub:                hub,
		logger:             logger,
	}
}

// LoadDictionary loads words from path. When the file cannot be read the
// words saved by an earlier run are used instead.
func (a *App) LoadDictionary(ctx context.Context, path string) error {
	fileErr := a.DictionaryService.LoadFromFile(ctx, path)
	if fileErr == nil {
		return nil
	}

	a.logger.Warn("could not load dictionary file, trying storage",
		slog.String("path", path),
		slog.String("error", fileErr.Error()),
	)
	if err := a.DictionaryService.LoadFromStorage(ctx); err != nil {
		return errors.Join(fileErr, err)
	}
	if a.DictionaryService.WordCount() == 0 {
		return fmt.Errorf("%w: %w", model.ErrDictionaryNotLoaded, fileErr)
	}
	return nil
}

// Shutdown cancels live matches, closes websocket clients and releases storage
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.MatchmakingService.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("matchmaking: %w", err))
	}
	if err := a.Hub.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("websocket hub: %w", err))
	}
	if closer, ok := a.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
