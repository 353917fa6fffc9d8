package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/wordduel/internal/api"
	"github.com/mcoot/wordduel/internal/api/ws"
	"github.com/mcoot/wordduel/internal/config"
	"github.com/mcoot/wordduel/internal/factory"
	"github.com/mcoot/wordduel/internal/services/auth"
	"github.com/mcoot/wordduel/internal/services/dictionary"
	"github.com/mcoot/wordduel/internal/services/matchmaking"
	redisstorage "github.com/mcoot/wordduel/internal/storage/redis"
	sqlitestorage "github.com/mcoot/wordduel/internal/storage/sqlite"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go app.AuthService.RunSweeper(ctx, sessionSweepInterval)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		SoloService:        app.SoloService,
		HistoryService:     app.HistoryService,
		MatchmakingService: app.MatchmakingService,
		Dictionary:         app.DictionaryService,
		Hub:                app.Hub,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	if err := server.Listen(); err != nil {
		logger.Error("failed to bind", slog.String("error", err.Error()))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Int("dictionary_words", app.DictionaryService.WordCount()),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error("application shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func factoryConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	out := factory.Config{
		DictionaryPath:     cfg.DictionaryPath,
		Dictionary:         dictionary.Config{MinLength: cfg.MinWordLength},
		LetterPickAttempts: cfg.LetterPickAttempts,
		AuthConfig:         auth.Config{SessionDuration: cfg.SessionDuration},
		Matchmaking: matchmaking.Config{
			RoundDuration:      cfg.RoundDuration,
			EndOnOpponentLeave: cfg.EndOnOpponentLeave,
		},
		WebSocket: ws.Config{
			RatePerSec:     cfg.SubmitRatePerSec,
			Burst:          cfg.SubmitRateBurst,
			AllowedOrigins: cfg.AllowedOrigins,
		},
		Logger:      logger,
		StorageType: cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		out.RedisConfig = &redisCfg
	case config.StorageSQLite:
		out.SQLiteConfig = &sqlitestorage.Config{Path: cfg.SQLitePath}
	}
	return out
}
