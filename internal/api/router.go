package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordduel/internal/api/handler"
	"github.com/mcoot/wordduel/internal/api/middleware"
	"github.com/mcoot/wordduel/internal/api/ws"
	"github.com/mcoot/wordduel/internal/services/auth"
	"github.com/mcoot/wordduel/internal/services/dictionary"
	"github.com/mcoot/wordduel/internal/services/history"
	"github.com/mcoot/wordduel/internal/services/matchmaking"
	"github.com/mcoot/wordduel/internal/services/solo"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	SoloService        *solo.Service
	HistoryService     *history.Service
	MatchmakingService *matchmaking.Service
	Dictionary         dictionary.ServiceInterface
	Hub                *ws.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	soloHandler := handler.NewSoloHandler(cfg.SoloService)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryService)
	var conns handler.ConnectionCounter
	if cfg.Hub != nil {
		conns = cfg.Hub
	}
	statusHandler := handler.NewStatusHandler(cfg.MatchmakingService, cfg.Dictionary, conns)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Solo routes
	soloRoutes := api.PathPrefix("/solo").Subrouter()
	soloRoutes.Use(authMiddleware)
	soloRoutes.HandleFunc("", soloHandler.Start).Methods(http.MethodPost)
	soloRoutes.HandleFunc("", soloHandler.Get).Methods(http.MethodGet)
	soloRoutes.HandleFunc("/words", soloHandler.Submit).Methods(http.MethodPost)
	soloRoutes.HandleFunc("/finish", soloHandler.Finish).Methods(http.MethodPost)

	// History routes; summary is registered before the {id} pattern
	matches := api.PathPrefix("/matches").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", historyHandler.List).Methods(http.MethodGet)
	matches.HandleFunc("/summary", historyHandler.Summary).Methods(http.MethodGet)
	matches.HandleFunc("/{id}", historyHandler.Get).Methods(http.MethodGet)

	// Real-time play
	wsRoute := api.PathPrefix("/ws").Subrouter()
	wsRoute.Use(authMiddleware)
	wsRoute.HandleFunc("", cfg.Hub.ServeWS).Methods(http.MethodGet)

	api.HandleFunc("/stats", statusHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)

	return r
}
