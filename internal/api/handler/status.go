package handler

import (
	"net/http"

	"github.com/mcoot/wordduel/internal/api/response"
	"github.com/mcoot/wordduel/internal/services/dictionary"
	"github.com/mcoot/wordduel/internal/services/matchmaking"
)

// ConnectionCounter reports how many websocket connections are open
type ConnectionCounter interface {
	Len() int
}

// StatusHandler serves health and matchmaking counters
type StatusHandler struct {
	matchmaking *matchmaking.Service
	dictionary  dictionary.ServiceInterface
	conns       ConnectionCounter
}

// NewStatusHandler creates a new status handler. conns may be nil.
func NewStatusHandler(mm *matchmaking.Service, dict dictionary.ServiceInterface, conns ConnectionCounter) *StatusHandler {
	return &StatusHandler{matchmaking: mm, dictionary: dict, conns: conns}
}

// Health handles GET /api/v1/health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:     "ok",
		Dictionary: h.dictionary.WordCount(),
	})
}

// Stats handles GET /api/v1/stats
func (h *StatusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := response.Stats{Stats: h.matchmaking.Stats()}
	if h.conns != nil {
		stats.Connections = h.conns.Len()
	}
	response.JSON(w, http.StatusOK, stats)
}
