package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordduel/internal/api/apierr"
	"github.com/mcoot/wordduel/internal/api/middleware"
	"github.com/mcoot/wordduel/internal/api/response"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/history"
)

// HistoryHandler serves a player's finished games
type HistoryHandler struct {
	history *history.Service
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *history.Service) *HistoryHandler {
	return &HistoryHandler{history: historyService}
}

// List handles GET /api/v1/matches?mode=solo|1v1
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	mode := model.GameMode(r.URL.Query().Get("mode"))
	if mode != "" && mode != model.ModeSolo && mode != model.ModeDuel {
		apierr.WriteError(w, apierr.NewInvalidRequestError("mode must be solo or 1v1"))
		return
	}

	records, err := h.history.List(r.Context(), player.ID, mode)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchListFromModel(records))
}

// Get handles GET /api/v1/matches/{id}
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RecordID(mux.Vars(r)["id"])

	record, err := h.history.Get(r.Context(), player.ID, id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchRecordFromModel(record))
}

// Summary handles GET /api/v1/matches/summary
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	summary, err := h.history.Summarize(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
