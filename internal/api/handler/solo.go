package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/wordduel/internal/api/apierr"
	"github.com/mcoot/wordduel/internal/api/middleware"
	"github.com/mcoot/wordduel/internal/api/request"
	"github.com/mcoot/wordduel/internal/api/response"
	"github.com/mcoot/wordduel/internal/services/solo"
)

// SoloHandler handles untimed single-player rounds
type SoloHandler struct {
	solo *solo.Service
}

// NewSoloHandler creates a new solo handler
func NewSoloHandler(soloService *solo.Service) *SoloHandler {
	return &SoloHandler{solo: soloService}
}

// Start handles POST /api/v1/solo
func (h *SoloHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	round, err := h.solo.Start(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SoloRoundFromModel(round))
}

// Get handles GET /api/v1/solo
func (h *SoloHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	round, err := h.solo.Current(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SoloRoundFromModel(round))
}

// Submit handles POST /api/v1/solo/words
func (h *SoloHandler) Submit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SubmitWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Word == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("word is required"))
		return
	}

	res, err := h.solo.Submit(r.Context(), player.ID, req.Word)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WordResultFromModel(res))
}

// Finish handles POST /api/v1/solo/finish
func (h *SoloHandler) Finish(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	record, err := h.solo.Finish(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchRecordFromModel(record))
}
