package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/auth"
	"github.com/mcoot/wordduel/internal/services/history"
	"github.com/mcoot/wordduel/internal/services/matchmaking"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Letters is a round's required first and last letter
type Letters struct {
	Start string `json:"start_letter"`
	End   string `json:"end_letter"`
}

// LettersFromModel converts model.LetterPair
func LettersFromModel(p model.LetterPair) Letters {
	return Letters{Start: string(p.Start), End: string(p.End)}
}

// SoloRound is an open solo round
type SoloRound struct {
	Letters
	Words     []string  `json:"words"`
	Score     int       `json:"score"`
	StartedAt time.Time `json:"started_at"`
}

// SoloRoundFromModel converts model.SoloRound
func SoloRoundFromModel(r model.SoloRound) SoloRound {
	return SoloRound{
		Letters:   LettersFromModel(r.Letters),
		Words:     lo.Ternary(r.Words == nil, []string{}, r.Words),
		Score:     r.Score,
		StartedAt: r.StartedAt,
	}
}

// WordResult is the outcome of a single solo submission
type WordResult struct {
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
	Score    int    `json:"score,omitempty"`
	Total    int    `json:"total"`
	Code     string `json:"code,omitempty"`
	Msg      string `json:"msg,omitempty"`
}

// WordResultFromModel converts model.SubmitResult
func WordResultFromModel(res model.SubmitResult) WordResult {
	out := WordResult{
		Word:     res.Word,
		Accepted: res.Accepted,
		Score:    res.Points,
		Total:    res.Total,
	}
	if !res.Accepted {
		out.Code = string(res.Reason)
		out.Msg = res.Reason.Message()
	}
	return out
}

// MatchRecord is one persisted game
type MatchRecord struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	OpponentID string `json:"opponent_id,omitempty"`
	Letters
	Score    int       `json:"score"`
	Words    []string  `json:"words"`
	Result   string    `json:"result,omitempty"`
	Date     string    `json:"date"`
	PlayedAt time.Time `json:"played_at"`
}

// MatchRecordFromModel converts model.MatchRecord
func MatchRecordFromModel(r *model.MatchRecord) MatchRecord {
	return MatchRecord{
		ID:         string(r.ID),
		Mode:       string(r.Mode),
		OpponentID: string(r.OpponentID),
		Letters:    LettersFromModel(r.Letters),
		Score:      r.Score,
		Words:      lo.Ternary(r.Words == nil, []string{}, r.Words),
		Result:     string(r.Outcome),
		Date:       r.Date(),
		PlayedAt:   r.PlayedAt,
	}
}

// MatchList is a page of history
type MatchList struct {
	Matches []MatchRecord `json:"matches"`
}

// MatchListFromModel converts a slice of records
func MatchListFromModel(records []*model.MatchRecord) MatchList {
	return MatchList{Matches: lo.Map(records, func(r *model.MatchRecord, _ int) MatchRecord {
		return MatchRecordFromModel(r)
	})}
}

// Summary aggregates a player's history
type Summary = history.Summary

// Stats reports matchmaking counters. Players counts connections that have
// joined matchmaking; Connections counts open websockets.
type Stats struct {
	matchmaking.Stats
	Connections int `json:"connections"`
}

// Health is the health check response
type Health struct {
	Status     string `json:"status"`
	Dictionary int    `json:"dictionary_words"`
}
