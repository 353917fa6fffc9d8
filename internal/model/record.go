package model

import "time"

// RecordID identifies a persisted game result
type RecordID string

// GameMode distinguishes solo rounds from head-to-head matches
type GameMode string

const (
	ModeSolo GameMode = "solo"
	ModeDuel GameMode = "1v1"
)

// Outcome is a player's result label in a finished match
type Outcome string

const (
	OutcomeWin  Outcome = "Win"
	OutcomeLose Outcome = "Lose"
	OutcomeDraw Outcome = "Draw"
)

// CompareScores returns the outcome for the player holding own
func CompareScores(own, opponent int) Outcome {
	switch {
	case own > opponent:
		return OutcomeWin
	case own < opponent:
		return OutcomeLose
	default:
		return OutcomeDraw
	}
}

// MatchRecord is one player's persisted view of a finished game.
// OpponentID and Outcome are empty for solo rounds.
type MatchRecord struct {
	ID         RecordID
	UserID     PlayerID
	OpponentID PlayerID
	Letters    LetterPair
	Score      int
	Words      []string
	Mode       GameMode
	Outcome    Outcome
	PlayedAt   time.Time
}

// Date is the calendar day the game was played on
func (r MatchRecord) Date() string {
	return r.PlayedAt.UTC().Format(time.DateOnly)
}

// SoloRound is an untimed round in progress for one player
type SoloRound struct {
	UserID    PlayerID
	Letters   LetterPair
	Words     []string
	Score     int
	StartedAt time.Time
}
