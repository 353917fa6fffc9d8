package model

import "time"

// ConnectionID identifies one live real-time session
type ConnectionID string

// RoomID identifies a live 1v1 match
type RoomID string

// LetterPair is the required first and last letter of every word in a round
type LetterPair struct {
	Start rune
	End   rune
}

// String renders the pair as "s..a"
func (p LetterPair) String() string {
	return string(p.Start) + ".." + string(p.End)
}

// MatchStatus is the lifecycle state of a live match
type MatchStatus int

const (
	MatchForming MatchStatus = iota
	MatchActive
	MatchResolving
	MatchClosed
)

func (s MatchStatus) String() string {
	switch s {
	case MatchForming:
		return "forming"
	case MatchActive:
		return "active"
	case MatchResolving:
		return "resolving"
	case MatchClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// FinalizeReason says why a match is being resolved
type FinalizeReason int

const (
	ReasonTimerExpired FinalizeReason = iota
	ReasonCancelled
)

func (r FinalizeReason) String() string {
	if r == ReasonCancelled {
		return "cancelled"
	}
	return "timer_expired"
}

// JoinStatus is the result kind of a join request
type JoinStatus int

const (
	JoinWaiting JoinStatus = iota
	JoinPaired
)

// JoinOutcome is returned to the joining connection
type JoinOutcome struct {
	Status   JoinStatus
	Room     RoomID
	Letters  LetterPair
	Deadline time.Duration
	Opponent ConnectionID
}

// RejectReason names why a submitted word was not accepted
type RejectReason string

const (
	RejectWrongLetters    RejectReason = "wrong_letters"
	RejectNotInDictionary RejectReason = "not_in_dictionary"
	RejectAlreadyUsed     RejectReason = "already_used"
	RejectNoSuchRoom      RejectReason = "room_not_found"
	RejectGameNotActive   RejectReason = "game_not_active"
)

// Message is the player-facing text for the rejection
func (r RejectReason) Message() string {
	switch r {
	case RejectWrongLetters:
		return "Wrong start/end letters"
	case RejectNotInDictionary:
		return "Word not in game dictionary"
	case RejectAlreadyUsed:
		return "This word was already used"
	case RejectNoSuchRoom:
		return "Game does not exist"
	case RejectGameNotActive:
		return "Game hasn't started yet"
	default:
		return "Word rejected"
	}
}

// SubmitResult is the outcome of a single word submission.
// Reason is empty when Accepted is true.
type SubmitResult struct {
	Word     string
	Accepted bool
	Points   int
	Total    int
	Reason   RejectReason
}

// Accepted builds an accepted result
func Accepted(word string, points, total int) SubmitResult {
	return SubmitResult{Word: word, Accepted: true, Points: points, Total: total}
}

// Rejected builds a rejected result
func Rejected(word string, reason RejectReason) SubmitResult {
	return SubmitResult{Word: word, Reason: reason}
}
