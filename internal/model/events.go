package model

// EventType identifies a real-time message
type EventType string

const (
	// Client to server
	EventJoinGame   EventType = "join_game"
	EventSubmitWord EventType = "submit_word"

	// Server to client
	EventWaiting              EventType = "waiting"
	EventStartGame            EventType = "start_game"
	EventWordAccepted         EventType = "word_accepted"
	EventWordRejected         EventType = "word_rejected"
	EventOpponentDisconnected EventType = "opponent_disconnected"
	EventGameCancelled        EventType = "game_cancelled"
	EventGameOver             EventType = "game_over"
	EventError                EventType = "error"
)

const (
	WaitingMessage   = "Waiting for another player..."
	CancelledMessage = "Opponent disconnected."
)

// SubmitWordPayload is sent by a client with each word
type SubmitWordPayload struct {
	Word string `json:"word"`
	Room RoomID `json:"room"`
}

// WaitingPayload is sent when a player takes the waiting slot
type WaitingPayload struct {
	Msg string `json:"msg"`
}

// StartGamePayload is sent to both players once paired
type StartGamePayload struct {
	Room        RoomID `json:"room"`
	StartLetter string `json:"start_letter"`
	EndLetter   string `json:"end_letter"`
	Time        int    `json:"time"`
}

// WordAcceptedPayload is sent to the submitter of an accepted word
type WordAcceptedPayload struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

// WordRejectedPayload is sent to the submitter of a rejected word
type WordRejectedPayload struct {
	Msg  string       `json:"msg"`
	Code RejectReason `json:"code"`
}

// OpponentDisconnectedPayload is sent to the player left behind
type OpponentDisconnectedPayload struct{}

// GameCancelledPayload is sent when a match ends without a result
type GameCancelledPayload struct {
	Msg string `json:"msg"`
}

// GameOverPayload is each player's view of the final result
type GameOverPayload struct {
	YourScore     int      `json:"your_score"`
	YourWords     []string `json:"your_words"`
	OpponentScore int      `json:"opponent_score"`
	OpponentWords []string `json:"opponent_words"`
	Result        Outcome  `json:"result"`
}

// ErrorPayload reports protocol level problems
type ErrorPayload struct {
	Msg string `json:"msg"`
}

// NewStartGamePayload renders a pairing for the wire
func NewStartGamePayload(out JoinOutcome) StartGamePayload {
	return StartGamePayload{
		Room:        out.Room,
		StartLetter: string(out.Letters.Start),
		EndLetter:   string(out.Letters.End),
		Time:        int(out.Deadline.Seconds()),
	}
}

// NewSubmitPayload renders a submission result for the wire
func NewSubmitPayload(res SubmitResult) (EventType, any) {
	if res.Accepted {
		return EventWordAccepted, WordAcceptedPayload{Word: res.Word, Score: res.Points, Total: res.Total}
	}
	return EventWordRejected, WordRejectedPayload{Msg: res.Reason.Message(), Code: res.Reason}
}
