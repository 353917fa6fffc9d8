package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case SoloRound:
		o.printSoloRound(v)
	case WordResult:
		o.printWordResult(v)
	case MatchRecord:
		o.printMatchRecord(v)
	case MatchList:
		o.printMatchList(v)
	case Summary:
		o.printSummary(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// SoloRound response type
type SoloRound struct {
	StartLetter string   `json:"start_letter"`
	EndLetter   string   `json:"end_letter"`
	Words       []string `json:"words"`
	Score       int      `json:"score"`
}

// WordResult response type
type WordResult struct {
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
	Score    int    `json:"score,omitempty"`
	Total    int    `json:"total"`
	Code     string `json:"code,omitempty"`
	Msg      string `json:"msg,omitempty"`
}

// MatchRecord response type
type MatchRecord struct {
	ID          string   `json:"id"`
	Mode        string   `json:"mode"`
	OpponentID  string   `json:"opponent_id,omitempty"`
	StartLetter string   `json:"start_letter"`
	EndLetter   string   `json:"end_letter"`
	Score       int      `json:"score"`
	Words       []string `json:"words"`
	Result      string   `json:"result,omitempty"`
	Date        string   `json:"date"`
}

// MatchList response type
type MatchList struct {
	Matches []MatchRecord `json:"matches"`
}

// Summary response type
type Summary struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Solo   int `json:"solo"`
	Best   int `json:"best_score"`
}

// HealthResult response type
type HealthResult struct {
	Status     string `json:"status"`
	Dictionary int    `json:"dictionary_words"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printSoloRound(r SoloRound) {
	fmt.Fprintf(o.w, "Letters: %s..%s\n", r.StartLetter, r.EndLetter)
	fmt.Fprintf(o.w, "Score: %d\n", r.Score)
	if len(r.Words) > 0 {
		fmt.Fprintf(o.w, "Words: %s\n", strings.Join(r.Words, ", "))
	}
}

func (o *Output) printWordResult(r WordResult) {
	if r.Accepted {
		fmt.Fprintf(o.w, "Accepted: %s (+%d, total %d)\n", r.Word, r.Score, r.Total)
		return
	}
	fmt.Fprintf(o.w, "Rejected: %s - %s\n", r.Word, r.Msg)
}

func (o *Output) printMatchRecord(m MatchRecord) {
	fmt.Fprintf(o.w, "Match: %s\n", m.ID)
	fmt.Fprintf(o.w, "Mode: %s\n", m.Mode)
	fmt.Fprintf(o.w, "Date: %s\n", m.Date)
	fmt.Fprintf(o.w, "Letters: %s..%s\n", m.StartLetter, m.EndLetter)
	if m.Result != "" {
		fmt.Fprintf(o.w, "Result: %s\n", m.Result)
	}
	if m.OpponentID != "" {
		fmt.Fprintf(o.w, "Opponent: %s\n", m.OpponentID)
	}
	fmt.Fprintf(o.w, "Score: %d\n", m.Score)
	if len(m.Words) > 0 {
		fmt.Fprintf(o.w, "Words: %s\n", strings.Join(m.Words, ", "))
	}
}

func (o *Output) printMatchList(l MatchList) {
	if len(l.Matches) == 0 {
		fmt.Fprintln(o.w, "No matches yet")
		return
	}
	for _, m := range l.Matches {
		result := m.Result
		if result == "" {
			result = "-"
		}
		fmt.Fprintf(o.w, "%s  %-4s  %s..%s  %-4s  %3d pts  %s\n",
			m.Date, m.Mode, m.StartLetter, m.EndLetter, result, m.Score, m.ID)
	}
}

func (o *Output) printSummary(s Summary) {
	fmt.Fprintf(o.w, "Played: %d (solo %d)\n", s.Played, s.Solo)
	fmt.Fprintf(o.w, "Wins/Losses/Draws: %d/%d/%d\n", s.Wins, s.Losses, s.Draws)
	fmt.Fprintf(o.w, "Best score: %d\n", s.Best)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Dictionary: %d words\n", h.Dictionary)
}
