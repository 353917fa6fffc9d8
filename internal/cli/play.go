package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Join the matchmaking queue and play a timed 1v1 round",
		Long: `Connect to the server's websocket, wait for an opponent and play one
timed round. Type a word and press Enter to submit it. Words typed before
the round starts are sent once it does.

The command exits when the game ends or is cancelled. Press Ctrl+C to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			wsURL, err := client.WebSocketURL("/api/v1/ws")
			if err != nil {
				return err
			}

			conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, client.AuthHeader())
			if err != nil {
				if resp != nil && resp.StatusCode == http.StatusUnauthorized {
					return errors.New("not logged in: run 'wdgame player guest' first")
				}
				return fmt.Errorf("connection failed: %w", err)
			}
			defer func() { _ = conn.Close() }()

			return playSession(ctx, conn, os.Stdin, os.Stdout, cfg.Output == "json")
		},
	}
}

// playEvent is a server frame
type playEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type playMessage struct {
	Msg string `json:"msg"`
}

type playStart struct {
	Room        string `json:"room"`
	StartLetter string `json:"start_letter"`
	EndLetter   string `json:"end_letter"`
	Time        int    `json:"time"`
}

type playAccepted struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

type playGameOver struct {
	YourScore     int      `json:"your_score"`
	YourWords     []string `json:"your_words"`
	OpponentScore int      `json:"opponent_score"`
	OpponentWords []string `json:"opponent_words"`
	Result        string   `json:"result"`
}

// playSession runs one game over conn, reading words from in and
// writing events to out. It returns when the game ends.
func playSession(ctx context.Context, conn *websocket.Conn, in io.Reader, out io.Writer, jsonOutput bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := conn.WriteJSON(map[string]string{"event": "join_game"}); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	events := make(chan playEvent)
	readErr := make(chan error, 1)
	go func() {
		for {
			var ev playEvent
			if err := conn.ReadJSON(&ev); err != nil {
				readErr <- err
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	words := make(chan string)
	go func() {
		defer close(words)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" {
				continue
			}
			select {
			case words <- word:
			case <-ctx.Done():
				return
			}
		}
	}()

	var room string
	var pending []string
	submit := func(word string) error {
		return conn.WriteJSON(map[string]any{
			"event": "submit_word",
			"data":  map[string]string{"word": word, "room": room},
		})
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return nil

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				fmt.Fprintln(out, "Server closed the connection")
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)

		case word, ok := <-words:
			if !ok {
				words = nil
				continue
			}
			if room == "" {
				pending = append(pending, word)
				continue
			}
			if err := submit(word); err != nil {
				return fmt.Errorf("failed to submit word: %w", err)
			}

		case ev := <-events:
			if jsonOutput {
				line, _ := json.Marshal(ev)
				fmt.Fprintln(out, string(line))
			} else {
				printPlayEvent(out, ev)
			}

			switch ev.Event {
			case "start_game":
				var start playStart
				_ = json.Unmarshal(ev.Data, &start)
				room = start.Room
				for _, word := range pending {
					if err := submit(word); err != nil {
						return fmt.Errorf("failed to submit word: %w", err)
					}
				}
				pending = nil
			case "game_over", "game_cancelled":
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return nil
			}
		}
	}
}

func printPlayEvent(out io.Writer, ev playEvent) {
	switch ev.Event {
	case "waiting", "game_cancelled", "error":
		var m playMessage
		_ = json.Unmarshal(ev.Data, &m)
		if ev.Event == "error" {
			fmt.Fprintf(out, "Error: %s\n", m.Msg)
			return
		}
		fmt.Fprintln(out, m.Msg)
	case "start_game":
		var s playStart
		_ = json.Unmarshal(ev.Data, &s)
		fmt.Fprintf(out, "Game started! Words must start with %q and end with %q. You have %ds.\n",
			strings.ToUpper(s.StartLetter), strings.ToUpper(s.EndLetter), s.Time)
	case "word_accepted":
		var a playAccepted
		_ = json.Unmarshal(ev.Data, &a)
		fmt.Fprintf(out, "Accepted: %s (+%d, total %d)\n", a.Word, a.Score, a.Total)
	case "word_rejected":
		var m playMessage
		_ = json.Unmarshal(ev.Data, &m)
		fmt.Fprintf(out, "Rejected: %s\n", m.Msg)
	case "opponent_disconnected":
		fmt.Fprintln(out, "Your opponent disconnected")
	case "game_over":
		var g playGameOver
		_ = json.Unmarshal(ev.Data, &g)
		fmt.Fprintf(out, "Game over: %s\n", g.Result)
		fmt.Fprintf(out, "  You:      %d pts  %s\n", g.YourScore, strings.Join(g.YourWords, ", "))
		fmt.Fprintf(out, "  Opponent: %d pts  %s\n", g.OpponentScore, strings.Join(g.OpponentWords, ", "))
	default:
		fmt.Fprintf(out, "%s: %s\n", ev.Event, string(ev.Data))
	}
}
