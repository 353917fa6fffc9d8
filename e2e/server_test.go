package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordduel/internal/api"
	"github.com/mcoot/wordduel/internal/factory"
	"github.com/mcoot/wordduel/internal/services/matchmaking"
)

const roundDuration = time.Second

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	wordFile string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	wordFile := filepath.Join(findProjectRoot(t), "data/words.txt")

	app, err := factory.New(context.Background(), factory.Config{
		DictionaryPath: wordFile,
		Matchmaking: matchmaking.Config{
			RoundDuration:  roundDuration,
			PersistTimeout: time.Second,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		SoloService:        app.SoloService,
		HistoryService:     app.HistoryService,
		MatchmakingService: app.MatchmakingService,
		Dictionary:         app.DictionaryService,
		Hub:                app.Hub,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = "127.0.0.1"
	serverConfig.Port = 0
	server := api.NewServer(mux, serverConfig, logger)
	require.NoError(t, server.Listen())

	go func() {
		if err := server.Serve(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	waitForServer(t, server.URL()+"/api/v1/health")

	return &testServer{
		app:      app,
		addr:     server.URL(),
		wordFile: wordFile,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// wordsFor returns dictionary words running from start to end, in file order
func (ts *testServer) wordsFor(t *testing.T, start, end string) []string {
	t.Helper()

	f, err := os.Open(ts.wordFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if strings.HasPrefix(w, start) && strings.HasSuffix(w, end) && ts.app.DictionaryService.IsValidWord(w) {
			out = append(out, w)
		}
	}
	require.NoError(t, scanner.Err())
	require.NotEmpty(t, out, "no dictionary word for %s..%s", start, end)
	return out
}

// wrongWord is a word that cannot start with start
func wrongWord(start string) string {
	if start == "z" {
		return "abc"
	}
	return "zzz"
}

// createGuest creates a guest over HTTP and returns its session
func createGuest(t *testing.T, serverURL, name string) authResponse {
	t.Helper()

	body := strings.NewReader(`{"display_name":"` + name + `"}`)
	resp, err := http.Post(serverURL+"/api/v1/players/guest", "application/json", body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out authResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// getJSON performs an authenticated GET and decodes the body
func getJSON(t *testing.T, url, token string, dst any) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if dst != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	} `json:"player"`
	SessionToken string `json:"session_token"`
}

type soloResponse struct {
	StartLetter string   `json:"start_letter"`
	EndLetter   string   `json:"end_letter"`
	Words       []string `json:"words"`
	Score       int      `json:"score"`
}

type wordResponse struct {
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
	Code     string `json:"code"`
}

type matchRecordResponse struct {
	ID          string   `json:"id"`
	Mode        string   `json:"mode"`
	OpponentID  string   `json:"opponent_id"`
	StartLetter string   `json:"start_letter"`
	EndLetter   string   `json:"end_letter"`
	Score       int      `json:"score"`
	Words       []string `json:"words"`
	Result      string   `json:"result"`
}

type matchListResponse struct {
	Matches []matchRecordResponse `json:"matches"`
}

type healthResponse struct {
	Status          string `json:"status"`
	DictionaryWords int    `json:"dictionary_words"`
}
