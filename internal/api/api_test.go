package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordduel/internal/api"
	"github.com/mcoot/wordduel/internal/api/apierr"
	"github.com/mcoot/wordduel/internal/api/response"
	"github.com/mcoot/wordduel/internal/factory"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/testutil"
)

// testServer wires the router over a test app with mocked clock and randomness
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	app.LoadTestDictionary()

	router := api.NewRouter(api.RouterConfig{
		Logger:             testutil.NopLogger(),
		AuthService:        app.AuthService,
		SoloService:        app.SoloService,
		HistoryService:     app.HistoryService,
		MatchmakingService: app.MatchmakingService,
		Dictionary:         app.DictionaryService,
		Hub:                app.Hub,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func createGuestPlayer(t *testing.T, ts *testServer, name string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"display_name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	return decode[response.AuthResponse](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	health := decode[response.Health](t, rr)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, len(factory.TestWords)-5, health.Dictionary)
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	resp := createGuestPlayer(t, ts, "Alicja")
	assert.Equal(t, "Alicja", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestCreateGuestWithoutBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Guest", decode[response.AuthResponse](t, rr).Player.DisplayName)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{
		"username": "alicja",
		"password": "sekret123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	registered := decode[response.AuthResponse](t, rr)
	assert.False(t, registered.Player.IsGuest)
	assert.Equal(t, "alicja", registered.Player.DisplayName)

	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{
		"username": "alicja",
		"password": "sekret123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, registered.Player.ID, decode[response.AuthResponse](t, rr).Player.ID)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode string
	}{
		{"missing username", map[string]string{"password": "abc123"}, apierr.CodeInvalidRequest},
		{"short username", map[string]string{"username": "al", "password": "abc123"}, apierr.CodeInvalidUsername},
		{"no digit", map[string]string{"username": "alicja", "password": "abcdef"}, apierr.CodeWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/players/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantCode, decode[apierr.ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodPost, "/api/v1/players/register", map[string]string{
		"username": "alicja", "password": "sekret123",
	}, "")

	rr := ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{
		"username": "alicja", "password": "zlehaslo1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestGetMeAndLogout(t *testing.T) {
	ts := newTestServer(t)
	auth := createGuestPlayer(t, ts, "Bartek")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bartek", decode[response.Player](t, rr).DisplayName)

	rr = ts.request(http.MethodPost, "/api/v1/players/logout", nil, auth.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, auth.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/players/me", "/api/v1/matches", "/api/v1/ws"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodPost, "/api/v1/solo", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSoloRoundFlow(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Ala").SessionToken
	ts.app.MockRandom.QueueLetters('s', 'a')

	rr := ts.request(http.MethodPost, "/api/v1/solo", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	round := decode[response.SoloRound](t, rr)
	assert.Equal(t, "s", round.Start)
	assert.Equal(t, "a", round.End)
	assert.Empty(t, round.Words)

	rr = ts.request(http.MethodPost, "/api/v1/solo/words", map[string]string{"word": "Sałata"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	accepted := decode[response.WordResult](t, rr)
	assert.True(t, accepted.Accepted)
	assert.Equal(t, 8, accepted.Score)

	rr = ts.request(http.MethodPost, "/api/v1/solo/words", map[string]string{"word": "sałata"}, token)
	rejected := decode[response.WordResult](t, rr)
	assert.False(t, rejected.Accepted)
	assert.Equal(t, string(model.RejectAlreadyUsed), rejected.Code)
	assert.Equal(t, 8, rejected.Total)

	rr = ts.request(http.MethodGet, "/api/v1/solo", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"sałata"}, decode[response.SoloRound](t, rr).Words)

	rr = ts.request(http.MethodPost, "/api/v1/solo/finish", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	record := decode[response.MatchRecord](t, rr)
	assert.Equal(t, "solo", record.Mode)
	assert.Equal(t, 8, record.Score)
	assert.Equal(t, "2024-01-01", record.Date)

	rr = ts.request(http.MethodPost, "/api/v1/solo/finish", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoSoloRound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestSoloWordRequired(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Ala").SessionToken

	rr := ts.request(http.MethodPost, "/api/v1/solo/words", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMatchHistory(t *testing.T) {
	ts := newTestServer(t)
	ala := createGuestPlayer(t, ts, "Ala")
	ola := createGuestPlayer(t, ts, "Ola")
	ts.app.MockRandom.QueueLetters('k', 't')

	mm := ts.app.MatchmakingService
	_, err := mm.Join("c1", model.PlayerID(ala.Player.ID))
	require.NoError(t, err)
	out, err := mm.Join("c2", model.PlayerID(ola.Player.ID))
	require.NoError(t, err)
	mm.SubmitWord("c1", out.Room, "kompot")
	ts.app.MockClock.Advance(30 * time.Second)

	rr := ts.request(http.MethodGet, "/api/v1/matches", nil, ala.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.MatchList](t, rr)
	require.Len(t, list.Matches, 1)
	assert.Equal(t, "Win", list.Matches[0].Result)
	assert.Equal(t, "1v1", list.Matches[0].Mode)
	assert.Equal(t, ola.Player.ID, list.Matches[0].OpponentID)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+list.Matches[0].ID, nil, ala.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"kompot"}, decode[response.MatchRecord](t, rr).Words)

	// Another player's record is not visible
	rr = ts.request(http.MethodGet, "/api/v1/matches/"+list.Matches[0].ID, nil, ola.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/matches?mode=solo", nil, ala.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.MatchList](t, rr).Matches)

	rr = ts.request(http.MethodGet, "/api/v1/matches?mode=blitz", nil, ala.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/matches/summary", nil, ola.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[response.Summary](t, rr)
	assert.Equal(t, 1, summary.Played)
	assert.Equal(t, 1, summary.Losses)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.app.MatchmakingService.Join("c1", "p1")
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"waiting":true,"active_matches":0,"players":1,"connections":0}`, rr.Body.String())
}
