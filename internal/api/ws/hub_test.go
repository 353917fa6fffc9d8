package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordduel/internal/api/middleware"
	"github.com/mcoot/wordduel/internal/dependencies/mocks"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/auth"
	"github.com/mcoot/wordduel/internal/storage/memory"
	"github.com/mcoot/wordduel/internal/testutil"
)

// fakeMatchmaker echoes calls back through the hub
type fakeMatchmaker struct {
	hub *Hub

	mu           sync.Mutex
	joined       []model.ConnectionID
	submitted    []string
	disconnected []model.ConnectionID
	joinErr      error
}

func (f *fakeMatchmaker) Join(conn model.ConnectionID, user model.PlayerID) (model.JoinOutcome, error) {
	f.mu.Lock()
	f.joined = append(f.joined, conn)
	err := f.joinErr
	f.mu.Unlock()
	if err != nil {
		return model.JoinOutcome{}, err
	}
	f.hub.Send(conn, model.EventWaiting, model.WaitingPayload{Msg: model.WaitingMessage})
	return model.JoinOutcome{Status: model.JoinWaiting}, nil
}

func (f *fakeMatchmaker) SubmitWord(conn model.ConnectionID, room model.RoomID, raw string) model.SubmitResult {
	f.mu.Lock()
	f.submitted = append(f.submitted, string(room)+":"+raw)
	f.mu.Unlock()
	res := model.Rejected(raw, model.RejectNoSuchRoom)
	event, payload := model.NewSubmitPayload(res)
	f.hub.Send(conn, event, payload)
	return res
}

func (f *fakeMatchmaker) OnDisconnect(conn model.ConnectionID) {
	f.mu.Lock()
	f.disconnected = append(f.disconnected, conn)
	f.mu.Unlock()
}

func (f *fakeMatchmaker) disconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.disconnected)
}

type HubSuite struct {
	suite.Suite
	hub    *Hub
	mm     *fakeMatchmaker
	auth   *auth.Service
	server *httptest.Server
	token  string
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.auth = auth.New(memory.New(), mocks.NewMockClock(time.Now()), auth.DefaultConfig(), logger)
	session, err := s.auth.CreateGuestPlayer(context.Background(), "Ala")
	s.Require().NoError(err)
	s.token = session.Token

	s.hub = NewHub(Config{RatePerSec: 1000, Burst: 5}, logger)
	s.mm = &fakeMatchmaker{hub: s.hub}
	s.hub.Attach(s.mm)

	s.server = httptest.NewServer(middleware.Auth(s.auth)(http.HandlerFunc(s.hub.ServeWS)))
}

func (s *HubSuite) TearDownTest() {
	s.server.Close()
}

func (s *HubSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?token=" + s.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

func (s *HubSuite) read(conn *websocket.Conn) Envelope {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	s.Require().NoError(conn.ReadJSON(&env))
	return env
}

func (s *HubSuite) TestRejectsUnauthenticatedUpgrade() {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HubSuite) TestJoinRoundTrip() {
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]any{"event": "join_game"}))

	env := s.read(conn)
	s.Equal(model.EventWaiting, env.Event)
	s.JSONEq(`{"msg":"Waiting for another player..."}`, string(env.Data))
	s.Equal(1, s.hub.Len())
}

func (s *HubSuite) TestSubmitWordRoutesPayload() {
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]any{
		"event": "submit_word",
		"data":  map[string]string{"word": "Sałata", "room": "room_x"},
	}))

	env := s.read(conn)
	s.Equal(model.EventWordRejected, env.Event)
	s.JSONEq(`{"msg":"Game does not exist","code":"room_not_found"}`, string(env.Data))

	s.mm.mu.Lock()
	s.Equal([]string{"room_x:Sałata"}, s.mm.submitted)
	s.mm.mu.Unlock()
}

func (s *HubSuite) TestProtocolErrors() {
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	env := s.read(conn)
	s.Equal(model.EventError, env.Event)
	s.Contains(string(env.Data), "invalid message format")

	s.Require().NoError(conn.WriteJSON(map[string]any{"event": "dance"}))
	env = s.read(conn)
	s.Equal(model.EventError, env.Event)
	s.Contains(string(env.Data), "unknown event")

	s.Require().NoError(conn.WriteJSON(map[string]any{"event": "submit_word"}))
	env = s.read(conn)
	s.Equal(model.EventError, env.Event)
	s.Contains(string(env.Data), "invalid submit_word payload")
}

func (s *HubSuite) TestJoinErrorIsReported() {
	s.mm.joinErr = model.ErrAlreadyInMatch
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]any{"event": "join_game"}))
	env := s.read(conn)
	s.Equal(model.EventError, env.Event)
	s.Contains(string(env.Data), model.ErrAlreadyInMatch.Error())
}

func (s *HubSuite) TestRateLimit() {
	conn := s.dial()
	defer conn.Close()

	s.hub.mu.RLock()
	for _, c := range s.hub.clients {
		c.limiter.SetLimit(0)
	}
	s.hub.mu.RUnlock()

	limited := false
	for i := 0; i < 10 && !limited; i++ {
		s.Require().NoError(conn.WriteJSON(map[string]any{"event": "dance"}))
		env := s.read(conn)
		limited = strings.Contains(string(env.Data), "rate limit exceeded")
	}
	s.True(limited)
}

func (s *HubSuite) TestDisconnectNotifiesOnce() {
	conn := s.dial()
	s.Require().NoError(conn.WriteJSON(map[string]any{"event": "join_game"}))
	s.read(conn)

	s.Require().NoError(conn.Close())

	s.Eventually(func() bool { return s.mm.disconnectCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Never(func() bool { return s.mm.disconnectCount() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
	s.Equal(0, s.hub.Len())
}

func (s *HubSuite) TestSendToUnknownConnectionIsDropped() {
	s.NotPanics(func() {
		s.hub.Send("conn_missing", model.EventWaiting, model.WaitingPayload{})
	})
}

func (s *HubSuite) TestCloseFlushesAndDisconnects() {
	conn := s.dial()
	defer conn.Close()
	s.Eventually(func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	s.hub.mu.RLock()
	var id model.ConnectionID
	for cid := range s.hub.clients {
		id = cid
	}
	s.hub.mu.RUnlock()
	s.hub.Send(id, model.EventGameCancelled, model.GameCancelledPayload{Msg: model.CancelledMessage})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Require().NoError(s.hub.Close(ctx))

	env := s.read(conn)
	s.Equal(model.EventGameCancelled, env.Event)

	_, _, err := conn.ReadMessage()
	s.True(websocket.IsCloseError(err, websocket.CloseGoingAway))
	s.Equal(1, s.mm.disconnectCount())
}
