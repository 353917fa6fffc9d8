// Package matchmaking pairs connections into timed 1v1 matches and runs
// them until they are resolved.
package matchmaking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/wordduel/internal/dependencies/clock"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/rules"
	"github.com/mcoot/wordduel/internal/storage"
)

// Config holds matchmaking settings
type Config struct {
	// RoundDuration is how long a match accepts words
	RoundDuration time.Duration
	// EndOnOpponentLeave cancels a match as soon as either player leaves.
	// When false the remaining player keeps playing until the deadline,
	// at which point the match is cancelled.
	EndOnOpponentLeave bool
	// PersistTimeout bounds the storage call made when a match finishes
	PersistTimeout time.Duration
}

// DefaultConfig returns default matchmaking configuration
func DefaultConfig() Config {
	return Config{
		RoundDuration:  30 * time.Second,
		PersistTimeout: 5 * time.Second,
	}
}

// Stats is a point-in-time view of the service
type Stats struct {
	Waiting       bool `json:"waiting"`
	ActiveMatches int  `json:"active_matches"`
	Players       int  `json:"players"`
}

// Service owns the waiting slot and the connection and match registries
type Service struct {
	dict      rules.Dictionary
	scorer    rules.Scorer
	picker    *rules.Picker
	clock     clock.Clock
	notifier  Notifier
	publisher *publisher
	cfg       Config
	logger    *slog.Logger

	mu       sync.Mutex // guards waiting and shutdown
	waiting  model.ConnectionID
	shutdown bool

	conns   *connectionRegistry
	matches *matchRegistry
}

// New creates a new matchmaking Service
func New(
	storage storage.Storage,
	dict rules.Dictionary,
	scorer rules.Scorer,
	picker *rules.Picker,
	clock clock.Clock,
	notifier Notifier,
	cfg Config,
	logger *slog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = defaults.RoundDuration
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaults.PersistTimeout
	}
	logger = logger.With(slog.String("component", "matchmaking"))

	return &Service{
		dict:     dict,
		scorer:   scorer,
		picker:   picker,
		clock:    clock,
		notifier: notifier,
		publisher: &publisher{
			storage:  storage,
			notifier: notifier,
			clock:    clock,
			timeout:  cfg.PersistTimeout,
			logger:   logger,
		},
		cfg:     cfg,
		logger:  logger,
		conns:   newConnectionRegistry(),
		matches: newMatchRegistry(),
	}
}

// Join registers conn for user and either parks it in the waiting slot or
// pairs it with the connection already waiting
func (s *Service) Join(conn model.ConnectionID, user model.PlayerID) (model.JoinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return model.JoinOutcome{}, model.ErrShuttingDown
	}
	if e, ok := s.conns.get(conn); ok && e.room != "" {
		if m, live := s.matches.get(e.room); live && m.Status() == model.MatchActive {
			return model.JoinOutcome{}, model.ErrAlreadyInMatch
		}
	}
	s.conns.register(conn, user)

	if s.waiting == "" || s.waiting == conn {
		s.waiting = conn
		s.notifier.Send(conn, model.EventWaiting, model.WaitingPayload{Msg: model.WaitingMessage})
		return model.JoinOutcome{Status: model.JoinWaiting}, nil
	}

	opponent := s.waiting
	s.waiting = ""
	opp, _ := s.conns.get(opponent)

	now := s.clock.Now()
	room := model.RoomID("room_" + uuid.NewString())
	m := newMatch(room, s.picker.Pick(), seat{opponent, opp.user}, seat{conn, user}, now, s.cfg.RoundDuration)

	s.matches.insert(m)
	s.conns.setRoom(opponent, room)
	s.conns.setRoom(conn, room)
	m.activate(func() clock.Timer {
		return s.clock.AfterFunc(s.cfg.RoundDuration, func() {
			s.Finalize(room, model.ReasonTimerExpired)
		})
	})

	s.logger.Info("match started",
		slog.String("room", string(room)),
		slog.String("letters", m.letters.String()),
		slog.Int("candidate_words", s.dict.WordsWith(m.letters.Start, m.letters.End)),
		slog.String("player_a", string(opp.user)),
		slog.String("player_b", string(user)),
	)

	out := model.JoinOutcome{
		Status:   model.JoinPaired,
		Room:     room,
		Letters:  m.letters,
		Deadline: s.cfg.RoundDuration,
		Opponent: opponent,
	}
	start := model.NewStartGamePayload(out)
	s.notifier.Send(opponent, model.EventStartGame, start)
	s.notifier.Send(conn, model.EventStartGame, start)
	return out, nil
}

// SubmitWord validates a word from conn against the given room. The result
// is sent back to conn and also returned.
func (s *Service) SubmitWord(conn model.ConnectionID, room model.RoomID, raw string) model.SubmitResult {
	word := rules.Normalize(raw)

	var res model.SubmitResult
	if m, ok := s.matches.get(room); ok {
		res = m.submit(conn, word, s.dict, s.scorer)
	} else {
		res = model.Rejected(word, model.RejectNoSuchRoom)
	}

	event, payload := model.NewSubmitPayload(res)
	s.notifier.Send(conn, event, payload)
	return res
}

// OnDisconnect releases everything held for conn. It must be called once
// per connection when its transport goes away.
func (s *Service) OnDisconnect(conn model.ConnectionID) {
	s.mu.Lock()
	if s.waiting == conn {
		s.waiting = ""
	}
	entry, ok := s.conns.remove(conn)
	s.mu.Unlock()

	if !ok || entry.room == "" {
		return
	}
	m, ok := s.matches.get(entry.room)
	if !ok {
		return
	}

	remaining, active := m.removePlayer(conn)
	if !active {
		return
	}
	for _, other := range remaining {
		s.notifier.Send(other, model.EventOpponentDisconnected, model.OpponentDisconnectedPayload{})
	}
	s.logger.Info("player left match",
		slog.String("room", string(entry.room)),
		slog.String("user", string(entry.user)),
		slog.Int("remaining", len(remaining)),
	)

	if len(remaining) == 0 || s.cfg.EndOnOpponentLeave {
		s.Finalize(entry.room, model.ReasonCancelled)
	}
}

// Finalize resolves a match exactly once. Calls for unknown rooms or for
// matches already being resolved are no-ops and return false. A deadline
// reached with fewer than two players is treated as a cancellation.
func (s *Service) Finalize(room model.RoomID, reason model.FinalizeReason) bool {
	m, ok := s.matches.get(room)
	if !ok {
		return false
	}
	results, ok := m.beginResolve()
	if !ok {
		return false
	}

	if reason == model.ReasonTimerExpired && len(results) < 2 {
		reason = model.ReasonCancelled
	}
	if reason != model.ReasonCancelled {
		s.publisher.persist(m, results[0], results[1])
	}

	// The match leaves both registries before any notice goes out
	m.close()
	s.matches.delete(m)
	for _, st := range m.seats {
		s.conns.leaveRoom(st.conn, room)
	}

	if reason == model.ReasonCancelled {
		s.publisher.cancelled(results)
		s.logger.Info("match cancelled", slog.String("room", string(room)))
	} else {
		s.publisher.result(m, results[0], results[1])
	}
	return true
}

// Match returns the live match for room
func (s *Service) Match(room model.RoomID) (*Match, bool) {
	return s.matches.get(room)
}

// Waiting returns the connection currently in the waiting slot
func (s *Service) Waiting() (model.ConnectionID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting, s.waiting != ""
}

// Stats returns current counts
func (s *Service) Stats() Stats {
	_, waiting := s.Waiting()
	return Stats{
		Waiting:       waiting,
		ActiveMatches: s.matches.len(),
		Players:       s.conns.len(),
	}
}

// Shutdown stops accepting joins and cancels every live match
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	s.waiting = ""
	s.mu.Unlock()

	for _, m := range s.matches.all() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Finalize(m.room, model.ReasonCancelled)
	}
	return nil
}
