package matchmaking

import (
	"sync"
	"time"

	"github.com/mcoot/wordduel/internal/dependencies/clock"
	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/services/rules"
)

// seat is one participant as paired
type seat struct {
	conn model.ConnectionID
	user model.PlayerID
}

// playerState is a participant's progress in a match
type playerState struct {
	seat
	words []string
	used  map[string]struct{}
	score int
}

// Match is the live state of one timed 1v1 round. All fields below mu
// are only touched while holding it.
type Match struct {
	room      model.RoomID
	letters   model.LetterPair
	seats     [2]seat
	createdAt time.Time
	deadline  time.Time

	mu      sync.Mutex
	status  model.MatchStatus
	players map[model.ConnectionID]*playerState
	timer   clock.Timer
}

func newMatch(room model.RoomID, letters model.LetterPair, a, b seat, now time.Time, d time.Duration) *Match {
	m := &Match{
		room:      room,
		letters:   letters,
		seats:     [2]seat{a, b},
		createdAt: now,
		deadline:  now.Add(d),
		status:    model.MatchForming,
		players:   make(map[model.ConnectionID]*playerState, 2),
	}
	for _, s := range m.seats {
		m.players[s.conn] = &playerState{seat: s, used: make(map[string]struct{})}
	}
	return m
}

// Room returns the match's room id
func (m *Match) Room() model.RoomID { return m.room }

// Letters returns the required start and end letters
func (m *Match) Letters() model.LetterPair { return m.letters }

// Status returns the current lifecycle state
func (m *Match) Status() model.MatchStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// activate moves a freshly registered match to Active and arms its
// deadline. arm runs under the match lock, so a timer that fires early
// still observes the Active state.
func (m *Match) activate(arm func() clock.Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = model.MatchActive
	m.timer = arm()
}

// submit validates word for conn and records it if accepted
func (m *Match) submit(conn model.ConnectionID, word string, dict rules.Dictionary, scorer rules.Scorer) model.SubmitResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[conn]
	if m.status != model.MatchActive || !ok {
		return model.Rejected(word, model.RejectGameNotActive)
	}
	if reason := rules.Check(m.letters, word, dict, p.used); reason != "" {
		return model.Rejected(word, reason)
	}

	points := scorer.Score(word)
	p.used[word] = struct{}{}
	p.words = append(p.words, word)
	p.score += points
	return model.Accepted(word, points, p.score)
}

// removePlayer drops conn's state. It returns the connections still in the
// match and whether the match was accepting play when conn left.
func (m *Match) removePlayer(conn model.ConnectionID) (remaining []model.ConnectionID, removed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.players[conn]; !ok {
		return nil, false
	}
	delete(m.players, conn)
	return m.remainingLocked(), m.status == model.MatchActive
}

func (m *Match) remainingLocked() []model.ConnectionID {
	var out []model.ConnectionID
	for _, s := range m.seats {
		if _, ok := m.players[s.conn]; ok {
			out = append(out, s.conn)
		}
	}
	return out
}

// finalResult is a copy of a player's state taken when resolution begins
type finalResult struct {
	seat
	score int
	words []string
}

// beginResolve moves an Active match to Resolving, stops its timer, and
// returns the players still present in seat order. Only the first caller
// gets ok == true.
func (m *Match) beginResolve() (results []finalResult, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != model.MatchActive {
		return nil, false
	}
	m.status = model.MatchResolving
	if m.timer != nil {
		m.timer.Stop()
	}

	for _, s := range m.seats {
		p, present := m.players[s.conn]
		if !present {
			continue
		}
		results = append(results, finalResult{
			seat:  s,
			score: p.score,
			words: append([]string{}, p.words...),
		})
	}
	return results, true
}

func (m *Match) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = model.MatchClosed
}
