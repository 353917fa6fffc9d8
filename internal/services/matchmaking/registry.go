package matchmaking

import (
	"sync"

	"github.com/mcoot/wordduel/internal/model"
)

// connEntry is what the service knows about one live connection
type connEntry struct {
	user model.PlayerID
	room model.RoomID // empty while waiting or idle
}

// connectionRegistry maps live connections to their user and current room
type connectionRegistry struct {
	mu      sync.RWMutex
	entries map[model.ConnectionID]connEntry
}

func newConnectionRegistry() *connectionRegistry {
	return &connectionRegistry{entries: make(map[model.ConnectionID]connEntry)}
}

// register records conn as belonging to user with no room. Callers check
// that any previous room is no longer live.
func (r *connectionRegistry) register(conn model.ConnectionID, user model.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[conn] = connEntry{user: user}
}

func (r *connectionRegistry) get(conn model.ConnectionID) (connEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[conn]
	return e, ok
}

func (r *connectionRegistry) setRoom(conn model.ConnectionID, room model.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[conn]; ok {
		e.room = room
		r.entries[conn] = e
	}
}

// remove deletes conn and returns its last entry
func (r *connectionRegistry) remove(conn model.ConnectionID) (connEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[conn]
	delete(r.entries, conn)
	return e, ok
}

// leaveRoom unbinds conn from room, keeping the connection registered.
// It does nothing once conn has moved on to another room or left.
func (r *connectionRegistry) leaveRoom(conn model.ConnectionID, room model.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[conn]; ok && e.room == room {
		e.room = ""
		r.entries[conn] = e
	}
}

func (r *connectionRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// matchRegistry maps room ids to live matches
type matchRegistry struct {
	mu      sync.RWMutex
	matches map[model.RoomID]*Match
}

func newMatchRegistry() *matchRegistry {
	return &matchRegistry{matches: make(map[model.RoomID]*Match)}
}

func (r *matchRegistry) insert(m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.room] = m
}

func (r *matchRegistry) get(room model.RoomID) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[room]
	return m, ok
}

// delete removes room only if it still maps to m
func (r *matchRegistry) delete(m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.matches[m.room] == m {
		delete(r.matches, m.room)
	}
}

func (r *matchRegistry) all() []*Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	return out
}

func (r *matchRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
