package mocks

import (
	"sync"

	"github.com/mcoot/wordduel/internal/model"
)

// SentEvent is one event delivered through a MockNotifier
type SentEvent struct {
	Conn    model.ConnectionID
	Event   model.EventType
	Payload any
}

// MockNotifier records every event instead of delivering it
type MockNotifier struct {
	mu     sync.Mutex
	events []SentEvent
}

// NewMockNotifier creates an empty MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send records the event
func (n *MockNotifier) Send(conn model.ConnectionID, event model.EventType, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, SentEvent{Conn: conn, Event: event, Payload: payload})
}

// Events returns everything sent so far
func (n *MockNotifier) Events() []SentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentEvent(nil), n.events...)
}

// For returns the events sent to conn, in order
func (n *MockNotifier) For(conn model.ConnectionID) []SentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []SentEvent
	for _, e := range n.events {
		if e.Conn == conn {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent event sent to conn
func (n *MockNotifier) Last(conn model.ConnectionID) (SentEvent, bool) {
	events := n.For(conn)
	if len(events) == 0 {
		return SentEvent{}, false
	}
	return events[len(events)-1], true
}

// Count returns how many events of the given type conn received
func (n *MockNotifier) Count(conn model.ConnectionID, event model.EventType) int {
	count := 0
	for _, e := range n.For(conn) {
		if e.Event == event {
			count++
		}
	}
	return count
}

// Reset forgets all recorded events
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}
