package session

import "github.com/hpungsan/pintree/internal/nav"

// EventKind identifies what changed.
type EventKind string

const (
	EventLoading EventKind = "loading"
	EventReady   EventKind = "ready"
	EventFailed  EventKind = "failed"
	EventState   EventKind = "state"
)

// Event is delivered to subscribers after every status or state change.
type Event struct {
	Kind       EventKind
	Status     Status
	State      nav.State
	SnapshotID string
	Err        error
}

const subscriberBuffer = 16

// Subscribe returns a channel of events and a func that cancels the
// subscription and closes the channel. Slow subscribers miss events rather
// than block the session.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once bool
	return ch, func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if once {
			return
		}
		once = true
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) publish(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
