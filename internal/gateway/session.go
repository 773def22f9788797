package gateway

import (
	"sync"

	"linkup/infrastructure"
	"linkup/internal/broadcast"
)

const sessionBufferSize = 256

// Session is the subscription context of one live connection. It owns exactly
// one group membership for its lifetime and a bounded outbound buffer the
// write pump drains. It is destroyed on disconnect; Close and Leave are safe
// against duplicate close signals.
type Session struct {
	UserID string

	group     broadcast.GroupID
	events    chan broadcast.Event
	closed    chan struct{}
	closeOnce sync.Once
	leaveOnce sync.Once
	router    broadcast.Router
}

func NewSession(userID string, group broadcast.GroupID, router broadcast.Router) *Session {
	return &Session{
		UserID: userID,
		group:  group,
		events: make(chan broadcast.Event, sessionBufferSize),
		closed: make(chan struct{}),
		router: router,
	}
}

func (s *Session) Group() broadcast.GroupID { return s.group }

// Events is drained by the connection's write pump.
func (s *Session) Events() <-chan broadcast.Event { return s.events }

// Deliver enqueues an event without blocking the publisher. A closed session
// or a full buffer means the recipient is unreachable at this instant; the
// event is dropped for this one recipient.
func (s *Session) Deliver(event broadcast.Event) error {
	select {
	case <-s.closed:
		return &infrastructure.TransportError{Reason: "session closed"}
	default:
	}
	select {
	case s.events <- event:
		return nil
	default:
		return &infrastructure.TransportError{Reason: "send buffer full"}
	}
}

// Join subscribes the session to its group.
func (s *Session) Join() {
	s.router.Join(s.group, s)
}

// Close removes the group membership exactly once and wakes the write pump.
// It is called from both pumps and from the transport error path, so it must
// tolerate duplicates.
func (s *Session) Close() {
	s.leaveOnce.Do(func() {
		s.router.Leave(s.group, s)
	})
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

// Done is closed once the session is shut down.
func (s *Session) Done() <-chan struct{} { return s.closed }
