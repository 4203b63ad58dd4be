package multiplayer

import "sync"

// SessionHandle is the transport-neutral interface for talking to a
// connected player. The coordinator and matches send events through it
// without depending on Wish or Bubble Tea.
type SessionHandle interface {
	// ID names the session.
	ID() SessionID

	// Send queues an event for the session. It must never block: the
	// match loop calls it every tick for every seat.
	Send(evt SessionEvent)

	// Done closes when the player is gone.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by Go channels.
// The TUI layer uses it to bridge Bubble Tea sessions with the
// coordinator.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a channel-backed session handle.
// eventBufferSize is how many events may queue before Send starts
// dropping; sizes under 1 fall back to 64.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID names the session.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send delivers an event to the session. A full buffer drops the
// oldest queued event first; a stale board view is worthless once a
// newer one exists.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		// Full: make room by dropping the oldest, then best-effort retry
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events is the receive side the TUI session pumps from.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done closes when the player is gone.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Calling it again is a no-op.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks every connected session so the coordinator
// can route lobby and battle events to them. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session. A reconnect under the same ID replaces the
// old handle.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister drops a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks up a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count reports how many sessions are connected.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
