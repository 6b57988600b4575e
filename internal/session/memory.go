package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in an in-process map. Process restart clears
// all sessions; durability is an explicit non-goal.
type MemoryStore struct {
	mu       sync.Mutex
	clock    Clock
	prompt   PromptProvider
	sessions map[string]*Session
}

// NewMemoryStore creates an in-memory store seeding new sessions from prompt.
func NewMemoryStore(clock Clock, prompt PromptProvider) *MemoryStore {
	if clock == nil {
		clock = SystemClock()
	}
	if prompt == nil {
		panic("session: prompt provider cannot be nil")
	}
	return &MemoryStore{
		clock:    clock,
		prompt:   prompt,
		sessions: make(map[string]*Session),
	}
}

var _ Store = (*MemoryStore)(nil)

// Get returns the live session history or nil after TTL expiry.
func (s *MemoryStore) Get(_ context.Context, id string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil, nil
	}
	return copyTurns(sess.Turns), nil
}

// Upsert appends turn, creating a fresh session when absent or expired.
func (s *MemoryStore) Upsert(_ context.Context, id string, turn Turn) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	sess := s.live(id)
	if sess == nil {
		sess = &Session{
			Turns: []Turn{{Role: RoleSystem, Content: s.prompt()}},
		}
		s.sessions[id] = sess
	}
	sess.Turns = append(sess.Turns, turn)
	sess.LastActivity = now
	return copyTurns(sess.Turns), nil
}

// AppendReply appends an assistant turn; no-op when the session is gone.
func (s *MemoryStore) AppendReply(_ context.Context, id string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil
	}
	sess.Turns = append(sess.Turns, turn)
	sess.LastActivity = s.clock.Now()
	return nil
}

// live returns the session if present and unexpired, evicting it otherwise.
// Callers must hold s.mu.
func (s *MemoryStore) live(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.clock.Now().Sub(sess.LastActivity) > TTL {
		delete(s.sessions, id)
		return nil
	}
	return sess
}
