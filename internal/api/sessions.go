package api

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/journal"
)

// Sessions holds one journal session per signed-in user, plus an optional
// default session used by requests that carry no user header.
type Sessions struct {
	mu       sync.Mutex
	byUser   map[string]*journal.Session
	factory  func() *journal.Session
	fallback *journal.Session
}

// NewSessions creates an empty registry. factory builds a signed-out session.
func NewSessions(factory func() *journal.Session) *Sessions {
	return &Sessions{
		byUser:  make(map[string]*journal.Session),
		factory: factory,
	}
}

// SetDefault installs the session served to requests without a user header.
func (r *Sessions) SetDefault(s *journal.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = s
}

// Default returns the default session, or nil.
func (r *Sessions) Default() *journal.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallback
}

// Get returns the session of userID.
func (r *Sessions) Get(userID string) (*journal.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[userID]
	return s, ok
}

// SignIn starts (or restarts) the session of u.
func (r *Sessions) SignIn(ctx context.Context, u *domain.User) (*journal.Session, error) {
	r.mu.Lock()
	s, ok := r.byUser[u.ID]
	if !ok {
		s = r.factory()
		r.byUser[u.ID] = s
	}
	r.mu.Unlock()

	return s, s.Start(ctx, u)
}

// SignOut resets and forgets the session of userID.
func (r *Sessions) SignOut(userID string) bool {
	r.mu.Lock()
	s, ok := r.byUser[userID]
	delete(r.byUser, userID)
	r.mu.Unlock()

	if ok {
		s.Reset()
	}
	return ok
}

// Len returns the number of signed-in users, excluding the default session.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
