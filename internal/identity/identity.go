// Package identity defines the identity collaborator: who is signed in and
// when that changes.
package identity

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
)

// EventKind is the kind of identity transition.
type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

// Event is one sign-in or sign-out transition. User is nil for SignedOut.
type Event struct {
	Kind EventKind
	User *domain.User
}

// Provider exposes the current user and a stream of transitions.
type Provider interface {
	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *domain.User

	// Subscribe returns a channel receiving every transition after the call.
	// The channel is closed when ctx is done.
	Subscribe(ctx context.Context) <-chan Event
}

// Static is a Provider driven by explicit SignIn and SignOut calls. It backs
// the single configured user of the CLI and server, and tests.
type Static struct {
	mu   sync.Mutex
	user *domain.User
	subs map[*subscriber]struct{}
}

var _ Provider = (*Static)(nil)

type subscriber struct {
	ctx    context.Context
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

// NewStatic creates a provider with u signed in, or nobody if u is nil.
func NewStatic(u *domain.User) *Static {
	p := &Static{subs: make(map[*subscriber]struct{})}
	if u != nil {
		c := *u
		p.user = &c
	}
	return p
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (p *Static) CurrentUser() *domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// Subscribe registers a listener until ctx is done.
func (p *Static) Subscribe(ctx context.Context) <-chan Event {
	sub := &subscriber{ctx: ctx, ch: make(chan Event, 4)}

	p.mu.Lock()
	p.subs[sub] = struct{}{}
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.subs, sub)
		p.mu.Unlock()

		sub.mu.Lock()
		sub.closed = true
		close(sub.ch)
		sub.mu.Unlock()
	}()

	return sub.ch
}

// SignIn makes u the current user and notifies subscribers.
func (p *Static) SignIn(u *domain.User) {
	c := *u
	p.mu.Lock()
	p.user = &c
	p.mu.Unlock()

	ev := c
	p.publish(Event{Kind: SignedIn, User: &ev})
}

// SignOut clears the current user and notifies subscribers. Signing out
// while nobody is signed in does nothing.
func (p *Static) SignOut() {
	p.mu.Lock()
	if p.user == nil {
		p.mu.Unlock()
		return
	}
	p.user = nil
	p.mu.Unlock()

	p.publish(Event{Kind: SignedOut})
}

// publish delivers ev to every subscriber in order, blocking on slow
// readers until they read or unsubscribe.
func (p *Static) publish(ev Event) {
	p.mu.Lock()
	subs := make([]*subscriber, 0, len(p.subs))
	for s := range p.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, s := range subs {
		s.mu.Lock()
		if !s.closed {
			select {
			case s.ch <- ev:
			case <-s.ctx.Done():
			}
		}
		s.mu.Unlock()
	}
}
