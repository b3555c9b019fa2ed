package journal

import (
	"context"

	"trade-journal/internal/identity"
)

// Bind follows p for the lifetime of ctx: a sign-in starts the session for
// the new user and a sign-out resets it. If a user is already signed in when
// Bind is called the session starts right away. Bind returns when ctx is done
// or the event stream closes.
func (s *Session) Bind(ctx context.Context, p identity.Provider) error {
	events := p.Subscribe(ctx)

	if u := p.CurrentUser(); u != nil {
		if err := s.Start(ctx, u); err != nil {
			s.logger.Printf("start session for %s: %v", u.ID, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.Reset()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				s.Reset()
				return ctx.Err()
			}
			switch ev.Kind {
			case identity.SignedIn:
				if ev.User == nil {
					continue
				}
				if err := s.Start(ctx, ev.User); err != nil {
					s.logger.Printf("start session for %s: %v", ev.User.ID, err)
				}
			case identity.SignedOut:
				s.Reset()
			}
		}
	}
}
