package storage

import (
	"context"

	"trade-journal/internal/domain"
)

// EntryStore provides access to the trades table. Every call is a single
// round trip with no client-side caching.
type EntryStore interface {
	// ListByDate retrieves all entries whose created_at equals date, in
	// insertion order. No match yields an empty slice.
	ListByDate(ctx context.Context, date domain.Date) ([]*domain.Entry, error)

	// GetByID retrieves an entry by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Entry, error)

	// Insert stores a new unsaved entry and returns it with its assigned ID.
	Insert(ctx context.Context, p *domain.NewEntryPayload) (*domain.Entry, error)

	// UpdateField replaces one list field with list.
	// Returns ErrNotFound or ErrLocked.
	UpdateField(ctx context.Context, id string, field domain.ListField, list []string) error

	// MarkSaved sets saved = true. Returns ErrNotFound or ErrLocked.
	MarkSaved(ctx context.Context, id string) error

	// Delete removes an unsaved entry. Returns ErrNotFound or ErrLocked.
	Delete(ctx context.Context, id string) error
}

// PreferenceStore provides access to the users table and its preferences blob.
type PreferenceStore interface {
	// EnsureUser creates the users row for u if it does not exist yet and
	// refreshes name and avatar otherwise. Preferences are left untouched.
	EnsureUser(ctx context.Context, u *domain.User) error

	// GetPreferences returns the preference blob. A missing user row yields
	// empty preferences, not an error.
	GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error)

	// GetLastSelectedID returns the last focused entry id. ok is false when
	// the user row or the key is absent.
	GetLastSelectedID(ctx context.Context, userID string) (id string, ok bool, err error)

	// SetLastSelectedID merges lastSelectedPairId into the preferences blob,
	// preserving every other key.
	SetLastSelectedID(ctx context.Context, userID, entryID string) error

	// SetTheme merges theme into the preferences blob.
	SetTheme(ctx context.Context, userID, theme string) error
}
