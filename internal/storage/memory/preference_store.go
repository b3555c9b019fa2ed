package memory

import (
	"context"
	"sync"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

type userRow struct {
	user  domain.User
	prefs map[string]string
}

// PreferenceStore is an in-memory implementation of storage.PreferenceStore.
type PreferenceStore struct {
	mu    sync.RWMutex
	users map[string]*userRow // keyed by user_id
}

// NewPreferenceStore creates a new in-memory preference store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		users: make(map[string]*userRow),
	}
}

// EnsureUser creates or refreshes the user row.
func (s *PreferenceStore) EnsureUser(_ context.Context, u *domain.User) error {
	if u == nil || u.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.users[u.ID]
	if !exists {
		row = &userRow{prefs: make(map[string]string)}
		s.users[u.ID] = row
	}
	row.user = *u
	return nil
}

// GetPreferences returns the preference blob, empty when the user is unknown.
func (s *PreferenceStore) GetPreferences(_ context.Context, userID string) (*domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, exists := s.users[userID]
	if !exists {
		return &domain.Preferences{}, nil
	}
	return &domain.Preferences{
		Theme:              row.prefs[domain.PrefTheme],
		LastSelectedPairID: row.prefs[domain.PrefLastSelectedPairID],
	}, nil
}

// GetLastSelectedID returns the last focused entry id.
func (s *PreferenceStore) GetLastSelectedID(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, exists := s.users[userID]
	if !exists {
		return "", false, nil
	}
	id, ok := row.prefs[domain.PrefLastSelectedPairID]
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// SetLastSelectedID merges lastSelectedPairId into the user's preferences.
func (s *PreferenceStore) SetLastSelectedID(_ context.Context, userID, entryID string) error {
	return s.merge(userID, domain.PrefLastSelectedPairID, entryID)
}

// SetTheme merges theme into the user's preferences.
func (s *PreferenceStore) SetTheme(_ context.Context, userID, theme string) error {
	return s.merge(userID, domain.PrefTheme, theme)
}

func (s *PreferenceStore) merge(userID, key, value string) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.users[userID]
	if !exists {
		row = &userRow{user: domain.User{ID: userID}, prefs: make(map[string]string)}
		s.users[userID] = row
	}
	row.prefs[key] = value
	return nil
}

var _ storage.PreferenceStore = (*PreferenceStore)(nil)
