package postgres

import (
	"context"
	"time"

	"trade-journal/internal/domain"
	"trade-journal/internal/observability"
	"trade-journal/internal/storage"
)

// PreferenceStore implements storage.PreferenceStore using PostgreSQL.
// Preference writes go through jsonb_set so each call only touches its own
// key and concurrent writers of other keys are preserved.
type PreferenceStore struct {
	pool *Pool
}

// NewPreferenceStore creates a new PreferenceStore.
func NewPreferenceStore(pool *Pool) *PreferenceStore {
	return &PreferenceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PreferenceStore = (*PreferenceStore)(nil)

// EnsureUser creates the users row or refreshes name and avatar.
func (s *PreferenceStore) EnsureUser(ctx context.Context, u *domain.User) (err error) {
	if u == nil || u.ID == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() { observability.RecordDBQuery(storage.TableUsers, "ensure_user", start, err) }()

	query := `
		INSERT INTO users (user_id, name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url
	`

	if _, err = s.pool.Exec(ctx, query, u.ID, u.DisplayName, u.PhotoURL); err != nil {
		return storage.NewRepositoryError(storage.TableUsers, "ensure_user", err)
	}
	return nil
}

// GetPreferences returns the preference blob. Unknown users get empty preferences.
func (s *PreferenceStore) GetPreferences(ctx context.Context, userID string) (prefs *domain.Preferences, err error) {
	start := time.Now()
	defer func() { observability.RecordDBQuery(storage.TableUsers, "get_preferences", start, err) }()

	query := `SELECT COALESCE(preferences, '{}'::jsonb) FROM users WHERE user_id = $1`

	var p domain.Preferences
	if err = s.pool.QueryRow(ctx, query, userID).Scan(&p); err != nil {
		if isNotFoundError(err) {
			return &domain.Preferences{}, nil
		}
		return nil, storage.NewRepositoryError(storage.TableUsers, "get_preferences", err)
	}
	return &p, nil
}

// GetLastSelectedID reads preferences->>'lastSelectedPairId'.
func (s *PreferenceStore) GetLastSelectedID(ctx context.Context, userID string) (id string, ok bool, err error) {
	start := time.Now()
	defer func() { observability.RecordDBQuery(storage.TableUsers, "get_last_selected", start, err) }()

	query := `SELECT preferences ->> $2 FROM users WHERE user_id = $1`

	var value *string
	if err = s.pool.QueryRow(ctx, query, userID, domain.PrefLastSelectedPairID).Scan(&value); err != nil {
		if isNotFoundError(err) {
			return "", false, nil
		}
		return "", false, storage.NewRepositoryError(storage.TableUsers, "get_last_selected", err)
	}
	if value == nil || *value == "" {
		return "", false, nil
	}
	return *value, true, nil
}

// SetLastSelectedID merges lastSelectedPairId into the preferences blob.
func (s *PreferenceStore) SetLastSelectedID(ctx context.Context, userID, entryID string) error {
	return s.merge(ctx, "set_last_selected", userID, domain.PrefLastSelectedPairID, entryID)
}

// SetTheme merges theme into the preferences blob.
func (s *PreferenceStore) SetTheme(ctx context.Context, userID, theme string) error {
	return s.merge(ctx, "set_theme", userID, domain.PrefTheme, theme)
}

// merge upserts one key of the preferences object, leaving all other keys as
// they are in the row at write time.
func (s *PreferenceStore) merge(ctx context.Context, op, userID, key, value string) (err error) {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() { observability.RecordDBQuery(storage.TableUsers, op, start, err) }()

	query := `
		INSERT INTO users (user_id, preferences)
		VALUES ($1, jsonb_build_object($2::text, $3::text))
		ON CONFLICT (user_id) DO UPDATE
		SET preferences = jsonb_set(
			COALESCE(users.preferences, '{}'::jsonb),
			ARRAY[$2::text],
			to_jsonb($3::text),
			true
		)
	`

	if _, err = s.pool.Exec(ctx, query, userID, key, value); err != nil {
		return storage.NewRepositoryError(storage.TableUsers, op, err)
	}
	return nil
}
