package journal

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
	"trade-journal/internal/storage/memory"
)

var (
	day1 = domain.MustParseDate("2024-03-01")
	day2 = domain.MustParseDate("2024-03-02")
)

type updateCall struct {
	id    string
	field domain.ListField
	list  []string
}

// entryStore wraps the in-memory store, records mutations and can fail or
// block individual operations.
type entryStore struct {
	*memory.EntryStore

	mu       sync.Mutex
	inserts  []*domain.NewEntryPayload
	updates  []updateCall
	deletes  []string
	saves    []string
	gets     int
	listGate map[domain.Date]chan struct{}

	failList   error
	failGet    error
	failInsert error
	failUpdate error
	failDelete error
	failSave   error
}

func newEntryStore() *entryStore {
	return &entryStore{
		EntryStore: memory.NewEntryStore(),
		listGate:   make(map[domain.Date]chan struct{}),
	}
}

// block makes ListByDate(date) wait until the returned func is called.
func (s *entryStore) block(date domain.Date) func() {
	ch := make(chan struct{})
	s.mu.Lock()
	s.listGate[date] = ch
	s.mu.Unlock()
	return func() { close(ch) }
}

func (s *entryStore) setErr(target *error, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*target = err
}

func (s *entryStore) ListByDate(ctx context.Context, date domain.Date) ([]*domain.Entry, error) {
	s.mu.Lock()
	gate := s.listGate[date]
	err := s.failList
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, storage.NewRepositoryError(storage.TableTrades, "list", err)
	}
	return s.EntryStore.ListByDate(ctx, date)
}

func (s *entryStore) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	s.mu.Lock()
	s.gets++
	err := s.failGet
	s.mu.Unlock()
	if err != nil {
		return nil, storage.NewRepositoryError(storage.TableTrades, "get", err)
	}
	return s.EntryStore.GetByID(ctx, id)
}

func (s *entryStore) Insert(ctx context.Context, p *domain.NewEntryPayload) (*domain.Entry, error) {
	s.mu.Lock()
	s.inserts = append(s.inserts, p)
	err := s.failInsert
	s.mu.Unlock()
	if err != nil {
		return nil, storage.NewRepositoryError(storage.TableTrades, "insert", err)
	}
	return s.EntryStore.Insert(ctx, p)
}

func (s *entryStore) UpdateField(ctx context.Context, id string, field domain.ListField, list []string) error {
	s.mu.Lock()
	s.updates = append(s.updates, updateCall{id: id, field: field, list: append([]string(nil), list...)})
	err := s.failUpdate
	s.mu.Unlock()
	if err != nil {
		return storage.NewRepositoryError(storage.TableTrades, "update", err)
	}
	return s.EntryStore.UpdateField(ctx, id, field, list)
}

func (s *entryStore) MarkSaved(ctx context.Context, id string) error {
	s.mu.Lock()
	s.saves = append(s.saves, id)
	err := s.failSave
	s.mu.Unlock()
	if err != nil {
		return storage.NewRepositoryError(storage.TableTrades, "mark_saved", err)
	}
	return s.EntryStore.MarkSaved(ctx, id)
}

func (s *entryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, id)
	err := s.failDelete
	s.mu.Unlock()
	if err != nil {
		return storage.NewRepositoryError(storage.TableTrades, "delete", err)
	}
	return s.EntryStore.Delete(ctx, id)
}

func (s *entryStore) deleteCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// prefStore wraps the in-memory store and records last-selection writes.
type prefStore struct {
	*memory.PreferenceStore

	mu      sync.Mutex
	writes  []string
	failSet error
}

func newPrefStore() *prefStore {
	return &prefStore{PreferenceStore: memory.NewPreferenceStore()}
}

func (s *prefStore) SetLastSelectedID(ctx context.Context, userID, entryID string) error {
	s.mu.Lock()
	s.writes = append(s.writes, entryID)
	err := s.failSet
	s.mu.Unlock()
	if err != nil {
		return storage.NewRepositoryError(storage.TableUsers, "set_last_selected", err)
	}
	return s.PreferenceStore.SetLastSelectedID(ctx, userID, entryID)
}

func (s *prefStore) selectionWrites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

var testUser = &domain.User{ID: "user-1", DisplayName: "Trader"}

type fixture struct {
	entries *entryStore
	prefs   *prefStore
	session *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{entries: newEntryStore(), prefs: newPrefStore()}
	f.session = NewSession(Options{
		Entries:     f.entries,
		Preferences: f.prefs,
		Location:    time.UTC,
		Clock:       func() time.Time { return time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC) },
		Logger:      log.New(io.Discard, "", 0),
	})
	return f
}

// seed stores an entry with raw list values.
func (f *fixture) seed(t *testing.T, id string, date domain.Date, saved bool, lists map[domain.ListField]any) *domain.Entry {
	t.Helper()
	e := &domain.Entry{ID: id, Symbol: domain.SymbolEURUSD, CreatedAt: date, Saved: saved, Lists: lists}
	if e.Lists == nil {
		e.Lists = map[domain.ListField]any{}
	}
	if err := f.entries.Seed(e); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	return e
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	if err := f.session.Start(context.Background(), testUser); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func entryIDs(entries []*domain.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
