package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage"
)

// EntryStore is an in-memory implementation of storage.EntryStore.
type EntryStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.Entry // keyed by id
	order []string                 // insertion order
}

// NewEntryStore creates a new in-memory entry store.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		data: make(map[string]*domain.Entry),
	}
}

// Seed stores e as-is, keeping whatever raw list representation it carries.
// Used to reproduce rows written by other clients.
func (s *EntryStore) Seed(e *domain.Entry) error {
	if e == nil || e.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.ID]; !exists {
		s.order = append(s.order, e.ID)
	}
	s.data[e.ID] = e.Clone()
	return nil
}

// ListByDate retrieves all entries for date in insertion order.
func (s *EntryStore) ListByDate(_ context.Context, date domain.Date) ([]*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Entry, 0)
	for _, id := range s.order {
		e := s.data[id]
		if e.CreatedAt == date {
			result = append(result, e.Clone())
		}
	}
	return result, nil
}

// GetByID retrieves an entry by its ID. Returns ErrNotFound if not exists.
func (s *EntryStore) GetByID(_ context.Context, id string) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return e.Clone(), nil
}

// Insert stores a new unsaved entry under a fresh UUID.
func (s *EntryStore) Insert(_ context.Context, p *domain.NewEntryPayload) (*domain.Entry, error) {
	if p == nil || p.Symbol == "" || p.CreatedAt.IsZero() {
		return nil, storage.ErrInvalidInput
	}

	e := p.ToEntry(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[e.ID] = e
	s.order = append(s.order, e.ID)
	return e.Clone(), nil
}

// UpdateField replaces one list field.
func (s *EntryStore) UpdateField(_ context.Context, id string, field domain.ListField, list []string) error {
	if !field.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.mutable(id)
	if err != nil {
		return err
	}
	s.data[id] = e.WithList(field, list)
	return nil
}

// MarkSaved sets the saved flag.
func (s *EntryStore) MarkSaved(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.mutable(id)
	if err != nil {
		return err
	}
	e.Saved = true
	return nil
}

// Delete removes an unsaved entry.
func (s *EntryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.mutable(id); err != nil {
		return err
	}
	delete(s.data, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// mutable returns the stored entry if it exists and is not saved.
// Caller must hold s.mu.
func (s *EntryStore) mutable(id string) (*domain.Entry, error) {
	e, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	if e.Saved {
		return nil, storage.ErrLocked
	}
	return e, nil
}

var _ storage.EntryStore = (*EntryStore)(nil)
