package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trade-journal/internal/domain"
	"trade-journal/internal/normalize"
	"trade-journal/internal/observability"
	"trade-journal/internal/storage"
)

// editState is the editor's transient state for the focused entry.
type editState struct {
	field   domain.ListField
	staging string
	pending Action
}

func (e editState) snapshot() EditorSnapshot {
	return EditorSnapshot{
		EditingField:        e.field,
		Staging:             e.staging,
		PendingConfirmation: e.pending,
	}
}

// Editor appends to the list fields of the focused entry and runs the two
// irreversible operations, delete and mark-saved, behind a confirmation step.
// Every operation is refused once the entry is saved.
type Editor struct {
	s *Session
}

// focusedLocked returns the focused entry or the error explaining its absence.
func (ed *Editor) focusedLocked() (*domain.Entry, error) {
	s := ed.s
	if s.user == nil {
		return nil, ErrNotSignedIn
	}
	if s.focused == nil {
		return nil, ErrNoFocus
	}
	return s.focused, nil
}

// BeginEdit opens field of the focused entry for appending.
func (ed *Editor) BeginEdit(field domain.ListField) error {
	if !field.IsValid() {
		return invalid("field", fmt.Sprintf("unknown list field %q", field))
	}

	ed.s.mu.Lock()
	defer ed.s.mu.Unlock()

	focused, err := ed.focusedLocked()
	if err != nil {
		return err
	}
	if focused.Saved {
		return locked("edit", focused.ID)
	}
	ed.s.edit.field = field
	ed.s.edit.staging = ""
	return nil
}

// SetStaging replaces the staging text of the open field.
func (ed *Editor) SetStaging(text string) error {
	ed.s.mu.Lock()
	defer ed.s.mu.Unlock()
	if ed.s.edit.field == "" {
		return ErrNotEditing
	}
	ed.s.edit.staging = text
	return nil
}

// Cancel closes the open field without changing anything.
func (ed *Editor) Cancel() {
	ed.s.mu.Lock()
	defer ed.s.mu.Unlock()
	ed.s.edit.field = ""
	ed.s.edit.staging = ""
}

// Commit appends text to the open field. The stored list is replaced by its
// canonical form plus text, so earlier items are never altered. On failure
// the field stays open for a retry.
func (ed *Editor) Commit(ctx context.Context, text string) error {
	s := ed.s

	s.mu.Lock()
	focused, err := ed.focusedLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	field := s.edit.field
	if field == "" {
		s.mu.Unlock()
		return ErrNotEditing
	}
	if focused.Saved {
		s.edit = editState{}
		s.mu.Unlock()
		return locked("edit", focused.ID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Unlock()
		return invalid("text", "text is empty")
	}
	id := focused.ID
	generation := s.generation
	updated := normalize.Append(focused.Lists[field], text)
	s.mu.Unlock()

	if err := s.entries.UpdateField(ctx, id, field, updated); err != nil {
		if errors.Is(err, storage.ErrLocked) {
			ed.markLocked(generation, id)
			return locked("edit", id)
		}
		s.logger.Printf("append to %s of %s: %v", field, id, err)
		return fmt.Errorf("update %s: %w", field, err)
	}
	observability.RecordFieldAppend(field.String())

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return nil
	}
	if current := s.currentLocked(id); current != nil {
		s.entryChangedLocked(current.WithList(field, updated))
	}
	if s.focused != nil && s.focused.ID == id && s.edit.field == field {
		s.edit.field = ""
		s.edit.staging = ""
	}
	s.mu.Unlock()

	// reconcile with whatever the store made of the value
	fresh, err := s.entries.GetByID(ctx, id)
	if err != nil {
		s.logger.Printf("refetch %s after update: %v", id, err)
		return nil
	}
	s.mu.Lock()
	if generation == s.generation {
		s.entryChangedLocked(fresh)
	}
	s.mu.Unlock()
	return nil
}

// RequestDelete asks for confirmation before deleting the focused entry.
func (ed *Editor) RequestDelete() error {
	return ed.request(ActionDelete)
}

// RequestMarkSaved asks for confirmation before locking the focused entry.
func (ed *Editor) RequestMarkSaved() error {
	return ed.request(ActionMarkSaved)
}

func (ed *Editor) request(action Action) error {
	ed.s.mu.Lock()
	defer ed.s.mu.Unlock()

	focused, err := ed.focusedLocked()
	if err != nil {
		return err
	}
	if focused.Saved {
		ed.s.edit.pending = ActionNone
		return locked(string(action), focused.ID)
	}
	ed.s.edit.pending = action
	return nil
}

// Dismiss withdraws a pending confirmation.
func (ed *Editor) Dismiss() {
	ed.s.mu.Lock()
	defer ed.s.mu.Unlock()
	ed.s.edit.pending = ActionNone
}

// Confirm acknowledges the pending action and executes it. A store failure
// keeps the action pending so it can be confirmed again.
func (ed *Editor) Confirm(ctx context.Context) error {
	s := ed.s

	s.mu.Lock()
	focused, err := ed.focusedLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	action := s.edit.pending
	if action == ActionNone {
		s.mu.Unlock()
		return ErrNoPendingConfirmation
	}
	if focused.Saved {
		s.edit.pending = ActionNone
		s.mu.Unlock()
		return locked(string(action), focused.ID)
	}
	id := focused.ID
	generation := s.generation
	s.mu.Unlock()

	switch action {
	case ActionDelete:
		return ed.delete(ctx, generation, id)
	case ActionMarkSaved:
		return ed.markSaved(ctx, generation, id)
	default:
		return fmt.Errorf("confirm: unknown action %q", action)
	}
}

func (ed *Editor) delete(ctx context.Context, generation uint64, id string) error {
	s := ed.s

	if err := s.entries.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrLocked) {
			ed.markLocked(generation, id)
			return locked(string(ActionDelete), id)
		}
		s.logger.Printf("delete entry %s: %v", id, err)
		return fmt.Errorf("delete entry: %w", err)
	}
	observability.RecordEntryDeleted()
	s.logger.Printf("deleted entry %s", id)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return nil
	}
	s.entryDeletedLocked(id)
	observability.RecordFocus("clear")
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Printf("reload after delete: %v", err)
	}
	return nil
}

func (ed *Editor) markSaved(ctx context.Context, generation uint64, id string) error {
	s := ed.s

	if err := s.entries.MarkSaved(ctx, id); err != nil {
		if errors.Is(err, storage.ErrLocked) {
			ed.markLocked(generation, id)
			return locked(string(ActionMarkSaved), id)
		}
		s.logger.Printf("mark entry %s saved: %v", id, err)
		return fmt.Errorf("mark saved: %w", err)
	}
	observability.RecordEntrySaved()
	s.logger.Printf("entry %s saved", id)

	ed.markLocked(generation, id)
	return nil
}

// markLocked records locally that id is saved and closes every editor
// operation on it.
func (ed *Editor) markLocked(generation uint64, id string) {
	s := ed.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return
	}
	current := s.currentLocked(id)
	if current == nil {
		return
	}
	saved := current.Clone()
	saved.Saved = true
	s.entryChangedLocked(saved)
	if s.focused != nil && s.focused.ID == id {
		s.edit = editState{}
	}
}

// currentLocked returns the freshest local copy of id: the focused entry,
// else the listed one.
func (s *Session) currentLocked(id string) *domain.Entry {
	if s.focused != nil && s.focused.ID == id {
		return s.focused
	}
	return s.findLocked(id)
}
