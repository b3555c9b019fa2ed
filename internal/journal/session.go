// Package journal is the entry synchronization and edit-state engine.
//
// A Session owns the selection state of one signed-in user: the selected
// date and its entries (the date/list machine) and the focused entry (the
// focus machine). The two machines move independently. Store calls are made
// without holding the session lock; each response is applied only if no
// newer request of the same concern was issued in the meantime, which gives
// last-request-wins without network cancellation.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"trade-journal/internal/domain"
	"trade-journal/internal/observability"
	"trade-journal/internal/storage"
)

// Options contains configuration for creating a Session.
type Options struct {
	Entries     storage.EntryStore
	Preferences storage.PreferenceStore
	Location    *time.Location   // defines "today"; default time.Local
	Clock       func() time.Time // default time.Now
	Logger      *log.Logger
}

// Session holds the selection, composer and editor state of one user.
type Session struct {
	entries storage.EntryStore
	prefs   storage.PreferenceStore
	loc     *time.Location
	now     func() time.Time
	logger  *log.Logger

	mu         sync.Mutex
	user       *domain.User
	generation uint64 // bumped by Start and Reset

	// date/list machine
	selectedDate domain.Date
	pendingDate  domain.Date
	listState    ListState
	listErr      error
	list         []*domain.Entry
	listToken    uint64

	// focus machine
	focusState FocusState
	focused    *domain.Entry
	focusToken uint64

	draft draft
	edit  editState

	composer *Composer
	editor   *Editor
}

// NewSession creates a signed-out session.
func NewSession(opts Options) *Session {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		entries:    opts.Entries,
		prefs:      opts.Preferences,
		loc:        loc,
		now:        now,
		logger:     logger,
		listState:  ListIdle,
		focusState: FocusIdle,
		draft:      newDraft(),
	}
	s.composer = &Composer{s: s}
	s.editor = &Editor{s: s}
	return s
}

// Composer returns the session's draft composer.
func (s *Session) Composer() *Composer { return s.composer }

// Editor returns the session's field editor.
func (s *Session) Editor() *Editor { return s.editor }

// Today returns the local date in the session's location.
func (s *Session) Today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

// Start signs u in: all previous state is dropped, the user row is ensured,
// today's entries are loaded and the last focused entry is restored.
// Only a failure to load today's entries is returned.
func (s *Session) Start(ctx context.Context, u *domain.User) error {
	if u == nil || u.ID == "" {
		return invalid("user", "missing user id")
	}

	s.mu.Lock()
	wasSignedIn := s.user != nil
	s.resetLocked()
	user := *u
	s.user = &user
	s.mu.Unlock()

	if !wasSignedIn {
		observability.SessionStarted()
	}
	s.logger.Printf("session started for user %s", u.ID)

	if err := s.prefs.EnsureUser(ctx, u); err != nil {
		s.logger.Printf("ensure user %s: %v", u.ID, err)
	}

	var wg sync.WaitGroup
	var listErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		listErr = s.SetDate(ctx, s.Today())
	}()
	s.restoreFocus(ctx, u.ID)
	wg.Wait()

	return listErr
}

// Reset signs the user out and clears all selection, composer and editor
// state. Responses still in flight are discarded when they arrive.
func (s *Session) Reset() {
	s.mu.Lock()
	wasSignedIn := s.user != nil
	s.resetLocked()
	s.mu.Unlock()

	if wasSignedIn {
		observability.SessionEnded()
		s.logger.Println("session reset")
	}
}

func (s *Session) resetLocked() {
	s.user = nil
	s.generation++
	s.selectedDate = domain.Date{}
	s.pendingDate = domain.Date{}
	s.listState = ListIdle
	s.listErr = nil
	s.list = nil
	s.listToken++
	s.focusState = FocusIdle
	s.focused = nil
	s.focusToken++
	s.draft = newDraft()
	s.edit = editState{}
}

// User returns the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetDate selects date and reloads its entries. If another SetDate starts
// before this one's response arrives, this response is dropped and the call
// returns nil. On failure the previous date and entries stay in place.
func (s *Session) SetDate(ctx context.Context, date domain.Date) error {
	if date.IsZero() {
		return invalid("date", "empty date")
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	s.listToken++
	token := s.listToken
	s.pendingDate = date
	s.listState = ListLoading
	s.mu.Unlock()

	entries, err := s.entries.ListByDate(ctx, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.listToken {
		observability.RecordDateLoad("stale")
		return nil
	}

	s.pendingDate = domain.Date{}
	if err != nil {
		observability.RecordDateLoad("error")
		s.listErr = err
		if s.selectedDate.IsZero() {
			s.listState = ListIdle
		} else {
			s.listState = ListReady
		}
		s.logger.Printf("load entries for %s: %v", date, err)
		return fmt.Errorf("load entries for %s: %w", date, err)
	}

	observability.RecordDateLoad("applied")
	s.selectedDate = date
	s.list = entries
	s.listErr = nil
	s.listState = ListReady
	s.dropVanishedFocusLocked()
	return nil
}

// Refresh reloads the entries of the selected date.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	date := s.selectedDate
	if !s.pendingDate.IsZero() {
		date = s.pendingDate
	}
	s.mu.Unlock()

	if date.IsZero() {
		date = s.Today()
	}
	return s.SetDate(ctx, date)
}

// dropVanishedFocusLocked clears the focus when the focused entry belongs to
// the freshly loaded date but is no longer part of it.
func (s *Session) dropVanishedFocusLocked() {
	if s.focused == nil || s.focused.CreatedAt != s.selectedDate {
		return
	}
	for _, e := range s.list {
		if e.ID == s.focused.ID {
			s.focused = e.Clone()
			return
		}
	}
	s.logger.Printf("focused entry %s no longer listed, clearing focus", s.focused.ID)
	s.clearFocusLocked()
	observability.RecordFocus("clear")
}

// Focus brings entry id under detailed view and records it as the user's
// last selection. The preference write is best-effort: its failure is logged
// and the focus stays.
func (s *Session) Focus(ctx context.Context, id string) error {
	if id == "" {
		return invalid("id", "empty entry id")
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	userID := s.user.ID
	s.focusToken++
	token := s.focusToken
	s.focusState = FocusLoading
	var entry *domain.Entry
	if listed := s.findLocked(id); listed != nil {
		entry = listed.Clone()
	}
	s.mu.Unlock()

	if entry == nil {
		fetched, err := s.entries.GetByID(ctx, id)
		if err != nil {
			s.mu.Lock()
			if token == s.focusToken {
				s.focusState = s.settledFocusStateLocked()
			}
			s.mu.Unlock()
			if !errors.Is(err, storage.ErrNotFound) {
				s.logger.Printf("focus entry %s: %v", id, err)
			}
			return fmt.Errorf("focus entry %s: %w", id, err)
		}
		entry = fetched
	}

	s.mu.Lock()
	if token != s.focusToken {
		s.mu.Unlock()
		return nil
	}
	s.applyFocusLocked(entry)
	s.mu.Unlock()
	observability.RecordFocus("select")

	s.rememberSelection(ctx, userID, entry.ID)
	return nil
}

// ClearFocus drops the focused entry without touching preferences.
func (s *Session) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusToken++
	s.clearFocusLocked()
}

// restoreFocus looks up the user's last selection and focuses it unless an
// explicit focus happened meanwhile. Missing ids and failures leave the
// focus machine idle.
func (s *Session) restoreFocus(ctx context.Context, userID string) {
	s.mu.Lock()
	token := s.focusToken
	s.mu.Unlock()

	id, ok, err := s.prefs.GetLastSelectedID(ctx, userID)
	if err != nil {
		s.logger.Printf("read last selection for %s: %v", userID, err)
		return
	}
	if !ok {
		return
	}

	s.mu.Lock()
	if token != s.focusToken {
		s.mu.Unlock()
		return
	}
	s.focusState = FocusLoading
	s.mu.Unlock()

	entry, err := s.entries.GetByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.focusToken {
		return
	}
	if err != nil {
		s.focusState = FocusIdle
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("restore focus %s: %v", id, err)
		}
		return
	}
	s.applyFocusLocked(entry)
	observability.RecordFocus("restore")
}

// rememberSelection writes lastSelectedPairId. Failures are logged only.
func (s *Session) rememberSelection(ctx context.Context, userID, entryID string) {
	if err := s.prefs.SetLastSelectedID(ctx, userID, entryID); err != nil {
		observability.RecordPreferenceWriteFailure()
		s.logger.Printf("remember selection %s for %s: %v", entryID, userID, err)
	}
}

// applyFocusLocked makes e the focused entry. Any open edit or pending
// confirmation belonged to the previous focus and is dropped.
func (s *Session) applyFocusLocked(e *domain.Entry) {
	s.focused = e.Clone()
	s.focusState = FocusReady
	s.edit = editState{}
	s.patchListLocked(e)
}

func (s *Session) clearFocusLocked() {
	s.focused = nil
	s.focusState = FocusIdle
	s.edit = editState{}
}

func (s *Session) settledFocusStateLocked() FocusState {
	if s.focused != nil {
		return FocusReady
	}
	return FocusIdle
}

// patchListLocked replaces the listed copy of e, or appends e when it
// belongs to the selected date and is not listed yet.
func (s *Session) patchListLocked(e *domain.Entry) {
	if s.listState != ListReady || e.CreatedAt != s.selectedDate {
		return
	}
	for i, listed := range s.list {
		if listed.ID == e.ID {
			s.list[i] = e.Clone()
			return
		}
	}
	s.list = append(s.list, e.Clone())
}

func (s *Session) removeFromListLocked(id string) {
	for i, listed := range s.list {
		if listed.ID == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *Session) findLocked(id string) *domain.Entry {
	for _, e := range s.list {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// entryCreated focuses a freshly inserted entry, records it as the last
// selection and reloads the list when the entry belongs to the selected date.
func (s *Session) entryCreated(ctx context.Context, generation uint64, e *domain.Entry) {
	s.mu.Lock()
	if generation != s.generation || s.user == nil {
		s.mu.Unlock()
		return
	}
	userID := s.user.ID
	s.focusToken++
	s.applyFocusLocked(e)
	reload := e.CreatedAt == s.selectedDate
	s.mu.Unlock()
	observability.RecordFocus("create")

	s.rememberSelection(ctx, userID, e.ID)

	if reload {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Printf("reload after create: %v", err)
		}
	}
}

// entryChangedLocked replaces the focused entry and its listed copy with e.
func (s *Session) entryChangedLocked(e *domain.Entry) {
	if s.focused != nil && s.focused.ID == e.ID {
		s.focused = e.Clone()
	}
	s.patchListLocked(e)
}

// entryDeletedLocked clears the focus on id and drops it from the list.
func (s *Session) entryDeletedLocked(id string) {
	if s.focused != nil && s.focused.ID == id {
		s.focusToken++
		s.clearFocusLocked()
	}
	s.removeFromListLocked(id)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SelectedDate: s.selectedDate,
		PendingDate:  s.pendingDate,
		ListState:    s.listState,
		Entries:      make([]*domain.Entry, 0, len(s.list)),
		FocusState:   s.focusState,
		Composer:     s.draft.snapshot(),
		Editor:       s.edit.snapshot(),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.listErr != nil {
		snap.ListError = s.listErr.Error()
	}
	for _, e := range s.list {
		snap.Entries = append(snap.Entries, e.Clone())
	}
	snap.EntryCount = len(snap.Entries)
	if s.focused != nil {
		snap.FocusedEntryID = s.focused.ID
		snap.FocusedEntry = s.focused.Clone()
		snap.Editor.Locked = s.focused.Saved
	}
	return snap
}
