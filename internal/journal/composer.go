package journal

import (
	"context"
	"fmt"
	"strings"

	"trade-journal/internal/domain"
	"trade-journal/internal/observability"
)

// draft is the composer's in-progress new entry.
type draft struct {
	symbol  domain.Symbol
	lists   map[domain.ListField][]string
	staging map[domain.ListField]string
}

func newDraft() draft {
	d := draft{
		lists:   make(map[domain.ListField][]string, len(domain.ListFields)),
		staging: make(map[domain.ListField]string, len(domain.ListFields)),
	}
	for _, f := range domain.ListFields {
		d.lists[f] = []string{}
	}
	return d
}

func (d draft) snapshot() ComposerSnapshot {
	snap := ComposerSnapshot{
		Symbol:  d.symbol,
		Lists:   make(map[domain.ListField][]string, len(d.lists)),
		Staging: make(map[domain.ListField]string, len(d.staging)),
	}
	for f, l := range d.lists {
		snap.Lists[f] = append([]string{}, l...)
	}
	for f, t := range d.staging {
		snap.Staging[f] = t
	}
	return snap
}

func (d draft) payload(createdAt domain.Date) *domain.NewEntryPayload {
	p := domain.NewPayload(d.symbol, createdAt)
	for f, l := range d.lists {
		p.Lists[f] = append([]string{}, l...)
	}
	return p
}

// Composer builds a new entry: one symbol and seven pending lists, each with
// a staging text awaiting append.
type Composer struct {
	s *Session
}

// SetSymbol sets the draft symbol. Unknown symbols are accepted here and
// rejected on Submit.
func (c *Composer) SetSymbol(sym domain.Symbol) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.draft.symbol = domain.Symbol(strings.TrimSpace(string(sym)))
}

// SetStaging replaces the staging text of field.
func (c *Composer) SetStaging(field domain.ListField, text string) error {
	if !field.IsValid() {
		return invalid("field", fmt.Sprintf("unknown list field %q", field))
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.draft.staging[field] = text
	return nil
}

// AddItem appends trimmed text to the pending list of field and clears its
// staging text. Blank text is rejected and leaves the draft untouched.
func (c *Composer) AddItem(field domain.ListField, text string) error {
	if !field.IsValid() {
		return invalid("field", fmt.Sprintf("unknown list field %q", field))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return invalid("text", "text is empty")
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.draft.lists[field] = append(c.s.draft.lists[field], text)
	c.s.draft.staging[field] = ""
	return nil
}

// AddStaged appends the staging text of field, as if the user pressed Add.
func (c *Composer) AddStaged(field domain.ListField) error {
	c.s.mu.Lock()
	text := c.s.draft.staging[field]
	c.s.mu.Unlock()
	return c.AddItem(field, text)
}

// RemoveItem removes the item at index from the pending list of field.
func (c *Composer) RemoveItem(field domain.ListField, index int) error {
	if !field.IsValid() {
		return invalid("field", fmt.Sprintf("unknown list field %q", field))
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	list := c.s.draft.lists[field]
	if index < 0 || index >= len(list) {
		return invalid("index", fmt.Sprintf("index %d out of range for %s", index, field))
	}
	c.s.draft.lists[field] = append(list[:index:index], list[index+1:]...)
	return nil
}

// Reset discards the draft.
func (c *Composer) Reset() {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.draft = newDraft()
}

// Submit inserts the draft as a new entry dated today. On success the new
// entry is focused and the draft is cleared; on failure the draft is kept so
// the user can retry.
func (c *Composer) Submit(ctx context.Context) (*domain.Entry, error) {
	s := c.s

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, ErrNotSignedIn
	}
	sym := s.draft.symbol
	if sym == "" {
		s.mu.Unlock()
		return nil, invalid("symbol", "symbol is required")
	}
	if !sym.IsValid() {
		s.mu.Unlock()
		return nil, invalid("symbol", fmt.Sprintf("unknown symbol %q", sym))
	}
	generation := s.generation
	payload := s.draft.payload(s.Today())
	s.mu.Unlock()

	entry, err := s.entries.Insert(ctx, payload)
	if err != nil {
		s.logger.Printf("insert %s entry: %v", sym, err)
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	observability.RecordEntryCreated()
	s.logger.Printf("created entry %s (%s, %s)", entry.ID, entry.Symbol, entry.CreatedAt)

	s.mu.Lock()
	if generation == s.generation {
		s.draft = newDraft()
	}
	s.mu.Unlock()

	s.entryCreated(ctx, generation, entry)
	return entry.Clone(), nil
}
