package domain

import (
	"encoding/json"

	"trade-journal/internal/normalize"
)

// Entry is one journaled trade for a symbol on a given date.
// Corresponds to the trades table.
type Entry struct {
	ID        string // server-assigned on insert
	Symbol    Symbol
	CreatedAt Date // local date of creation, grouping key
	Saved     bool // terminal lock, irreversible

	// Lists holds each list field exactly as the store returned it:
	// a []string, a []any, a JSON-encoded string, a scalar, or nil.
	// Read through List to get the canonical form.
	Lists map[ListField]any
}

// List returns the canonical ordered form of field f.
func (e *Entry) List(f ListField) []string {
	if e == nil || e.Lists == nil {
		return []string{}
	}
	return normalize.List(e.Lists[f])
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Lists = make(map[ListField]any, len(e.Lists))
	for f, v := range e.Lists {
		c.Lists[f] = cloneRaw(v)
	}
	return &c
}

// WithList returns a copy of e whose field f holds list.
func (e *Entry) WithList(f ListField, list []string) *Entry {
	c := e.Clone()
	c.Lists[f] = append([]string(nil), list...)
	return c
}

func cloneRaw(v any) any {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		return append([]any(nil), t...)
	default:
		return v
	}
}

// MarshalJSON renders the entry with every list field in canonical form.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":        e.ID,
		"symbol":    e.Symbol,
		"createdAt": e.CreatedAt,
		"saved":     e.Saved,
	}
	for _, f := range ListFields {
		out[camel(string(f))] = e.List(f)
	}
	return json.Marshal(out)
}

// NewEntryPayload is what the draft composer submits. It carries no id and
// no saved flag; both are assigned by the store.
type NewEntryPayload struct {
	Symbol    Symbol
	CreatedAt Date
	Lists     map[ListField][]string // every field present, empty lists for unset
}

// NewPayload builds a payload with all seven list fields set to empty lists.
func NewPayload(symbol Symbol, createdAt Date) *NewEntryPayload {
	p := &NewEntryPayload{
		Symbol:    symbol,
		CreatedAt: createdAt,
		Lists:     make(map[ListField][]string, len(ListFields)),
	}
	for _, f := range ListFields {
		p.Lists[f] = []string{}
	}
	return p
}

// ToEntry materializes the payload as a fresh unsaved entry with the given id.
func (p *NewEntryPayload) ToEntry(id string) *Entry {
	e := &Entry{
		ID:        id,
		Symbol:    p.Symbol,
		CreatedAt: p.CreatedAt,
		Lists:     make(map[ListField]any, len(ListFields)),
	}
	for _, f := range ListFields {
		list := p.Lists[f]
		if list == nil {
			list = []string{}
		}
		e.Lists[f] = append([]string{}, list...)
	}
	return e
}
