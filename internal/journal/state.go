package journal

import "trade-journal/internal/domain"

// ListState tracks the date/list machine.
type ListState string

const (
	ListIdle    ListState = "idle"
	ListLoading ListState = "loading"
	ListReady   ListState = "ready"
)

// FocusState tracks the focus machine.
type FocusState string

const (
	FocusIdle    FocusState = "idle"
	FocusLoading FocusState = "loading"
	FocusReady   FocusState = "ready"
)

// Action is an irreversible editor operation awaiting confirmation.
type Action string

const (
	ActionNone      Action = ""
	ActionDelete    Action = "delete"
	ActionMarkSaved Action = "mark_saved"
)

// Snapshot is a read-only copy of the session taken after a transition.
// Nothing in it aliases session state.
type Snapshot struct {
	User *domain.User `json:"user,omitempty"`

	SelectedDate domain.Date     `json:"selectedDate"`
	PendingDate  domain.Date     `json:"pendingDate,omitempty"`
	ListState    ListState       `json:"listState"`
	ListError    string          `json:"listError,omitempty"`
	Entries      []*domain.Entry `json:"entries"`
	EntryCount   int             `json:"entryCount"`

	FocusState     FocusState    `json:"focusState"`
	FocusedEntryID string        `json:"focusedEntryId,omitempty"`
	FocusedEntry   *domain.Entry `json:"focusedEntry,omitempty"`

	Composer ComposerSnapshot `json:"composer"`
	Editor   EditorSnapshot   `json:"editor"`
}

// ComposerSnapshot is the draft composer's transient state.
type ComposerSnapshot struct {
	Symbol  domain.Symbol                 `json:"symbol"`
	Lists   map[domain.ListField][]string `json:"lists"`
	Staging map[domain.ListField]string   `json:"staging"`
}

// EditorSnapshot is the field editor's transient state.
type EditorSnapshot struct {
	EditingField        domain.ListField `json:"editingField,omitempty"`
	Staging             string           `json:"staging,omitempty"`
	PendingConfirmation Action           `json:"pendingConfirmation,omitempty"`
	Locked              bool             `json:"locked"`
}
