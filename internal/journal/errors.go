package journal

import (
	"errors"
	"fmt"

	"trade-journal/internal/observability"
)

var (
	// ErrNotSignedIn is returned for intents issued before Start or after Reset.
	ErrNotSignedIn = errors.New("journal: no signed-in user")

	// ErrNoFocus is returned by editor intents when no entry is focused.
	ErrNoFocus = errors.New("journal: no focused entry")

	// ErrNotEditing is returned by Commit when no field is open for editing.
	ErrNotEditing = errors.New("journal: no field is being edited")

	// ErrNoPendingConfirmation is returned by Confirm when nothing awaits confirmation.
	ErrNoPendingConfirmation = errors.New("journal: nothing to confirm")
)

// ValidationError rejects an intent whose input is unusable. It never
// reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PolicyError rejects an operation against a saved entry.
type PolicyError struct {
	Op      string
	EntryID string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s not allowed: entry %s is saved", e.Op, e.EntryID)
}

func invalid(field, reason string) error {
	observability.RecordRejected("validation")
	return &ValidationError{Field: field, Reason: reason}
}

func locked(op, entryID string) error {
	observability.RecordRejected("policy")
	return &PolicyError{Op: op, EntryID: entryID}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPolicy reports whether err is a PolicyError.
func IsPolicy(err error) bool {
	var pe *PolicyError
	return errors.As(err, &pe)
}
