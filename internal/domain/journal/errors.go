package journal

import (
	"errors"

	"github.com/carejournal/api/pkg/validation"
)

var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrIllegalTransition is returned when an operation is attempted on an
	// entry whose status forbids it (editing a completed entry, signing twice,
	// touching an archived entry). The operation fails closed: nothing is
	// mutated or persisted.
	ErrIllegalTransition = errors.New("operation not allowed in current entry status")

	// ErrStaleEntry is returned when a guarded update matched no row because
	// the persisted status changed since the entry was fetched. Callers must
	// re-fetch and re-present, not retry with the same payload.
	ErrStaleEntry = errors.New("journal entry was modified by someone else")
)

// ValidationErrors maps field names to human-readable messages. It is
// returned instead of success so callers can render inline errors without
// treating a failed sign as a crash.
type ValidationErrors = validation.Errors

// AsValidationErrors unwraps err into ValidationErrors if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	return validation.As(err)
}
