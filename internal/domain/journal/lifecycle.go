package journal

import (
	"time"

	"github.com/google/uuid"
)

// The entry lifecycle is strictly forward:
//
//	draft -> completed -> archived
//
// While draft, all fields including content may be overwritten freely. Signing
// is irreversible and freezes title, category and the type-specific fields.
// A completed entry accepts only appended content versions and archiving.
// Archived entries are fully read-only.

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// CanEditFields reports whether structured fields (title, category,
// type-specific fields) and direct content overwrites are allowed.
func CanEditFields(e *Entry) bool {
	return e.Status == StatusDraft
}

// CanAppendNote reports whether a new content version may be appended.
// Draft content is edited directly instead, and archived entries reject
// all writes.
func CanAppendNote(e *Entry) bool {
	return e.Status == StatusCompleted
}

// Sign transitions a draft entry to completed. Required fields are validated
// first; on failure the entry is left untouched and the field errors are
// returned. Signing anything other than a draft is an illegal transition.
func Sign(e *Entry, by Actor, now time.Time) error {
	if e.Status != StatusDraft {
		return ErrIllegalTransition
	}
	if errs := ValidateForSigning(e); errs != nil {
		return errs
	}

	e.Status = StatusCompleted
	e.SignedBy = &by.ID
	e.SignedByName = &by.Name
	e.SignedAt = &now
	e.UpdatedBy = &by.ID
	e.UpdatedByName = &by.Name
	e.UpdatedAt = now
	return nil
}

// AppendNote adds text as a new content version on a completed entry. The
// existing content, including all of its history, is pushed down behind a
// separator stamped with now.
func AppendNote(e *Entry, text string, by Actor, now time.Time) error {
	if !CanAppendNote(e) {
		return ErrIllegalTransition
	}

	e.Content = AppendVersion(e.Content, text, now)
	e.UpdatedBy = &by.ID
	e.UpdatedByName = &by.Name
	e.UpdatedAt = now
	return nil
}

// Archive transitions a completed entry to archived. There is no way back.
func Archive(e *Entry, by Actor, now time.Time) error {
	if e.Status != StatusCompleted {
		return ErrIllegalTransition
	}

	e.Status = StatusArchived
	e.UpdatedBy = &by.ID
	e.UpdatedByName = &by.Name
	e.UpdatedAt = now
	return nil
}
