package journal

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists journal entries. The status-guarded methods
// (UpdateDraft, MarkSigned, AppendContent, MarkArchived) include the expected
// current status in their WHERE clause and return ErrStaleEntry when no row
// matched, so a transition raced by another client fails instead of silently
// overwriting.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	UpdateDraft(ctx context.Context, e *Entry) error
	MarkSigned(ctx context.Context, e *Entry) error
	AppendContent(ctx context.Context, e *Entry) error
	MarkArchived(ctx context.Context, e *Entry) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error)
}
