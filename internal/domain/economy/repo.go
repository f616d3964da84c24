package economy

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("economy record not found")

	// ErrDuplicatePeriod is returned when a record already exists for the
	// same year and month.
	ErrDuplicatePeriod = errors.New("a record for this year and month already exists")
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByYear returns all records for a year ordered by month.
	ListByYear(ctx context.Context, year int) ([]*Record, error)
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
}
