package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient or medication does not exist.
var ErrNotFound = errors.New("patient not found")

// Repository persists patients and their medication schedules.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]*Patient, int, error)

	CreateMedication(ctx context.Context, m *Medication) error
	UpdateMedication(ctx context.Context, m *Medication) error
	DeleteMedication(ctx context.Context, id uuid.UUID) error
	ListMedications(ctx context.Context, patientID uuid.UUID) ([]*Medication, error)
}
