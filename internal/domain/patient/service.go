package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carejournal/api/pkg/validation"
)

type Service struct {
	patients Repository
	now      func() time.Time
}

func NewService(patients Repository) *Service {
	return &Service{
		patients: patients,
		now:      time.Now,
	}
}

func validatePatient(p *Patient) validation.Errors {
	errs := validation.Errors{}
	if strings.TrimSpace(p.FirstName) == "" {
		errs["first_name"] = validation.MsgRequired
	}
	if strings.TrimSpace(p.LastName) == "" {
		errs["last_name"] = validation.MsgRequired
	}
	if p.PersonalNumber == "" {
		errs["personal_number"] = validation.MsgRequired
	} else if !ValidPersonalNumber(p.PersonalNumber) {
		errs["personal_number"] = "must be in YYYYMMDD-XXXX format"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if errs := validatePatient(p); errs != nil {
		return errs
	}
	p.Active = true
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	existing, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if errs := validatePatient(p); errs != nil {
		return nil, errs
	}

	p.Active = existing.Active
	p.CreatedAt = existing.CreatedAt
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivatePatient is the only removal path. The patient and their journal
// history stay in the database.
func (s *Service) DeactivatePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Deactivate(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, activeOnly, limit, offset)
}

func validateMedication(m *Medication) validation.Errors {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Name) == "" {
		errs["name"] = validation.MsgRequired
	}
	if strings.TrimSpace(m.Dose) == "" {
		errs["dose"] = validation.MsgRequired
	}
	if strings.TrimSpace(m.Frequency) == "" {
		errs["frequency"] = validation.MsgRequired
	}
	if m.StartDate.IsZero() {
		errs["start_date"] = validation.MsgRequired
	}
	if m.EndDate != nil && !m.StartDate.IsZero() && m.EndDate.Before(m.StartDate) {
		errs["end_date"] = "must not precede start_date"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Service) AddMedication(ctx context.Context, patientID uuid.UUID, m *Medication) error {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return err
	}
	m.PatientID = patientID
	if errs := validateMedication(m); errs != nil {
		return errs
	}
	return s.patients.CreateMedication(ctx, m)
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if errs := validateMedication(m); errs != nil {
		return errs
	}
	return s.patients.UpdateMedication(ctx, m)
}

func (s *Service) RemoveMedication(ctx context.Context, id uuid.UUID) error {
	return s.patients.DeleteMedication(ctx, id)
}

func (s *Service) ListMedications(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	return s.patients.ListMedications(ctx, patientID)
}

// ListActiveMedications returns the subset of the schedule running right now.
func (s *Service) ListActiveMedications(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	all, err := s.patients.ListMedications(ctx, patientID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var active []*Medication
	for _, m := range all {
		if m.ActiveAt(now) {
			active = append(active, m)
		}
	}
	return active, nil
}
