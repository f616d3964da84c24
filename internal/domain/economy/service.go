package economy

import (
	"context"

	"github.com/google/uuid"

	"github.com/carejournal/api/pkg/validation"
)

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

func validateRecord(r *Record) validation.Errors {
	errs := validation.Errors{}
	if r.Year < 2000 || r.Year > 2100 {
		errs["year"] = "must be between 2000 and 2100"
	}
	if r.Month < 1 || r.Month > 12 {
		errs["month"] = "must be between 1 and 12"
	}
	if r.Budget < 0 {
		errs["budget"] = "must not be negative"
	}
	if r.ActualIncome < 0 {
		errs["actual_income"] = "must not be negative"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Service) CreateRecord(ctx context.Context, r *Record) error {
	if errs := validateRecord(r); errs != nil {
		return errs
	}
	return s.records.Create(ctx, r)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, r *Record) (*Record, error) {
	existing, err := s.records.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if errs := validateRecord(r); errs != nil {
		return nil, errs
	}
	r.CreatedAt = existing.CreatedAt
	if err := s.records.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return s.records.List(ctx, limit, offset)
}

func (s *Service) ListByYear(ctx context.Context, year int) ([]*Record, error) {
	return s.records.ListByYear(ctx, year)
}

// Stats builds the yearly overview from the recorded months. Months without
// a record are omitted rather than zero-filled.
func (s *Service) Stats(ctx context.Context, year int) (*YearStats, error) {
	records, err := s.records.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	stats := &YearStats{Year: year, Months: make([]MonthStats, 0, len(records))}
	for _, r := range records {
		met := r.BudgetMet()
		stats.Months = append(stats.Months, MonthStats{
			Month:        r.Month,
			Budget:       r.Budget,
			ActualIncome: r.ActualIncome,
			BudgetMet:    met,
		})
		stats.TotalBudget += r.Budget
		stats.TotalActualIncome += r.ActualIncome
		if met {
			stats.MonthsBudgetMet++
		}
	}
	if stats.TotalBudget > 0 {
		stats.AttainmentPercent = stats.TotalActualIncome / stats.TotalBudget * 100
	}
	return stats, nil
}
