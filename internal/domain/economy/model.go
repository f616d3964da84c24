package economy

import (
	"time"

	"github.com/google/uuid"
)

// Record holds the budget and actual income for one calendar month.
// Year+Month is unique; there is at most one record per period.
type Record struct {
	ID           uuid.UUID `json:"id"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	Budget       float64   `json:"budget"`
	ActualIncome float64   `json:"actual_income"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *Record) BudgetMet() bool {
	return r.ActualIncome >= r.Budget
}

// MonthStats is one row of the yearly overview.
type MonthStats struct {
	Month        int     `json:"month"`
	Budget       float64 `json:"budget"`
	ActualIncome float64 `json:"actual_income"`
	BudgetMet    bool    `json:"budget_met"`
}

// YearStats aggregates all recorded months of a year.
type YearStats struct {
	Year              int          `json:"year"`
	Months            []MonthStats `json:"months"`
	TotalBudget       float64      `json:"total_budget"`
	TotalActualIncome float64      `json:"total_actual_income"`
	// AttainmentPercent is actual income as a percentage of budget,
	// 0 when no budget is recorded.
	AttainmentPercent float64 `json:"attainment_percent"`
	MonthsBudgetMet   int     `json:"months_budget_met"`
}
