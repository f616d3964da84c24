package journal

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is the fixed category of a journal entry. It is set at creation
// and never changes afterwards.
type EntryType string

const (
	EntryTypeNote       EntryType = "note"
	EntryTypeMedication EntryType = "medication"
	EntryTypeDrugTest   EntryType = "drug_test"
	EntryTypeIncident   EntryType = "incident"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeNote, EntryTypeMedication, EntryTypeDrugTest, EntryTypeIncident:
		return true
	}
	return false
}

// Status is the lifecycle state of a journal entry.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Test result values for drug_test entries.
const (
	TestResultPositive = "positive"
	TestResultNegative = "negative"
)

// TestMethodBreath is the one test method that reports no individual
// substances, so a positive result does not require a substance list.
const TestMethodBreath = "breath"

// Incident severity levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Categories an entry may be filed under. Free to extend; validated on write.
var Categories = []string{"daily", "medical", "behavioral", "educational", "social", "other"}

// Entry maps to the journal_entry table. Type-specific fields are nullable
// columns only populated for the matching entry type; TypedPayload exposes
// them as a tagged union at the API boundary.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	EntryType EntryType `db:"entry_type" json:"entry_type"`
	Title     string    `db:"title" json:"title"`
	Category  *string   `db:"category" json:"category,omitempty"`
	Content   string    `db:"content" json:"content"`
	Status    Status    `db:"status" json:"status"`

	// medication
	MedicationName *string    `db:"medication_name" json:"medication_name,omitempty"`
	MedicationDose *string    `db:"medication_dose" json:"medication_dose,omitempty"`
	MedicationTime *time.Time `db:"medication_time" json:"medication_time,omitempty"`

	// drug_test
	TestType           *string  `db:"test_type" json:"test_type,omitempty"`
	TestMethod         *string  `db:"test_method" json:"test_method,omitempty"`
	TestResult         *string  `db:"test_result" json:"test_result,omitempty"`
	PositiveSubstances []string `db:"positive_substances" json:"positive_substances,omitempty"`

	// incident
	IncidentSeverity *string `db:"incident_severity" json:"incident_severity,omitempty"`
	IncidentDetails  *string `db:"incident_details" json:"incident_details,omitempty"`

	CreatedBy     uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedByName string     `db:"created_by_name" json:"created_by_name"`
	UpdatedBy     *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedByName *string    `db:"updated_by_name" json:"updated_by_name,omitempty"`
	SignedBy      *uuid.UUID `db:"signed_by" json:"signed_by,omitempty"`
	SignedByName  *string    `db:"signed_by_name" json:"signed_by_name,omitempty"`
	SignedAt      *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// NotePayload is the type-specific view of a note entry.
type NotePayload struct {
	Content string `json:"content"`
}

// MedicationPayload is the type-specific view of a medication entry.
type MedicationPayload struct {
	Name string     `json:"name"`
	Dose string     `json:"dose"`
	Time *time.Time `json:"time,omitempty"`
}

// DrugTestPayload is the type-specific view of a drug_test entry.
type DrugTestPayload struct {
	TestType           string   `json:"test_type"`
	TestMethod         string   `json:"test_method"`
	TestResult         string   `json:"test_result"`
	PositiveSubstances []string `json:"positive_substances,omitempty"`
}

// IncidentPayload is the type-specific view of an incident entry.
type IncidentPayload struct {
	Severity string `json:"severity"`
	Details  string `json:"details"`
}

// TypedPayload returns the entry's type-specific fields as one of
// NotePayload, MedicationPayload, DrugTestPayload or IncidentPayload.
func (e *Entry) TypedPayload() interface{} {
	switch e.EntryType {
	case EntryTypeMedication:
		return MedicationPayload{
			Name: strVal(e.MedicationName),
			Dose: strVal(e.MedicationDose),
			Time: e.MedicationTime,
		}
	case EntryTypeDrugTest:
		return DrugTestPayload{
			TestType:           strVal(e.TestType),
			TestMethod:         strVal(e.TestMethod),
			TestResult:         strVal(e.TestResult),
			PositiveSubstances: e.PositiveSubstances,
		}
	case EntryTypeIncident:
		return IncidentPayload{
			Severity: strVal(e.IncidentSeverity),
			Details:  strVal(e.IncidentDetails),
		}
	default:
		return NotePayload{Content: e.Content}
	}
}

// DefaultTitle returns the title assigned at creation when the caller leaves
// it blank. Editable while the entry is a draft.
func DefaultTitle(t EntryType) string {
	switch t {
	case EntryTypeMedication:
		return "Medication administration"
	case EntryTypeDrugTest:
		return "Drug test"
	case EntryTypeIncident:
		return "Incident report"
	default:
		return "Note"
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
