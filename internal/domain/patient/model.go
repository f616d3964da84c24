package patient

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// personalNumberRE matches the national identity number format YYYYMMDD-XXXX.
var personalNumberRE = regexp.MustCompile(`^\d{8}-\d{4}$`)

// ValidPersonalNumber reports whether s is in the YYYYMMDD-XXXX format.
func ValidPersonalNumber(s string) bool {
	return personalNumberRE.MatchString(s)
}

// Patient is a resident of the care facility. Patients are never hard
// deleted; Active=false removes them from day-to-day views while keeping
// their journal history intact.
type Patient struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	PersonalNumber string     `db:"personal_number" json:"personal_number"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Room           *string    `db:"room" json:"room,omitempty"`
	AdmissionDate  *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	Active         bool       `db:"active" json:"active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Medication is one row of a patient's medication schedule.
type Medication struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name      string     `db:"name" json:"name"`
	Dose      string     `db:"dose" json:"dose"`
	Frequency string     `db:"frequency" json:"frequency"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ActiveAt reports whether the medication is scheduled at t. A medication
// with no end date runs indefinitely.
func (m *Medication) ActiveAt(t time.Time) bool {
	if t.Before(m.StartDate) {
		return false
	}
	return m.EndDate == nil || !t.After(*m.EndDate)
}
