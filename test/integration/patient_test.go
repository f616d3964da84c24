//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/carejournal/api/internal/domain/patient"
)

var patientSeq int

// newTestPatient inserts a patient with only the required fields set and
// returns it. Optional columns stay nil on purpose: the schema must accept
// exactly what the model allows.
func newTestPatient(t *testing.T, ctx context.Context) *patient.Patient {
	t.Helper()
	patientSeq++
	repo := patient.NewRepoPG(globalPool)
	p := &patient.Patient{
		FirstName:      "Erik",
		LastName:       "Lindqvist",
		PersonalNumber: fmt.Sprintf("19520301-%04d", patientSeq),
		Active:         true,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

func TestPatientMinimalCreate(t *testing.T) {
	ctx := context.Background()
	repo := patient.NewRepoPG(globalPool)

	p := newTestPatient(t, ctx)

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Room != nil || got.Notes != nil || got.DateOfBirth != nil || got.AdmissionDate != nil {
		t.Errorf("optional fields should stay nil, got %+v", got)
	}
	if !got.Active {
		t.Error("expected active patient")
	}
}

func TestPatientUpdate_NilOptionals(t *testing.T) {
	ctx := context.Background()
	repo := patient.NewRepoPG(globalPool)

	p := newTestPatient(t, ctx)
	p.Room = ptrStr("12B")
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("set room: %v", err)
	}

	// Clearing an optional field writes NULL back.
	p.Room = nil
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("clear room: %v", err)
	}
	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Room != nil {
		t.Errorf("expected room cleared, got %q", *got.Room)
	}
}

func TestMedicationMinimalCreate(t *testing.T) {
	ctx := context.Background()
	repo := patient.NewRepoPG(globalPool)

	p := newTestPatient(t, ctx)
	m := &patient.Medication{
		PatientID: p.ID,
		Name:      "Sertralin",
		Dose:      "50mg",
		Frequency: "morning",
		StartDate: time.Now().AddDate(0, 0, -7),
	}
	if err := repo.CreateMedication(ctx, m); err != nil {
		t.Fatalf("create medication: %v", err)
	}

	meds, err := repo.ListMedications(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListMedications: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("expected 1 medication, got %d", len(meds))
	}
	if meds[0].EndDate != nil || meds[0].Notes != nil {
		t.Errorf("optional fields should stay nil, got %+v", meds[0])
	}
}

func TestPatientDeactivate(t *testing.T) {
	ctx := context.Background()
	repo := patient.NewRepoPG(globalPool)

	p := newTestPatient(t, ctx)
	if err := repo.Deactivate(ctx, p.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID after deactivate: %v", err)
	}
	if got.Active {
		t.Error("expected the patient row to survive with active=false")
	}
	if errors.Is(err, patient.ErrNotFound) {
		t.Error("deactivation must not delete the row")
	}
}
