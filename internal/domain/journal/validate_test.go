package journal

import (
	"testing"

	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

func draftEntry(t EntryType) *Entry {
	return &Entry{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		EntryType: t,
		Title:     DefaultTitle(t),
		Status:    StatusDraft,
	}
}

func TestValidateForSigning_NoteRequiresContent(t *testing.T) {
	e := draftEntry(EntryTypeNote)

	errs := ValidateForSigning(e)
	if errs == nil {
		t.Fatal("expected validation errors for empty note")
	}
	if _, ok := errs["content"]; !ok {
		t.Errorf("expected content error, got %v", errs)
	}

	e.Content = "Patient slept well."
	if errs := ValidateForSigning(e); errs != nil {
		t.Errorf("expected valid note, got %v", errs)
	}
}

func TestValidateForSigning_TitleRequired(t *testing.T) {
	e := draftEntry(EntryTypeNote)
	e.Title = "   "
	e.Content = "something"

	errs := ValidateForSigning(e)
	if _, ok := errs["title"]; !ok {
		t.Errorf("expected title error, got %v", errs)
	}
}

func TestValidateForSigning_Medication(t *testing.T) {
	e := draftEntry(EntryTypeMedication)

	errs := ValidateForSigning(e)
	if _, ok := errs["medication_name"]; !ok {
		t.Errorf("expected medication_name error, got %v", errs)
	}
	if _, ok := errs["medication_dose"]; !ok {
		t.Errorf("expected medication_dose error, got %v", errs)
	}

	e.MedicationName = strptr("Sertralin")
	e.MedicationDose = strptr("50mg")
	if errs := ValidateForSigning(e); errs != nil {
		t.Errorf("expected valid medication entry, got %v", errs)
	}
}

func TestValidateForSigning_DrugTestRequiredFields(t *testing.T) {
	e := draftEntry(EntryTypeDrugTest)

	errs := ValidateForSigning(e)
	for _, field := range []string{"test_type", "test_method", "test_result"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s error, got %v", field, errs)
		}
	}
}

func TestValidateForSigning_PositiveUrineNeedsSubstances(t *testing.T) {
	e := draftEntry(EntryTypeDrugTest)
	e.TestType = strptr("random")
	e.TestMethod = strptr("urin")
	e.TestResult = strptr(TestResultPositive)

	errs := ValidateForSigning(e)
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := errs["positive_substances"]; !ok {
		t.Errorf("expected positive_substances error, got %v", errs)
	}

	e.PositiveSubstances = []string{"THC"}
	if errs := ValidateForSigning(e); errs != nil {
		t.Errorf("expected valid drug test, got %v", errs)
	}
}

func TestValidateForSigning_PositiveBreathNeedsNoSubstances(t *testing.T) {
	e := draftEntry(EntryTypeDrugTest)
	e.TestType = strptr("scheduled")
	e.TestMethod = strptr(TestMethodBreath)
	e.TestResult = strptr(TestResultPositive)

	if errs := ValidateForSigning(e); errs != nil {
		t.Errorf("breath test should not need substances, got %v", errs)
	}
}

func TestValidateForSigning_NegativeNeedsNoSubstances(t *testing.T) {
	e := draftEntry(EntryTypeDrugTest)
	e.TestType = strptr("random")
	e.TestMethod = strptr("urin")
	e.TestResult = strptr(TestResultNegative)

	if errs := ValidateForSigning(e); errs != nil {
		t.Errorf("negative test should not need substances, got %v", errs)
	}
}

func TestValidateForSigning_Incident(t *testing.T) {
	e := draftEntry(EntryTypeIncident)

	errs := ValidateForSigning(e)
	if _, ok := errs["incident_severity"]; !ok {
		t.Errorf("expected incident_severity error, got %v", errs)
	}
	if _, ok := errs["incident_details"]; !ok {
		t.Errorf("expected incident_details error, got %v", errs)
	}

	e.IncidentSeverity = strptr("catastrophic")
	e.IncidentDetails = strptr("Fell in the hallway.")
	errs = ValidateForSigning(e)
	if _, ok := errs["incident_severity"]; !ok {
		t.Errorf("expected error for unknown severity, got %v", errs)
	}

	e.IncidentSeverity = strptr(SeverityHigh)
	if errs := ValidateForSigning(e); errs != nil {
		t.Errorf("expected valid incident, got %v", errs)
	}
}

func TestValidationErrors_ErrorString(t *testing.T) {
	errs := ValidationErrors{"title": msgRequired, "content": msgRequired}
	// Fields are sorted so the message is stable.
	want := "validation failed: content, title"
	if errs.Error() != want {
		t.Errorf("expected %q, got %q", want, errs.Error())
	}
}

func TestAsValidationErrors(t *testing.T) {
	var err error = ValidationErrors{"title": msgRequired}
	ve, ok := AsValidationErrors(err)
	if !ok {
		t.Fatal("expected ValidationErrors")
	}
	if ve["title"] != msgRequired {
		t.Errorf("unexpected message %q", ve["title"])
	}

	if _, ok := AsValidationErrors(ErrNotFound); ok {
		t.Error("ErrNotFound should not unwrap to ValidationErrors")
	}
}
