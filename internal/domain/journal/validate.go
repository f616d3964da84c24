package journal

import (
	"strings"

	"github.com/carejournal/api/pkg/validation"
)

const msgRequired = validation.MsgRequired

// ValidateForSigning checks the required fields for the entry's type before a
// draft can be signed. A nil return means the entry may be completed. The
// same rules apply per type:
//
//	note:       content
//	medication: medication_name, medication_dose
//	drug_test:  test_type, test_method, test_result; positive_substances
//	            when the result is positive and the method reports substances
//	incident:   incident_severity (low|medium|high), incident_details
//
// Title is required for every type.
func ValidateForSigning(e *Entry) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(e.Title) == "" {
		errs["title"] = msgRequired
	}

	switch e.EntryType {
	case EntryTypeNote:
		if strings.TrimSpace(e.Content) == "" {
			errs["content"] = msgRequired
		}

	case EntryTypeMedication:
		if strVal(e.MedicationName) == "" {
			errs["medication_name"] = msgRequired
		}
		if strVal(e.MedicationDose) == "" {
			errs["medication_dose"] = msgRequired
		}

	case EntryTypeDrugTest:
		if strVal(e.TestType) == "" {
			errs["test_type"] = msgRequired
		}
		if strVal(e.TestMethod) == "" {
			errs["test_method"] = msgRequired
		}
		if strVal(e.TestResult) == "" {
			errs["test_result"] = msgRequired
		}
		// A breath test reports only an overall result, so no substance list
		// is expected. Every other method must name what was found.
		if strVal(e.TestResult) == TestResultPositive &&
			strVal(e.TestMethod) != TestMethodBreath &&
			len(e.PositiveSubstances) == 0 {
			errs["positive_substances"] = "at least one substance is required for a positive result"
		}

	case EntryTypeIncident:
		if strVal(e.IncidentSeverity) == "" {
			errs["incident_severity"] = msgRequired
		} else if !validSeverity(strVal(e.IncidentSeverity)) {
			errs["incident_severity"] = "must be low, medium or high"
		}
		if strings.TrimSpace(strVal(e.IncidentDetails)) == "" {
			errs["incident_details"] = msgRequired
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validSeverity(s string) bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

func validCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
