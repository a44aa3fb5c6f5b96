package rules

import (
	"testing"
	"time"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

func TestGenderMismatch(t *testing.T) {
	c := claimOf(
		lineItem("55700", onDay(2024, 1, 5), 450_00), // prostate biopsy
		lineItem("99213", onDay(2024, 1, 5), 115_00),
	)
	c.Patient = model.Patient{Gender: "F"}

	f := GenderMismatch(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("male-only procedure on a female patient: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 450_00 {
		t.Errorf("savings = %v, want 45000", f.SavingsCents)
	}
	if len(f.AffectedItems) != 1 || f.AffectedItems[0] != "line-1" {
		t.Errorf("affected = %v, want only the restricted procedure", f.AffectedItems)
	}
	if f.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", f.Confidence)
	}
}

func TestGenderMismatchUnknownGender(t *testing.T) {
	c := claimOf(lineItem("55700", onDay(2024, 1, 5), 450_00))
	f := GenderMismatch(refdata.Builtin()).Detector.Detect(c)
	if f.Triggered {
		t.Errorf("unknown patient gender should skip the rule: %s", f.Message)
	}
}

func TestAgeRestrictions(t *testing.T) {
	birth := time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)
	c := claimOf(
		lineItem("99397", onDay(2024, 1, 5), 280_00), // preventive, 65+
		lineItem("99213", onDay(2024, 1, 5), 115_00),
	)
	c.Patient = model.Patient{BirthDate: &birth}

	f := AgeRestrictions(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("a 33 year old billed a 65+ visit: %s", f.Message)
	}
	if len(f.AffectedItems) != 1 || f.AffectedItems[0] != "line-1" {
		t.Errorf("affected = %v, want the age-restricted code", f.AffectedItems)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 280_00 {
		t.Errorf("savings = %v, want 28000", f.SavingsCents)
	}
}

func TestAgeRestrictionsInRange(t *testing.T) {
	birth := time.Date(1950, 6, 1, 0, 0, 0, 0, time.UTC)
	c := claimOf(lineItem("99397", onDay(2024, 1, 5), 280_00))
	c.Patient = model.Patient{BirthDate: &birth}

	f := AgeRestrictions(refdata.Builtin()).Detector.Detect(c)
	if f.Triggered {
		t.Errorf("a 73 year old fits the 65+ restriction: %s", f.Message)
	}
}

func TestAgeRestrictionsNoBirthDate(t *testing.T) {
	c := claimOf(lineItem("99397", onDay(2024, 1, 5), 280_00))
	f := AgeRestrictions(refdata.Builtin()).Detector.Detect(c)
	if f.Triggered {
		t.Errorf("no birth date should skip the rule: %s", f.Message)
	}
}
