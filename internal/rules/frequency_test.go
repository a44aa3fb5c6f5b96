package rules

import (
	"testing"

	"github.com/gyeh/claimaudit/internal/refdata"
)

func TestFrequencyLimitsYearly(t *testing.T) {
	// 99395 allows one preventive visit per calendar year.
	c := claimOf(
		lineItem("99395", onDay(2024, 2, 1), 250_00),
		lineItem("99395", onDay(2024, 6, 15), 250_00),
		lineItem("99395", onDay(2024, 11, 30), 250_00),
	)

	f := FrequencyLimits(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("three visits in one year against a limit of one: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 500_00 {
		t.Errorf("savings = %v, want the two excess visits (50000)", f.SavingsCents)
	}
	if len(f.AffectedItems) != 2 {
		t.Errorf("affected = %v, want the two later visits", f.AffectedItems)
	}

	counts := map[string]string{}
	for _, ev := range f.Evidence {
		counts[ev.Field] = ev.Value
	}
	if counts["actual_count"] != "3" || counts["allowed_limit"] != "1" {
		t.Errorf("evidence = %v, want actual_count=3 allowed_limit=1", counts)
	}
}

func TestFrequencyLimitsYearBoundary(t *testing.T) {
	c := claimOf(
		lineItem("99395", onDay(2023, 12, 20), 250_00),
		lineItem("99395", onDay(2024, 1, 10), 250_00),
	)
	f := FrequencyLimits(refdata.Builtin()).Detector.Detect(c)
	if f.Triggered {
		t.Errorf("one visit per calendar year is within the limit: %s", f.Message)
	}
}

func TestFrequencyLimitsWeekly(t *testing.T) {
	// 90853 allows two sessions per Monday-anchored week. Jan 1 2024 is a
	// Monday, so the 1st through the 7th share a bucket and the 8th opens
	// a new one.
	c := claimOf(
		lineItem("90853", onDay(2024, 1, 2), 80_00),
		lineItem("90853", onDay(2024, 1, 4), 80_00),
		lineItem("90853", onDay(2024, 1, 6), 80_00),
		lineItem("90853", onDay(2024, 1, 8), 80_00),
	)
	f := FrequencyLimits(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("three sessions in one week against a limit of two: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 80_00 {
		t.Errorf("savings = %v, want one excess session (8000)", f.SavingsCents)
	}
	if len(f.AffectedItems) != 1 || f.AffectedItems[0] != "line-3" {
		t.Errorf("affected = %v, want the latest session of the full week", f.AffectedItems)
	}
}

func TestFrequencyLimitsLifetime(t *testing.T) {
	c := claimOf(
		lineItem("G0438", onDay(2022, 3, 1), 175_00),
		lineItem("G0438", onDay(2024, 3, 1), 175_00),
	)
	f := FrequencyLimits(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("a once-per-lifetime code billed twice: %s", f.Message)
	}
	if len(f.AffectedItems) != 1 || f.AffectedItems[0] != "line-2" {
		t.Errorf("affected = %v, want the second occurrence", f.AffectedItems)
	}
}

func TestFrequencyLimitsUnlistedCode(t *testing.T) {
	c := claimOf(
		lineItem("99213", onDay(2024, 1, 5), 115_00),
		lineItem("99213", onDay(2024, 1, 6), 115_00),
	)
	f := FrequencyLimits(refdata.Builtin()).Detector.Detect(c)
	if f.Triggered {
		t.Errorf("codes without a declared limit never trigger: %s", f.Message)
	}
	if f.RuleID != FrequencyLimitsID {
		t.Errorf("finding rule id = %q", f.RuleID)
	}
}
