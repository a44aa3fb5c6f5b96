package rules

import (
	"testing"

	"github.com/gyeh/claimaudit/internal/model"
)

func TestTotalsMismatch(t *testing.T) {
	c := claimOf(
		lineItem("99213", onDay(2024, 1, 5), 115_00),
		lineItem("36415", onDay(2024, 1, 5), 12_00),
	)
	c.Totals = &model.Totals{ChargesCents: 187_00}

	f := TotalsMismatch().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("stated total $187 vs line sum $127: %s", f.Message)
	}
	// The claim overstates by $60; that is the recoverable amount.
	if f.SavingsCents == nil || *f.SavingsCents != 60_00 {
		t.Errorf("savings = %v, want 6000", f.SavingsCents)
	}
}

func TestTotalsMismatchWithinTolerance(t *testing.T) {
	c := claimOf(lineItem("99213", onDay(2024, 1, 5), 115_00))
	c.Totals = &model.Totals{ChargesCents: 115_75}

	f := TotalsMismatch().Detector.Detect(c)
	if f.Triggered {
		t.Errorf("a 75 cent drift is inside the tolerance: %s", f.Message)
	}
}

func TestTotalsMismatchUnderstated(t *testing.T) {
	c := claimOf(lineItem("99213", onDay(2024, 1, 5), 115_00))
	c.Totals = &model.Totals{ChargesCents: 80_00}

	f := TotalsMismatch().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("understated totals still need review: %s", f.Message)
	}
	if f.SavingsCents != nil {
		t.Error("an understated total recovers nothing; no savings expected")
	}
}

func TestBalanceMath(t *testing.T) {
	c := claimOf(lineItem("99213", onDay(2024, 1, 5), 115_00))
	c.Totals = &model.Totals{
		ChargesCents:     500_00,
		AdjustmentsCents: 200_00,
		PaymentsCents:    100_00,
		BalanceCents:     350_00, // should be 20000
	}

	f := BalanceMath().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("balance off by $150: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 150_00 {
		t.Errorf("savings = %v, want 15000", f.SavingsCents)
	}

	c.Totals.BalanceCents = 200_00
	if f := BalanceMath().Detector.Detect(c); f.Triggered {
		t.Errorf("consistent arithmetic should not trigger: %s", f.Message)
	}
}

func TestTotalsRulesWithoutTotals(t *testing.T) {
	c := claimOf(lineItem("99213", onDay(2024, 1, 5), 115_00))
	if f := TotalsMismatch().Detector.Detect(c); f.Triggered {
		t.Errorf("no totals on the claim: %s", f.Message)
	}
	if f := BalanceMath().Detector.Detect(c); f.Triggered {
		t.Errorf("no totals on the claim: %s", f.Message)
	}
}
