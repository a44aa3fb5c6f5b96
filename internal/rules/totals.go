package rules

import (
	"fmt"

	"github.com/gyeh/claimaudit/internal/model"
)

const (
	TotalsMismatchID = "totals_mismatch"
	BalanceMathID    = "balance_math"
)

// TotalsDriftToleranceCents absorbs rounding differences between stated
// totals and line sums. Tunable.
const TotalsDriftToleranceCents int64 = 100 // $1

const totalsConfidence = 0.9

// TotalsMismatch compares the stated claim total against the sum of line
// charges. The two are not guaranteed to agree; drift beyond tolerance is
// the finding, not an input error.
func TotalsMismatch() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          TotalsMismatchID,
			Name:        "Totals mismatch",
			Description: "Stated claim total disagrees with the sum of line charges",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityMedium,
		},
		Detector: totalsMismatch{},
	}
}

type totalsMismatch struct{}

func (totalsMismatch) Detect(c *model.Context) model.Finding {
	if c.Totals == nil || len(c.LineItems) == 0 {
		return model.NotTriggered(TotalsMismatchID, "totals or line items not available")
	}
	var lineSum int64
	for i := range c.LineItems {
		lineSum += c.LineItems[i].ChargeCents
	}
	delta := c.Totals.ChargesCents - lineSum
	if delta < 0 {
		delta = -delta
	}
	if delta <= TotalsDriftToleranceCents {
		return model.NotTriggered(TotalsMismatchID, "stated total matches the line items")
	}

	var savings *int64
	if over := c.Totals.ChargesCents - lineSum; over > 0 {
		savings = &over
	}
	return model.Finding{
		RuleID:     TotalsMismatchID,
		Triggered:  true,
		Confidence: totalsConfidence,
		Message: fmt.Sprintf("stated total %s differs from line item sum %s by %s",
			fmtCents(c.Totals.ChargesCents), fmtCents(lineSum), fmtCents(delta)),
		RecommendedAction: "ask for a corrected bill; the total does not add up from its own line items",
		SavingsCents:      savings,
		Evidence: []model.Evidence{
			{Field: "stated_total", Value: fmtCents(c.Totals.ChargesCents)},
			{Field: "line_item_sum", Value: fmtCents(lineSum)},
		},
	}
}

// BalanceMath checks charges − adjustments − payments against the stated
// balance.
func BalanceMath() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          BalanceMathID,
			Name:        "Balance math error",
			Description: "Stated balance disagrees with charges minus adjustments and payments",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityMedium,
		},
		Detector: balanceMath{},
	}
}

type balanceMath struct{}

func (balanceMath) Detect(c *model.Context) model.Finding {
	if c.Totals == nil {
		return model.NotTriggered(BalanceMathID, "totals not available")
	}
	expected := c.Totals.ChargesCents - c.Totals.AdjustmentsCents - c.Totals.PaymentsCents
	delta := expected - c.Totals.BalanceCents
	if delta < 0 {
		delta = -delta
	}
	if delta <= TotalsDriftToleranceCents {
		return model.NotTriggered(BalanceMathID, "balance math checks out")
	}

	var savings *int64
	if over := c.Totals.BalanceCents - expected; over > 0 {
		savings = &over
	}
	return model.Finding{
		RuleID:     BalanceMathID,
		Triggered:  true,
		Confidence: totalsConfidence,
		Message: fmt.Sprintf("stated balance %s but charges minus adjustments and payments is %s",
			fmtCents(c.Totals.BalanceCents), fmtCents(expected)),
		RecommendedAction: "dispute the balance; the claim's own arithmetic does not support it",
		SavingsCents:      savings,
		Evidence: []model.Evidence{
			{Field: "expected_balance", Value: fmtCents(expected)},
			{Field: "stated_balance", Value: fmtCents(c.Totals.BalanceCents)},
		},
	}
}
