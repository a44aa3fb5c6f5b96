// Package benefits holds the benefits-aware rule set: rules that reconcile
// a claim's stated patient responsibility against the cost-sharing terms in
// a BenefitsProfile. All arithmetic is integer cents; percentage math goes
// through normalize.PercentOfCents with half-up rounding.
package benefits

import (
	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
)

// Breakdown is the expected patient share for one claim, by component.
type Breakdown struct {
	DeductibleCents  int64
	CoinsuranceCents int64
	CopayCents       int64
	TotalCents       int64
}

// ApplyDeductible returns the portion of the allowed amount the remaining
// deductible consumes, capped at the allowed amount, plus the remainder the
// later cost-sharing steps apply to.
func ApplyDeductible(allowedCents, limitCents, metCents int64) (applied, remainder int64) {
	remaining := limitCents - metCents
	if remaining < 0 {
		remaining = 0
	}
	applied = remaining
	if applied > allowedCents {
		applied = allowedCents
	}
	if applied < 0 {
		applied = 0
	}
	return applied, allowedCents - applied
}

// ExpectedPatientShare recomputes what the patient should owe for the given
// allowed amount: remaining deductible first, then coinsurance on the
// remainder, then any flat copay for the visit type.
func ExpectedPatientShare(p *model.BenefitsProfile, allowedCents int64, visitType string) Breakdown {
	if p == nil || allowedCents <= 0 {
		return Breakdown{}
	}

	var b Breakdown
	var remainder int64
	b.DeductibleCents, remainder = ApplyDeductible(allowedCents, p.DeductibleCents, p.DeductibleMetCents)
	b.CoinsuranceCents = normalize.PercentOfCents(remainder, p.CoinsuranceBPS)
	if visitType != "" {
		if copay, ok := p.CopayCents[visitType]; ok {
			b.CopayCents = copay
		}
	}
	b.TotalCents = b.DeductibleCents + b.CoinsuranceCents + b.CopayCents
	return b
}

// ClaimAllowedCents sums the allowed amounts across line items. ok is false
// when no line carries one, meaning the claim was extracted without
// adjudication data and benefits math cannot run.
func ClaimAllowedCents(c *model.Context) (int64, bool) {
	var sum int64
	found := false
	for i := range c.LineItems {
		if c.LineItems[i].AllowedCents != nil {
			sum += *c.LineItems[i].AllowedCents
			found = true
		}
	}
	return sum, found
}

// ClaimPaidCents sums insurer payments across line items.
func ClaimPaidCents(c *model.Context) int64 {
	var sum int64
	for i := range c.LineItems {
		if c.LineItems[i].PaidCents != nil {
			sum += *c.LineItems[i].PaidCents
		}
	}
	return sum
}

// StatedPatientCents is the claim's stated patient responsibility: the sum
// of per-line amounts when present, otherwise the claim balance. ok is
// false when neither source exists.
func StatedPatientCents(c *model.Context) (int64, bool) {
	var sum int64
	found := false
	for i := range c.LineItems {
		if c.LineItems[i].PatientRespCents != nil {
			sum += *c.LineItems[i].PatientRespCents
			found = true
		}
	}
	if found {
		return sum, true
	}
	if c.Totals != nil && c.Totals.BalanceCents > 0 {
		return c.Totals.BalanceCents, true
	}
	return 0, false
}

// VisitType classifies the claim for copay lookup based on the procedure
// codes present. Empty when no classification fits.
func VisitType(c *model.Context) string {
	for i := range c.LineItems {
		base := normalize.BaseCode(c.LineItems[i].Code)
		switch {
		case len(base) == 5 && base[:4] == "9928":
			return "er"
		case len(base) == 5 && (base[:3] == "993" || base == "G0438" || base == "G0439"):
			return "preventive"
		case len(base) == 5 && (base[:4] == "9920" || base[:4] == "9921"):
			return "office_visit"
		}
	}
	return ""
}
