package benefits

import (
	"fmt"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
	"github.com/gyeh/claimaudit/internal/rules"
)

const (
	BenefitsMathID          = "benefits_math"
	DeductibleOverappliedID = "deductible_overapplied"
	CoinsuranceCheckID      = "coinsurance_check"
	CopayMismatchID         = "copay_mismatch"
	OOPMaxExceededID        = "oop_max_exceeded"
	NetworkBalanceBillingID = "network_balance_billing"
	SecondaryCoverageID     = "secondary_coverage_ignored"
)

// Reconciliation tolerances, preserved as-is pending calibration.
const (
	// WholeClaimToleranceCents absorbs rounding and minor adjudication
	// differences on whole-claim checks.
	WholeClaimToleranceCents int64 = 2500 // $25
	// ComponentToleranceCents applies to single-component checks.
	ComponentToleranceCents int64 = 1000 // $10
)

var nsaCitation = model.Citation{
	Title:     "No Surprises Act",
	Authority: "Federal",
	Citation:  "Pub. L. 116-260, Division BB; 45 CFR 149",
}

var acaAppealCitation = model.Citation{
	Title:     "ACA internal claims and appeals process",
	Authority: "Federal",
	Citation:  "45 CFR 147.136",
}

// Rules returns the benefits-aware rule set. Each rule degrades to a
// non-triggered finding when the Context carries no BenefitsProfile.
func Rules(t *refdata.Tables) []rules.Rule {
	_ = t // reserved for copay schedules externalized into ref data
	return []rules.Rule{
		benefitsRule(BenefitsMathID, "Benefits math error",
			"Stated patient responsibility disagrees with deductible, coinsurance, and copay terms",
			model.SeverityHigh, detectBenefitsMath),
		benefitsRule(DeductibleOverappliedID, "Deductible over-applied",
			"Patient charged deductible beyond the remaining amount",
			model.SeverityMedium, detectDeductibleOverapplied),
		benefitsRule(CoinsuranceCheckID, "Coinsurance error",
			"Patient share disagrees with the plan's coinsurance percentage",
			model.SeverityMedium, detectCoinsurance),
		benefitsRule(CopayMismatchID, "Copay mismatch",
			"Patient charged more than the plan's flat copay for this visit type",
			model.SeverityMedium, detectCopayMismatch),
		benefitsRule(OOPMaxExceededID, "Out-of-pocket maximum exceeded",
			"Patient charged beyond the plan's remaining out-of-pocket maximum",
			model.SeverityHigh, detectOOPMax),
		benefitsRule(NetworkBalanceBillingID, "In-network balance billing",
			"In-network provider billing the patient beyond the allowed amount",
			model.SeverityHigh, detectBalanceBilling),
		benefitsRule(SecondaryCoverageID, "Secondary coverage ignored",
			"Full balance billed to the patient despite secondary coverage on file",
			model.SeverityLow, detectSecondaryCoverage),
	}
}

// detectFunc is the shape shared by all benefits rules once the profile's
// presence has been checked.
type detectFunc func(c *model.Context, p *model.BenefitsProfile) model.Finding

func benefitsRule(id, name, description string, sev model.Severity, fn detectFunc) rules.Rule {
	return rules.Rule{
		Meta: model.RuleMetadata{
			ID:               id,
			Name:             name,
			Description:      description,
			Category:         model.CategoryPolicy,
			Severity:         sev,
			RequiresBenefits: true,
		},
		Detector: profileGate{id: id, fn: fn},
	}
}

// profileGate returns a non-triggered finding when no profile is present,
// keeping the one-finding-per-rule contract intact.
type profileGate struct {
	id string
	fn detectFunc
}

func (g profileGate) Detect(c *model.Context) model.Finding {
	if c.Benefits == nil {
		return model.NotTriggered(g.id, "benefits profile not provided")
	}
	return g.fn(c, c.Benefits)
}

const benefitsMathConfidence = 0.85

func detectBenefitsMath(c *model.Context, p *model.BenefitsProfile) model.Finding {
	allowed, ok := ClaimAllowedCents(c)
	if !ok || allowed <= 0 {
		return model.NotTriggered(BenefitsMathID, "no allowed amounts on the claim")
	}
	stated, ok := StatedPatientCents(c)
	if !ok {
		return model.NotTriggered(BenefitsMathID, "no stated patient responsibility on the claim")
	}

	expected := ExpectedPatientShare(p, allowed, VisitType(c))
	delta := stated - expected.TotalCents
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	if abs <= WholeClaimToleranceCents {
		return model.NotTriggered(BenefitsMathID, "patient responsibility matches the plan terms")
	}

	f := model.Finding{
		RuleID:     BenefitsMathID,
		Triggered:  true,
		Confidence: benefitsMathConfidence,
		Message: fmt.Sprintf("expected patient responsibility %s under the plan terms, claim states %s (delta %s)",
			fmtCents(expected.TotalCents), fmtCents(stated), fmtCents(abs)),
		RecommendedAction: "ask the payer to re-adjudicate; the cost-sharing math does not match the plan",
		Citations:         []model.Citation{acaAppealCitation},
		Evidence: []model.Evidence{
			{Field: "expected_patient_resp", Value: fmtCents(expected.TotalCents)},
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
			{Field: "deductible_component", Value: fmtCents(expected.DeductibleCents)},
			{Field: "coinsurance_component", Value: fmtCents(expected.CoinsuranceCents)},
			{Field: "copay_component", Value: fmtCents(expected.CopayCents)},
		},
	}
	if delta > 0 {
		f.SavingsCents = &delta
	}
	return f
}

const deductibleConfidence = 0.7

func detectDeductibleOverapplied(c *model.Context, p *model.BenefitsProfile) model.Finding {
	allowed, ok := ClaimAllowedCents(c)
	if !ok || allowed <= 0 {
		return model.NotTriggered(DeductibleOverappliedID, "no allowed amounts on the claim")
	}
	stated, ok := StatedPatientCents(c)
	if !ok {
		return model.NotTriggered(DeductibleOverappliedID, "no stated patient responsibility on the claim")
	}

	remaining := p.DeductibleCents - p.DeductibleMetCents
	if remaining > 0 {
		return model.NotTriggered(DeductibleOverappliedID, "deductible not yet met; full application is plausible")
	}
	// Deductible is met, so the patient share should be coinsurance and
	// copays only. A stated share at the full allowed amount means the
	// deductible was applied again.
	if stated < allowed-ComponentToleranceCents {
		return model.NotTriggered(DeductibleOverappliedID, "patient share below the allowed amount; deductible not re-applied")
	}
	expected := ExpectedPatientShare(p, allowed, VisitType(c))
	savings := stated - expected.TotalCents
	f := model.Finding{
		RuleID:     DeductibleOverappliedID,
		Triggered:  true,
		Confidence: deductibleConfidence,
		Message: fmt.Sprintf("deductible already met, yet the full allowed amount %s was billed to the patient",
			fmtCents(allowed)),
		RecommendedAction: "send the payer proof the deductible is met and request re-adjudication",
		Evidence: []model.Evidence{
			{Field: "deductible_limit", Value: fmtCents(p.DeductibleCents)},
			{Field: "deductible_met", Value: fmtCents(p.DeductibleMetCents)},
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
		},
	}
	if savings > 0 {
		f.SavingsCents = &savings
	}
	return f
}

const coinsuranceConfidence = 0.75

func detectCoinsurance(c *model.Context, p *model.BenefitsProfile) model.Finding {
	if p.CoinsuranceBPS <= 0 {
		return model.NotTriggered(CoinsuranceCheckID, "plan has no coinsurance")
	}
	remaining := p.DeductibleCents - p.DeductibleMetCents
	if remaining > 0 {
		return model.NotTriggered(CoinsuranceCheckID, "deductible phase; coinsurance-only check does not apply")
	}
	if _, hasCopay := p.CopayCents[VisitType(c)]; hasCopay {
		return model.NotTriggered(CoinsuranceCheckID, "flat copay applies to this visit type")
	}
	allowed, ok := ClaimAllowedCents(c)
	if !ok || allowed <= 0 {
		return model.NotTriggered(CoinsuranceCheckID, "no allowed amounts on the claim")
	}
	stated, ok := StatedPatientCents(c)
	if !ok {
		return model.NotTriggered(CoinsuranceCheckID, "no stated patient responsibility on the claim")
	}

	expected := ExpectedPatientShare(p, allowed, "").CoinsuranceCents
	delta := stated - expected
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	if abs <= ComponentToleranceCents {
		return model.NotTriggered(CoinsuranceCheckID, "patient share matches the coinsurance percentage")
	}

	f := model.Finding{
		RuleID:     CoinsuranceCheckID,
		Triggered:  true,
		Confidence: coinsuranceConfidence,
		Message: fmt.Sprintf("coinsurance at %d.%02d%% of %s should be %s, claim states %s",
			p.CoinsuranceBPS/100, p.CoinsuranceBPS%100, fmtCents(allowed), fmtCents(expected), fmtCents(stated)),
		RecommendedAction: "request an EOB breakdown and dispute the coinsurance calculation",
		Evidence: []model.Evidence{
			{Field: "expected_coinsurance", Value: fmtCents(expected)},
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
		},
	}
	if delta > 0 {
		f.SavingsCents = &delta
	}
	return f
}

const copayConfidence = 0.65

func detectCopayMismatch(c *model.Context, p *model.BenefitsProfile) model.Finding {
	vt := VisitType(c)
	copay, ok := p.CopayCents[vt]
	if vt == "" || !ok {
		return model.NotTriggered(CopayMismatchID, "no flat copay applies to this visit type")
	}
	remaining := p.DeductibleCents - p.DeductibleMetCents
	if remaining > 0 {
		return model.NotTriggered(CopayMismatchID, "deductible phase; copay-only check does not apply")
	}
	stated, ok := StatedPatientCents(c)
	if !ok {
		return model.NotTriggered(CopayMismatchID, "no stated patient responsibility on the claim")
	}
	delta := stated - copay
	if delta <= ComponentToleranceCents {
		return model.NotTriggered(CopayMismatchID, "patient share matches the copay schedule")
	}

	return model.Finding{
		RuleID:     CopayMismatchID,
		Triggered:  true,
		Confidence: copayConfidence,
		Message: fmt.Sprintf("plan copay for %s visits is %s, claim states %s",
			vt, fmtCents(copay), fmtCents(stated)),
		RecommendedAction: "point the provider at the plan's copay schedule and request a corrected bill",
		SavingsCents:      &delta,
		Evidence: []model.Evidence{
			{Field: "plan_copay", Value: fmtCents(copay)},
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
		},
	}
}

const oopConfidence = 0.9

func detectOOPMax(c *model.Context, p *model.BenefitsProfile) model.Finding {
	if p.OOPMaxCents <= 0 {
		return model.NotTriggered(OOPMaxExceededID, "plan has no out-of-pocket maximum on file")
	}
	stated, ok := StatedPatientCents(c)
	if !ok {
		return model.NotTriggered(OOPMaxExceededID, "no stated patient responsibility on the claim")
	}
	remaining := p.OOPMaxCents - p.OOPMetCents
	if remaining < 0 {
		remaining = 0
	}
	delta := stated - remaining
	if delta <= WholeClaimToleranceCents {
		return model.NotTriggered(OOPMaxExceededID, "patient share fits within the remaining out-of-pocket maximum")
	}

	return model.Finding{
		RuleID:     OOPMaxExceededID,
		Triggered:  true,
		Confidence: oopConfidence,
		Message: fmt.Sprintf("patient billed %s but only %s remains before the out-of-pocket maximum",
			fmtCents(stated), fmtCents(remaining)),
		RecommendedAction: "anything beyond the out-of-pocket maximum is the plan's to pay; demand re-adjudication",
		SavingsCents:      &delta,
		Citations:         []model.Citation{acaAppealCitation},
		Evidence: []model.Evidence{
			{Field: "oop_max", Value: fmtCents(p.OOPMaxCents)},
			{Field: "oop_met", Value: fmtCents(p.OOPMetCents)},
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
		},
	}
}

const balanceBillingConfidence = 0.8

func detectBalanceBilling(c *model.Context, p *model.BenefitsProfile) model.Finding {
	if p.Network != model.NetworkIn {
		return model.NotTriggered(NetworkBalanceBillingID, "provider not recorded as in-network")
	}
	allowed, ok := ClaimAllowedCents(c)
	if !ok || allowed <= 0 {
		return model.NotTriggered(NetworkBalanceBillingID, "no allowed amounts on the claim")
	}
	stated, ok := StatedPatientCents(c)
	if !ok {
		return model.NotTriggered(NetworkBalanceBillingID, "no stated patient responsibility on the claim")
	}

	patientOwes := allowed - ClaimPaidCents(c)
	if patientOwes < 0 {
		patientOwes = 0
	}
	delta := stated - patientOwes
	if delta <= WholeClaimToleranceCents {
		return model.NotTriggered(NetworkBalanceBillingID, "patient billed within the allowed amount")
	}

	return model.Finding{
		RuleID:            NetworkBalanceBillingID,
		Triggered:         true,
		Confidence:        balanceBillingConfidence,
		Message:           fmt.Sprintf("in-network provider billing %s beyond the allowed amount", fmtCents(delta)),
		RecommendedAction: "in-network providers must write off charges above the allowed amount; dispute the balance bill",
		SavingsCents:      &delta,
		Citations:         []model.Citation{nsaCitation},
		Evidence: []model.Evidence{
			{Field: "allowed_amount", Value: fmtCents(allowed)},
			{Field: "insurer_paid", Value: fmtCents(ClaimPaidCents(c))},
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
		},
	}
}

const secondaryConfidence = 0.5

func detectSecondaryCoverage(c *model.Context, p *model.BenefitsProfile) model.Finding {
	if !p.HasSecondary {
		return model.NotTriggered(SecondaryCoverageID, "no secondary coverage on file")
	}
	stated, ok := StatedPatientCents(c)
	if !ok || stated <= 0 {
		return model.NotTriggered(SecondaryCoverageID, "no patient balance to coordinate")
	}

	return model.Finding{
		RuleID:     SecondaryCoverageID,
		Triggered:  true,
		Confidence: secondaryConfidence,
		Message: fmt.Sprintf("patient billed %s with secondary coverage on file; the balance may be payable by the secondary plan",
			fmtCents(stated)),
		RecommendedAction: "submit the claim and primary EOB to the secondary payer before paying anything",
		Evidence: []model.Evidence{
			{Field: "stated_patient_resp", Value: fmtCents(stated)},
		},
	}
}

// fmtCents renders an integer cent amount for finding messages.
func fmtCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
