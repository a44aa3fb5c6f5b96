package benefits

import (
	"strings"
	"testing"
	"time"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
	"github.com/gyeh/claimaudit/internal/rules"
)

func i64(v int64) *int64 { return &v }

func claimWith(allowed, paid, patientResp int64) *model.Context {
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	return &model.Context{
		LineItems: []model.LineItem{{
			ID:               "line-1",
			Code:             "27447",
			ServiceDate:      &day,
			Units:            1,
			ChargeCents:      allowed * 2,
			AllowedCents:     i64(allowed),
			PaidCents:        i64(paid),
			PatientRespCents: i64(patientResp),
		}},
	}
}

func findRule(t *testing.T, id string) rules.Rule {
	t.Helper()
	for _, r := range Rules(refdata.Builtin()) {
		if r.Meta.ID == id {
			return r
		}
	}
	t.Fatalf("rule %s not registered", id)
	return rules.Rule{}
}

func TestAllRulesDegradeWithoutProfile(t *testing.T) {
	c := claimWith(100_00, 40_00, 60_00)
	for _, r := range Rules(refdata.Builtin()) {
		if !r.Meta.RequiresBenefits {
			t.Errorf("%s: benefits rule not marked RequiresBenefits", r.Meta.ID)
		}
		f := r.Detector.Detect(c)
		if f.Triggered {
			t.Errorf("%s: triggered without a benefits profile", r.Meta.ID)
		}
		if f.Message != "benefits profile not provided" {
			t.Errorf("%s: message = %q, want the missing-profile message", r.Meta.ID, f.Message)
		}
	}
}

func TestBenefitsMath(t *testing.T) {
	// Allowed $100 against $50 of remaining deductible and 20% coinsurance:
	// the patient owes $50 + 20% of $50 = $60. A claim stating $90 is $30
	// over, well past the tolerance.
	r := findRule(t, BenefitsMathID)
	c := claimWith(100_00, 10_00, 90_00)
	c.Benefits = &model.BenefitsProfile{
		DeductibleCents:    1000_00,
		DeductibleMetCents: 950_00,
		CoinsuranceBPS:     2000,
	}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("expected a benefits math finding, got: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 30_00 {
		t.Errorf("savings = %v, want 3000", f.SavingsCents)
	}
	wantEvidence := map[string]string{
		"expected_patient_resp": "$60.00",
		"stated_patient_resp":   "$90.00",
	}
	for _, ev := range f.Evidence {
		if want, ok := wantEvidence[ev.Field]; ok {
			if ev.Value != want {
				t.Errorf("evidence %s = %q, want %q", ev.Field, ev.Value, want)
			}
			delete(wantEvidence, ev.Field)
		}
	}
	for field := range wantEvidence {
		t.Errorf("missing evidence field %s", field)
	}

	// Within tolerance: stated $61 vs expected $60.
	ok := claimWith(100_00, 40_00, 61_00)
	ok.Benefits = c.Benefits
	if f := r.Detector.Detect(ok); f.Triggered {
		t.Errorf("triggered inside the tolerance band: %s", f.Message)
	}
}

func TestDeductibleOverapplied(t *testing.T) {
	r := findRule(t, DeductibleOverappliedID)
	c := claimWith(100_00, 0, 100_00)
	c.Benefits = &model.BenefitsProfile{
		DeductibleCents:    1000_00,
		DeductibleMetCents: 1000_00,
		CoinsuranceBPS:     2000,
	}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("deductible met but full allowed billed; expected a finding, got: %s", f.Message)
	}
	// Expected share is 20% of $100 = $20, so $80 of the $100 is recoverable.
	if f.SavingsCents == nil || *f.SavingsCents != 80_00 {
		t.Errorf("savings = %v, want 8000", f.SavingsCents)
	}

	c.Benefits.DeductibleMetCents = 500_00
	if f := r.Detector.Detect(c); f.Triggered {
		t.Errorf("deductible not met; applying it is plausible: %s", f.Message)
	}
}

func TestCoinsuranceCheck(t *testing.T) {
	r := findRule(t, CoinsuranceCheckID)
	c := claimWith(200_00, 160_00, 55_00)
	c.Benefits = &model.BenefitsProfile{
		DeductibleCents:    500_00,
		DeductibleMetCents: 500_00,
		CoinsuranceBPS:     2000,
	}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("stated $55 against 20%% of $200; expected a finding, got: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 15_00 {
		t.Errorf("savings = %v, want 1500", f.SavingsCents)
	}
	if !strings.Contains(f.Message, "20.00%") {
		t.Errorf("message should name the coinsurance percentage: %q", f.Message)
	}

	c.LineItems[0].PatientRespCents = i64(42_00)
	if f := r.Detector.Detect(c); f.Triggered {
		t.Errorf("$42 vs $40 is inside the tolerance: %s", f.Message)
	}
}

func TestCopayMismatch(t *testing.T) {
	r := findRule(t, CopayMismatchID)
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	c := &model.Context{
		LineItems: []model.LineItem{{
			Code:             "99213",
			ServiceDate:      &day,
			Units:            1,
			ChargeCents:      150_00,
			PatientRespCents: i64(75_00),
		}},
	}
	c.Benefits = &model.BenefitsProfile{
		CopayCents: map[string]int64{"office_visit": 30_00},
	}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("$75 billed against a $30 office copay; expected a finding, got: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 45_00 {
		t.Errorf("savings = %v, want 4500", f.SavingsCents)
	}

	c.Benefits.DeductibleCents = 1000_00
	if f := r.Detector.Detect(c); f.Triggered {
		t.Errorf("deductible phase should suppress the copay check: %s", f.Message)
	}
}

func TestOOPMaxExceeded(t *testing.T) {
	r := findRule(t, OOPMaxExceededID)
	c := claimWith(500_00, 0, 500_00)
	c.Benefits = &model.BenefitsProfile{
		OOPMaxCents: 5000_00,
		OOPMetCents: 4900_00,
	}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("$500 billed with $100 of headroom; expected a finding, got: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 400_00 {
		t.Errorf("savings = %v, want 40000", f.SavingsCents)
	}

	c.Benefits.OOPMetCents = 0
	if f := r.Detector.Detect(c); f.Triggered {
		t.Errorf("plenty of headroom; no finding expected: %s", f.Message)
	}
}

func TestNetworkBalanceBilling(t *testing.T) {
	r := findRule(t, NetworkBalanceBillingID)
	// Allowed $100, insurer paid $80, but the patient is billed $150: the
	// $130 above the $20 the patient actually owes is a balance bill.
	c := claimWith(100_00, 80_00, 150_00)
	c.Benefits = &model.BenefitsProfile{Network: model.NetworkIn}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("expected a balance billing finding, got: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 130_00 {
		t.Errorf("savings = %v, want 13000", f.SavingsCents)
	}
	if len(f.Citations) == 0 {
		t.Error("balance billing finding should cite the No Surprises Act")
	}

	c.Benefits.Network = model.NetworkOut
	if f := r.Detector.Detect(c); f.Triggered {
		t.Errorf("out-of-network providers are out of scope here: %s", f.Message)
	}
}

func TestSecondaryCoverageIgnored(t *testing.T) {
	r := findRule(t, SecondaryCoverageID)
	c := claimWith(100_00, 80_00, 20_00)
	c.Benefits = &model.BenefitsProfile{HasSecondary: true}

	f := r.Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("secondary coverage on file with a patient balance; expected a finding, got: %s", f.Message)
	}
	if f.SavingsCents != nil {
		t.Errorf("coordination is advisory; no savings estimate expected, got %d", *f.SavingsCents)
	}

	c.Benefits.HasSecondary = false
	if f := r.Detector.Detect(c); f.Triggered {
		t.Errorf("no secondary coverage; no finding expected: %s", f.Message)
	}
}
