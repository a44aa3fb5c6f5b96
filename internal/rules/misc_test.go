package rules

import (
	"testing"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

func TestUnitLimits(t *testing.T) {
	day := onDay(2024, 1, 5)
	// Six 15-minute therapy units split across two lines; the cap is four.
	c := claimOf(
		model.LineItem{Code: "97110", ServiceDate: day, Units: 4, ChargeCents: 168_00},
		model.LineItem{Code: "97110", ServiceDate: day, Units: 2, ChargeCents: 84_00},
	)

	f := UnitLimits(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("six units against a daily cap of four: %s", f.Message)
	}
	// Two excess units at $42 per unit.
	if f.SavingsCents == nil || *f.SavingsCents != 84_00 {
		t.Errorf("savings = %v, want 8400", f.SavingsCents)
	}

	within := claimOf(model.LineItem{Code: "97110", ServiceDate: day, Units: 4, ChargeCents: 168_00})
	if f := UnitLimits(refdata.Builtin()).Detector.Detect(within); f.Triggered {
		t.Errorf("four units is at the cap, not over it: %s", f.Message)
	}
}

func TestPriceOutliers(t *testing.T) {
	c := claimOf(lineItem("99213", onDay(2024, 1, 5), 400_00))

	f := PriceOutliers(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("$400 against a $220 benchmark maximum: %s", f.Message)
	}
	// Savings measure back to the typical amount, not the maximum.
	if f.SavingsCents == nil || *f.SavingsCents != 270_00 {
		t.Errorf("savings = %v, want 40000-13000 = 27000", f.SavingsCents)
	}

	within := claimOf(lineItem("99213", onDay(2024, 1, 5), 215_00))
	if f := PriceOutliers(refdata.Builtin()).Detector.Detect(within); f.Triggered {
		t.Errorf("inside the benchmark range: %s", f.Message)
	}
}

func TestPlaceOfService(t *testing.T) {
	day := onDay(2024, 1, 5)
	c := claimOf(model.LineItem{
		Code: "99285", ServiceDate: day, Units: 1, ChargeCents: 540_00,
		PlaceOfService: "11", // office
	})

	f := PlaceOfService(refdata.Builtin()).Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("emergency visit billed from an office setting: %s", f.Message)
	}
	if f.SavingsCents == nil || *f.SavingsCents != 540_00 {
		t.Errorf("savings = %v, want 54000", f.SavingsCents)
	}

	er := claimOf(model.LineItem{
		Code: "99285", ServiceDate: day, Units: 1, ChargeCents: 540_00,
		PlaceOfService: "23",
	})
	if f := PlaceOfService(refdata.Builtin()).Detector.Detect(er); f.Triggered {
		t.Errorf("POS 23 is the expected setting: %s", f.Message)
	}

	noPOS := claimOf(lineItem("99285", day, 540_00))
	if f := PlaceOfService(refdata.Builtin()).Detector.Detect(noPOS); f.Triggered {
		t.Errorf("items without a POS code are skipped: %s", f.Message)
	}
}

func TestInvalidCodes(t *testing.T) {
	c := claimOf(
		lineItem("99213", onDay(2024, 1, 5), 115_00),
		lineItem("G0439", onDay(2024, 1, 5), 175_00),
		lineItem("CHG12345", onDay(2024, 1, 5), 80_00),
	)

	f := InvalidCodes().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("an internal charge code leaked onto the bill: %s", f.Message)
	}
	if len(f.AffectedItems) != 1 || f.AffectedItems[0] != "line-3" {
		t.Errorf("affected = %v, want only the malformed code", f.AffectedItems)
	}
}

func TestFutureDates(t *testing.T) {
	c := claimOf(
		lineItem("99213", onDay(2024, 2, 10), 115_00),
		lineItem("99213", onDay(2024, 1, 5), 115_00),
	)
	c.Dates.Billing = onDay(2024, 1, 20)

	f := FutureDates().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("a service dated after the bill was issued: %s", f.Message)
	}
	if len(f.AffectedItems) != 1 || f.AffectedItems[0] != "line-1" {
		t.Errorf("affected = %v, want the future-dated line", f.AffectedItems)
	}

	c.Dates.Billing = nil
	if f := FutureDates().Detector.Detect(c); f.Triggered {
		t.Errorf("no billing date means nothing to compare against: %s", f.Message)
	}
}

func TestDocumentationGaps(t *testing.T) {
	// The first line lacks diagnosis codes; the second lacks a service date.
	c := claimOf(
		lineItem("99213", onDay(2024, 1, 5), 115_00),
		model.LineItem{Code: "36415", Units: 1, ChargeCents: 12_00, DiagnosisCodes: []string{"E11.9"}},
	)

	f := DocumentationGaps().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("missing diagnosis codes, a date, and the NPI: %s", f.Message)
	}
	// Two item gaps plus the claim-level missing NPI.
	if len(f.Evidence) != 3 {
		t.Errorf("evidence = %+v, want 3 gaps", f.Evidence)
	}

	complete := claimOf(model.LineItem{
		Code: "99213", ServiceDate: onDay(2024, 1, 5), Units: 1,
		ChargeCents: 115_00, DiagnosisCodes: []string{"J06.9"},
	})
	complete.Provider.NPI = "1234567893"
	if f := DocumentationGaps().Detector.Detect(complete); f.Triggered {
		t.Errorf("fully documented claim: %s", f.Message)
	}
}

func TestMissingItemization(t *testing.T) {
	lump := claimOf(lineItem("99999", onDay(2024, 1, 5), 8500_00))
	f := MissingItemization().Detector.Detect(lump)
	if !f.Triggered {
		t.Fatalf("one $8,500 line is a lump sum: %s", f.Message)
	}

	small := claimOf(lineItem("99213", onDay(2024, 1, 5), 115_00))
	if f := MissingItemization().Detector.Detect(small); f.Triggered {
		t.Errorf("a small single-line claim is fine: %s", f.Message)
	}

	itemized := claimOf(
		lineItem("99213", onDay(2024, 1, 5), 5500_00),
		lineItem("36415", onDay(2024, 1, 5), 12_00),
	)
	if f := MissingItemization().Detector.Detect(itemized); f.Triggered {
		t.Errorf("multiple lines mean the claim is itemized: %s", f.Message)
	}
}

func TestLowConfidenceExtraction(t *testing.T) {
	c := claimOf(lineItem("99213", onDay(2024, 1, 5), 115_00))
	c.Metadata = &model.Metadata{DocumentType: "itemized_bill", OCRConfidence: 0.35}

	f := LowConfidenceExtraction().Detector.Detect(c)
	if !f.Triggered {
		t.Fatalf("extraction confidence 0.35 is below the floor: %s", f.Message)
	}

	c.Metadata.OCRConfidence = 0.85
	if f := LowConfidenceExtraction().Detector.Detect(c); f.Triggered {
		t.Errorf("confident extraction: %s", f.Message)
	}

	c.Metadata = nil
	if f := LowConfidenceExtraction().Detector.Detect(c); f.Triggered {
		t.Errorf("missing metadata degrades to non-triggered: %s", f.Message)
	}
}
