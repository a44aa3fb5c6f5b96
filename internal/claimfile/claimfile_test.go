package claimfile

import (
	"os"
	"path/filepath"
	"testing"
)

const claimJSON = `{
  "line_items": [
    {"code": "99213", "service_date": "2024-01-05T00:00:00Z", "units": 1, "charge_cents": 11500}
  ],
  "totals": {"charges_cents": 11500, "balance_cents": 11500},
  "metadata": {"document_type": "itemized_bill", "ocr_confidence": 0.92}
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claim.json")
	os.WriteFile(path, []byte(claimJSON), 0644)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.LineItems) != 1 || c.LineItems[0].Code != "99213" {
		t.Fatalf("unexpected line items: %+v", c.LineItems)
	}
	if c.LineItems[0].ChargeCents != 11500 {
		t.Errorf("charge = %d, want 11500", c.LineItems[0].ChargeCents)
	}
	if c.Totals == nil || c.Totals.BalanceCents != 11500 {
		t.Errorf("unexpected totals: %+v", c.Totals)
	}
	if c.Benefits != nil {
		t.Error("no benefits in the file; expected nil profile")
	}
}

func TestLoadBenefits(t *testing.T) {
	dir := t.TempDir()
	claim := filepath.Join(dir, "claim.json")
	benefits := filepath.Join(dir, "benefits.json")
	os.WriteFile(claim, []byte(claimJSON), 0644)
	os.WriteFile(benefits, []byte(`{
	  "deductible_cents": 100000,
	  "deductible_met_cents": 95000,
	  "coinsurance_bps": 2000,
	  "copay_cents": {"office_visit": 3000},
	  "network": "in"
	}`), 0644)

	c, err := Load(claim)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := LoadBenefits(c, benefits); err != nil {
		t.Fatalf("LoadBenefits: %v", err)
	}
	if c.Benefits == nil || c.Benefits.CoinsuranceBPS != 2000 {
		t.Fatalf("unexpected benefits: %+v", c.Benefits)
	}
	if c.Benefits.CopayCents["office_visit"] != 3000 {
		t.Errorf("copay = %d, want 3000", c.Benefits.CopayCents["office_visit"])
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/claim.json"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
