package model

import (
	"strings"
	"testing"
	"time"
)

func validContext() *Context {
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	return &Context{
		LineItems: []LineItem{
			{Code: "99213", ServiceDate: &d, Units: 1, ChargeCents: 11500},
		},
		Totals:   &Totals{ChargesCents: 11500, BalanceCents: 11500},
		Metadata: &Metadata{DocumentType: "medical_bill", OCRConfidence: 0.92},
	}
}

func TestValidateContext_Valid(t *testing.T) {
	if problems := ValidateContext(validContext()); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestValidateContext_EmptyLineItems(t *testing.T) {
	c := validContext()
	c.LineItems = nil
	problems := ValidateContext(c)
	if len(problems) == 0 {
		t.Fatal("expected validation problems")
	}
	found := false
	for _, p := range problems {
		if strings.Contains(p, "line items") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a problem mentioning line items, got %v", problems)
	}
}

func TestValidateContext_CollectsAllProblems(t *testing.T) {
	c := &Context{}
	problems := ValidateContext(c)
	if len(problems) != 3 {
		t.Errorf("expected 3 problems (items, totals, metadata), got %d: %v", len(problems), problems)
	}
}

func TestValidateContext_BadConfidence(t *testing.T) {
	c := validContext()
	c.Metadata.OCRConfidence = 1.2
	problems := ValidateContext(c)
	if len(problems) != 1 || !strings.Contains(problems[0], "confidence") {
		t.Errorf("expected confidence problem, got %v", problems)
	}
}

func TestItemRef(t *testing.T) {
	c := validContext()
	if got := c.ItemRef(0); got != "line-1" {
		t.Errorf("ItemRef(0) = %q, want line-1", got)
	}
	c.LineItems[0].ID = "svc-42"
	if got := c.ItemRef(0); got != "svc-42" {
		t.Errorf("ItemRef(0) = %q, want svc-42", got)
	}
}

func TestPatientAgeAt(t *testing.T) {
	b := time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC)
	c := &Context{Patient: Patient{BirthDate: &b}}

	on := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	if age, ok := c.PatientAgeAt(on); !ok || age != 63 {
		t.Errorf("age before birthday = %d, %v; want 63, true", age, ok)
	}
	on = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if age, ok := c.PatientAgeAt(on); !ok || age != 64 {
		t.Errorf("age on birthday = %d, %v; want 64, true", age, ok)
	}

	c.Patient.BirthDate = nil
	if _, ok := c.PatientAgeAt(on); ok {
		t.Error("expected ok=false without birth date")
	}
}
