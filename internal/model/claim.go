package model

import (
	"fmt"
	"time"
)

// LineItem is one billed service on a claim or EOB. Money fields are int64
// cents; nullable money fields are pointers. Constructed once by the
// ingestion side and never mutated during an audit run.
type LineItem struct {
	// ID is the ingestion-assigned line identifier, if any. When empty,
	// findings reference the item by its 1-based position ("line-3").
	ID          string `json:"id,omitempty"`
	Code        string `json:"code"` // raw procedure code, may carry -MOD suffixes
	Description string `json:"description,omitempty"`

	ServiceDate *time.Time `json:"service_date,omitempty"`
	Units       int64      `json:"units"`

	ChargeCents      int64  `json:"charge_cents"`
	AllowedCents     *int64 `json:"allowed_cents,omitempty"`
	PaidCents        *int64 `json:"paid_cents,omitempty"`
	PatientRespCents *int64 `json:"patient_resp_cents,omitempty"`

	PlaceOfService string   `json:"place_of_service,omitempty"`
	DiagnosisCodes []string `json:"diagnosis_codes,omitempty"`
	ProviderID     string   `json:"provider_id,omitempty"`
}

// Totals holds the claim-level aggregates as stated on the document. These
// are not guaranteed to equal the sum of line item charges; rules that
// compare the two must tolerate and flag drift.
type Totals struct {
	ChargesCents     int64 `json:"charges_cents"`
	AdjustmentsCents int64 `json:"adjustments_cents"`
	PaymentsCents    int64 `json:"payments_cents"`
	BalanceCents     int64 `json:"balance_cents"`
}

// Dates holds the claim-level dates, all optional.
type Dates struct {
	Service *time.Time `json:"service,omitempty"`
	Billing *time.Time `json:"billing,omitempty"`
	Due     *time.Time `json:"due,omitempty"`
}

// Provider identifies the billing provider, all fields optional.
type Provider struct {
	NPI       string `json:"npi,omitempty"`
	Name      string `json:"name,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

// Patient identifies the patient. Gender ("F"/"M") and BirthDate feed the
// demographic restriction rules and may be absent.
type Patient struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// Metadata describes how the claim document was extracted.
type Metadata struct {
	DocumentType  string  `json:"document_type"`
	OCRConfidence float64 `json:"ocr_confidence"` // [0,1]
}

// NetworkStatus is the plan's view of the billing provider.
type NetworkStatus string

const (
	NetworkIn  NetworkStatus = "in"
	NetworkOut NetworkStatus = "out"
)

// BenefitsProfile carries the patient's cost-sharing terms. Only the
// benefits-aware rule set reads it; it is optional on a Context.
type BenefitsProfile struct {
	DeductibleCents    int64 `json:"deductible_cents"`
	DeductibleMetCents int64 `json:"deductible_met_cents"`

	// CoinsuranceBPS is the patient's coinsurance share in basis points
	// (20% = 2000).
	CoinsuranceBPS int32 `json:"coinsurance_bps"`

	// CopayCents maps visit type ("office_visit", "er", "preventive",
	// "specialist") to the flat copay.
	CopayCents map[string]int64 `json:"copay_cents,omitempty"`

	OOPMaxCents int64 `json:"oop_max_cents"`
	OOPMetCents int64 `json:"oop_met_cents"`

	Network           NetworkStatus `json:"network,omitempty"`
	HasSecondary      bool          `json:"has_secondary"`
	PriorAuthRequired bool          `json:"prior_auth_required"`
}

// Context is the normalized, read-only input for one audit run. No rule may
// mutate it; concurrent reads are safe.
type Context struct {
	LineItems []LineItem       `json:"line_items"`
	Totals    *Totals          `json:"totals"`
	Dates     Dates            `json:"dates"`
	Provider  Provider         `json:"provider"`
	Patient   Patient          `json:"patient"`
	Metadata  *Metadata        `json:"metadata"`
	Benefits  *BenefitsProfile `json:"benefits,omitempty"`
}

// ItemRef returns the identifier findings use for line item i: the
// ingestion-assigned ID when present, otherwise a 1-based position ref.
func (c *Context) ItemRef(i int) string {
	if i >= 0 && i < len(c.LineItems) && c.LineItems[i].ID != "" {
		return c.LineItems[i].ID
	}
	return fmt.Sprintf("line-%d", i+1)
}

// PatientAgeAt returns the patient's age in whole years on the given date,
// or ok=false when the birth date is unknown.
func (c *Context) PatientAgeAt(on time.Time) (int, bool) {
	if c.Patient.BirthDate == nil {
		return 0, false
	}
	b := *c.Patient.BirthDate
	age := on.Year() - b.Year()
	if on.Month() < b.Month() || (on.Month() == b.Month() && on.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
