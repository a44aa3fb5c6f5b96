package model

import "fmt"

// Category groups rules by the kind of billing problem they look for.
type Category string

const (
	CategoryCoding   Category = "coding"
	CategoryBilling  Category = "billing"
	CategoryPolicy   Category = "policy"
	CategoryClinical Category = "clinical"
)

// AllCategories lists the rule categories in canonical order.
var AllCategories = []Category{
	CategoryCoding,
	CategoryBilling,
	CategoryPolicy,
	CategoryClinical,
}

// ParseCategory returns the Category for the given name, or ok=false.
func ParseCategory(name string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Severity orders rules by impact. Higher values sort first in reports.
type Severity int

const (
	SeverityLow    Severity = 1
	SeverityMedium Severity = 2
	SeverityHigh   Severity = 3
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity returns the Severity for the given name, or ok=false.
func ParseSeverity(name string) (Severity, bool) {
	switch name {
	case "high":
		return SeverityHigh, true
	case "medium":
		return SeverityMedium, true
	case "low":
		return SeverityLow, true
	}
	return 0, false
}

// RuleMetadata describes one registered rule. Defined at process start,
// immutable, never derived from claim data.
type RuleMetadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`

	// RequiresBenefits marks rules that need a BenefitsProfile on the
	// Context to do any real work.
	RequiresBenefits bool `json:"requires_benefits"`
}
