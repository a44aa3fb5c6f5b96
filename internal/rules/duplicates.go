package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
)

const (
	DuplicateChargesID        = "duplicate_charges"
	DuplicateServiceVariantID = "duplicate_service_variant"
)

// duplicateConfidence applies when items match on code, date, and charge;
// exact matches are very unlikely to be legitimate repeats.
const duplicateConfidence = 0.9

const variantConfidence = 0.5

// DuplicateCharges flags line items billed more than once with the same
// base code, service date, and charge amount.
func DuplicateCharges() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          DuplicateChargesID,
			Name:        "Duplicate charges",
			Description: "Identical procedure, service date, and charge billed more than once",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityHigh,
		},
		Detector: duplicateCharges{},
	}
}

type duplicateCharges struct{}

func (duplicateCharges) Detect(c *model.Context) model.Finding {
	type dupKey struct {
		base   string
		day    string
		charge int64
	}
	groups := make(map[dupKey][]int)
	var keyOrder []dupKey
	for i := range c.LineItems {
		item := &c.LineItems[i]
		if item.ServiceDate == nil {
			continue
		}
		key := dupKey{
			base:   normalize.BaseCode(item.Code),
			day:    normalize.DayKey(*item.ServiceDate),
			charge: item.ChargeCents,
		}
		if key.base == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	var affected []int
	var savings int64
	var codes []string
	for _, key := range keyOrder {
		indices := groups[key]
		if len(indices) < 2 {
			continue
		}
		// All but the first occurrence are redundant.
		affected = append(affected, indices[1:]...)
		savings += int64(len(indices)-1) * key.charge
		codes = append(codes, key.base)
	}

	if len(affected) == 0 {
		return model.NotTriggered(DuplicateChargesID, "no duplicate charges found")
	}
	sort.Ints(affected)

	f := model.Finding{
		RuleID:     DuplicateChargesID,
		Triggered:  true,
		Confidence: duplicateConfidence,
		Message: fmt.Sprintf("%d duplicate line item(s) for %s totaling %s",
			len(affected), strings.Join(codes, ", "), fmtCents(savings)),
		AffectedItems:     refs(c, affected),
		RecommendedAction: "request removal of the duplicate charges or an itemized correction",
		SavingsCents:      &savings,
	}
	for _, idx := range affected {
		f.Evidence = append(f.Evidence, model.Evidence{
			Field:    "charge",
			Value:    fmtCents(c.LineItems[idx].ChargeCents),
			Location: c.ItemRef(idx),
		})
	}
	return f
}

// DuplicateServiceVariant flags same-day repeats of a base code with
// differing charges. These are not provable duplicates, so the rule only
// asks for review.
func DuplicateServiceVariant() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          DuplicateServiceVariantID,
			Name:        "Same-day service variants",
			Description: "Same procedure repeated on one day with differing charges",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityLow,
		},
		Detector: duplicateServiceVariant{},
	}
}

type duplicateServiceVariant struct{}

func (duplicateServiceVariant) Detect(c *model.Context) model.Finding {
	type varKey struct {
		base string
		day  string
	}
	groups := make(map[varKey][]int)
	var keyOrder []varKey
	for i := range c.LineItems {
		item := &c.LineItems[i]
		if item.ServiceDate == nil {
			continue
		}
		key := varKey{base: normalize.BaseCode(item.Code), day: normalize.DayKey(*item.ServiceDate)}
		if key.base == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	var affected []int
	for _, key := range keyOrder {
		indices := groups[key]
		if len(indices) < 2 {
			continue
		}
		charges := make(map[int64]bool)
		for _, idx := range indices {
			charges[c.LineItems[idx].ChargeCents] = true
		}
		// Identical charges are the exact-duplicate rule's territory.
		if len(charges) < 2 {
			continue
		}
		affected = append(affected, indices...)
	}

	if len(affected) == 0 {
		return model.NotTriggered(DuplicateServiceVariantID, "no same-day service variants found")
	}
	sort.Ints(affected)

	return model.Finding{
		RuleID:     DuplicateServiceVariantID,
		Triggered:  true,
		Confidence: variantConfidence,
		Message: fmt.Sprintf("%d line item(s) repeat a procedure on the same day with different charges",
			len(affected)),
		AffectedItems:     refs(c, affected),
		RecommendedAction: "ask the provider to explain why the procedure appears more than once with different amounts",
	}
}
