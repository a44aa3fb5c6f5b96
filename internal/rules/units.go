package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const UnitLimitsID = "unit_limit"

const unitConfidence = 0.8

// UnitLimits flags codes whose billed units exceed the per-day maximum.
// The excess amount is excess units times the item's per-unit price.
func UnitLimits(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          UnitLimitsID,
			Name:        "Unit limit exceeded",
			Description: "More units billed in one day than the code allows",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityMedium,
		},
		Detector: unitLimits{tables: t},
	}
}

type unitLimits struct {
	tables *refdata.Tables
}

func (d unitLimits) Detect(c *model.Context) model.Finding {
	// Sum units per (code, day) so split lines still hit the cap.
	type unitKey struct {
		base string
		day  string
	}
	totals := make(map[unitKey]int64)
	members := make(map[unitKey][]int)
	var keyOrder []unitKey
	for i := range c.LineItems {
		item := &c.LineItems[i]
		if item.ServiceDate == nil || item.Units <= 0 {
			continue
		}
		base := baseOf(c, i)
		if _, limited := d.tables.UnitLimits[base]; !limited {
			continue
		}
		key := unitKey{base: base, day: normalize.DayKey(*item.ServiceDate)}
		if _, seen := totals[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		totals[key] += item.Units
		members[key] = append(members[key], i)
	}

	var affected []int
	var savings int64
	var f model.Finding
	for _, key := range keyOrder {
		max := d.tables.UnitLimits[key.base]
		total := totals[key]
		if total <= max {
			continue
		}
		excessUnits := total - max

		// Price the excess off the last line of the day for this code.
		indices := members[key]
		last := indices[len(indices)-1]
		perUnit, ok := normalize.PerUnitCents(c.LineItems[last].ChargeCents, c.LineItems[last].Units)
		if !ok {
			continue
		}
		savings += excessUnits * perUnit
		affected = append(affected, indices...)
		f.Evidence = append(f.Evidence, model.Evidence{
			Field: "units",
			Value: fmt.Sprintf("%d units of %s billed on %s, limit %d",
				total, key.base, key.day, max),
			Location: c.ItemRef(last),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(UnitLimitsID, "no unit limits exceeded")
	}
	sort.Ints(affected)
	affected = dedupInts(affected)

	f.RuleID = UnitLimitsID
	f.Triggered = true
	f.Confidence = unitConfidence
	f.Message = fmt.Sprintf("daily unit limits exceeded; about %s in excess units", fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "request documentation of the time spent or dispute the units beyond the daily limit"
	f.SavingsCents = &savings
	return f
}
