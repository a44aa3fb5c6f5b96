package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const MutuallyExclusiveID = "mutually_exclusive"

const exclusivityConfidence = 0.8

// MutuallyExclusive flags same-day code pairs that cannot both be correct.
// How much of the conflicting money is inappropriate depends on the
// exclusion category: NCCI component edits forfeit every excluded charge,
// anatomical conflicts keep only the highest-charge item, temporal
// conflicts keep only the first item of the day.
func MutuallyExclusive(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          MutuallyExclusiveID,
			Name:        "Mutually exclusive procedures",
			Description: "Procedure pairs that cannot both be billed for the same day",
			Category:    model.CategoryClinical,
			Severity:    model.SeverityHigh,
		},
		Detector: mutuallyExclusive{tables: t},
	}
}

type mutuallyExclusive struct {
	tables *refdata.Tables
}

func (d mutuallyExclusive) Detect(c *model.Context) model.Finding {
	byDate := itemsByDate(c)
	dates := make([]string, 0, len(byDate))
	for day := range byDate {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	var affected []int
	var savings int64
	var f model.Finding
	seen := make(map[int]bool)
	for _, day := range dates {
		indices := byDate[day]
		present := make(map[string][]int)
		for _, idx := range indices {
			present[baseOf(c, idx)] = append(present[baseOf(c, idx)], idx)
		}

		for _, excl := range d.tables.Exclusions {
			primaries := present[excl.Primary]
			if len(primaries) == 0 {
				continue
			}
			var conflicting []int
			for _, code := range excl.Excluded {
				conflicting = append(conflicting, present[code]...)
			}
			if len(conflicting) == 0 {
				continue
			}

			var inappropriate []int
			switch excl.Category {
			case refdata.ExclusionNCCI:
				// Every excluded-code charge is inappropriate.
				inappropriate = conflicting
			case refdata.ExclusionAnatomical:
				// Keep the highest-charge item of the whole conflicting
				// set; the rest are inappropriate.
				set := append(append([]int{}, primaries...), conflicting...)
				keep := set[0]
				for _, idx := range set[1:] {
					if c.LineItems[idx].ChargeCents > c.LineItems[keep].ChargeCents {
						keep = idx
					}
				}
				for _, idx := range set {
					if idx != keep {
						inappropriate = append(inappropriate, idx)
					}
				}
			case refdata.ExclusionTemporal:
				// Keep the first item of the day in input order (all
				// items here share the same service date).
				set := append(append([]int{}, primaries...), conflicting...)
				sort.Ints(set)
				inappropriate = set[1:]
			default:
				continue
			}

			for _, idx := range inappropriate {
				if seen[idx] {
					continue
				}
				seen[idx] = true
				affected = append(affected, idx)
				savings += c.LineItems[idx].ChargeCents
			}
			f.Evidence = append(f.Evidence, model.Evidence{
				Field:    "conflict",
				Value:    fmt.Sprintf("%s vs %v (%s): %s", excl.Primary, excl.Excluded, excl.Category, excl.Rationale),
				Location: day,
			})
		}
	}

	if len(affected) == 0 {
		return model.NotTriggered(MutuallyExclusiveID, "no mutually exclusive procedure pairs found")
	}
	sort.Ints(affected)

	f.RuleID = MutuallyExclusiveID
	f.Triggered = true
	f.Confidence = exclusivityConfidence
	f.Message = fmt.Sprintf("mutually exclusive procedures billed together; %s inappropriate",
		fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "dispute the conflicting charges; only one of the procedures can be billed for that day"
	f.SavingsCents = &savings
	f.Citations = []model.Citation{nccicitation}
	return f
}

// dedupInts removes adjacent duplicates from a sorted slice.
func dedupInts(in []int) []int {
	out := in[:0]
	for i, v := range in {
		if i == 0 || v != in[i-1] {
			out = append(out, v)
		}
	}
	return out
}
