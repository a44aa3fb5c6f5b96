package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const FrequencyLimitsID = "frequency_limit"

const frequencyConfidence = 0.85

// FrequencyLimits flags codes billed more often than their declared limit
// within a period bucket (day, Monday-anchored week, month, year, or
// lifetime).
func FrequencyLimits(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          FrequencyLimitsID,
			Name:        "Frequency limit exceeded",
			Description: "A service billed more often than its period limit allows",
			Category:    model.CategoryPolicy,
			Severity:    model.SeverityMedium,
		},
		Detector: frequencyLimits{tables: t},
	}
}

type frequencyLimits struct {
	tables *refdata.Tables
}

func (d frequencyLimits) Detect(c *model.Context) model.Finding {
	// Collect dated items per limited code.
	perCode := make(map[string][]int)
	var codeOrder []string
	for i := range c.LineItems {
		if c.LineItems[i].ServiceDate == nil {
			continue
		}
		base := baseOf(c, i)
		if _, limited := d.tables.FrequencyLimits[base]; !limited {
			continue
		}
		if _, seen := perCode[base]; !seen {
			codeOrder = append(codeOrder, base)
		}
		perCode[base] = append(perCode[base], i)
	}
	sort.Strings(codeOrder)

	var affected []int
	var savings int64
	var f model.Finding
	for _, base := range codeOrder {
		limit := d.tables.FrequencyLimits[base]
		buckets := make(map[string][]int)
		var bucketOrder []string
		for _, idx := range perCode[base] {
			key := bucketKey(limit.Period, *c.LineItems[idx].ServiceDate)
			if _, seen := buckets[key]; !seen {
				bucketOrder = append(bucketOrder, key)
			}
			buckets[key] = append(buckets[key], idx)
		}
		sort.Strings(bucketOrder)

		for _, key := range bucketOrder {
			indices := buckets[key]
			if len(indices) <= limit.MaxCount {
				continue
			}
			// Excess items come from the tail after sorting by date;
			// input order breaks ties.
			sort.SliceStable(indices, func(a, b int) bool {
				return c.LineItems[indices[a]].ServiceDate.Before(*c.LineItems[indices[b]].ServiceDate)
			})
			excess := indices[limit.MaxCount:]
			var excessCents int64
			for _, idx := range excess {
				excessCents += c.LineItems[idx].ChargeCents
			}
			affected = append(affected, excess...)
			savings += excessCents
			f.Evidence = append(f.Evidence,
				model.Evidence{
					Field:    "actual_count",
					Value:    fmt.Sprintf("%d", len(indices)),
					Location: fmt.Sprintf("%s %s bucket %s", base, limit.Period, key),
				},
				model.Evidence{
					Field:    "allowed_limit",
					Value:    fmt.Sprintf("%d", limit.MaxCount),
					Location: fmt.Sprintf("%s %s bucket %s", base, limit.Period, key),
				},
			)
		}
	}

	if len(affected) == 0 {
		return model.NotTriggered(FrequencyLimitsID, "no frequency limits exceeded")
	}
	sort.Ints(affected)

	f.RuleID = FrequencyLimitsID
	f.Triggered = true
	f.Confidence = frequencyConfidence
	f.Message = fmt.Sprintf("%d item(s) exceed billing frequency limits; excess charges %s",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "verify the dates of service and dispute the charges beyond the allowed frequency"
	f.SavingsCents = &savings
	return f
}

// bucketKey maps a service date to its period bucket. Lifetime limits use a
// single bucket spanning all dates.
func bucketKey(p refdata.Period, t time.Time) string {
	switch p {
	case refdata.PeriodDaily:
		return normalize.DayKey(t)
	case refdata.PeriodWeekly:
		return normalize.WeekKey(t)
	case refdata.PeriodMonthly:
		return normalize.MonthKey(t)
	case refdata.PeriodYearly:
		return normalize.YearKey(t)
	case refdata.PeriodLifetime:
		return "lifetime"
	}
	return "lifetime"
}
