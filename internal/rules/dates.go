package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
)

const FutureDatesID = "future_dates"

const futureDatesConfidence = 0.85

// FutureDates flags service dates that fall after the claim's billing
// date. Comparing against the billing date rather than the wall clock
// keeps the rule deterministic for a given Context.
func FutureDates() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          FutureDatesID,
			Name:        "Service after billing date",
			Description: "Line items dated after the bill was issued",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityLow,
		},
		Detector: futureDates{},
	}
}

type futureDates struct{}

func (futureDates) Detect(c *model.Context) model.Finding {
	if c.Dates.Billing == nil {
		return model.NotTriggered(FutureDatesID, "billing date not available")
	}
	billing := *c.Dates.Billing

	var affected []int
	var f model.Finding
	for i := range c.LineItems {
		sd := c.LineItems[i].ServiceDate
		if sd == nil || !sd.After(billing) {
			continue
		}
		affected = append(affected, i)
		f.Evidence = append(f.Evidence, model.Evidence{
			Field: "service_date",
			Value: fmt.Sprintf("service %s after billing date %s",
				sd.Format("2006-01-02"), billing.Format("2006-01-02")),
			Location: c.ItemRef(i),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(FutureDatesID, "no services dated after the billing date")
	}
	sort.Ints(affected)

	f.RuleID = FutureDatesID
	f.Triggered = true
	f.Confidence = futureDatesConfidence
	f.Message = fmt.Sprintf("%d item(s) dated after the bill was issued", len(affected))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "question services billed before they could have happened"
	return f
}
