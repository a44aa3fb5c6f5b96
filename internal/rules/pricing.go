package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const PriceOutliersID = "price_outlier"

// Benchmark ranges are broad market observations, not payer contracts.
const priceConfidence = 0.65

// PriceOutliers flags charges above the benchmarked maximum for the code.
// The savings estimate is the gap back to the typical amount.
func PriceOutliers(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          PriceOutliersID,
			Name:        "Price outlier",
			Description: "Charge above the benchmarked range for the procedure",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityMedium,
		},
		Detector: priceOutliers{tables: t},
	}
}

type priceOutliers struct {
	tables *refdata.Tables
}

func (d priceOutliers) Detect(c *model.Context) model.Finding {
	var affected []int
	var savings int64
	var f model.Finding
	for i := range c.LineItems {
		item := &c.LineItems[i]
		pr, ok := d.tables.PriceRanges[baseOf(c, i)]
		if !ok || item.ChargeCents <= pr.MaxCents {
			continue
		}
		affected = append(affected, i)
		if gap := item.ChargeCents - pr.TypicalCents; gap > 0 {
			savings += gap
		}
		f.Evidence = append(f.Evidence, model.Evidence{
			Field: "charge",
			Value: fmt.Sprintf("%s charged %s; benchmark range %s-%s (typical %s)",
				baseOf(c, i), fmtCents(item.ChargeCents),
				fmtCents(pr.MinCents), fmtCents(pr.MaxCents), fmtCents(pr.TypicalCents)),
			Location: c.ItemRef(i),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(PriceOutliersID, "no charges above benchmark ranges")
	}
	sort.Ints(affected)

	f.RuleID = PriceOutliersID
	f.Triggered = true
	f.Confidence = priceConfidence
	f.Message = fmt.Sprintf("%d charge(s) above the benchmarked maximum; about %s over typical pricing",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "negotiate the charge against typical market pricing or request a discount"
	f.SavingsCents = &savings
	return f
}
