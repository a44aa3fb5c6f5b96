package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const PlaceOfServiceID = "place_of_service"

const posConfidence = 0.7

// PlaceOfService flags setting-restricted codes billed with an incompatible
// place-of-service code. Items without a POS code are skipped.
func PlaceOfService(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          PlaceOfServiceID,
			Name:        "Place-of-service conflict",
			Description: "Setting-restricted code billed with an incompatible place of service",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityMedium,
		},
		Detector: placeOfService{tables: t},
	}
}

type placeOfService struct {
	tables *refdata.Tables
}

func (d placeOfService) Detect(c *model.Context) model.Finding {
	var affected []int
	var savings int64
	var f model.Finding
	for i := range c.LineItems {
		pos := strings.TrimSpace(c.LineItems[i].PlaceOfService)
		if pos == "" {
			continue
		}
		restriction, ok := d.tables.PlaceRestrictions[baseOf(c, i)]
		if !ok {
			continue
		}
		allowed := false
		for _, a := range restriction.AllowedPOS {
			if a == pos {
				allowed = true
				break
			}
		}
		if allowed {
			continue
		}
		affected = append(affected, i)
		savings += c.LineItems[i].ChargeCents
		f.Evidence = append(f.Evidence, model.Evidence{
			Field: "place_of_service",
			Value: fmt.Sprintf("POS %s incompatible with %s (%s, expects %s)",
				pos, baseOf(c, i), restriction.Description,
				strings.Join(restriction.AllowedPOS, "/")),
			Location: c.ItemRef(i),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(PlaceOfServiceID, "no place-of-service conflicts")
	}
	sort.Ints(affected)

	f.RuleID = PlaceOfServiceID
	f.Triggered = true
	f.Confidence = posConfidence
	f.Message = fmt.Sprintf("%d item(s) billed in a setting their code does not allow; %s questionable",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "confirm where the service actually happened; the code or the place of service is wrong"
	f.SavingsCents = &savings
	return f
}
