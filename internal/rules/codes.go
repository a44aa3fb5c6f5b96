package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
)

const InvalidCodesID = "invalid_code"

const invalidCodeConfidence = 0.9

// InvalidCodes flags procedure codes that don't look like CPT or HCPCS
// codes at all. Often an OCR artifact or a provider's internal charge code
// leaking onto the bill.
func InvalidCodes() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          InvalidCodesID,
			Name:        "Invalid procedure code",
			Description: "Codes that match no standard CPT/HCPCS format",
			Category:    model.CategoryCoding,
			Severity:    model.SeverityLow,
		},
		Detector: invalidCodes{},
	}
}

type invalidCodes struct{}

func (invalidCodes) Detect(c *model.Context) model.Finding {
	var affected []int
	var f model.Finding
	for i := range c.LineItems {
		base := normalize.BaseCode(c.LineItems[i].Code)
		if base == "" || normalize.ValidCodeFormat(base) {
			continue
		}
		affected = append(affected, i)
		f.Evidence = append(f.Evidence, model.Evidence{
			Field:    "code",
			Value:    c.LineItems[i].Code,
			Location: c.ItemRef(i),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(InvalidCodesID, "all procedure codes look well-formed")
	}
	sort.Ints(affected)

	f.RuleID = InvalidCodesID
	f.Triggered = true
	f.Confidence = invalidCodeConfidence
	f.Message = fmt.Sprintf("%d procedure code(s) match no standard format", len(affected))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "ask the provider for the standard CPT/HCPCS codes behind these charges"
	return f
}
