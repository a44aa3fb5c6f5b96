package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const UnbundlingID = "unbundling"

const unbundlingConfidence = 0.85

var nccicitation = model.Citation{
	Title:     "National Correct Coding Initiative Policy Manual",
	Authority: "CMS",
	Citation:  "NCCI Policy Manual, Chapter I (General Correct Coding Policies)",
}

// Unbundling flags component codes billed on the same day as the
// comprehensive code that already includes them.
func Unbundling(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          UnbundlingID,
			Name:        "Unbundled components",
			Description: "Components billed separately alongside their comprehensive code",
			Category:    model.CategoryCoding,
			Severity:    model.SeverityHigh,
		},
		Detector: unbundling{tables: t},
	}
}

type unbundling struct {
	tables *refdata.Tables
}

func (d unbundling) Detect(c *model.Context) model.Finding {
	byDate := itemsByDate(c)
	dates := make([]string, 0, len(byDate))
	for day := range byDate {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	comprehensives := make([]string, 0, len(d.tables.Bundles))
	for code := range d.tables.Bundles {
		comprehensives = append(comprehensives, code)
	}
	sort.Strings(comprehensives)

	var affected []int
	var savings int64
	var pairs []string
	seen := make(map[int]bool)
	for _, day := range dates {
		indices := byDate[day]
		present := make(map[string][]int)
		for _, idx := range indices {
			present[baseOf(c, idx)] = append(present[baseOf(c, idx)], idx)
		}
		for _, comprehensive := range comprehensives {
			if len(present[comprehensive]) == 0 {
				continue
			}
			for _, component := range d.tables.Bundles[comprehensive] {
				for _, idx := range present[component] {
					pairs = append(pairs, fmt.Sprintf("%s within %s", component, comprehensive))
					if seen[idx] {
						continue
					}
					seen[idx] = true
					affected = append(affected, idx)
					savings += c.LineItems[idx].ChargeCents
				}
			}
		}
	}

	if len(affected) == 0 {
		return model.NotTriggered(UnbundlingID, "no unbundled components found")
	}
	sort.Ints(affected)

	f := model.Finding{
		RuleID:     UnbundlingID,
		Triggered:  true,
		Confidence: unbundlingConfidence,
		Message: fmt.Sprintf("component code(s) billed alongside their comprehensive code (%s), %s inappropriate",
			strings.Join(pairs, "; "), fmtCents(savings)),
		AffectedItems:     refs(c, affected),
		RecommendedAction: "dispute the component charges; the comprehensive code already covers them",
		SavingsCents:      &savings,
		Citations:         []model.Citation{nccicitation},
	}
	for _, idx := range affected {
		f.Evidence = append(f.Evidence, model.Evidence{
			Field:    "code",
			Value:    c.LineItems[idx].Code,
			Location: c.ItemRef(idx),
		})
	}
	return f
}
