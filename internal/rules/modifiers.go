package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const ModifierMisuseID = "modifier_misuse"

const modifierConfidence = 0.75

// ModifierMisuse cross-references each item's payment modifiers against its
// same-day siblings. A "distinct service" modifier needs a different
// procedure that day; a "repeat procedure" modifier needs another instance
// of the same code. When the required sibling is missing, the modifier's
// effect is unsupported and the item's charge is flagged.
func ModifierMisuse(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          ModifierMisuseID,
			Name:        "Modifier misuse",
			Description: "Payment modifiers without the same-day sibling services they require",
			Category:    model.CategoryCoding,
			Severity:    model.SeverityMedium,
		},
		Detector: modifierMisuse{tables: t},
	}
}

type modifierMisuse struct {
	tables *refdata.Tables
}

func (d modifierMisuse) Detect(c *model.Context) model.Finding {
	byDate := itemsByDate(c)

	var affected []int
	var savings int64
	var f model.Finding
	for i := range c.LineItems {
		item := &c.LineItems[i]
		if item.ServiceDate == nil {
			continue
		}
		base, mods := normalize.ParseCode(item.Code)
		if base == "" || len(mods) == 0 {
			continue
		}
		day := normalize.DayKey(*item.ServiceDate)
		siblings := byDate[day]

		for _, mod := range mods {
			rule, known := d.tables.Modifiers[mod]
			if !known {
				continue
			}
			if hasRequiredSibling(c, i, base, siblings, rule.Kind) {
				continue
			}
			affected = append(affected, i)
			savings += item.ChargeCents
			f.Evidence = append(f.Evidence, model.Evidence{
				Field:    "modifier",
				Value:    fmt.Sprintf("%s (%s) without required same-day sibling", mod, rule.Description),
				Location: c.ItemRef(i),
			})
			break
		}
	}

	if len(affected) == 0 {
		return model.NotTriggered(ModifierMisuseID, "no unsupported modifiers found")
	}
	sort.Ints(affected)

	f.RuleID = ModifierMisuseID
	f.Triggered = true
	f.Confidence = modifierConfidence
	f.Message = fmt.Sprintf("%d item(s) carry modifiers their same-day services do not support; %s affected",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "ask the provider to document why the modifier applies or rebill without it"
	f.SavingsCents = &savings
	return f
}

func hasRequiredSibling(c *model.Context, self int, base string, siblings []int, kind refdata.ModifierKind) bool {
	for _, idx := range siblings {
		if idx == self {
			continue
		}
		other := baseOf(c, idx)
		switch kind {
		case refdata.ModifierDistinctService:
			if other != "" && other != base {
				return true
			}
		case refdata.ModifierRepeatProcedure:
			if other == base {
				return true
			}
		}
	}
	return false
}
