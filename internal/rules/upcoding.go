package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const UpcodingID = "upcoding"

// Tunable thresholds, preserved as-is pending calibration.
const (
	// HighLevelSharePercent: above this share of top-two-level codes in
	// one family, the distribution itself is suspicious.
	HighLevelSharePercent = 40.0
	// TypicalChargeMultiplierPercent: a charge above 150% of the family's
	// typical amount is flagged.
	TypicalChargeMultiplierPercent = 150
)

const (
	upcodingConfidence = 0.7
	// Distribution-only signals are weaker than per-item ones.
	upcodingShareConfidence = 0.6
)

// Upcoding flags level-family codes billed above what the visit likely
// warranted: top-level codes without an approved specialty, charges far
// above the typical amount, or a top-heavy level distribution.
func Upcoding(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          UpcodingID,
			Name:        "Upcoding",
			Description: "Visit-complexity codes billed above the documented level of service",
			Category:    model.CategoryCoding,
			Severity:    model.SeverityHigh,
		},
		Detector: upcoding{tables: t},
	}
}

type upcoding struct {
	tables *refdata.Tables
}

func (d upcoding) Detect(c *model.Context) model.Finding {
	specialty := strings.ToLower(strings.TrimSpace(c.Provider.Specialty))

	type hit struct {
		idx    int
		reason string
	}
	var hits []hit
	var savings int64
	perItemHit := false
	counted := make(map[int]bool)

	familyItems := make(map[string][]int)
	for i := range c.LineItems {
		member, ok := d.tables.Families[baseOf(c, i)]
		if !ok {
			continue
		}
		familyItems[member.Family] = append(familyItems[member.Family], i)

		top, _ := d.tables.TopLevel(member.Family)
		item := &c.LineItems[i]

		if member.Level == top && specialty != "" && !d.tables.ApprovedSpecialties[specialty] {
			hits = append(hits, hit{idx: i, reason: fmt.Sprintf(
				"top-level code %s billed by %s, which rarely supports that complexity",
				baseOf(c, i), specialty)})
			savings += levelDownSavings(d.tables, member, item.ChargeCents)
			counted[i] = true
			perItemHit = true
			continue
		}

		threshold := member.TypicalCents * TypicalChargeMultiplierPercent / 100
		if member.TypicalCents > 0 && item.ChargeCents > threshold {
			hits = append(hits, hit{idx: i, reason: fmt.Sprintf(
				"charge %s exceeds %d%% of the typical %s for %s",
				fmtCents(item.ChargeCents), TypicalChargeMultiplierPercent,
				fmtCents(member.TypicalCents), baseOf(c, i))})
			savings += levelDownSavings(d.tables, member, item.ChargeCents)
			counted[i] = true
			perItemHit = true
		}
	}

	// Distribution check: share of top-two-level codes within each family.
	families := make([]string, 0, len(familyItems))
	for family := range familyItems {
		families = append(families, family)
	}
	sort.Strings(families)

	shareTriggered := false
	for _, family := range families {
		indices := familyItems[family]
		top, ok := d.tables.TopLevel(family)
		if !ok {
			continue
		}
		var high int64
		for _, idx := range indices {
			member := d.tables.Families[baseOf(c, idx)]
			if member.Level >= top-1 {
				high++
			}
		}
		share, ok := normalize.RatioPercent(high, int64(len(indices)))
		if !ok || share <= HighLevelSharePercent {
			continue
		}
		shareTriggered = true
		for _, idx := range indices {
			member := d.tables.Families[baseOf(c, idx)]
			if member.Level < top-1 {
				continue
			}
			hits = append(hits, hit{idx: idx, reason: fmt.Sprintf(
				"%.0f%% of %s codes are in the top two levels (threshold %.0f%%)",
				share, family, HighLevelSharePercent)})
			if !counted[idx] {
				counted[idx] = true
				savings += levelDownSavings(d.tables, member, c.LineItems[idx].ChargeCents)
			}
		}
	}

	if len(hits) == 0 {
		return model.NotTriggered(UpcodingID, "no upcoding indicators found")
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })
	seen := make(map[int]bool)
	var affected []int
	var f model.Finding
	for _, h := range hits {
		if !seen[h.idx] {
			seen[h.idx] = true
			affected = append(affected, h.idx)
		}
		f.Evidence = append(f.Evidence, model.Evidence{
			Field:    "upcoding_indicator",
			Value:    h.reason,
			Location: c.ItemRef(h.idx),
		})
	}

	confidence := upcodingConfidence
	if !perItemHit && shareTriggered {
		confidence = upcodingShareConfidence
	}

	f.RuleID = UpcodingID
	f.Triggered = true
	f.Confidence = confidence
	f.Message = fmt.Sprintf("%d item(s) look upcoded; potential overbilling %s",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "request the visit documentation and ask the provider to justify the billed complexity level"
	if savings > 0 {
		f.SavingsCents = &savings
	}
	return f
}

// levelDownSavings estimates the recovery as charge minus the typical
// amount one level down, floored at zero.
func levelDownSavings(t *refdata.Tables, member refdata.FamilyMember, chargeCents int64) int64 {
	lower, ok := t.TypicalForLevel(member.Family, member.Level-1)
	if !ok {
		return 0
	}
	if s := chargeCents - lower; s > 0 {
		return s
	}
	return 0
}
