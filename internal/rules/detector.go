package rules

import (
	"fmt"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
)

// Detector is one audit rule. Detect is synchronous, side-effect-free with
// respect to the Context, and must degrade to a non-triggered Finding when
// fields it needs are absent. Reference-table misses mean "rule does not
// apply to this item", never an error.
type Detector interface {
	Detect(c *model.Context) model.Finding
}

// Rule pairs a detector with its immutable metadata. Metadata lives apart
// from behavior so listing rules never instantiates detection logic paths.
type Rule struct {
	Meta     model.RuleMetadata
	Detector Detector
}

// fmtCents renders an integer cent amount for finding messages. Money stays
// integer everywhere else; this is presentation only.
func fmtCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// itemsByDate groups line item indices by calendar-day bucket. Items with
// no service date are left out; same-day rules cannot apply to them.
func itemsByDate(c *model.Context) map[string][]int {
	byDate := make(map[string][]int)
	for i := range c.LineItems {
		if c.LineItems[i].ServiceDate == nil {
			continue
		}
		key := normalize.DayKey(*c.LineItems[i].ServiceDate)
		byDate[key] = append(byDate[key], i)
	}
	return byDate
}

// baseOf returns the modifier-stripped base code of line item i.
func baseOf(c *model.Context, i int) string {
	return normalize.BaseCode(c.LineItems[i].Code)
}

// refs maps item indices to their finding identifiers.
func refs(c *model.Context, indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = c.ItemRef(idx)
	}
	return out
}
