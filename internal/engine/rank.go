package engine

import (
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/rules"
)

// rank orders findings deterministically, independent of which rule
// finished first: triggered findings ahead of non-triggered, then severity
// descending on both sides of that split, with triggered ties broken by
// confidence descending. The sort is stable, so remaining ties keep
// registration order.
func rank(reg *rules.Registry, findings []model.Finding) {
	sev := func(f model.Finding) model.Severity {
		r, err := reg.Get(f.RuleID)
		if err != nil {
			return model.SeverityLow
		}
		return r.Meta.Severity
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Triggered != b.Triggered {
			return a.Triggered
		}
		sa, sb := sev(a), sev(b)
		if sa != sb {
			return sa > sb
		}
		if !a.Triggered {
			return false
		}
		return a.Confidence > b.Confidence
	})
}
