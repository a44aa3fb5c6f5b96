package engine

import (
	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/normalize"
	"github.com/gyeh/claimaudit/internal/rules"
)

// ComputeStatistics aggregates a finding list: totals, triggered counts,
// high-severity triggered count, mean confidence over triggered findings
// (two decimal places), and summed potential savings.
func ComputeStatistics(reg *rules.Registry, findings []model.Finding) model.Statistics {
	s := model.Statistics{TotalRules: len(findings)}

	var confSum float64
	for _, f := range findings {
		if !f.Triggered {
			continue
		}
		s.TriggeredCount++
		confSum += f.Confidence
		if f.SavingsCents != nil {
			s.PotentialSavingsCents += *f.SavingsCents
		}
		if r, err := reg.Get(f.RuleID); err == nil && r.Meta.Severity == model.SeverityHigh {
			s.HighSeverity++
		}
	}
	if s.TriggeredCount > 0 {
		s.MeanConfidence = normalize.Round2(confSum / float64(s.TriggeredCount))
	}
	return s
}
