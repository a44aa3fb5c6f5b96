// Package report renders ranked audit results for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gyeh/claimaudit/internal/engine"
	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/rules"
)

func dollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// WriteText renders a human-readable report in ranked order.
func WriteText(w io.Writer, reg *rules.Registry, res *engine.Result) error {
	fmt.Fprintln(w, "=== claimaudit report ===")
	fmt.Fprintf(w, "Run:        %s\n", res.RunID)
	fmt.Fprintf(w, "Rules run:  %d\n", res.Stats.TotalRules)
	fmt.Fprintf(w, "Triggered:  %d (%d high severity)\n", res.Stats.TriggeredCount, res.Stats.HighSeverity)
	if res.Stats.TriggeredCount > 0 {
		fmt.Fprintf(w, "Mean confidence:   %.2f\n", res.Stats.MeanConfidence)
	}
	fmt.Fprintf(w, "Potential savings: %s\n", dollars(res.Stats.PotentialSavingsCents))
	fmt.Fprintln(w)

	if res.Stats.TriggeredCount == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	n := 0
	for _, f := range res.Findings {
		if !f.Triggered {
			continue
		}
		n++
		meta := metaFor(reg, f.RuleID)
		fmt.Fprintf(w, "%d. [%s] %s (confidence %.2f)\n", n, strings.ToUpper(meta.Severity.String()), meta.Name, f.Confidence)
		fmt.Fprintf(w, "   %s\n", f.Message)
		if f.SavingsCents != nil {
			fmt.Fprintf(w, "   Potential savings: %s\n", dollars(*f.SavingsCents))
		}
		if len(f.AffectedItems) > 0 {
			fmt.Fprintf(w, "   Affected items: %s\n", strings.Join(f.AffectedItems, ", "))
		}
		for _, ev := range f.Evidence {
			loc := ""
			if ev.Location != "" {
				loc = " (" + ev.Location + ")"
			}
			fmt.Fprintf(w, "   Evidence: %s = %s%s\n", ev.Field, ev.Value, loc)
		}
		for _, cit := range f.Citations {
			fmt.Fprintf(w, "   Cite: %s, %s\n", cit.Title, cit.Citation)
		}
		if f.RecommendedAction != "" {
			fmt.Fprintf(w, "   Action: %s\n", f.RecommendedAction)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// jsonFinding is a Finding joined with its rule metadata for consumers
// that do not hold the registry.
type jsonFinding struct {
	model.Finding
	Name     string `json:"rule_name"`
	Category string `json:"category"`
	Severity string `json:"severity"`
}

type jsonReport struct {
	RunID      string           `json:"run_id"`
	Statistics model.Statistics `json:"statistics"`
	Findings   []jsonFinding    `json:"findings"`
}

// WriteJSON renders the full result, triggered or not, as indented JSON.
func WriteJSON(w io.Writer, reg *rules.Registry, res *engine.Result) error {
	out := jsonReport{
		RunID:      res.RunID,
		Statistics: res.Stats,
		Findings:   make([]jsonFinding, len(res.Findings)),
	}
	for i, f := range res.Findings {
		meta := metaFor(reg, f.RuleID)
		out.Findings[i] = jsonFinding{
			Finding:  f,
			Name:     meta.Name,
			Category: string(meta.Category),
			Severity: meta.Severity.String(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func metaFor(reg *rules.Registry, id string) model.RuleMetadata {
	r, err := reg.Get(id)
	if err != nil {
		return model.RuleMetadata{ID: id, Name: id, Severity: model.SeverityLow}
	}
	return r.Meta
}
