// Package engine runs registered detection rules against a claim context,
// isolating per-rule failures and ranking the collected findings.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimaudit/internal/benefits"
	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
	"github.com/gyeh/claimaudit/internal/rules"
)

// ValidationError reports context problems found before any rule ran.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid claim context: %s", strings.Join(e.Problems, "; "))
}

// Result is the outcome of a full audit run.
type Result struct {
	RunID    string
	Findings []model.Finding
	Stats    model.Statistics
	Duration time.Duration
}

// Engine fans a claim context out to every registered rule.
type Engine struct {
	reg *rules.Registry
	log zerolog.Logger
}

func New(reg *rules.Registry, log zerolog.Logger) *Engine {
	return &Engine{reg: reg, log: log}
}

// Registry exposes the engine's rule set for listing and lookups.
func (e *Engine) Registry() *rules.Registry {
	return e.reg
}

// DefaultRegistry builds the full rule set, core and benefits-aware, over
// the given reference tables.
func DefaultRegistry(t *refdata.Tables) (*rules.Registry, error) {
	return rules.NewRegistry(rules.Core(t), benefits.Rules(t))
}

// RunAll executes every registered rule against the context and returns
// the ranked findings, one per rule. A rule that panics yields a degraded
// non-triggered finding; it never aborts its siblings.
func (e *Engine) RunAll(ctx context.Context, c *model.Context) (*Result, error) {
	start := time.Now()
	if problems := model.ValidateContext(c); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	runID := uuid.New().String()
	ruleSet := e.reg.Rules()
	e.log.Info().
		Str("run_id", runID).
		Int("rules", len(ruleSet)).
		Int("line_items", len(c.LineItems)).
		Bool("benefits", c.Benefits != nil).
		Msg("dispatching audit run")

	findings := make([]model.Finding, len(ruleSet))
	var wg sync.WaitGroup
	for i := range ruleSet {
		wg.Add(1)
		go func(idx int, r rules.Rule) {
			defer wg.Done()
			findings[idx] = e.runGuarded(r, c)
		}(i, ruleSet[i])
	}
	wg.Wait()

	rank(e.reg, findings)
	stats := ComputeStatistics(e.reg, findings)

	res := &Result{
		RunID:    runID,
		Findings: findings,
		Stats:    stats,
		Duration: time.Since(start),
	}
	e.log.Info().
		Str("run_id", runID).
		Int("triggered", stats.TriggeredCount).
		Int("high_severity", stats.HighSeverity).
		Int64("potential_savings_cents", stats.PotentialSavingsCents).
		Dur("elapsed", res.Duration).
		Msg("audit run complete")
	return res, nil
}

// RunOne executes a single rule by id, bypassing fan-out and ranking. A
// panic inside the rule is surfaced to the caller as an error rather than
// converted into a degraded finding.
func (e *Engine) RunOne(ctx context.Context, id string, c *model.Context) (model.Finding, error) {
	r, err := e.reg.Get(id)
	if err != nil {
		return model.Finding{}, err
	}
	if problems := model.ValidateContext(c); len(problems) > 0 {
		return model.Finding{}, &ValidationError{Problems: problems}
	}

	var f model.Finding
	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("rule %s: %v", id, r)
			}
		}()
		f = r.Detector.Detect(c)
		return nil
	}()
	if err != nil {
		return model.Finding{}, err
	}
	return f, nil
}

// runGuarded converts a rule panic into a degraded finding so one bad
// rule cannot take down the run.
func (e *Engine) runGuarded(r rules.Rule, c *model.Context) (f model.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Warn().
				Str("rule_id", r.Meta.ID).
				Interface("panic", rec).
				Msg("rule panicked; recording degraded finding")
			f = model.Finding{
				RuleID:            r.Meta.ID,
				Triggered:         false,
				Confidence:        0,
				Message:           fmt.Sprintf("detection failed: %v", rec),
				RecommendedAction: "manual review required due to detection engine error",
			}
		}
	}()
	return r.Detector.Detect(c)
}
