package rules

import (
	"errors"
	"fmt"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

// ErrNotFound is returned when single-rule execution names an unknown rule.
var ErrNotFound = errors.New("rule not found")

// Registry is the fixed set of rules for one engine instance. Built once at
// process start, read-only thereafter; there is no runtime registration.
type Registry struct {
	ordered []Rule
	byID    map[string]Rule
}

// NewRegistry builds a registry from rule lists in order. Rule IDs must be
// unique across all lists.
func NewRegistry(lists ...[]Rule) (*Registry, error) {
	r := &Registry{byID: make(map[string]Rule)}
	for _, list := range lists {
		for _, rule := range list {
			if rule.Meta.ID == "" {
				return nil, fmt.Errorf("rule with empty id")
			}
			if _, dup := r.byID[rule.Meta.ID]; dup {
				return nil, fmt.Errorf("duplicate rule id %q", rule.Meta.ID)
			}
			r.byID[rule.Meta.ID] = rule
			r.ordered = append(r.ordered, rule)
		}
	}
	return r, nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Rules returns the rules in registration order. Callers must not modify
// the returned slice.
func (r *Registry) Rules() []Rule {
	return r.ordered
}

// Get returns the rule with the given id, or ErrNotFound.
func (r *Registry) Get(id string) (Rule, error) {
	rule, ok := r.byID[id]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rule, nil
}

// List returns metadata for every registered rule in registration order.
func (r *Registry) List() []model.RuleMetadata {
	out := make([]model.RuleMetadata, len(r.ordered))
	for i, rule := range r.ordered {
		out[i] = rule.Meta
	}
	return out
}

// ByCategory returns metadata for rules in the given category.
func (r *Registry) ByCategory(cat model.Category) []model.RuleMetadata {
	var out []model.RuleMetadata
	for _, rule := range r.ordered {
		if rule.Meta.Category == cat {
			out = append(out, rule.Meta)
		}
	}
	return out
}

// BySeverity returns metadata for rules with the given severity.
func (r *Registry) BySeverity(sev model.Severity) []model.RuleMetadata {
	var out []model.RuleMetadata
	for _, rule := range r.ordered {
		if rule.Meta.Severity == sev {
			out = append(out, rule.Meta)
		}
	}
	return out
}

// Core returns the standard rule set, which needs only the claim context.
// Benefits-aware rules live in the benefits package and get appended by the
// engine's default registry.
func Core(t *refdata.Tables) []Rule {
	return []Rule{
		DuplicateCharges(),
		DuplicateServiceVariant(),
		Unbundling(t),
		Upcoding(t),
		FrequencyLimits(t),
		MutuallyExclusive(t),
		ModifierMisuse(t),
		GenderMismatch(t),
		AgeRestrictions(t),
		PlaceOfService(t),
		UnitLimits(t),
		PriceOutliers(t),
		DocumentationGaps(),
		TotalsMismatch(),
		BalanceMath(),
		InvalidCodes(),
		FutureDates(),
		LowConfidenceExtraction(),
		MissingItemization(),
	}
}
