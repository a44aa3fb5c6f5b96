package model

// Evidence is one extracted fact supporting a finding.
type Evidence struct {
	Field    string `json:"field"`
	Value    string `json:"value"`
	Location string `json:"location,omitempty"`
}

// Citation points at the policy or regulation a finding rests on.
type Citation struct {
	Title     string `json:"title"`
	Authority string `json:"authority"`
	Citation  string `json:"citation"`
}

// Finding is the structured output of one rule for one audit run. A rule
// that did not trigger still returns a Finding so callers can audit rule
// coverage. Findings carry no identity beyond the run that produced them.
type Finding struct {
	RuleID    string `json:"rule_id"`
	Triggered bool   `json:"triggered"`

	// Confidence in [0,1]. Rule-specific design constants, not calibrated.
	Confidence float64 `json:"confidence"`

	Message           string   `json:"message"`
	AffectedItems     []string `json:"affected_items,omitempty"`
	RecommendedAction string   `json:"recommended_action,omitempty"`

	// SavingsCents is the estimated recoverable amount, when one can be
	// computed.
	SavingsCents *int64 `json:"savings_cents,omitempty"`

	Citations []Citation `json:"citations,omitempty"`
	Evidence  []Evidence `json:"evidence,omitempty"`
}

// NotTriggered builds the baseline Finding for a rule that found nothing.
func NotTriggered(ruleID, message string) Finding {
	return Finding{RuleID: ruleID, Message: message}
}

// Statistics summarizes one audit run's findings.
type Statistics struct {
	TotalRules     int `json:"total_rules"`
	TriggeredCount int `json:"triggered_count"`
	HighSeverity   int `json:"high_severity_count"`

	// MeanConfidence across triggered findings, rounded to two decimals.
	// Zero when nothing triggered.
	MeanConfidence float64 `json:"mean_confidence"`

	PotentialSavingsCents int64 `json:"potential_savings_cents"`
}
