package refdata

// Reference tables are data-only: versioned lookup maps from base procedure
// codes to rule attributes. They are built once at process start (builtin
// literals, optionally overlaid from Postgres or a price-benchmark Parquet
// export) and read-only thereafter, so concurrent rule evaluation needs no
// locking.

// Period partitions line items for frequency-limited codes.
type Period string

const (
	PeriodDaily    Period = "daily"
	PeriodWeekly   Period = "weekly" // Monday-anchored
	PeriodMonthly  Period = "monthly"
	PeriodYearly   Period = "yearly"
	PeriodLifetime Period = "lifetime"
)

// FrequencyLimit caps how often a code may be billed per period.
type FrequencyLimit struct {
	Period   Period
	MaxCount int
}

// ExclusionCategory selects how a same-day conflict is resolved.
type ExclusionCategory string

const (
	// ExclusionNCCI: component-edit conflicts; every excluded-code charge
	// is inappropriate.
	ExclusionNCCI ExclusionCategory = "ncci"
	// ExclusionAnatomical: logically incompatible procedures; all but the
	// highest-charge item in the conflicting set are inappropriate.
	ExclusionAnatomical ExclusionCategory = "anatomical"
	// ExclusionTemporal: services that cannot recur the same day (e.g.
	// multiple E/M visits); all but the first chronologically are
	// inappropriate.
	ExclusionTemporal ExclusionCategory = "temporal"
)

// Exclusion declares that a primary code conflicts with a set of other
// codes when billed on the same service date.
type Exclusion struct {
	Primary   string
	Excluded  []string
	Category  ExclusionCategory
	Rationale string
}

// FamilyMember places a code inside a leveled code family (e.g. E/M visit
// complexity levels 1-5) with its typical billed amount.
type FamilyMember struct {
	Family       string
	Level        int
	TypicalCents int64
}

// ModifierKind is the sibling requirement a modifier imposes.
type ModifierKind string

const (
	// ModifierDistinctService requires another, different procedure on the
	// same service date (e.g. modifiers 59 and 25).
	ModifierDistinctService ModifierKind = "distinct_service"
	// ModifierRepeatProcedure requires another instance of the same code on
	// the same service date (e.g. modifiers 76, 77, 91).
	ModifierRepeatProcedure ModifierKind = "repeat_procedure"
)

// ModifierRule describes a payment modifier's same-day requirement.
type ModifierRule struct {
	Kind        ModifierKind
	Description string
}

// GenderRestriction limits a code to one patient gender ("F" or "M").
type GenderRestriction struct {
	Gender      string
	Description string
}

// AgeRestriction limits a code to an age range in whole years. MaxAge 0
// means no upper bound.
type AgeRestriction struct {
	MinAge      int
	MaxAge      int
	Description string
}

// PlaceRestriction limits a code to specific place-of-service codes.
type PlaceRestriction struct {
	AllowedPOS  []string
	Description string
}

// PriceRange is the typical billed range for a code, in cents.
type PriceRange struct {
	MinCents     int64
	TypicalCents int64
	MaxCents     int64
}

// Tables is the full immutable reference-data set one engine instance reads.
type Tables struct {
	Version string

	FrequencyLimits map[string]FrequencyLimit
	Exclusions      []Exclusion

	// Bundles maps a comprehensive code to the component codes it already
	// includes (NCCI-style unbundling edits).
	Bundles map[string][]string

	Families map[string]FamilyMember

	// ApprovedSpecialties may bill top-level family codes without raising
	// the upcoding rule.
	ApprovedSpecialties map[string]bool

	Modifiers          map[string]ModifierRule
	GenderRestrictions map[string]GenderRestriction
	AgeRestrictions    map[string]AgeRestriction
	PlaceRestrictions  map[string]PlaceRestriction

	// UnitLimits caps billable units per code per calendar day.
	UnitLimits map[string]int64

	PriceRanges map[string]PriceRange
}

// TypicalForLevel returns the typical amount for the given level within a
// family, or ok=false when no member sits at that level.
func (t *Tables) TypicalForLevel(family string, level int) (int64, bool) {
	for _, m := range t.Families {
		if m.Family == family && m.Level == level {
			return m.TypicalCents, true
		}
	}
	return 0, false
}

// TopLevel returns the highest level present in a family, or ok=false for an
// unknown family.
func (t *Tables) TopLevel(family string) (int, bool) {
	top, found := 0, false
	for _, m := range t.Families {
		if m.Family == family {
			found = true
			if m.Level > top {
				top = m.Level
			}
		}
	}
	return top, found
}
