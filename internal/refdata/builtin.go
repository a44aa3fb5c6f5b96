package refdata

// BuiltinVersion identifies the embedded reference-data release.
const BuiltinVersion = "2024.1"

// Builtin returns the embedded reference tables. Callers treat the result
// as immutable; the engine shares one instance across all rules.
func Builtin() *Tables {
	return &Tables{
		Version: BuiltinVersion,

		FrequencyLimits: map[string]FrequencyLimit{
			"99395": {Period: PeriodYearly, MaxCount: 1},   // preventive visit 18-39
			"99396": {Period: PeriodYearly, MaxCount: 1},   // preventive visit 40-64
			"99397": {Period: PeriodYearly, MaxCount: 1},   // preventive visit 65+
			"G0438": {Period: PeriodLifetime, MaxCount: 1}, // initial Medicare AWV
			"G0439": {Period: PeriodYearly, MaxCount: 1},   // subsequent Medicare AWV
			"99490": {Period: PeriodMonthly, MaxCount: 1},  // chronic care management
			"90853": {Period: PeriodWeekly, MaxCount: 2},   // group psychotherapy
			"36415": {Period: PeriodDaily, MaxCount: 1},    // venipuncture
			"80053": {Period: PeriodDaily, MaxCount: 1},    // comprehensive metabolic panel
			"81002": {Period: PeriodDaily, MaxCount: 2},    // urinalysis
		},

		Exclusions: []Exclusion{
			{
				Primary:   "93000",
				Excluded:  []string{"93005", "93010"},
				Category:  ExclusionNCCI,
				Rationale: "complete ECG includes tracing and interpretation components",
			},
			{
				Primary:   "80053",
				Excluded:  []string{"80048", "82947", "84132", "84295"},
				Category:  ExclusionNCCI,
				Rationale: "comprehensive metabolic panel includes basic panel and component assays",
			},
			{
				Primary:   "58150",
				Excluded:  []string{"58260", "58262", "58570"},
				Category:  ExclusionAnatomical,
				Rationale: "only one hysterectomy approach can be performed",
			},
			{
				Primary:   "27447",
				Excluded:  []string{"27446"},
				Category:  ExclusionAnatomical,
				Rationale: "total and partial knee arthroplasty conflict on the same joint",
			},
			{
				Primary:   "99214",
				Excluded:  []string{"99211", "99212", "99213", "99215"},
				Category:  ExclusionTemporal,
				Rationale: "one office E/M visit per patient per day",
			},
			{
				Primary:   "99285",
				Excluded:  []string{"99281", "99282", "99283", "99284"},
				Category:  ExclusionTemporal,
				Rationale: "one emergency department E/M visit per day",
			},
		},

		Bundles: map[string][]string{
			"93000": {"93005", "93010"},
			"80053": {"80048", "82947", "84132", "84295"},
			"59400": {"59409", "59410"}, // global OB care includes delivery and postpartum
			"29881": {"29870"},          // knee arthroscopy includes diagnostic scope
		},

		Families: map[string]FamilyMember{
			"99211": {Family: "em_office", Level: 1, TypicalCents: 6500},
			"99212": {Family: "em_office", Level: 2, TypicalCents: 9500},
			"99213": {Family: "em_office", Level: 3, TypicalCents: 13000},
			"99214": {Family: "em_office", Level: 4, TypicalCents: 19000},
			"99215": {Family: "em_office", Level: 5, TypicalCents: 26500},
			"99281": {Family: "em_emergency", Level: 1, TypicalCents: 7500},
			"99282": {Family: "em_emergency", Level: 2, TypicalCents: 12500},
			"99283": {Family: "em_emergency", Level: 3, TypicalCents: 22000},
			"99284": {Family: "em_emergency", Level: 4, TypicalCents: 36000},
			"99285": {Family: "em_emergency", Level: 5, TypicalCents: 54000},
		},

		ApprovedSpecialties: map[string]bool{
			"oncology":           true,
			"hematology":         true,
			"cardiology":         true,
			"neurology":          true,
			"neurosurgery":       true,
			"infectious disease": true,
			"critical care":      true,
			"emergency medicine": true,
		},

		Modifiers: map[string]ModifierRule{
			"59": {Kind: ModifierDistinctService, Description: "distinct procedural service"},
			"25": {Kind: ModifierDistinctService, Description: "significant, separately identifiable E/M"},
			"76": {Kind: ModifierRepeatProcedure, Description: "repeat procedure by same physician"},
			"77": {Kind: ModifierRepeatProcedure, Description: "repeat procedure by another physician"},
			"91": {Kind: ModifierRepeatProcedure, Description: "repeat clinical diagnostic laboratory test"},
		},

		GenderRestrictions: map[string]GenderRestriction{
			"58150": {Gender: "F", Description: "total abdominal hysterectomy"},
			"59400": {Gender: "F", Description: "routine obstetric care"},
			"76801": {Gender: "F", Description: "obstetric ultrasound"},
			"55700": {Gender: "M", Description: "prostate biopsy"},
			"54150": {Gender: "M", Description: "circumcision"},
			"G0102": {Gender: "M", Description: "prostate cancer screening exam"},
		},

		AgeRestrictions: map[string]AgeRestriction{
			"99381": {MinAge: 0, MaxAge: 1, Description: "preventive visit, infant"},
			"99382": {MinAge: 1, MaxAge: 4, Description: "preventive visit, early childhood"},
			"99397": {MinAge: 65, MaxAge: 0, Description: "preventive visit, 65 and older"},
			"G0438": {MinAge: 65, MaxAge: 0, Description: "Medicare annual wellness visit"},
			"G0439": {MinAge: 65, MaxAge: 0, Description: "Medicare annual wellness visit"},
			"90460": {MinAge: 0, MaxAge: 18, Description: "immunization administration with counseling"},
			"54150": {MinAge: 0, MaxAge: 1, Description: "newborn circumcision"},
		},

		PlaceRestrictions: map[string]PlaceRestriction{
			"99281": {AllowedPOS: []string{"23"}, Description: "emergency department visit"},
			"99282": {AllowedPOS: []string{"23"}, Description: "emergency department visit"},
			"99283": {AllowedPOS: []string{"23"}, Description: "emergency department visit"},
			"99284": {AllowedPOS: []string{"23"}, Description: "emergency department visit"},
			"99285": {AllowedPOS: []string{"23"}, Description: "emergency department visit"},
			"99221": {AllowedPOS: []string{"21", "22"}, Description: "initial hospital inpatient care"},
			"99238": {AllowedPOS: []string{"21"}, Description: "hospital discharge management"},
		},

		UnitLimits: map[string]int64{
			"97110": 4, // therapeutic exercise, 15-minute units
			"97140": 4, // manual therapy
			"97530": 4, // therapeutic activities
			"36415": 1, // venipuncture
			"94640": 2, // inhalation treatment
		},

		PriceRanges: map[string]PriceRange{
			"99213": {MinCents: 7500, TypicalCents: 13000, MaxCents: 22000},
			"99214": {MinCents: 11000, TypicalCents: 19000, MaxCents: 32000},
			"99285": {MinCents: 30000, TypicalCents: 54000, MaxCents: 95000},
			"80053": {MinCents: 900, TypicalCents: 1450, MaxCents: 4500},
			"36415": {MinCents: 300, TypicalCents: 800, MaxCents: 2500},
			"71046": {MinCents: 3000, TypicalCents: 7400, MaxCents: 18000},
			"93000": {MinCents: 1500, TypicalCents: 3500, MaxCents: 9000},
			"97110": {MinCents: 2500, TypicalCents: 4200, MaxCents: 9500},
		},
	}
}
