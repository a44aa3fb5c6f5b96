package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

const (
	GenderMismatchID  = "gender_mismatch"
	AgeRestrictionsID = "age_restriction"
)

// Gender-specific procedures on the wrong patient are near-certain errors.
const genderConfidence = 0.95

const ageConfidence = 0.8

// GenderMismatch flags gender-restricted procedures billed for a patient of
// the other gender. Skips silently when the patient's gender is unknown.
func GenderMismatch(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          GenderMismatchID,
			Name:        "Gender mismatch",
			Description: "Gender-restricted procedure billed for a patient of the other gender",
			Category:    model.CategoryClinical,
			Severity:    model.SeverityHigh,
		},
		Detector: genderMismatch{tables: t},
	}
}

type genderMismatch struct {
	tables *refdata.Tables
}

func (d genderMismatch) Detect(c *model.Context) model.Finding {
	gender := strings.ToUpper(strings.TrimSpace(c.Patient.Gender))
	if gender != "F" && gender != "M" {
		return model.NotTriggered(GenderMismatchID, "patient gender not available")
	}

	var affected []int
	var savings int64
	var f model.Finding
	for i := range c.LineItems {
		restriction, ok := d.tables.GenderRestrictions[baseOf(c, i)]
		if !ok || restriction.Gender == gender {
			continue
		}
		affected = append(affected, i)
		savings += c.LineItems[i].ChargeCents
		f.Evidence = append(f.Evidence, model.Evidence{
			Field:    "procedure",
			Value:    fmt.Sprintf("%s (%s) restricted to gender %s", baseOf(c, i), restriction.Description, restriction.Gender),
			Location: c.ItemRef(i),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(GenderMismatchID, "no gender-restricted procedure conflicts")
	}
	sort.Ints(affected)

	f.RuleID = GenderMismatchID
	f.Triggered = true
	f.Confidence = genderConfidence
	f.Message = fmt.Sprintf("%d procedure(s) are restricted to a different patient gender; %s billed in error",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "these charges almost certainly belong to another patient; dispute them and ask for a corrected claim"
	f.SavingsCents = &savings
	return f
}

// AgeRestrictions flags age-restricted procedures billed outside the
// allowed range, using the patient's age on each item's service date.
func AgeRestrictions(t *refdata.Tables) Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          AgeRestrictionsID,
			Name:        "Age restriction",
			Description: "Procedure billed outside its allowed patient age range",
			Category:    model.CategoryClinical,
			Severity:    model.SeverityMedium,
		},
		Detector: ageRestrictions{tables: t},
	}
}

type ageRestrictions struct {
	tables *refdata.Tables
}

func (d ageRestrictions) Detect(c *model.Context) model.Finding {
	if c.Patient.BirthDate == nil {
		return model.NotTriggered(AgeRestrictionsID, "patient birth date not available")
	}

	var affected []int
	var savings int64
	var f model.Finding
	for i := range c.LineItems {
		item := &c.LineItems[i]
		if item.ServiceDate == nil {
			continue
		}
		restriction, ok := d.tables.AgeRestrictions[baseOf(c, i)]
		if !ok {
			continue
		}
		age, ok := c.PatientAgeAt(*item.ServiceDate)
		if !ok {
			continue
		}
		if age >= restriction.MinAge && (restriction.MaxAge == 0 || age <= restriction.MaxAge) {
			continue
		}
		affected = append(affected, i)
		savings += item.ChargeCents
		f.Evidence = append(f.Evidence, model.Evidence{
			Field: "age",
			Value: fmt.Sprintf("patient age %d outside range for %s (%s)",
				age, baseOf(c, i), restriction.Description),
			Location: c.ItemRef(i),
		})
	}

	if len(affected) == 0 {
		return model.NotTriggered(AgeRestrictionsID, "no age-restricted procedure conflicts")
	}
	sort.Ints(affected)

	f.RuleID = AgeRestrictionsID
	f.Triggered = true
	f.Confidence = ageConfidence
	f.Message = fmt.Sprintf("%d procedure(s) billed outside their allowed age range; %s questionable",
		len(affected), fmtCents(savings))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "verify the patient's date of birth on the claim and dispute the mismatched services"
	f.SavingsCents = &savings
	return f
}
