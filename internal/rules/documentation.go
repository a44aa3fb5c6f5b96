package rules

import (
	"fmt"
	"sort"

	"github.com/gyeh/claimaudit/internal/model"
)

const (
	DocumentationGapsID       = "documentation_gap"
	MissingItemizationID      = "missing_itemization"
	LowConfidenceExtractionID = "low_confidence_extraction"
)

const documentationConfidence = 0.6

// LumpSumThresholdCents: a single-line claim at or above this amount looks
// like an unitemized facility bill. Tunable.
const LumpSumThresholdCents int64 = 5000_00 // $5,000

const lumpSumConfidence = 0.6

// OCRConfidenceFloor: extractions below this confidence need human eyes
// before their findings are acted on. Tunable.
const OCRConfidenceFloor = 0.5

const lowConfidenceConfidence = 0.8

// DocumentationGaps flags line items missing the fields a payable claim
// needs: diagnosis codes, a service date, or a billing provider NPI.
func DocumentationGaps() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          DocumentationGapsID,
			Name:        "Documentation gaps",
			Description: "Line items missing diagnosis codes, dates, or provider identifiers",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityLow,
		},
		Detector: documentationGaps{},
	}
}

type documentationGaps struct{}

func (documentationGaps) Detect(c *model.Context) model.Finding {
	var affected []int
	var f model.Finding
	for i := range c.LineItems {
		item := &c.LineItems[i]
		var gaps []string
		if len(item.DiagnosisCodes) == 0 {
			gaps = append(gaps, "no diagnosis codes")
		}
		if item.ServiceDate == nil {
			gaps = append(gaps, "no service date")
		}
		if len(gaps) == 0 {
			continue
		}
		affected = append(affected, i)
		for _, g := range gaps {
			f.Evidence = append(f.Evidence, model.Evidence{
				Field:    "gap",
				Value:    g,
				Location: c.ItemRef(i),
			})
		}
	}
	if c.Provider.NPI == "" {
		f.Evidence = append(f.Evidence, model.Evidence{
			Field: "gap",
			Value: "no billing provider NPI on the claim",
		})
	}

	if len(f.Evidence) == 0 {
		return model.NotTriggered(DocumentationGapsID, "no documentation gaps found")
	}
	sort.Ints(affected)

	f.RuleID = DocumentationGapsID
	f.Triggered = true
	f.Confidence = documentationConfidence
	f.Message = fmt.Sprintf("%d documentation gap(s) found on the claim", len(f.Evidence))
	f.AffectedItems = refs(c, affected)
	f.RecommendedAction = "request a complete itemized bill with diagnosis codes, dates, and provider identifiers"
	return f
}

// MissingItemization flags single-line claims large enough that they are
// almost certainly unitemized lump sums.
func MissingItemization() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          MissingItemizationID,
			Name:        "Missing itemization",
			Description: "One large lump-sum line in place of an itemized bill",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityMedium,
		},
		Detector: missingItemization{},
	}
}

type missingItemization struct{}

func (missingItemization) Detect(c *model.Context) model.Finding {
	if len(c.LineItems) != 1 || c.LineItems[0].ChargeCents < LumpSumThresholdCents {
		return model.NotTriggered(MissingItemizationID, "claim is itemized or below the lump-sum threshold")
	}
	return model.Finding{
		RuleID:     MissingItemizationID,
		Triggered:  true,
		Confidence: lumpSumConfidence,
		Message: fmt.Sprintf("single line item of %s with no itemization",
			fmtCents(c.LineItems[0].ChargeCents)),
		AffectedItems:     []string{c.ItemRef(0)},
		RecommendedAction: "request a fully itemized bill before paying; lump sums hide billing errors",
		Evidence: []model.Evidence{{
			Field:    "charge",
			Value:    fmtCents(c.LineItems[0].ChargeCents),
			Location: c.ItemRef(0),
		}},
	}
}

// LowConfidenceExtraction flags runs whose OCR confidence is below the
// floor; every other finding on the claim inherits that doubt.
func LowConfidenceExtraction() Rule {
	return Rule{
		Meta: model.RuleMetadata{
			ID:          LowConfidenceExtractionID,
			Name:        "Low-confidence extraction",
			Description: "Document extraction confidence too low to trust the numbers",
			Category:    model.CategoryBilling,
			Severity:    model.SeverityLow,
		},
		Detector: lowConfidenceExtraction{},
	}
}

type lowConfidenceExtraction struct{}

func (lowConfidenceExtraction) Detect(c *model.Context) model.Finding {
	if c.Metadata == nil || c.Metadata.OCRConfidence >= OCRConfidenceFloor {
		return model.NotTriggered(LowConfidenceExtractionID, "extraction confidence is acceptable")
	}
	return model.Finding{
		RuleID:     LowConfidenceExtractionID,
		Triggered:  true,
		Confidence: lowConfidenceConfidence,
		Message: fmt.Sprintf("document extracted at %.0f%% confidence, below the %.0f%% floor",
			c.Metadata.OCRConfidence*100, OCRConfidenceFloor*100),
		RecommendedAction: "verify extracted amounts and codes against the original document before acting on findings",
		Evidence: []model.Evidence{{
			Field: "ocr_confidence",
			Value: fmt.Sprintf("%.2f", c.Metadata.OCRConfidence),
		}},
	}
}
