package model

// ValidateContext checks that a Context is complete enough to audit. It
// returns every problem found as a human-readable string so the caller can
// fix all of them at once; an empty slice means the Context is valid.
func ValidateContext(c *Context) []string {
	var problems []string
	if c == nil {
		return []string{"claim context is nil"}
	}
	if len(c.LineItems) == 0 {
		problems = append(problems, "claim has no line items")
	}
	if c.Totals == nil {
		problems = append(problems, "claim totals are missing")
	}
	if c.Metadata == nil {
		problems = append(problems, "extraction metadata is missing")
	} else if c.Metadata.OCRConfidence < 0 || c.Metadata.OCRConfidence > 1 {
		problems = append(problems, "ocr confidence must be between 0 and 1")
	}
	for i, item := range c.LineItems {
		if item.Code == "" {
			problems = append(problems, "line item "+c.ItemRef(i)+" has no procedure code")
		}
	}
	return problems
}
