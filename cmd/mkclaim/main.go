// mkclaim writes a synthetic claim JSON file for local testing and demos.
// Flags opt into specific anomalies so each rule can be exercised by hand.
// Usage: go run ./cmd/mkclaim --out claim.json --duplicates --unbundled
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gyeh/claimaudit/internal/model"
)

func main() {
	out := flag.String("out", "claim.json", "output claim file")
	duplicates := flag.Bool("duplicates", false, "repeat an office visit line three times")
	unbundled := flag.Bool("unbundled", false, "bill an ECG alongside its bundled components")
	lumpSum := flag.Bool("lump-sum", false, "emit one large unitemized line instead of detail")
	lowOCR := flag.Bool("low-ocr", false, "mark the extraction as low confidence")
	benefitsOut := flag.String("benefits", "", "also write a benefits profile to this path")
	flag.Parse()

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	c := model.Context{
		Totals:   &model.Totals{},
		Dates:    model.Dates{Service: &day},
		Provider: model.Provider{NPI: "1234567893", Name: "Example Medical Group", Specialty: "internal_medicine"},
		Patient:  model.Patient{ID: "patient-1", Gender: "F"},
		Metadata: &model.Metadata{DocumentType: "itemized_bill", OCRConfidence: 0.92},
	}

	add := func(code string, charge int64) {
		c.LineItems = append(c.LineItems, model.LineItem{
			Code:           code,
			ServiceDate:    &day,
			Units:          1,
			ChargeCents:    charge,
			DiagnosisCodes: []string{"J06.9"},
		})
	}

	switch {
	case *lumpSum:
		add("99999", 8500_00)
	default:
		add("99213", 115_00)
		if *duplicates {
			add("99213", 115_00)
			add("99213", 115_00)
		}
		if *unbundled {
			add("93000", 180_00)
			add("93005", 95_00)
			add("93010", 60_00)
		}
	}
	if *lowOCR {
		c.Metadata.OCRConfidence = 0.35
	}

	for i := range c.LineItems {
		c.Totals.ChargesCents += c.LineItems[i].ChargeCents
	}
	c.Totals.BalanceCents = c.Totals.ChargesCents

	if err := writeJSON(*out, &c); err != nil {
		fmt.Fprintf(os.Stderr, "write claim: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d line items, %d total cents)\n", *out, len(c.LineItems), c.Totals.ChargesCents)

	if *benefitsOut != "" {
		p := model.BenefitsProfile{
			DeductibleCents:    1500_00,
			DeductibleMetCents: 1500_00,
			CoinsuranceBPS:     2000,
			CopayCents:         map[string]int64{"office_visit": 30_00, "er": 250_00},
			OOPMaxCents:        6000_00,
			OOPMetCents:        1200_00,
			Network:            model.NetworkIn,
		}
		if err := writeJSON(*benefitsOut, &p); err != nil {
			fmt.Fprintf(os.Stderr, "write benefits: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *benefitsOut)
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
