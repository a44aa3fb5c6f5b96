// Package claimfile reads normalized claim contexts and benefits profiles
// from JSON files produced by the ingestion side.
package claimfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gyeh/claimaudit/internal/model"
)

// Load reads a claim context from a JSON file. It does not validate the
// context; the engine does that before running rules.
func Load(path string) (*model.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claim file: %w", err)
	}
	var c model.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse claim file: %w", err)
	}
	return &c, nil
}

// LoadBenefits reads a benefits profile from a JSON file and attaches it
// to the context, replacing any profile the claim file carried.
func LoadBenefits(c *model.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read benefits file: %w", err)
	}
	var p model.BenefitsProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse benefits file: %w", err)
	}
	c.Benefits = &p
	return nil
}
