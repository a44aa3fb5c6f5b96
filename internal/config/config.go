package config

import (
	"fmt"
	"os"

	"github.com/gyeh/claimaudit/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a claimaudit run.
type Config struct {
	DSN           string
	ClaimPath     string
	BenefitsPath  string
	BenchmarkPath string   // optional parquet price benchmark file
	LogFormat     string   // "text" or "json"
	ReportFormat  string   // "text" or "json"
	UseDB         bool     // overlay reference tables from the database
	Categories    []string `yaml:"categories"` // subset of rule categories to run
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Categories    []string `yaml:"categories"`
	BenchmarkPath string   `yaml:"benchmark_path"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Categories = yc.Categories
	if c.BenchmarkPath == "" {
		c.BenchmarkPath = yc.BenchmarkPath
	}
	return c.validateCategories()
}

// validateCategories checks that every entry in Categories is a known rule
// category. If Categories is empty, it defaults to all categories.
func (c *Config) validateCategories() error {
	if len(c.Categories) == 0 {
		c.Categories = make([]string, len(model.AllCategories))
		for i, cat := range model.AllCategories {
			c.Categories[i] = string(cat)
		}
		return nil
	}
	for _, name := range c.Categories {
		if _, ok := model.ParseCategory(name); !ok {
			return fmt.Errorf("unknown rule category %q in config", name)
		}
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.ClaimPath == "" {
		return fmt.Errorf("--claim is required")
	}
	if _, err := os.Stat(c.ClaimPath); err != nil {
		return fmt.Errorf("claim file not accessible: %w", err)
	}
	if c.ReportFormat != "" && c.ReportFormat != "text" && c.ReportFormat != "json" {
		return fmt.Errorf("unknown report format %q", c.ReportFormat)
	}
	return nil
}

// ValidateWithDSN checks both claim file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or CLAIMAUDIT_DB_URL is required")
	}
	return nil
}
