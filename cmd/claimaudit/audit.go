package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimaudit/internal/benefits"
	"github.com/gyeh/claimaudit/internal/claimfile"
	"github.com/gyeh/claimaudit/internal/config"
	"github.com/gyeh/claimaudit/internal/db"
	"github.com/gyeh/claimaudit/internal/engine"
	"github.com/gyeh/claimaudit/internal/exitcode"
	"github.com/gyeh/claimaudit/internal/logging"
	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
	"github.com/gyeh/claimaudit/internal/report"
	"github.com/gyeh/claimaudit/internal/rules"
)

var (
	auditConfigPath string
	auditRule       string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a claim file and print ranked findings",
	RunE:  runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&cfg.ClaimPath, "claim", "", "Path to claim JSON file (required)")
	f.StringVar(&cfg.BenefitsPath, "benefits", "", "Path to benefits profile JSON file")
	f.StringVar(&cfg.BenchmarkPath, "benchmark", "", "Path to parquet price benchmark file")
	f.StringVar(&cfg.ReportFormat, "format", "text", "Report format: text or json")
	f.BoolVar(&cfg.UseDB, "use-db", false, "Overlay reference tables from the database")
	f.StringVar(&auditConfigPath, "config", "", "Path to YAML config file")
	f.StringVar(&auditRule, "rule", "", "Run a single rule by id instead of the full set")
	_ = auditCmd.MarkFlagRequired("claim")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, "audit")
	ctx := context.Background()

	if auditConfigPath != "" {
		if err := cfg.LoadFromFile(auditConfigPath); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	tables, err := loadTables(ctx, log, &cfg)
	if err != nil {
		// loadTables already logged and chose the exit code.
		return err
	}

	c, err := claimfile.Load(cfg.ClaimPath)
	if err != nil {
		log.Error().Err(err).Msg("claim load failed")
		os.Exit(exitcode.ValidationError)
	}
	if cfg.BenefitsPath != "" {
		if err := claimfile.LoadBenefits(c, cfg.BenefitsPath); err != nil {
			log.Error().Err(err).Msg("benefits load failed")
			os.Exit(exitcode.ValidationError)
		}
	}

	reg, err := buildRegistry(tables, cfg.Categories)
	if err != nil {
		log.Error().Err(err).Msg("rule registry build failed")
		os.Exit(exitcode.AuditError)
	}
	eng := engine.New(reg, log)

	if auditRule != "" {
		f, err := eng.RunOne(ctx, auditRule, c)
		if err != nil {
			log.Error().Err(err).Str("rule_id", auditRule).Msg("rule execution failed")
			if errors.Is(err, rules.ErrNotFound) {
				os.Exit(exitcode.UsageError)
			}
			os.Exit(exitcode.AuditError)
		}
		return report.WriteJSON(os.Stdout, reg, &engine.Result{
			Findings: []model.Finding{f},
			Stats:    engine.ComputeStatistics(reg, []model.Finding{f}),
		})
	}

	res, err := eng.RunAll(ctx, c)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				log.Error().Str("problem", p).Msg("claim context invalid")
			}
			os.Exit(exitcode.ValidationError)
		}
		log.Error().Err(err).Msg("audit failed")
		os.Exit(exitcode.AuditError)
	}

	if cfg.ReportFormat == "json" {
		return report.WriteJSON(os.Stdout, reg, res)
	}
	return report.WriteText(os.Stdout, reg, res)
}

// loadTables assembles the reference tables: builtin data, optionally
// overlaid from the database, optionally merged with a parquet price
// benchmark. Exits the process on failure.
func loadTables(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*refdata.Tables, error) {
	tables := refdata.Builtin()

	if cfg.UseDB {
		if cfg.DSN == "" {
			log.Error().Msg("--use-db requires --dsn or CLAIMAUDIT_DB_URL")
			os.Exit(exitcode.UsageError)
		}
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		tables, err = refdata.LoadFromDB(ctx, pool, log)
		if err != nil {
			log.Error().Err(err).Msg("reference data load failed")
			os.Exit(exitcode.RefDataError)
		}
	}

	if cfg.BenchmarkPath != "" {
		if err := refdata.MergePriceBenchmarks(tables, cfg.BenchmarkPath, log); err != nil {
			log.Error().Err(err).Msg("price benchmark merge failed")
			os.Exit(exitcode.RefDataError)
		}
	}
	return tables, nil
}

// buildRegistry assembles the full rule set, keeping only the requested
// categories. An empty category list keeps everything.
func buildRegistry(t *refdata.Tables, categories []string) (*rules.Registry, error) {
	keep := make(map[model.Category]bool, len(categories))
	for _, name := range categories {
		if cat, ok := model.ParseCategory(name); ok {
			keep[cat] = true
		}
	}

	all := append(rules.Core(t), benefits.Rules(t)...)
	if len(keep) == 0 {
		return rules.NewRegistry(all)
	}
	kept := make([]rules.Rule, 0, len(all))
	for _, r := range all {
		if keep[r.Meta.Category] {
			kept = append(kept, r)
		}
	}
	return rules.NewRegistry(kept)
}
