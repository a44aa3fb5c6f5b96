package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimaudit/internal/db"
	"github.com/gyeh/claimaudit/internal/exitcode"
	"github.com/gyeh/claimaudit/internal/logging"
	"github.com/gyeh/claimaudit/internal/refdata"
)

var loadrefBenchmark string

var loadrefCmd = &cobra.Command{
	Use:   "loadref",
	Short: "Seed the reference tables into the database",
	Long:  "Writes the builtin reference tables, optionally merged with a parquet price benchmark, into the ref schema. Idempotent.",
	RunE:  runLoadref,
}

func init() {
	loadrefCmd.Flags().StringVar(&loadrefBenchmark, "benchmark", "", "Path to parquet price benchmark file to merge before seeding")
	rootCmd.AddCommand(loadrefCmd)
}

func runLoadref(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, "loadref")
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or CLAIMAUDIT_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	tables := refdata.Builtin()
	if loadrefBenchmark != "" {
		if err := refdata.MergePriceBenchmarks(tables, loadrefBenchmark, log); err != nil {
			log.Error().Err(err).Msg("price benchmark merge failed")
			os.Exit(exitcode.RefDataError)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.RefDataError)
	}
	if err := refdata.Seed(ctx, pool, log, tables); err != nil {
		log.Error().Err(err).Msg("reference data seed failed")
		os.Exit(exitcode.RefDataError)
	}

	fmt.Printf("Reference data %s seeded: %d frequency limits, %d exclusions, %d bundles, %d price ranges\n",
		tables.Version, len(tables.FrequencyLimits), len(tables.Exclusions), len(tables.Bundles), len(tables.PriceRanges))
	return nil
}
