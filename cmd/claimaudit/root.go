package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimaudit/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "claimaudit",
	Short: "Medical claim compliance auditor",
	Long:  "Runs a battery of billing-compliance rules against a normalized claim and reports ranked findings with monetary impact.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("CLAIMAUDIT_DB_URL"), "Postgres connection string for reference data (or set CLAIMAUDIT_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}
