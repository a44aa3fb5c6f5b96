package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimaudit/internal/engine"
	"github.com/gyeh/claimaudit/internal/exitcode"
	"github.com/gyeh/claimaudit/internal/logging"
	"github.com/gyeh/claimaudit/internal/model"
	"github.com/gyeh/claimaudit/internal/refdata"
)

var rulesCategory string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered detection rules",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesCategory, "category", "", "Only list rules in this category (coding, billing, policy, clinical)")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, "rules")

	reg, err := engine.DefaultRegistry(refdata.Builtin())
	if err != nil {
		log.Error().Err(err).Msg("rule registry build failed")
		os.Exit(exitcode.AuditError)
	}

	metas := reg.List()
	if rulesCategory != "" {
		cat, ok := model.ParseCategory(rulesCategory)
		if !ok {
			log.Error().Str("category", rulesCategory).Msg("unknown rule category")
			os.Exit(exitcode.UsageError)
		}
		metas = reg.ByCategory(cat)
	}

	fmt.Printf("%-28s %-10s %-8s %s\n", "ID", "CATEGORY", "SEVERITY", "NAME")
	for _, m := range metas {
		name := m.Name
		if m.RequiresBenefits {
			name += " (needs benefits profile)"
		}
		fmt.Printf("%-28s %-10s %-8s %s\n", m.ID, m.Category, m.Severity, name)
	}
	fmt.Printf("\n%d rules registered\n", len(metas))
	return nil
}
