package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/analysis"
	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/repair"
	"github.com/portability-study/portbench/internal/verify"
)

type VerifyFlags struct {
	ConfigFile string
	Strategy   string
	CorpusDir  string
	RulesFile  string
}

func NewVerifyFlags() *VerifyFlags {
	return &VerifyFlags{}
}

func (f *VerifyFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
	fs.StringVar(&f.Strategy, "strategy", "generic", "Repair summary to verify (generic or guided)")
	fs.StringVar(&f.CorpusDir, "corpus", "", "Snippet corpus directory (overrides config)")
	fs.StringVar(&f.RulesFile, "rules", "", "Construct rules file (defaults to the built-in rules)")
}

func init() {
	f := NewVerifyFlags()

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify generated fixes and report repair accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := parseStrategy(f.Strategy)
			if err != nil {
				return err
			}

			cfg, err := loadStudyConfig(f.ConfigFile)
			if err != nil {
				return err
			}
			if f.CorpusDir != "" {
				cfg.Paths.CorpusDir = f.CorpusDir
			}

			c, err := corpus.Load(cfg.Paths.CorpusDir)
			if err != nil {
				return fmt.Errorf("failed to load snippet corpus: %w", err)
			}

			summaryPath := filepath.Join(cfg.Paths.ResultsDir, repair.SummaryFileName(strategy))
			records, err := repair.ReadSummary(summaryPath)
			if err != nil {
				return fmt.Errorf("failed to read repair summary: %w", err)
			}

			rules, err := verify.LoadRules(f.RulesFile)
			if err != nil {
				return err
			}
			verifier, err := verify.NewVerifier(rules)
			if err != nil {
				return err
			}

			verified := verifier.VerifySummary(records, c)
			if err := repair.WriteSummary(summaryPath, verified); err != nil {
				return err
			}
			log.Infof("verified %d fix(es), summary updated in %s", len(verified), summaryPath)

			stats := analysis.ComputeRepairStats(verified)
			analysis.WriteRepairReport(os.Stdout, strategy, stats)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
