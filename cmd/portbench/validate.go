package main

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/detection"
	"github.com/portability-study/portbench/internal/repair"
	"github.com/portability-study/portbench/internal/types"
)

type ValidateFlags struct {
	ConfigFile string
}

func NewValidateFlags() *ValidateFlags {
	return &ValidateFlags{}
}

func (f *ValidateFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
}

func init() {
	f := NewValidateFlags()

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check dataset and results integrity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStudyConfig(f.ConfigFile)
			if err != nil {
				return err
			}

			report := &corpus.IntegrityReport{}

			c, err := corpus.Load(cfg.Paths.CorpusDir)
			if err != nil {
				return fmt.Errorf("failed to load snippet corpus: %w", err)
			}

			projects, err := corpus.ReadProjects(cfg.Paths.ProjectsFile)
			if err != nil {
				log.WithError(err).Warn("skipping project checks")
			} else {
				corpus.CheckProjects(projects, report)
			}

			examples, err := corpus.ReadExamples(cfg.Paths.ExamplesFile)
			if err != nil {
				log.WithError(err).Warn("skipping example checks")
			} else {
				corpus.CheckExamples(examples, c, report)
			}

			summaryPath := filepath.Join(cfg.Paths.ResultsDir, detection.SummaryResultsFile)
			summary, err := detection.ReadSummary(summaryPath)
			if err != nil {
				log.WithError(err).Warn("skipping detection result checks")
			} else {
				corpus.CheckShape(c, summary, cfg.LLM.Models, report)

				fullPath := filepath.Join(cfg.Paths.ResultsDir, detection.FullResultsFile)
				full, err := detection.ReadFull(fullPath)
				if err != nil {
					log.WithError(err).Warn("skipping summary projection check")
				} else {
					corpus.CheckSummaryProjection(full, summary, report)
				}
			}

			for _, strategy := range []types.RepairStrategy{types.StrategyGeneric, types.StrategyGuided} {
				path := filepath.Join(cfg.Paths.ResultsDir, repair.SummaryFileName(strategy))
				records, err := repair.ReadSummary(path)
				if err != nil {
					log.WithError(err).Warnf("skipping %s repair checks", strategy)
					continue
				}
				corpus.CheckRepairTargets(records, c, report)
			}

			if !report.OK() {
				for _, problem := range report.Problems {
					log.Error(problem)
				}
				return fmt.Errorf("dataset validation failed with %d problem(s)", len(report.Problems))
			}

			log.Info("all integrity checks passed")
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
