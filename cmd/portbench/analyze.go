package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/analysis"
	"github.com/portability-study/portbench/internal/detection"
)

type AnalyzeFlags struct {
	ConfigFile string
	Summary    string
}

func NewAnalyzeFlags() *AnalyzeFlags {
	return &AnalyzeFlags{}
}

func (f *AnalyzeFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
	fs.StringVar(&f.Summary, "summary", "", "Path to results_summary.csv (overrides config)")
}

func init() {
	f := NewAnalyzeFlags()

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate detection results into per-model metrics and agreement",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStudyConfig(f.ConfigFile)
			if err != nil {
				return err
			}

			summaryPath := f.Summary
			if summaryPath == "" {
				summaryPath = filepath.Join(cfg.Paths.ResultsDir, detection.SummaryResultsFile)
			}

			records, err := detection.ReadSummary(summaryPath)
			if err != nil {
				return fmt.Errorf("failed to read detection summary: %w", err)
			}

			metrics := analysis.ComputeMetrics(records, cfg.LLM.Models)
			agreement := analysis.ComputeAgreement(records, cfg.LLM.Models)
			analysis.WriteReport(os.Stdout, metrics, agreement)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
