package main

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/repair"
	"github.com/portability-study/portbench/internal/types"
)

type FixFlags struct {
	ConfigFile string
	Strategy   string
	CorpusDir  string
	FixesDir   string
	Models     []string
}

func NewFixFlags() *FixFlags {
	return &FixFlags{}
}

func (f *FixFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
	fs.StringVar(&f.Strategy, "strategy", string(types.StrategyGeneric), "Repair prompt strategy (generic or guided)")
	fs.StringVar(&f.CorpusDir, "corpus", "", "Snippet corpus directory (overrides config)")
	fs.StringVar(&f.FixesDir, "fixes", "", "Directory for generated fixes (overrides config)")
	fs.StringSliceVar(&f.Models, "model", nil, "Model to run (repeatable; defaults to the three study models)")
}

func parseStrategy(value string) (types.RepairStrategy, error) {
	switch types.RepairStrategy(value) {
	case types.StrategyGeneric:
		return types.StrategyGeneric, nil
	case types.StrategyGuided:
		return types.StrategyGuided, nil
	default:
		return "", fmt.Errorf("unknown repair strategy %q (want generic or guided)", value)
	}
}

func init() {
	f := NewFixFlags()

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Generate repairs for the nonportable snippets",
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
			if f.FixesDir != "" {
				cfg.Paths.FixesDir = f.FixesDir
			}
			models := cfg.LLM.Models
			if len(f.Models) > 0 {
				models = f.Models
			}

			c, err := corpus.Load(cfg.Paths.CorpusDir)
			if err != nil {
				return fmt.Errorf("failed to load snippet corpus: %w", err)
			}

			var guidance map[string]types.GuidanceRecord
			if strategy == types.StrategyGuided {
				guidance, err = corpus.ReadGuidance(cfg.Paths.GuidanceFile)
				if err != nil {
					return fmt.Errorf("failed to read guidance file: %w", err)
				}
			}

			summaryPath := filepath.Join(cfg.Paths.ResultsDir, repair.SummaryFileName(strategy))
			writer, err := repair.NewSummaryWriter(summaryPath)
			if err != nil {
				return err
			}
			defer writer.Close()

			providers := llm.NewProviders(baseProviderConfig(cfg), models)
			runner := repair.NewRunner(c, providers, strategy, guidance, cfg.Paths.FixesDir)

			if err := runner.Run(cmd.Context(), writer); err != nil {
				return err
			}

			log.Infof("repair run complete, summary in %s", summaryPath)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
