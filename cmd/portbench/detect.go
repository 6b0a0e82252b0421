package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/detection"
	"github.com/portability-study/portbench/internal/llm"
)

type DetectFlags struct {
	ConfigFile string
	CorpusDir  string
	ResultsDir string
	Models     []string
}

func NewDetectFlags() *DetectFlags {
	return &DetectFlags{}
}

func (f *DetectFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
	fs.StringVar(&f.CorpusDir, "corpus", "", "Snippet corpus directory (overrides config)")
	fs.StringVar(&f.ResultsDir, "results", "", "Detection results directory (overrides config)")
	fs.StringSliceVar(&f.Models, "model", nil, "Model to run (repeatable; defaults to the three study models)")
}

func init() {
	f := NewDetectFlags()

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run the study models over the benchmark snippets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStudyConfig(f.ConfigFile)
			if err != nil {
				return err
			}
			if f.CorpusDir != "" {
				cfg.Paths.CorpusDir = f.CorpusDir
			}
			if f.ResultsDir != "" {
				cfg.Paths.ResultsDir = f.ResultsDir
			}
			models := cfg.LLM.Models
			if len(f.Models) > 0 {
				models = f.Models
			}

			c, err := corpus.Load(cfg.Paths.CorpusDir)
			if err != nil {
				return fmt.Errorf("failed to load snippet corpus: %w", err)
			}

			writer, err := detection.NewResultsWriter(cfg.Paths.ResultsDir)
			if err != nil {
				return err
			}
			defer writer.Close()

			providers := llm.NewProviders(baseProviderConfig(cfg), models)
			runner := detection.NewRunner(c, providers)

			info, err := runner.Run(cmd.Context(), writer)
			if err != nil {
				return err
			}
			if err := detection.SaveRunInfo(cfg.Paths.ResultsDir, info); err != nil {
				log.WithError(err).Warn("failed to save run info")
			}

			log.WithField("run", info.ID).Infof("detection complete, results in %s", cfg.Paths.ResultsDir)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
