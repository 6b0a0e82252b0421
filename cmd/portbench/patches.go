package main

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/patches"
)

type PatchesFlags struct {
	ConfigFile string
	PatchesDir string
}

func NewPatchesFlags() *PatchesFlags {
	return &PatchesFlags{}
}

func (f *PatchesFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
	fs.StringVar(&f.PatchesDir, "patches", "", "Directory holding submitted .patch/.diff files (overrides config)")
}

func init() {
	f := NewPatchesFlags()

	cmd := &cobra.Command{
		Use:   "patches",
		Short: "Inventory the submitted upstream patches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStudyConfig(f.ConfigFile)
			if err != nil {
				return err
			}
			if f.PatchesDir != "" {
				cfg.Paths.PatchesDir = f.PatchesDir
			}

			summaries, errs := patches.LoadDir(cfg.Paths.PatchesDir)
			for _, err := range errs {
				log.WithError(err).Warn("skipping malformed patch")
			}

			// Cross-check against the benchmark where possible: a patch
			// named after a nonportable snippet should keep matching one.
			if c, err := corpus.Load(cfg.Paths.CorpusDir); err == nil {
				for _, summary := range summaries {
					stem := strings.TrimSuffix(summary.Name, filepath.Ext(summary.Name))
					if _, ok := c.Lookup(stem + ".py"); !ok {
						log.WithField("patch", summary.Name).Debug("patch does not map to a benchmark snippet")
					}
				}
			}

			patches.WriteReport(os.Stdout, summaries)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
