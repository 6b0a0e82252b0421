package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/mining"
)

type MineFlags struct {
	ConfigFile string
	ReposFile  string
	Output     string
	Workers    int
	MaxIssues  int
	NoValidate bool
}

func NewMineFlags() *MineFlags {
	return &MineFlags{}
}

func (f *MineFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file (defaults to the study layout)")
	fs.StringVar(&f.ReposFile, "repos", "", "CSV with one repository per line (defaults to the projects file)")
	fs.StringVar(&f.Output, "output", "", "Mined issues CSV (overrides config)")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent repository workers (overrides config)")
	fs.IntVar(&f.MaxIssues, "max-issues", 0, "Issue fetch cap per repository (0 means unbounded)")
	fs.BoolVar(&f.NoValidate, "no-validate", false, "Skip the LLM quality gate over matched issues")
}

func init() {
	f := NewMineFlags()

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine GitHub issues for portability reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStudyConfig(f.ConfigFile)
			if err != nil {
				return err
			}
			if f.Output != "" {
				cfg.Mining.Output = f.Output
			}
			if f.Workers > 0 {
				cfg.Mining.Workers = f.Workers
			}
			if f.MaxIssues > 0 {
				cfg.Mining.MaxIssues = f.MaxIssues
			}
			reposFile := f.ReposFile
			if reposFile == "" {
				reposFile = cfg.Paths.ProjectsFile
			}

			repos, err := mining.ReadRepoList(reposFile)
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				return fmt.Errorf("no repositories found in %s", reposFile)
			}
			log.Infof("mining %d repositories with %d worker(s)", len(repos), cfg.Mining.Workers)

			ctx := cmd.Context()
			client := mining.NewClient(ctx, cfg.GithubToken())
			cache := mining.NewCache(cfg.Mining.CacheDir)

			var validator llm.Provider
			if !f.NoValidate && cfg.Mining.ValidationModel != "" {
				base := baseProviderConfig(cfg)
				base.Model = cfg.Mining.ValidationModel
				validator = llm.NewProvider(base)
			}

			output, err := mining.NewOutputWriter(cfg.Mining.Output)
			if err != nil {
				return err
			}
			defer output.Close()

			miner := mining.NewMiner(client, cache, validator, cfg.Mining.Workers, cfg.Mining.MaxIssues)
			if err := miner.Run(ctx, repos, output); err != nil {
				return err
			}

			log.Infof("mining complete, results in %s", cfg.Mining.Output)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
