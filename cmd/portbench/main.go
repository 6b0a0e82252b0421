package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portbench",
	Short: "Tooling for the OS-portability study of Python projects",
	Long: `Portbench runs the study pipeline over the fixed research dataset:
LLM detection over the 90-snippet benchmark, metric aggregation,
repair generation and verification, dataset integrity checks,
GitHub issue mining and the upstream patch inventory.`,
}

var logLevel string

func main() {
	formatter := new(log.TextFormatter)
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("could not execute root command")
	}
}

func init() {
	cobra.OnInitialize(func() {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			log.WithError(err).Fatal("cannot parse log-level")
		}
		log.SetLevel(level)
	})
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (trace,debug,info,warn,error)")
}

// loadStudyConfig returns the published study defaults, overlaid with a
// JSON config file when one is given.
func loadStudyConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(configFile)
}

func baseProviderConfig(cfg *config.Config) llm.ProviderConfig {
	return llm.ProviderConfig{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.APIKey(),
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		MaxAttempts:       cfg.LLM.MaxAttempts,
	}
}
