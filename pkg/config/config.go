package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config is the study configuration shared by all subcommands.
type Config struct {
	LLM    LLMConfig    `json:"llm" validate:"required"`
	Paths  PathsConfig  `json:"paths"`
	Mining MiningConfig `json:"mining"`
}

type LLMConfig struct {
	BaseURL           string   `json:"base_url" validate:"required,url"`
	APIKeyEnv         string   `json:"api_key_env"`
	Models            []string `json:"models" validate:"required,min=1,dive,required"`
	RequestsPerSecond float64  `json:"requests_per_second" validate:"gte=0"`
	MaxAttempts       int      `json:"max_attempts" validate:"gte=1,lte=10"`
}

type PathsConfig struct {
	CorpusDir    string `json:"corpus_dir"`
	ResultsDir   string `json:"results_dir"`
	FixesDir     string `json:"fixes_dir"`
	GuidanceFile string `json:"guidance_file"`
	ProjectsFile string `json:"projects_file"`
	ExamplesFile string `json:"examples_file"`
	PatchesDir   string `json:"patches_dir"`
}

type MiningConfig struct {
	Workers         int    `json:"workers" validate:"gte=0,lte=64"`
	CacheDir        string `json:"cache_dir"`
	Output          string `json:"output"`
	GithubTokenEnv  string `json:"github_token_env"`
	ValidationModel string `json:"validation_model"`
	MaxIssues       int    `json:"max_issues" validate:"gte=0"`
}

// Default returns the configuration matching the published study layout.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:   "https://openrouter.ai/api/v1",
			APIKeyEnv: "OPENROUTER_API_KEY",
			Models: []string{
				"meta-llama/llama-3.3-70b-instruct",
				"x-ai/grok-4-fast",
				"openai/gpt-4o-mini",
			},
			RequestsPerSecond: 1,
			MaxAttempts:       2,
		},
		Paths: PathsConfig{
			CorpusDir:    "rqs/rq3/code",
			ResultsDir:   "rqs/rq3/detection_results",
			FixesDir:     "rqs/rq3/fixes",
			GuidanceFile: "rqs/rq3/guided.csv",
			ProjectsFile: "data/projects.csv",
			ExamplesFile: "rqs/rq2/code_examples.csv",
			PatchesDir:   "rqs/rq4",
		},
		Mining: MiningConfig{
			Workers:         8,
			CacheDir:        "cache/issues",
			Output:          "rqs/rq1/mined_issues.csv",
			GithubTokenEnv:  "GITHUB_TOKEN",
			ValidationModel: "openai/gpt-4o-mini",
		},
	}
}

// LoadConfig reads a JSON config file on top of the defaults and
// validates the result.
func LoadConfig(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// APIKey resolves the LLM API key from the configured environment
// variable. Empty is allowed; the endpoint may be unauthenticated.
func (c *Config) APIKey() string {
	if c.LLM.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.LLM.APIKeyEnv)
}

// GithubToken resolves the mining token from the environment.
func (c *Config) GithubToken() string {
	if c.Mining.GithubTokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Mining.GithubTokenEnv)
}
