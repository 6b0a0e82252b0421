package repair

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/prompts"
	"github.com/portability-study/portbench/internal/types"
)

// ModelDirName converts a model slug into a filesystem-safe directory
// name, e.g. meta-llama/llama-3.3-70b-instruct ->
// meta-llama_llama-3.3-70b-instruct.
func ModelDirName(model string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(model)
}

// Runner generates fixes for the nonportable snippets with one prompt
// strategy across all study models.
type Runner struct {
	corpus    *corpus.Corpus
	providers []llm.Provider
	strategy  types.RepairStrategy
	guidance  map[string]types.GuidanceRecord
	fixesDir  string
}

func NewRunner(c *corpus.Corpus, providers []llm.Provider, strategy types.RepairStrategy,
	guidance map[string]types.GuidanceRecord, fixesDir string) *Runner {
	return &Runner{
		corpus:    c,
		providers: providers,
		strategy:  strategy,
		guidance:  guidance,
		fixesDir:  fixesDir,
	}
}

func (r *Runner) buildPrompt(snippet types.Snippet) (string, error) {
	if r.strategy == types.StrategyGuided {
		var guidance *types.GuidanceRecord
		if g, ok := r.guidance[filepath.Base(snippet.Name)]; ok {
			guidance = &g
		} else {
			log.WithField("snippet", snippet.Name).Warn("no guidance row, using default prompt")
		}
		return prompts.BuildGuidedFixPrompt(guidance, snippet.Code)
	}
	return prompts.BuildGenericFixPrompt(snippet.Code)
}

// Run writes one fixed file per snippet per model under
// <fixesDir>/<strategy>/<model>/ and appends one summary row each.
// The fixed_correctly column is left empty; the verifier fills it.
func (r *Runner) Run(ctx context.Context, writer *SummaryWriter) error {
	targets := r.corpus.Nonportable()
	total := len(targets) * len(r.providers)
	done := 0

	for _, snippet := range targets {
		prompt, err := r.buildPrompt(snippet)
		if err != nil {
			return fmt.Errorf("failed to build %s prompt for %s: %w", r.strategy, snippet.Name, err)
		}

		for _, provider := range r.providers {
			done++
			logger := log.WithFields(log.Fields{
				"snippet": snippet.Name,
				"model":   provider.GetModel(),
			})
			logger.Infof("fixing [%d/%d]", done, total)

			fixed, err := provider.Generate(ctx, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.WithError(err).Warn("request failed, recording error marker")
				fixed = fmt.Sprintf("ERROR: %v", err)
			} else {
				fixed = StripCodeFence(fixed)
			}

			outFile, err := r.writeFix(provider.GetModel(), snippet, fixed)
			if err != nil {
				return err
			}

			record := types.RepairRecord{
				Filename:  filepath.Base(snippet.Name),
				Model:     provider.GetModel(),
				FixedFile: outFile,
			}
			if err := writer.Append(record); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Runner) writeFix(model string, snippet types.Snippet, fixed string) (string, error) {
	outDir := filepath.Join(r.fixesDir, string(r.strategy), ModelDirName(model))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create fixes directory %s: %w", outDir, err)
	}

	outFile := filepath.Join(outDir, filepath.Base(snippet.Name))
	if err := os.WriteFile(outFile, []byte(fixed), 0644); err != nil {
		return "", fmt.Errorf("failed to write fix to %s: %w", outFile, err)
	}
	return outFile, nil
}
