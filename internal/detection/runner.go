package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/portability-study/portbench/internal/corpus"
	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/prompts"
	"github.com/portability-study/portbench/internal/types"
)

// Runner classifies every corpus snippet with every study model.
type Runner struct {
	corpus    *corpus.Corpus
	providers []llm.Provider
}

func NewRunner(c *corpus.Corpus, providers []llm.Provider) *Runner {
	return &Runner{corpus: c, providers: providers}
}

// Run walks snippets in corpus order and models in configured order,
// appending one row per pair. A failed request fails only its own
// record: the response is stored as an error marker and the verdict
// goes down as unknown, matching how absent markers are treated.
func (r *Runner) Run(ctx context.Context, writer *ResultsWriter) (types.RunInfo, error) {
	info := types.RunInfo{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
	}

	total := len(r.corpus.Snippets) * len(r.providers)
	done := 0

	for _, snippet := range r.corpus.Snippets {
		prompt, err := prompts.BuildDetectionPrompt(snippet.Code)
		if err != nil {
			return info, fmt.Errorf("failed to build detection prompt for %s: %w", snippet.Name, err)
		}

		for _, provider := range r.providers {
			done++
			logger := log.WithFields(log.Fields{
				"snippet": snippet.Name,
				"model":   provider.GetModel(),
			})
			logger.Infof("classifying [%d/%d]", done, total)

			response, err := provider.Generate(ctx, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return info, ctx.Err()
				}
				logger.WithError(err).Warn("request failed, recording unknown verdict")
				response = fmt.Sprintf("ERROR: %v", err)
			}

			record := types.DetectionRecord{
				Filename: snippet.Name,
				Label:    snippet.Label,
				Model:    provider.GetModel(),
				Verdict:  Classify(response),
				Response: response,
			}
			if err := writer.Append(record); err != nil {
				return info, err
			}
		}
	}

	info.EndTime = time.Now()
	return info, nil
}
