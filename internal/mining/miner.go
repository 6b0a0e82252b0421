package mining

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/portability-study/portbench/internal/llm"
	"github.com/portability-study/portbench/internal/types"
)

// Miner scans repositories for candidate portability issues.
type Miner struct {
	client    *Client
	cache     *Cache
	validator llm.Provider // nil disables the LLM quality gate
	workers   int
	maxIssues int
}

func NewMiner(client *Client, cache *Cache, validator llm.Provider, workers, maxIssues int) *Miner {
	if workers < 1 {
		workers = 1
	}
	return &Miner{
		client:    client,
		cache:     cache,
		validator: validator,
		workers:   workers,
		maxIssues: maxIssues,
	}
}

// Run mines every repository with a bounded worker pool, appending
// matched issues to the output as each repository completes. A failing
// repository is logged and skipped; it does not abort the run.
func (m *Miner) Run(ctx context.Context, repos []string, output *OutputWriter) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	var mu sync.Mutex

	for _, ownerRepo := range repos {
		g.Go(func() error {
			rows, err := m.mineRepo(ctx, ownerRepo)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.WithError(err).WithField("repo", ownerRepo).Error("mining failed, skipping repository")
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, row := range rows {
				if err := output.Append(row); err != nil {
					return err
				}
			}

			log.WithField("repo", ownerRepo).Infof("mined %d candidate issue(s)", len(rows))
			return nil
		})
	}

	return g.Wait()
}

func (m *Miner) mineRepo(ctx context.Context, ownerRepo string) ([]types.MinedIssue, error) {
	records, cached := m.cache.Load(ownerRepo)
	if !cached {
		var err error
		records, err = m.client.FetchIssues(ctx, ownerRepo, m.maxIssues)
		if err != nil {
			return nil, err
		}
		if err := m.cache.Save(ownerRepo, records); err != nil {
			log.WithError(err).WithField("repo", ownerRepo).Warn("failed to cache issues")
		}
	}

	var rows []types.MinedIssue
	for _, record := range records {
		match := ScanIssue(record)
		if match == nil {
			continue
		}

		row := toMinedIssue(ownerRepo, record, match)
		if m.validator != nil {
			if err := ValidateIssue(ctx, m.validator, ownerRepo, match, &row); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.WithError(err).WithFields(log.Fields{
					"repo":  ownerRepo,
					"issue": row.Number,
				}).Warn("LLM validation failed, leaving AI fields empty")
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
