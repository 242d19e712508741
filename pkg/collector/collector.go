// Package collector pulls raw signal items from external sources: GitHub
// releases and issues, GitHub Discussions, Hacker News, RSS feeds and the
// NVD vulnerability database.
//
// Collectors are deterministic and idempotent: they never call LLMs, they
// keep their own incremental cursors, and re-running one yields no
// duplicates once the store has seen an item. Items come out with Score=0,
// scoring happens downstream.
package collector

import (
	"context"
	"sync"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/devscope/pkg/domain"
)

// Collector pulls data from one source type
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.Item, error)
}

// StateStore persists per-collector cursors between runs
type StateStore interface {
	Get(ctx context.Context, collector string, out any) error
	Set(ctx context.Context, collector string, state any) error
}

// Runner fans collection out over all configured collectors
type Runner struct {
	collectors  []Collector
	concurrency int
}

// NewRunner creates a runner. Concurrency below 1 means sequential.
func NewRunner(concurrency int, collectors ...Collector) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{collectors: collectors, concurrency: concurrency}
}

// Run collects from every source concurrently and merges the results.
// A failing collector is logged and skipped, the rest still contribute;
// only context cancellation aborts the whole run.
func (r *Runner) Run(ctx context.Context) ([]domain.Item, error) {
	var mu sync.Mutex
	var items []domain.Item

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, c := range r.collectors {
		g.Go(func() error {
			collected, err := c.Collect(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[WARN] collector %s failed: %v", c.Name(), err)
				return nil
			}
			log.Printf("[INFO] collector %s: %d items", c.Name(), len(collected))

			mu.Lock()
			items = append(items, collected...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
