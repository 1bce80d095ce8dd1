package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
	"github.com/ryosukesatoh/arxiv-daily/internal/ingest"
	"github.com/ryosukesatoh/arxiv-daily/internal/publisher"
	"github.com/ryosukesatoh/arxiv-daily/internal/report"
)

// Store is the pruning side of the record store; the insertion side is owned
// by the ingester.
type Store interface {
	PruneBefore(ctx context.Context, cutoffUTC string) (int64, error)
}

// Ingester filters fetched papers down to the ones not seen before.
type Ingester interface {
	Ingest(ctx context.Context, papers []fetcher.Paper, now time.Time) (*ingest.Result, error)
}

// Runner orchestrates one run: fetch -> dedupe -> compose -> publish -> prune.
type Runner struct {
	query      string
	maxResults int
	fetcher    fetcher.Fetcher
	ingester   Ingester
	store      Store
	composer   *report.Composer
	publishers []publisher.Publisher
}

func New(query string, maxResults int, f fetcher.Fetcher, ing Ingester, st Store, c *report.Composer, pubs []publisher.Publisher) *Runner {
	return &Runner{
		query:      query,
		maxResults: maxResults,
		fetcher:    f,
		ingester:   ing,
		store:      st,
		composer:   c,
		publishers: pubs,
	}
}

// Run executes the full pipeline once. Storage and feed errors abort the
// run; summarization failures only degrade the report text, and the store is
// pruned even when every publisher fails.
func (r *Runner) Run(ctx context.Context) error {
	now := time.Now().UTC()
	log.Printf("Run started. query=%q max_results=%d", r.query, r.maxResults)

	papers, err := r.fetcher.Fetch(ctx, r.query, r.maxResults)
	if err != nil {
		return fmt.Errorf("runner: fetch failed: %w", err)
	}
	log.Printf("Fetched %d papers", len(papers))

	res, err := r.ingester.Ingest(ctx, papers, now)
	if err != nil {
		return fmt.Errorf("runner: ingest failed: %w", err)
	}
	log.Printf("Ingested papers. window_start=%s scanned=%d in_window=%d new=%d",
		res.WindowStart.Format(time.RFC3339), res.Scanned, res.InWindow, res.Inserted)

	rep, err := r.composer.Compose(ctx, res.New, now)
	if err != nil {
		return fmt.Errorf("runner: compose failed: %w", err)
	}

	// Publish failures must not stop the pruning step below.
	var publishErrors []error
	for _, pub := range r.publishers {
		if err := pub.Publish(ctx, rep); err != nil {
			publishErrors = append(publishErrors, err)
			log.Printf("WARNING: publish via %T failed: %v", pub, err)
		}
	}

	deleted, err := r.store.PruneBefore(ctx, res.WindowStart.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("runner: prune failed: %w", err)
	}

	log.Printf("Run finished. scanned=%d in_window=%d new=%d pruned=%d",
		res.Scanned, res.InWindow, res.Inserted, deleted)

	if len(r.publishers) > 0 && len(publishErrors) == len(r.publishers) {
		return fmt.Errorf("runner: all publishers failed: %v", publishErrors)
	}
	return nil
}
