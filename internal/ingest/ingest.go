// Package ingest scans the fetched feed against the record store and keeps
// only papers that have not been seen in a previous run.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
)

// Store is the subset of the record store the ingester needs.
type Store interface {
	InsertIfNew(ctx context.Context, id, title, abstract, publishedUTC string) (bool, error)
}

// Result describes one ingestion pass.
type Result struct {
	// New holds the newly inserted papers in scan order (most recent first).
	New []fetcher.Paper
	// WindowStart is the inclusive lower bound of the ingestion window.
	WindowStart time.Time
	Scanned     int
	InWindow    int
	Inserted    int
}

// Ingester walks a feed sorted by descending publish time and stops at the
// first paper older than the window. The sort order is a precondition: on an
// out-of-order feed, older-than-window papers interleaved with in-window ones
// are skipped along with everything after the first boundary hit.
type Ingester struct {
	store    Store
	lookback time.Duration
}

func New(store Store, lookback time.Duration) *Ingester {
	return &Ingester{store: store, lookback: lookback}
}

// WindowStart computes the inclusive window boundary for a run at now.
func (in *Ingester) WindowStart(now time.Time) time.Time {
	return now.UTC().Add(-in.lookback)
}

// Ingest scans papers in feed order, inserting each in-window paper into the
// store and emitting only those newly inserted. A paper published exactly at
// the window start is still in the window. Store errors abort the pass.
func (in *Ingester) Ingest(ctx context.Context, papers []fetcher.Paper, now time.Time) (*Result, error) {
	res := &Result{WindowStart: in.WindowStart(now)}

	for _, p := range papers {
		res.Scanned++

		published := p.Published.UTC()
		if published.Before(res.WindowStart) {
			break
		}
		res.InWindow++

		inserted, err := in.store.InsertIfNew(ctx, p.ID, p.Title, p.Abstract, published.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("ingest: failed to insert %s: %w", p.ID, err)
		}
		if inserted {
			res.Inserted++
			res.New = append(res.New, p)
		}
	}

	return res, nil
}
