package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
)

type fakeStore struct {
	existing map[string]bool
	inserts  []string
	err      error
}

func newFakeStore(existing ...string) *fakeStore {
	f := &fakeStore{existing: make(map[string]bool)}
	for _, id := range existing {
		f.existing[id] = true
	}
	return f
}

func (f *fakeStore) InsertIfNew(_ context.Context, id, _, _, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.existing[id] {
		return false, nil
	}
	f.existing[id] = true
	f.inserts = append(f.inserts, id)
	return true, nil
}

func paperAt(id string, published time.Time) fetcher.Paper {
	return fetcher.Paper{
		ID:        id,
		Title:     "Title " + id,
		Abstract:  "Abstract " + id,
		URL:       "http://arxiv.org/abs/" + id,
		Published: published,
	}
}

func TestIngestWindowBoundary(t *testing.T) {
	now := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)
	lookback := 5 * 24 * time.Hour
	windowStart := now.Add(-lookback)

	papers := []fetcher.Paper{
		paperAt("2508.00001", now.Add(-time.Hour)),
		paperAt("2508.00002", windowStart), // exactly at the boundary: still in window
		paperAt("2508.00003", windowStart.Add(-time.Second)),
		paperAt("2508.00004", now), // never reached: scan stops at the boundary
	}

	st := newFakeStore()
	in := New(st, lookback)

	res, err := in.Ingest(context.Background(), papers, now)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if !res.WindowStart.Equal(windowStart) {
		t.Errorf("Expected window start %v, got %v", windowStart, res.WindowStart)
	}
	if res.Scanned != 3 {
		t.Errorf("Expected 3 scanned, got %d", res.Scanned)
	}
	if res.InWindow != 2 {
		t.Errorf("Expected 2 in window, got %d", res.InWindow)
	}
	if res.Inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", res.Inserted)
	}

	if len(res.New) != 2 || res.New[0].ID != "2508.00001" || res.New[1].ID != "2508.00002" {
		t.Errorf("Unexpected new papers: %v", res.New)
	}
	for _, p := range res.New {
		if p.ID == "2508.00003" {
			t.Error("Paper older than the window must not be emitted")
		}
		if p.ID == "2508.00004" {
			t.Error("Papers after the boundary hit must not be scanned")
		}
	}
}

func TestIngestSkipsAlreadySeen(t *testing.T) {
	now := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)

	st := newFakeStore("2508.00001")
	in := New(st, 5*24*time.Hour)

	papers := []fetcher.Paper{
		paperAt("2508.00001", now.Add(-time.Hour)),
		paperAt("2508.00002", now.Add(-2*time.Hour)),
	}

	res, err := in.Ingest(context.Background(), papers, now)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if res.Scanned != 2 || res.InWindow != 2 {
		t.Errorf("Expected 2 scanned and 2 in window, got %d/%d", res.Scanned, res.InWindow)
	}
	if res.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", res.Inserted)
	}
	if len(res.New) != 1 || res.New[0].ID != "2508.00002" {
		t.Errorf("Expected only the unseen paper to be emitted, got %v", res.New)
	}
}

func TestIngestEmptyFeed(t *testing.T) {
	now := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)
	in := New(newFakeStore(), 5*24*time.Hour)

	res, err := in.Ingest(context.Background(), nil, now)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if res.Scanned != 0 || res.InWindow != 0 || res.Inserted != 0 || len(res.New) != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
}

func TestIngestStoreErrorAborts(t *testing.T) {
	now := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)

	st := newFakeStore()
	st.err = errors.New("disk full")
	in := New(st, 5*24*time.Hour)

	_, err := in.Ingest(context.Background(), []fetcher.Paper{paperAt("2508.00001", now)}, now)
	if err == nil {
		t.Fatal("Expected store error to abort the pass")
	}
	if !errors.Is(err, st.err) {
		t.Errorf("Expected wrapped store error, got: %v", err)
	}
}

func TestIngestNormalizesPublishedToUTC(t *testing.T) {
	now := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)
	lookback := 5 * 24 * time.Hour
	windowStart := now.Add(-lookback)

	// Same instant as the window start, expressed in another zone.
	est := time.FixedZone("EST", -5*3600)
	papers := []fetcher.Paper{paperAt("2508.00001", windowStart.In(est))}

	in := New(newFakeStore(), lookback)
	res, err := in.Ingest(context.Background(), papers, now)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if res.Inserted != 1 {
		t.Errorf("Expected boundary paper in a non-UTC zone to be ingested, got %d inserts", res.Inserted)
	}
}
