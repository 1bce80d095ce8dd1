package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/config"
	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
	"github.com/ryosukesatoh/arxiv-daily/internal/ingest"
	"github.com/ryosukesatoh/arxiv-daily/internal/publisher"
	"github.com/ryosukesatoh/arxiv-daily/internal/report"
	"github.com/ryosukesatoh/arxiv-daily/internal/runner"
	"github.com/ryosukesatoh/arxiv-daily/internal/store"
)

type staticFetcher struct {
	papers []fetcher.Paper
}

func (f *staticFetcher) Fetch(_ context.Context, _ string, _ int) ([]fetcher.Paper, error) {
	return f.papers, nil
}

// Exercises the whole pipeline against a real SQLite store, without a
// summarizer credential: first run reports new papers with the summary
// skipped, second run deduplicates everything.
func TestPipelineWithoutAPIKey(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st := store.New(filepath.Join(dir, "arxiv.db"))
	if err := st.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}

	composer, err := report.NewComposer(nil, 10)
	if err != nil {
		t.Fatalf("Failed to create composer: %v", err)
	}

	now := time.Now().UTC()
	f := &staticFetcher{papers: []fetcher.Paper{
		{ID: "2508.00001", Title: "One", Abstract: "a", URL: "http://arxiv.org/abs/2508.00001v1", Published: now.Add(-time.Hour)},
		{ID: "2508.00002", Title: "Two", Abstract: "b", URL: "http://arxiv.org/abs/2508.00002v1", Published: now.Add(-2 * time.Hour)},
	}}

	reportsDir := filepath.Join(dir, "reports")
	if err := os.Mkdir(reportsDir, 0o755); err != nil {
		t.Fatalf("Failed to create reports dir: %v", err)
	}

	ing := ingest.New(st, 5*24*time.Hour)
	r := runner.New("all:test", 10, f, ing, st, composer,
		[]publisher.Publisher{publisher.NewFilePublisher(reportsDir)})

	if err := r.Run(ctx); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(reportsDir, "arxiv_daily_report_*.md"))
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected 1 report file, got %v (err=%v)", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "skipped the summary") {
		t.Errorf("Expected skipped-summary report, got:\n%s", data)
	}

	count, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 stored records after first run, got %d", count)
	}

	// Second run: everything was already seen. Collect the report in
	// memory to avoid colliding with the first run's filename.
	second := &memoryPublisher{}
	r = runner.New("all:test", 10, f, ing, st, composer, []publisher.Publisher{second})
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if second.last == nil || !strings.Contains(second.last.Text, "No new papers were found") {
		t.Errorf("Expected no-new-papers report on second run, got %+v", second.last)
	}
}

type memoryPublisher struct {
	last *report.Report
}

func (p *memoryPublisher) Publish(_ context.Context, rep *report.Report) error {
	p.last = rep
	return nil
}

func TestLoadConfigIntegration(t *testing.T) {
	content := `
query: "cat:quant-ph"
lookback_days: 2
publisher:
  type: stdout
summarizer:
  type: openai
  api_key: test_key
  max_attempts: 5
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Query != "cat:quant-ph" || cfg.LookbackDays != 2 {
		t.Errorf("Unexpected config values: %+v", cfg)
	}
	if cfg.Summarizer.MaxAttempts != 5 {
		t.Errorf("Expected max_attempts 5, got %d", cfg.Summarizer.MaxAttempts)
	}
	if cfg.Report.ChunkSize != 10 {
		t.Errorf("Expected default chunk_size, got %d", cfg.Report.ChunkSize)
	}
}
