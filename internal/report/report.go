// Package report turns the newly ingested papers into the final markdown
// report, one summarized section per fixed-size batch.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
)

// Heading is the top-level heading of every report.
const Heading = "# Arxiv Daily Report"

const (
	noNewPapersBody    = "No new papers were found in this run."
	skippedSummaryBody = "Found new papers, but skipped the summary because summarizer.api_key is not set."
)

// Report is the final text document produced by one run.
type Report struct {
	Text        string
	GeneratedAt time.Time
	NewPapers   int
}

// BatchSummarizer produces the report section for one batch of papers. It
// never fails: a batch whose summarization is exhausted yields a placeholder
// section instead.
type BatchSummarizer interface {
	Summarize(ctx context.Context, papers []fetcher.Paper, runTime time.Time) string
}

// Chunk splits papers into contiguous order-preserving groups of size; the
// last group may be smaller. Empty input yields zero groups. A non-positive
// size is a configuration error.
func Chunk(papers []fetcher.Paper, size int) ([][]fetcher.Paper, error) {
	if size <= 0 {
		return nil, fmt.Errorf("report: chunk size must be positive, got %d", size)
	}

	var chunks [][]fetcher.Paper
	for start := 0; start < len(papers); start += size {
		end := min(start+size, len(papers))
		chunks = append(chunks, papers[start:end])
	}
	return chunks, nil
}

// Composer assembles batch sections into one report. A nil summarizer marks
// the missing-credential case: the report says the summary was skipped and
// no summarization call is ever made.
type Composer struct {
	summarizer BatchSummarizer
	chunkSize  int
}

func NewComposer(s BatchSummarizer, chunkSize int) (*Composer, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("report: chunk size must be positive, got %d", chunkSize)
	}
	return &Composer{summarizer: s, chunkSize: chunkSize}, nil
}

// Compose builds the report for the given new papers. Batches are
// summarized strictly in order, one at a time.
func (c *Composer) Compose(ctx context.Context, papers []fetcher.Paper, runTime time.Time) (*Report, error) {
	rep := &Report{GeneratedAt: runTime.UTC(), NewPapers: len(papers)}

	if len(papers) == 0 {
		rep.Text = Heading + "\n\n" + noNewPapersBody
		return rep, nil
	}
	if c.summarizer == nil {
		rep.Text = Heading + "\n\n" + skippedSummaryBody
		return rep, nil
	}

	chunks, err := Chunk(papers, c.chunkSize)
	if err != nil {
		return nil, err
	}

	sections := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		section := c.summarizer.Summarize(ctx, chunk, runTime)
		sections = append(sections, fmt.Sprintf("## Batch %d\n\n%s", i+1, section))
	}

	rep.Text = Heading + "\n\n" + strings.Join(sections, "\n\n")
	return rep, nil
}
