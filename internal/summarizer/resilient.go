package summarizer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
	"github.com/ryosukesatoh/arxiv-daily/internal/retry"
)

// Resilient wraps a Client with bounded sequential retry and degrades to a
// marked placeholder instead of failing. One batch exhausting its attempts
// must not abort the run or the other batches.
type Resilient struct {
	client Client
	cfg    retry.Config
}

func NewResilient(client Client, cfg retry.Config) *Resilient {
	return &Resilient{client: client, cfg: cfg}
}

// Summarize produces the text section for one batch. On success the trimmed
// completion is returned verbatim; once every attempt has failed, the result
// is a placeholder embedding the last error.
func (r *Resilient) Summarize(ctx context.Context, papers []fetcher.Paper, runTime time.Time) string {
	prompt := BuildBatchPrompt(papers, runTime)

	log.Printf("Summarization request papers=%d max_attempts=%d timeout=%s",
		len(papers), r.cfg.MaxAttempts, r.cfg.PerAttempt)

	text, err := retry.Text(ctx, r.cfg, func(ctx context.Context) (string, error) {
		return r.client.Complete(ctx, SystemPrompt, prompt)
	})
	if err != nil {
		return fmt.Sprintf("[Report generation failed after retries: %v]", err)
	}
	return text
}
