package publisher

import (
	"context"

	"github.com/ryosukesatoh/arxiv-daily/internal/report"
)

// Publisher delivers a finished report to some output destination.
type Publisher interface {
	Publish(ctx context.Context, rep *report.Report) error
}
