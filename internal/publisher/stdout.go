package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryosukesatoh/arxiv-daily/internal/report"
)

// StdoutPublisher prints the report to stdout.
type StdoutPublisher struct{}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (p *StdoutPublisher) Publish(_ context.Context, rep *report.Report) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("Generated: %s | New papers: %d\n", rep.GeneratedAt.Format("2006-01-02 15:04"), rep.NewPapers)
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println(rep.Text)
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	return nil
}
