package publisher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ryosukesatoh/arxiv-daily/internal/report"
)

// FilePublisher writes each report to a timestamped markdown file.
type FilePublisher struct {
	dir string
}

func NewFilePublisher(dir string) *FilePublisher {
	return &FilePublisher{dir: dir}
}

// Filename returns the report file name for a report generated at the given
// run time, e.g. "arxiv_daily_report_20250825_080000.md".
func Filename(rep *report.Report) string {
	return fmt.Sprintf("arxiv_daily_report_%s.md", rep.GeneratedAt.Format("20060102_150405"))
}

func (p *FilePublisher) Publish(_ context.Context, rep *report.Report) error {
	path := filepath.Join(p.dir, Filename(rep))
	if err := os.WriteFile(path, []byte(rep.Text), 0o644); err != nil {
		return fmt.Errorf("file: failed to write %s: %w", path, err)
	}
	log.Printf("Report saved to %s", path)
	return nil
}
