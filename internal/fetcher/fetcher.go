package fetcher

import (
	"context"
	"time"
)

// Paper represents one candidate record from the feed. ID is the canonical
// arXiv identifier with any trailing version suffix stripped, so the same
// logical paper keeps the same ID across re-fetches.
type Paper struct {
	ID        string
	Title     string
	Abstract  string
	URL       string
	Published time.Time
}

// Fetcher returns candidate papers sorted by descending submission time.
type Fetcher interface {
	Fetch(ctx context.Context, query string, maxResults int) ([]Paper, error)
}
