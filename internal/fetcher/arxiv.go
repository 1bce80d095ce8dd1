package fetcher

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// arXiv Atom feed XML structures

type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string      `xml:"id"`
	Title     string      `xml:"title"`
	Summary   string      `xml:"summary"`
	Links     []arxivLink `xml:"link"`
	Published string      `xml:"published"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
	Rel  string `xml:"rel,attr"`
}

// ArxivFetcher fetches papers from the arXiv API.
type ArxivFetcher struct {
	client  *http.Client
	baseURL string
}

func NewArxivFetcher() *ArxivFetcher {
	return &ArxivFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "http://export.arxiv.org/api/query",
	}
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// CanonicalID extracts the stable arXiv id from an Atom entry id such as
// "http://arxiv.org/abs/2502.12345v2": the last path segment with the
// version suffix removed.
func CanonicalID(entryID string) string {
	tail := entryID
	if idx := strings.LastIndex(entryID, "/"); idx >= 0 {
		tail = entryID[idx+1:]
	}
	return versionSuffix.ReplaceAllString(tail, "")
}

// Fetch queries the arXiv API, sorted by submission date descending.
func (f *ArxivFetcher) Fetch(ctx context.Context, searchQuery string, maxResults int) ([]Paper, error) {
	query := url.Values{}
	query.Set("search_query", searchQuery)
	query.Set("start", "0")
	query.Set("max_results", fmt.Sprintf("%d", maxResults))
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")

	reqURL := fmt.Sprintf("%s?%s", f.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: failed to read response: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("arxiv: failed to parse XML: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		entryID := strings.TrimSpace(entry.ID)

		var paperURL string
		for _, link := range entry.Links {
			if link.Rel == "alternate" || (link.Type == "text/html" && paperURL == "") {
				paperURL = link.Href
			}
		}
		if paperURL == "" {
			paperURL = entryID
		}

		papers = append(papers, Paper{
			ID:        CanonicalID(entryID),
			Title:     strings.TrimSpace(entry.Title),
			Abstract:  strings.TrimSpace(entry.Summary),
			URL:       paperURL,
			Published: parsePublished(entry.Published),
		})
	}

	return papers, nil
}

// parsePublished normalizes the entry timestamp to UTC. Timestamps without a
// zone are assumed UTC rather than local time.
func parsePublished(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
