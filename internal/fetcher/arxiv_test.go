package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2502.12345v2</id>
    <title> Vortex Dynamics in a Superconductor </title>
    <summary>
      We study vortex dynamics.
    </summary>
    <published>2025-02-18T12:00:00Z</published>
    <link href="http://arxiv.org/abs/2502.12345v2" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/2502.12345v2" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/cond-mat/0501001v1</id>
    <title>An Older Style Identifier</title>
    <summary>Legacy id format.</summary>
    <published>2025-02-17T09:30:00</published>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"search_query": q.Get("search_query"),
			"max_results":  q.Get("max_results"),
			"sortBy":       q.Get("sortBy"),
			"sortOrder":    q.Get("sortOrder"),
		}
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	f := NewArxivFetcher()
	f.baseURL = srv.URL

	papers, err := f.Fetch(context.Background(), "(cat:cond-mat.supr-con)", 200)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotQuery["search_query"] != "(cat:cond-mat.supr-con)" {
		t.Errorf("Unexpected search_query: %q", gotQuery["search_query"])
	}
	if gotQuery["max_results"] != "200" {
		t.Errorf("Unexpected max_results: %q", gotQuery["max_results"])
	}
	if gotQuery["sortBy"] != "submittedDate" || gotQuery["sortOrder"] != "descending" {
		t.Errorf("Expected descending submittedDate sort, got %v", gotQuery)
	}

	if len(papers) != 2 {
		t.Fatalf("Expected 2 papers, got %d", len(papers))
	}

	p := papers[0]
	if p.ID != "2502.12345" {
		t.Errorf("Expected version suffix stripped from id, got %q", p.ID)
	}
	if p.Title != "Vortex Dynamics in a Superconductor" {
		t.Errorf("Expected trimmed title, got %q", p.Title)
	}
	if p.Abstract != "We study vortex dynamics." {
		t.Errorf("Expected trimmed abstract, got %q", p.Abstract)
	}
	if p.URL != "http://arxiv.org/abs/2502.12345v2" {
		t.Errorf("Expected alternate link as URL, got %q", p.URL)
	}
	want := time.Date(2025, 2, 18, 12, 0, 0, 0, time.UTC)
	if !p.Published.Equal(want) {
		t.Errorf("Expected published %v, got %v", want, p.Published)
	}

	// Second entry: legacy id, no links, naive timestamp assumed UTC.
	p = papers[1]
	if p.ID != "0501001" {
		t.Errorf("Expected legacy id with version stripped, got %q", p.ID)
	}
	if p.URL != "http://arxiv.org/abs/cond-mat/0501001v1" {
		t.Errorf("Expected entry id fallback URL, got %q", p.URL)
	}
	want = time.Date(2025, 2, 17, 9, 30, 0, 0, time.UTC)
	if !p.Published.Equal(want) {
		t.Errorf("Expected naive timestamp parsed as UTC %v, got %v", want, p.Published)
	}
}

func TestArxivFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewArxivFetcher()
	f.baseURL = srv.URL

	if _, err := f.Fetch(context.Background(), "all:test", 10); err == nil {
		t.Fatal("Expected error for non-200 status")
	}
}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		entryID string
		want    string
	}{
		{"http://arxiv.org/abs/2502.12345v2", "2502.12345"},
		{"http://arxiv.org/abs/2502.12345v11", "2502.12345"},
		{"http://arxiv.org/abs/2502.12345", "2502.12345"},
		{"http://arxiv.org/abs/cond-mat/0501001v1", "0501001"},
		{"2502.12345v3", "2502.12345"},
	}
	for _, tt := range tests {
		if got := CanonicalID(tt.entryID); got != tt.want {
			t.Errorf("CanonicalID(%q) = %q, expected %q", tt.entryID, got, tt.want)
		}
	}
}
