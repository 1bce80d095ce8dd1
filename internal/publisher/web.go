package publisher

import (
	"context"
	"fmt"
	"html"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/ryosukesatoh/arxiv-daily/internal/report"
)

// WebPublisher serves the latest report as an HTML page over HTTP.
type WebPublisher struct {
	addr   string
	server *http.Server
	mu     sync.RWMutex
	latest *report.Report
}

func NewWebPublisher(addr string) *WebPublisher {
	wp := &WebPublisher{addr: addr}
	mux := http.NewServeMux()
	mux.HandleFunc("/", wp.handleIndex)
	wp.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return wp
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (wp *WebPublisher) Start() error {
	ln, err := net.Listen("tcp", wp.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", wp.addr, err)
	}
	go func() {
		log.Printf("Web publisher listening on %s", wp.addr)
		if err := wp.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Web publisher error: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (wp *WebPublisher) Shutdown(ctx context.Context) error {
	return wp.server.Shutdown(ctx)
}

func (wp *WebPublisher) Publish(_ context.Context, rep *report.Report) error {
	wp.mu.Lock()
	wp.latest = rep
	wp.mu.Unlock()
	log.Printf("Web publisher updated with report generated at %s", rep.GeneratedAt.Format("2006-01-02 15:04"))
	return nil
}

func (wp *WebPublisher) handleIndex(w http.ResponseWriter, r *http.Request) {
	wp.mu.RLock()
	rep := wp.latest
	wp.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if rep == nil {
		fmt.Fprint(w, `<!DOCTYPE html><html><body><h1>Arxiv Daily Report</h1><p>No report available yet. Check back later.</p></body></html>`)
		return
	}

	fmt.Fprintf(w,
		`<!DOCTYPE html><html><head><style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; color: #333; }
pre { white-space: pre-wrap; background: #f0f0f0; padding: 15px; border-radius: 8px; }
</style></head><body><p><em>Generated %s | %d new papers</em></p><pre>%s</pre></body></html>`,
		rep.GeneratedAt.Format("January 2, 2006 15:04 MST"),
		rep.NewPapers,
		html.EscapeString(rep.Text),
	)
}
