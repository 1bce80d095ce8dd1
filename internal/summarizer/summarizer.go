package summarizer

import (
	"context"
	"fmt"

	"github.com/ryosukesatoh/arxiv-daily/internal/config"
)

// Client sends one completion request to an external text-generation
// service. A single call may fail or come back empty; retry policy lives in
// Resilient, not here.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// NewClient creates a client for the configured summarization backend.
func NewClient(cfg *config.Config) (Client, error) {
	switch cfg.Summarizer.Type {
	case "openai":
		return NewOpenAIClient(cfg.Summarizer.APIKey, cfg.Summarizer.Model, cfg.Summarizer.MaxTokens), nil
	case "anthropic":
		return NewAnthropicClient(cfg.Summarizer.APIKey, cfg.Summarizer.Model, cfg.Summarizer.MaxTokens), nil
	default:
		return nil, ErrUnsupportedSummarizerType
	}
}

// ErrUnsupportedSummarizerType is returned when an unsupported summarizer type is specified
var ErrUnsupportedSummarizerType = fmt.Errorf("unsupported summarizer type")
