package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/report"
	"github.com/ryosukesatoh/arxiv-daily/internal/retry"
)

// Discord rejects messages above 2000 characters.
const discordMessageLimit = 2000

type discordWebhookPayload struct {
	Content string `json:"content"`
}

// DiscordPublisher posts the report to a Discord channel via webhook,
// split into messages that respect Discord's length limit.
type DiscordPublisher struct {
	webhookURL  string
	client      *http.Client
	retryConfig retry.Config
}

// NewDiscordPublisher creates a new DiscordPublisher.
func NewDiscordPublisher(webhookURL string) *DiscordPublisher {
	return &DiscordPublisher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		retryConfig: retry.Config{
			MaxAttempts: 3,
			PerAttempt:  30 * time.Second,
		},
	}
}

// Publish sends the report text as a sequence of webhook messages.
func (d *DiscordPublisher) Publish(ctx context.Context, rep *report.Report) error {
	messages := splitMessages(rep.Text, discordMessageLimit)

	for i, msg := range messages {
		err := retry.Do(ctx, d.retryConfig, func(ctx context.Context) error {
			return d.sendWebhook(ctx, msg)
		})
		if err != nil {
			return fmt.Errorf("discord: failed to send message %d of %d: %w", i+1, len(messages), err)
		}

		// Delay between messages to avoid rate limits.
		if i < len(messages)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}
	}
	return nil
}

// splitMessages cuts text into chunks of at most limit characters,
// preferring line boundaries.
func splitMessages(text string, limit int) []string {
	var messages []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		// A single oversized line is cut hard.
		for len(line) > limit {
			messages = append(messages, flush(&current), line[:limit])
			line = line[limit:]
		}

		if current.Len() > 0 && current.Len()+1+len(line) > limit {
			messages = append(messages, flush(&current))
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		messages = append(messages, flush(&current))
	}

	// Drop blank chunks produced by consecutive separators.
	kept := messages[:0]
	for _, m := range messages {
		if strings.TrimSpace(m) != "" {
			kept = append(kept, m)
		}
	}
	return kept
}

func flush(b *strings.Builder) string {
	s := b.String()
	b.Reset()
	return s
}

// sendWebhook posts one message to the Discord webhook.
func (d *DiscordPublisher) sendWebhook(ctx context.Context, content string) error {
	body, err := json.Marshal(discordWebhookPayload{Content: content})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
