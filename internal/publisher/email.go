package publisher

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ryosukesatoh/arxiv-daily/internal/report"
)

// EmailPublisher sends the report as a plain-text email via SMTP.
type EmailPublisher struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
}

func NewEmailPublisher(host string, port int, username, password, from string, to []string) *EmailPublisher {
	return &EmailPublisher{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

func (p *EmailPublisher) Publish(_ context.Context, rep *report.Report) error {
	subject := fmt.Sprintf("Arxiv Daily Report - %s", rep.GeneratedAt.Format("2006-01-02"))

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		p.from,
		strings.Join(p.to, ","),
		subject,
		rep.Text,
	)

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.username, p.password, p.host)

	if err := smtp.SendMail(addr, auth, p.from, p.to, []byte(msg)); err != nil {
		return fmt.Errorf("email: failed to send: %w", err)
	}

	return nil
}
