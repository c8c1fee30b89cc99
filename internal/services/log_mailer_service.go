package services

import (
	"context"
	"log"
)

// LogMailer writes outgoing mail to the log instead of sending it; the
// dev-mode stand-in when no mail API key is configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, html string) error {
	log.Printf("mail (not sent): to=%s subject=%q", to, subject)
	return nil
}
