package mail

import (
	"context"
	"fmt"

	"github.com/ryan-gang/screen-watcher/internal/config"
)

// MailSender defines the interface for sending emails
type MailSender interface {
	Send(ctx context.Context, msg Message) error
}

// Attachment is a file carried by a message.
type Attachment struct {
	Filename    string
	ContentType string
	Disposition string
	ContentID   string
	Content     []byte
}

// Message is composed fresh for every cycle and never stored.
type Message struct {
	From        string
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// NewMailSender returns the backend selected by cfg.MailProvider.
func NewMailSender(cfg *config.Config) (MailSender, error) {
	switch cfg.MailProvider {
	case config.ProviderSendGrid, "":
		return NewSendGridMailSender(cfg.SendGridAPIKey, cfg.SendGridHost), nil
	case config.ProviderSMTP:
		return NewSMTPMailSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
