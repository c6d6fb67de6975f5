package mail

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ryan-gang/screen-watcher/internal/config"

	gomail "gopkg.in/mail.v2"
)

const smtpTimeout = 60 * time.Second

// SMTPMailSender implements MailSender using SMTP
type SMTPMailSender struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPMailSender creates a new SMTP mail sender
func NewSMTPMailSender(cfg *config.Config) *SMTPMailSender {
	return &SMTPMailSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
	}
}

// Send dials the server and delivers msg. gomail has no context support, so
// ctx is only checked before dialing.
func (s *SMTPMailSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	dialer.Timeout = smtpTimeout
	if err := dialer.DialAndSend(compose(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	for _, a := range msg.Attachments {
		content := a.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		}
		if a.Disposition == DispositionInline {
			if a.ContentID != "" {
				settings = append(settings, gomail.SetHeader(map[string][]string{
					"Content-ID": {"<" + a.ContentID + ">"},
				}))
			}
			m.Embed(a.Filename, settings...)
		} else {
			m.Attach(a.Filename, settings...)
		}
	}
	return m
}
