package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// SendGridMailSender posts messages to the SendGrid v3 mail send API.
type SendGridMailSender struct {
	apiKey string
	host   string
}

// NewSendGridMailSender creates a sender. An empty host means the public API.
func NewSendGridMailSender(apiKey, host string) *SendGridMailSender {
	return &SendGridMailSender{apiKey: apiKey, host: strings.TrimRight(host, "/")}
}

func (s *SendGridMailSender) Send(ctx context.Context, msg Message) error {
	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(buildV3Mail(msg))

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return &APIError{StatusCode: response.StatusCode, Body: response.Body}
	}
	return nil
}

func buildV3Mail(msg Message) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail("", msg.From))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", msg.To))
	m.AddPersonalizations(p)

	m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))

	for _, a := range msg.Attachments {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition(a.Disposition)
		if a.ContentID != "" {
			att.SetContentID(a.ContentID)
		}
		m.AddAttachment(att)
	}
	return m
}

// APIError is returned when SendGrid answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sendgrid returned HTTP %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}
