package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	apiKey string
	host   string
	from   Address
	client *rest.Client
}

// NewSendGrid constructs a SendGrid sender.
func NewSendGrid(apiKey, host string, from Address, timeout time.Duration) *SendGrid {
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SendGrid{
		apiKey: apiKey,
		host:   host,
		from:   from,
		client: &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

// Send implements Sender.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Email),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)

	req := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(email)

	resp, err := s.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", msg.To, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", msg.To, resp.StatusCode, resp.Body)
	}
	return nil
}
