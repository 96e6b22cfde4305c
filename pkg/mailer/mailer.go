package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers one message and reports whether the provider accepted it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Address is the envelope sender.
type Address struct {
	Email string
	Name  string
}

// New builds the Sender selected by cfg.Provider.
func New(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	from := Address{Email: cfg.FromAddress, Name: cfg.FromName}
	switch cfg.Provider {
	case config.MailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("mail provider sendgrid requires SENDGRID_API_KEY")
		}
		return NewSendGrid(cfg.SendGridAPIKey, cfg.SendGridHost, from, cfg.Timeout), nil
	case config.MailProviderSMTP:
		return NewSMTP(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		}, from), nil
	case config.MailProviderLog, "":
		return NewLog(logger), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}
