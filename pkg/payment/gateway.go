package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrWebhookSignature is returned when a webhook body fails signature checks.
var ErrWebhookSignature = errors.New("payment: invalid webhook signature")

// Gateway is a payment provider able to start and confirm a transaction.
type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req InitializeRequest) (*Initialization, error)
	Verify(ctx context.Context, reference string) (*Verification, error)
}

// WebhookParser authenticates and decodes provider callbacks.
type WebhookParser interface {
	ParseWebhook(header http.Header, body []byte) (*WebhookEvent, error)
}

// InitializeRequest describes the charge to open.
type InitializeRequest struct {
	Email       string
	AmountMinor int64
	CallbackURL string
	Description string
	Metadata    map[string]string
}

// Initialization is the provider's answer to a new transaction.
type Initialization struct {
	Reference   string
	RedirectURL string
}

// Verification is the provider's view of a transaction. Succeeded is false for any
// well-formed response that does not report success.
type Verification struct {
	Reference       string
	Succeeded       bool
	AmountPaidMinor int64
	RawStatus       string
}

// WebhookEvent is an authenticated provider callback. Relevant is false for events
// that do not settle a transaction.
type WebhookEvent struct {
	Event     string
	Reference string
	Relevant  bool
}

// Error is a transport failure or an unexpected response shape from a provider.
type Error struct {
	Provider   string
	Op         string
	StatusCode int
	Payload    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Provider, e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
