package events

import (
	"context"
	"time"
)

// Registration lifecycle event types. They double as AMQP routing keys.
const (
	RegistrationInitiated = "registration.initiated"
	RegistrationCompleted = "registration.completed"
	RegistrationFailed    = "registration.failed"
)

// Event is a registration lifecycle notification for downstream consumers.
type Event struct {
	Type       string    `json:"type"`
	Reference  string    `json:"reference"`
	Email      string    `json:"email"`
	Course     string    `json:"course"`
	Status     string    `json:"status"`
	Gateway    string    `json:"gateway"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
