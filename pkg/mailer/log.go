package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Log writes messages to the logger instead of delivering them. Used in development.
type Log struct {
	logger *zap.Logger
}

// NewLog constructs a logging sender.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Send implements Sender.
func (l *Log) Send(_ context.Context, msg Message) error {
	l.logger.Info("email suppressed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Int("html_bytes", len(msg.HTML)))
	return nil
}
