package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/pkg/jobs"
	"github.com/noah-isme/fixlab-academy-api/pkg/mailer"
)

const notificationJobType = "notification.email"

// Notifier hands rendered notifications to the delivery pipeline.
type Notifier interface {
	Dispatch(ctx context.Context, notes ...models.Notification) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// NotificationService delivers notifications through a mail sender, optionally via a background queue.
type NotificationService struct {
	sender  mailer.Sender
	queue   jobQueue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService builds a synchronous notifier. Call UseQueue to deliver in the background.
func NewNotificationService(sender mailer.Sender, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{sender: sender, metrics: metrics, logger: logger}
}

// UseQueue routes future dispatches through the queue. The queue must run HandleJob.
func (s *NotificationService) UseQueue(q jobQueue) {
	s.queue = q
}

// Dispatch sends each notification. Notifications without a recipient are skipped.
// The first failure is returned after every notification has been attempted.
func (s *NotificationService) Dispatch(ctx context.Context, notes ...models.Notification) error {
	var firstErr error
	for _, note := range notes {
		if note.To == "" {
			s.logger.Warn("notification without recipient skipped", zap.String("template", string(note.Template)))
			s.metrics.RecordNotification(string(note.Template), "skipped")
			continue
		}
		var err error
		if s.queue != nil {
			err = s.enqueue(note)
		} else {
			err = s.deliver(ctx, note)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HandleJob is the queue handler delivering one queued notification.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	note, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	return s.deliver(ctx, note)
}

// DeadLetter records a notification the queue gave up on.
func (s *NotificationService) DeadLetter(job jobs.Job, err error) {
	template := "unknown"
	if note, ok := job.Payload.(models.Notification); ok {
		template = string(note.Template)
	}
	s.metrics.RecordNotification(template, "dropped")
	s.logger.Error("notification dropped", zap.String("job_id", job.ID), zap.String("template", template), zap.Error(err))
}

func (s *NotificationService) enqueue(note models.Notification) error {
	err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: notificationJobType, Payload: note})
	if err != nil {
		s.metrics.RecordNotification(string(note.Template), "dropped")
		s.logger.Error("notification enqueue failed", zap.String("template", string(note.Template)), zap.Error(err))
		return err
	}
	s.metrics.RecordNotification(string(note.Template), "queued")
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, note models.Notification) error {
	if s.sender == nil {
		return errors.New("notification sender not configured")
	}
	err := s.sender.Send(ctx, mailer.Message{To: note.To, Subject: note.Subject, HTML: note.HTML, Text: note.Text})
	if err != nil {
		s.metrics.RecordNotification(string(note.Template), "failed")
		s.logger.Warn("notification delivery failed",
			zap.String("template", string(note.Template)),
			zap.String("to", note.To),
			zap.Error(err),
		)
		return err
	}
	s.metrics.RecordNotification(string(note.Template), "sent")
	return nil
}
