package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/pkg/jobs"
	"github.com/noah-isme/fixlab-academy-api/pkg/mailer"
)

type stubSender struct {
	mu       sync.Mutex
	sent     []mailer.Message
	failures int
	err      error
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("provider rejected message")
	}
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestNotificationDispatchSynchronous(t *testing.T) {
	sender := &stubSender{}
	svc := NewNotificationService(sender, NewMetricsService(), nil)

	err := svc.Dispatch(context.Background(),
		models.Notification{Template: models.TemplateFirstRegistration, To: "a@x.com", Subject: "Welcome", HTML: "<b>hi</b>"},
		models.Notification{Template: models.TemplateFirstSupport, To: "", Subject: "skipped"},
		models.Notification{Template: models.TemplateFirstSupport, To: "support@x.com", Subject: "New student"},
	)
	require.NoError(t, err)
	require.Equal(t, 2, sender.count())
	assert.Equal(t, "a@x.com", sender.sent[0].To)
	assert.Equal(t, "<b>hi</b>", sender.sent[0].HTML)
	assert.Equal(t, "support@x.com", sender.sent[1].To)
}

func TestNotificationDispatchReportsFirstFailureAfterTryingAll(t *testing.T) {
	sender := &stubSender{failures: 1}
	svc := NewNotificationService(sender, nil, nil)

	err := svc.Dispatch(context.Background(),
		models.Notification{Template: models.TemplateFirstRegistration, To: "a@x.com"},
		models.Notification{Template: models.TemplateFirstSupport, To: "support@x.com"},
	)
	require.Error(t, err)
	assert.Equal(t, 1, sender.count())
	assert.Equal(t, "support@x.com", sender.sent[0].To)
}

func TestNotificationQueueRetriesUntilDelivered(t *testing.T) {
	sender := &stubSender{failures: 2}
	svc := NewNotificationService(sender, NewMetricsService(), nil)
	queue := jobs.NewQueue("notifications", svc.HandleJob, jobs.QueueConfig{
		Workers:      2,
		MaxRetries:   3,
		RetryDelay:   5 * time.Millisecond,
		OnDeadLetter: svc.DeadLetter,
	})
	queue.Start(context.Background())
	svc.UseQueue(queue)

	require.NoError(t, svc.Dispatch(context.Background(), models.Notification{Template: models.TemplatePendingReminder, To: "a@x.com"}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, queue.Shutdown(ctx))
	assert.Equal(t, 1, sender.count())
}

func TestNotificationQueueDeadLetters(t *testing.T) {
	sender := &stubSender{err: errors.New("permanent")}
	var mu sync.Mutex
	var dropped []string
	svc := NewNotificationService(sender, nil, nil)
	queue := jobs.NewQueue("notifications", svc.HandleJob, jobs.QueueConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		OnDeadLetter: func(job jobs.Job, err error) {
			svc.DeadLetter(job, err)
			mu.Lock()
			dropped = append(dropped, job.Payload.(models.Notification).To)
			mu.Unlock()
		},
	})
	queue.Start(context.Background())
	svc.UseQueue(queue)

	require.NoError(t, svc.Dispatch(context.Background(), models.Notification{Template: models.TemplateNewPost, To: "reader@x.com"}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, queue.Shutdown(ctx))
	assert.Equal(t, []string{"reader@x.com"}, dropped)
	assert.Zero(t, sender.count())
}

func TestNotificationEnqueueOnStoppedQueueFails(t *testing.T) {
	svc := NewNotificationService(&stubSender{}, nil, nil)
	svc.UseQueue(jobs.NewQueue("notifications", svc.HandleJob, jobs.QueueConfig{}))

	err := svc.Dispatch(context.Background(), models.Notification{Template: models.TemplateNewPost, To: "reader@x.com"})
	require.Error(t, err)
}

func TestHandleJobRejectsUnknownPayload(t *testing.T) {
	svc := NewNotificationService(&stubSender{}, nil, nil)
	err := svc.HandleJob(context.Background(), jobs.Job{ID: "1", Payload: "nope"})
	require.Error(t, err)
}

func TestNotificationTemplates(t *testing.T) {
	tpl := NotificationTemplates{Brand: "Fixlab Academy", SiteURL: "https://fixlab.test", Support: "support@fixlab.test", APIBase: "https://api.fixlab.test/api/v1"}
	mode := models.LearningOnsite
	msg := "<script>alert(1)</script>"
	detail := models.RegistrationDetail{
		Registration: models.Registration{FullName: "Ada Obi", Email: "a@x.com", Phone: "080", PaymentReference: "REF1", ModeOfLearning: &mode, Message: &msg},
		CourseName:   "Data Analysis",
	}

	first := tpl.Completion(RegistrationMail{Detail: detail, ReceiptURL: "https://api.fixlab.test/r?token=1"}, false)
	require.Len(t, first, 2)
	assert.Equal(t, models.TemplateFirstRegistration, first[0].Template)
	assert.Equal(t, "a@x.com", first[0].To)
	assert.Contains(t, first[0].Subject, "Data Analysis")
	assert.Contains(t, first[0].HTML, "REF1")
	assert.Contains(t, first[0].HTML, "payment receipt")
	assert.Equal(t, "support@fixlab.test", first[1].To)
	assert.NotContains(t, first[1].HTML, "<script>")
	assert.Contains(t, first[1].HTML, "&lt;script&gt;")

	additional := tpl.Completion(RegistrationMail{Detail: detail}, true)
	assert.Equal(t, models.TemplateAdditionalCourse, additional[0].Template)
	assert.Equal(t, models.TemplateAdditionalSupport, additional[1].Template)
	assert.NotContains(t, additional[0].HTML, "payment receipt")

	reminder := tpl.Reminder(detail)
	assert.Equal(t, models.TemplatePendingReminder, reminder.Template)
	assert.Contains(t, reminder.HTML, "Data Analysis")
	assert.Contains(t, reminder.HTML, "REF1")

	welcome := tpl.NewsletterWelcome("reader@x.com")
	assert.Contains(t, welcome.HTML, "https://api.fixlab.test/api/v1/blog/unsubscribe/reader@x.com")

	post := tpl.NewPost("reader@x.com", models.Post{Title: "Intro to SQL", Slug: "intro-to-sql-1700000000", Excerpt: "Joins"})
	assert.True(t, strings.HasPrefix(post.Subject, "New Blog Post Published"))
	assert.Contains(t, post.HTML, "https://fixlab.test/blog/intro-to-sql-1700000000")
}

func TestCompletionTemplatesShowPaymentOption(t *testing.T) {
	tpl := NotificationTemplates{Brand: "Fixlab Academy", Support: "support@fixlab.test"}
	detail := models.RegistrationDetail{
		Registration: models.Registration{FullName: "Ada Obi", Email: "a@x.com", PaymentReference: "REF1", PaymentOption: models.PaymentInstallment},
		CourseName:   "Data Analysis",
	}

	for _, additional := range []bool{false, true} {
		notes := tpl.Completion(RegistrationMail{Detail: detail}, additional)
		require.Len(t, notes, 2)
		assert.Contains(t, notes[0].HTML, "Payment option", "student mail, additional=%v", additional)
		assert.Contains(t, notes[0].HTML, "Installment")
		assert.Contains(t, notes[1].HTML, "- Payment option: Installment<br>", "support mail, additional=%v", additional)
	}

	detail.PaymentOption = ""
	notes := tpl.Completion(RegistrationMail{Detail: detail}, false)
	assert.Contains(t, notes[1].HTML, "- Payment option: Full<br>")
}
