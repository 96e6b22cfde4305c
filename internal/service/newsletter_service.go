package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/internal/repository"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/validation"
)

// Subscription outcomes.
const (
	SubscriptionCreated     = "subscribed"
	SubscriptionReactivated = "resubscribed"
	SubscriptionExists      = "exists"
)

type subscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Create(ctx context.Context, sub *models.Subscriber) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
}

// SubscribeRequest is the newsletter sign-up payload.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// SubscriptionResult describes what a subscribe or unsubscribe call did.
type SubscriptionResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// NewsletterService manages the mailing list.
type NewsletterService struct {
	repo      subscriberRepository
	notifier  Notifier
	templates NotificationTemplates
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewNewsletterService constructs the newsletter service.
func NewNewsletterService(repo subscriberRepository, notifier Notifier, templates NotificationTemplates, validate *validator.Validate, logger *zap.Logger) *NewsletterService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsletterService{repo: repo, notifier: notifier, templates: templates, validator: validate, logger: logger, now: time.Now}
}

// Subscribe adds or reactivates an address and sends a welcome email.
func (s *NewsletterService) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriptionResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.Active:
		return &SubscriptionResult{Status: SubscriptionExists, Message: "This email is already subscribed."}, nil
	case err == nil:
		if err := s.repo.SetActive(ctx, existing.ID, true, s.now().UTC()); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subscription")
		}
		s.welcome(ctx, req.Email)
		return &SubscriptionResult{Status: SubscriptionReactivated, Message: "Welcome back! You have been resubscribed."}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription")
	}

	if err := s.repo.Create(ctx, &models.Subscriber{Email: req.Email}); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubscriber) {
			return &SubscriptionResult{Status: SubscriptionExists, Message: "This email is already subscribed."}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subscription")
	}
	s.welcome(ctx, req.Email)
	return &SubscriptionResult{Status: SubscriptionCreated, Message: "Thank you for subscribing!"}, nil
}

// Unsubscribe deactivates an address and confirms by email.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) (*SubscriptionResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, appErrors.Validation("email is required", map[string]string{"email": "is required"})
	}
	sub, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrSubscriberNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription")
	}
	if !sub.Active {
		return &SubscriptionResult{Message: "You are already unsubscribed."}, nil
	}
	if err := s.repo.SetActive(ctx, sub.ID, false, s.now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subscription")
	}
	if s.notifier != nil {
		if err := s.notifier.Dispatch(ctx, s.templates.NewsletterGoodbye(email)); err != nil {
			s.logger.Warn("unsubscribe confirmation not sent", zap.String("email", email), zap.Error(err))
		}
	}
	return &SubscriptionResult{Message: "You have been unsubscribed successfully."}, nil
}

func (s *NewsletterService) welcome(ctx context.Context, email string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Dispatch(ctx, s.templates.NewsletterWelcome(email)); err != nil {
		s.logger.Warn("welcome email not sent", zap.String("email", email), zap.Error(err))
	}
}
