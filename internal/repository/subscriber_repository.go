package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/pkg/database"
)

// SubscriberRepository manages the newsletter mailing list.
type SubscriberRepository struct {
	db *sqlx.DB
}

// NewSubscriberRepository constructs a SubscriberRepository.
func NewSubscriberRepository(db *sqlx.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// FindByEmail fetches a subscriber.
func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	const query = `SELECT id, email, active, subscribed_at, unsubscribed_at FROM subscribers WHERE email = $1`
	var sub models.Subscriber
	if err := r.db.GetContext(ctx, &sub, query, email); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create adds an active subscriber.
func (r *SubscriberRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.Active = true
	sub.SubscribedAt = time.Now().UTC()
	const query = `INSERT INTO subscribers (id, email, active, subscribed_at) VALUES (:id, :email, :active, :subscribed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrDuplicateSubscriber
		}
		return fmt.Errorf("create subscriber: %w", err)
	}
	return nil
}

// SetActive toggles a subscription and stamps the relevant timestamp.
func (r *SubscriberRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	query := `UPDATE subscribers SET active = TRUE, subscribed_at = $2, unsubscribed_at = NULL WHERE id = $1`
	if !active {
		query = `UPDATE subscribers SET active = FALSE, unsubscribed_at = $2 WHERE id = $1`
	}
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	return nil
}

// ListActiveEmails returns the addresses of every active subscriber.
func (r *SubscriberRepository) ListActiveEmails(ctx context.Context) ([]string, error) {
	var emails []string
	if err := r.db.SelectContext(ctx, &emails, `SELECT email FROM subscribers WHERE active = TRUE ORDER BY subscribed_at ASC`); err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	return emails, nil
}
