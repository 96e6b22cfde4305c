package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/pkg/database"
)

const registrationDetailSelect = `SELECT r.id, r.full_name, r.gender, r.email, r.phone, r.address, r.occupation, r.mode_of_learning, r.payment_option,
        r.course_id, r.payment_status, r.payment_reference, r.gateway, r.amount_due, r.amount_paid, r.message, r.verified_at, r.created_at,
        c.name AS course_name, c.code AS course_code, c.fee_amount AS course_fee
        FROM registrations r JOIN courses c ON c.id = r.course_id`

// RegistrationRepository persists registrations. payment_reference carries a unique index
// and status changes only ever move a row out of pending.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a pending registration. A reference collision yields ErrDuplicateReference.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	reg.PaymentStatus = models.PaymentPending
	if reg.PaymentOption == "" {
		reg.PaymentOption = models.PaymentFull
	}
	const query = `INSERT INTO registrations (id, full_name, gender, email, phone, address, occupation, mode_of_learning, payment_option,
        course_id, payment_status, payment_reference, gateway, amount_due, amount_paid, message, verified_at, created_at)
        VALUES (:id, :full_name, :gender, :email, :phone, :address, :occupation, :mode_of_learning, :payment_option,
        :course_id, :payment_status, :payment_reference, :gateway, :amount_due, :amount_paid, :message, :verified_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reg); err != nil {
		if database.IsUniqueViolation(err, "registrations_payment_reference_key") {
			return ErrDuplicateReference
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// FindByReference fetches a registration with its course by payment reference.
func (r *RegistrationRepository) FindByReference(ctx context.Context, reference string) (*models.RegistrationDetail, error) {
	query := registrationDetailSelect + " WHERE r.payment_reference = $1"
	var detail models.RegistrationDetail
	if err := r.db.GetContext(ctx, &detail, query, reference); err != nil {
		return nil, err
	}
	return &detail, nil
}

// LatestByEmail returns the most recently created registration for email.
func (r *RegistrationRepository) LatestByEmail(ctx context.Context, email string) (*models.RegistrationDetail, error) {
	query := registrationDetailSelect + " WHERE r.email = $1 ORDER BY r.created_at DESC LIMIT 1"
	var detail models.RegistrationDetail
	if err := r.db.GetContext(ctx, &detail, query, email); err != nil {
		return nil, err
	}
	return &detail, nil
}

// TransitionFromPending moves a pending row to a terminal status. It reports false when the row
// had already left pending, so concurrent verifications settle on exactly one outcome.
func (r *RegistrationRepository) TransitionFromPending(ctx context.Context, id string, status models.PaymentStatus, amountPaid decimal.NullDecimal, verifiedAt time.Time) (bool, error) {
	if !status.Terminal() {
		return false, fmt.Errorf("transition registration %s: %s is not terminal", id, status)
	}
	const query = `UPDATE registrations SET payment_status = $2, amount_paid = $3, verified_at = $4
        WHERE id = $1 AND payment_status = $5`
	res, err := r.db.ExecContext(ctx, query, id, status, amountPaid, verifiedAt, models.PaymentPending)
	if err != nil {
		return false, fmt.Errorf("transition registration %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition registration %s rows: %w", id, err)
	}
	return affected == 1, nil
}

// HasEarlierCompleted reports whether email holds a completed registration verified before the
// registration id (verified at verifiedAt). Ties on verified_at are broken by id, so of two rows
// completing together exactly one sees no earlier completion.
func (r *RegistrationRepository) HasEarlierCompleted(ctx context.Context, email, id string, verifiedAt time.Time) (bool, error) {
	const query = `SELECT 1 FROM registrations WHERE email = $1 AND payment_status = $2 AND id <> $3
        AND (verified_at < $4 OR (verified_at = $4 AND id < $3)) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email, models.PaymentCompleted, id, verifiedAt); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check completed registrations: %w", err)
	}
	return true, nil
}

// ListStalePending returns pending registrations created before cutoff, oldest first.
func (r *RegistrationRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.RegistrationDetail, error) {
	query := registrationDetailSelect + " WHERE r.payment_status = $1 AND r.created_at < $2 ORDER BY r.created_at ASC"
	var rows []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &rows, query, models.PaymentPending, cutoff); err != nil {
		return nil, fmt.Errorf("list stale pending registrations: %w", err)
	}
	return rows, nil
}

// List returns registrations matching filter with the total count.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	where, args := registrationConditions(filter)
	page, size := models.NormalizePage(filter.Page, filter.PageSize, 100)
	offset := (page - 1) * size

	query := fmt.Sprintf("%s WHERE %s ORDER BY r.created_at DESC LIMIT %d OFFSET %d", registrationDetailSelect, where, size, offset)
	var rows []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM registrations r JOIN courses c ON c.id = r.course_id WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	return rows, total, nil
}

// ListAll returns every registration matching filter, ignoring pagination. Used for exports.
func (r *RegistrationRepository) ListAll(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error) {
	where, args := registrationConditions(filter)
	query := fmt.Sprintf("%s WHERE %s ORDER BY r.created_at DESC", registrationDetailSelect, where)
	var rows []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("export registrations: %w", err)
	}
	return rows, nil
}

func registrationConditions(filter models.RegistrationFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.payment_status = $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Email)))
		conditions = append(conditions, fmt.Sprintf("r.email = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("r.course_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(r.full_name) LIKE $%d OR LOWER(r.payment_reference) LIKE $%d)", len(args), len(args)))
	}
	return strings.Join(conditions, " AND "), args
}
