package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
)

func TestSubscriberRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectExec("INSERT INTO subscribers").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Subscriber{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateSubscriber)
}

func TestSubscriberRepositorySetActive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)
	at := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscribers SET active = FALSE, unsubscribed_at = $2 WHERE id = $1")).
		WithArgs("sub-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscribers SET active = TRUE, subscribed_at = $2, unsubscribed_at = NULL WHERE id = $1")).
		WithArgs("sub-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetActive(context.Background(), "sub-1", false, at))
	require.NoError(t, repo.SetActive(context.Background(), "sub-1", true, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepositoryListActiveEmails(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectQuery("SELECT email FROM subscribers WHERE active = TRUE").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@example.com").AddRow("b@example.com"))

	emails, err := repo.ListActiveEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails)
}
