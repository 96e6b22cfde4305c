package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
)

type mockStaffRepo struct {
	user             *models.StaffUser
	findErr          error
	lastLoginUpdated bool
}

func (m *mockStaffRepo) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.user == nil || m.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockStaffRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newStaffUser(t *testing.T, password string) *models.StaffUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.StaffUser{ID: "staff-1", Email: "admin@fixlab.test", PasswordHash: string(hash), Role: models.RoleAdmin, Active: true}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &mockStaffRepo{user: newStaffUser(t, "s3cret!")}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "jwt-secret", Expiry: time.Hour, Issuer: "fixlab"})

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Admin@Fixlab.test ", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	user := newStaffUser(t, "s3cret!")
	svc := NewAuthService(&mockStaffRepo{user: user}, nil, nil, AuthConfig{Secret: "jwt-secret", Issuer: "fixlab"})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@fixlab.test", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@fixlab.test", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	user.Active = false
	_, err = svc.Login(context.Background(), LoginRequest{Email: "admin@fixlab.test", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "bad"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	failing := NewAuthService(&mockStaffRepo{findErr: errors.New("db down")}, nil, nil, AuthConfig{Secret: "jwt-secret"})
	_, err = failing.Login(context.Background(), LoginRequest{Email: "admin@fixlab.test", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc := NewAuthService(&mockStaffRepo{}, nil, nil, AuthConfig{Secret: "jwt-secret", Issuer: "fixlab", Expiry: time.Hour})
	user := newStaffUser(t, "pw")

	other := NewAuthService(&mockStaffRepo{}, nil, nil, AuthConfig{Secret: "other-secret", Issuer: "fixlab", Expiry: time.Hour})
	foreign, err := other.generateAccessToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.generateAccessToken(user)
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.ValidateToken(expired)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &models.StaffClaims{UserID: "x", RegisteredClaims: jwt.RegisteredClaims{Issuer: "fixlab"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
