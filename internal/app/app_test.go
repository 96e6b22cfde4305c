package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/pkg/config"
)

func newTestApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		PublicURL: "http://api.test/api/v1",
		JWT:       config.JWTConfig{Secret: "secret", Expiration: time.Hour, Issuer: "test"},
		Cache:     config.CacheConfig{CourseTTL: time.Minute, PostTTL: time.Minute},
		Payment:   config.PaymentConfig{Provider: config.PaymentProviderPaystack, Currency: "NGN", PaystackSecretKey: "sk_test", PaystackBaseURL: "http://paystack.invalid"},
		Mail:      config.MailConfig{Provider: config.MailProviderLog, BrandName: "Fixlab Academy"},
		Links:     config.LinksConfig{Secret: "links", ReceiptTTL: time.Hour},
		Reminder:  config.ReminderConfig{Interval: time.Hour, Threshold: 96 * time.Hour, LockTTL: time.Minute},
		Metrics:   config.MetricsConfig{Enabled: true},
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{Config: cfg, Logger: zap.NewNop(), db: sqlx.NewDb(mockDB, "sqlmock"), cancel: cancel}
	require.NoError(t, a.wire(ctx))
	a.Router = a.routes()
	return a, mock
}

func serve(a *App, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRoutesHealth(t *testing.T) {
	a, mock := newTestApp(t)
	mock.ExpectPing()

	rec := serve(a, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok","cache":"disabled"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutesRegistrationAndAdminGuards(t *testing.T) {
	a, _ := newTestApp(t)

	rec := serve(a, http.MethodGet, "/api/v1/registrations/verify")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(a, http.MethodGet, "/api/v1/admin/registrations")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(a, http.MethodPost, "/api/v1/admin/reminders/sweep")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(a, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShutdownClosesDatabase(t *testing.T) {
	a, mock := newTestApp(t)
	mock.ExpectClose()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.Shutdown(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCORSAllowsAllOriginsWhenUnconfigured(t *testing.T) {
	conf := corsConfig(nil)
	assert.True(t, conf.AllowAllOrigins)
	assert.False(t, conf.AllowCredentials)

	conf = corsConfig([]string{"https://www.fixlabtech.com"})
	assert.False(t, conf.AllowAllOrigins)
	assert.Equal(t, []string{"https://www.fixlabtech.com"}, conf.AllowOrigins)
}
