package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, PaymentProviderPaystack, cfg.Payment.Provider)
	assert.Equal(t, 10*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, 96*time.Hour, cfg.Reminder.Threshold)
	assert.Equal(t, "support@fixlabtech.com", cfg.Mail.SupportAddress)
	assert.Equal(t, "https://api.paystack.co", cfg.Payment.PaystackBaseURL)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.PublicURL)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PAYMENT_PROVIDER", "MIDTRANS")
	v.Set("PAYMENT_TIMEOUT", "3s")
	v.Set("REMINDER_THRESHOLD", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("SITE_URL", "https://fixlab.test/")
	v.Set("PUBLIC_API_URL", "https://api.fixlab.test/api/v1/")
	v.Set("ENABLE_METRICS", false)

	cfg := fromViper(v)
	assert.Equal(t, PaymentProviderMidtrans, cfg.Payment.Provider)
	assert.Equal(t, 3*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, 96*time.Hour, cfg.Reminder.Threshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://fixlab.test", cfg.Mail.SiteURL)
	assert.Equal(t, "https://api.fixlab.test/api/v1", cfg.PublicURL)
	assert.False(t, cfg.Metrics.Enabled)
}
