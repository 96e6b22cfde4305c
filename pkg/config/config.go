package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Payment providers understood by the gateway registry.
const (
	PaymentProviderPaystack = "paystack"
	PaymentProviderMidtrans = "midtrans"
)

// Mail providers understood by the mailer factory.
const (
	MailProviderSendGrid = "sendgrid"
	MailProviderSMTP     = "smtp"
	MailProviderLog      = "log"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	// PublicURL is the externally reachable API base used in emailed links.
	PublicURL string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Cache         CacheConfig
	Payment       PaymentConfig
	Mail          MailConfig
	Notifications NotificationConfig
	Reminder      ReminderConfig
	Events        EventsConfig
	Links         LinksConfig
	Metrics       MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig tunes read-through caching of catalog and blog listings.
type CacheConfig struct {
	Enabled   bool
	CourseTTL time.Duration
	PostTTL   time.Duration
}

// PaymentConfig selects and configures the payment gateway.
type PaymentConfig struct {
	Provider           string
	Currency           string
	Timeout            time.Duration
	CallbackURL        string
	PaystackSecretKey  string
	PaystackBaseURL    string
	MidtransServerKey  string
	MidtransProduction bool
}

// MailConfig configures the transactional email provider.
type MailConfig struct {
	Provider       string
	Timeout        time.Duration
	SendGridAPIKey string
	SendGridHost   string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	FromAddress    string
	FromName       string
	SupportAddress string
	SiteURL        string
	BrandName      string
}

// NotificationConfig controls asynchronous delivery of emails.
type NotificationConfig struct {
	Async      bool
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// ReminderConfig drives the stale pending registration sweeper.
type ReminderConfig struct {
	Enabled   bool
	Interval  time.Duration
	Threshold time.Duration
	LockTTL   time.Duration
}

// EventsConfig points the lifecycle publisher at a RabbitMQ broker. An empty URL disables publishing.
type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

// LinksConfig signs the receipt links sent to students.
type LinksConfig struct {
	Secret     string
	ReceiptTTL time.Duration
}

// MetricsConfig toggles the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.PublicURL = strings.TrimRight(v.GetString("PUBLIC_API_URL"), "/")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("ENABLE_CACHE"),
		CourseTTL: parseDuration(v.GetString("COURSE_CACHE_TTL"), 10*time.Minute),
		PostTTL:   parseDuration(v.GetString("POST_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Payment = PaymentConfig{
		Provider:           strings.ToLower(v.GetString("PAYMENT_PROVIDER")),
		Currency:           strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
		Timeout:            parseDuration(v.GetString("PAYMENT_TIMEOUT"), 10*time.Second),
		CallbackURL:        v.GetString("PAYMENT_CALLBACK_URL"),
		PaystackSecretKey:  v.GetString("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:    strings.TrimRight(v.GetString("PAYSTACK_BASE_URL"), "/"),
		MidtransServerKey:  v.GetString("MIDTRANS_SERVER_KEY"),
		MidtransProduction: v.GetBool("MIDTRANS_PRODUCTION"),
	}

	cfg.Mail = MailConfig{
		Provider:       strings.ToLower(v.GetString("MAIL_PROVIDER")),
		Timeout:        parseDuration(v.GetString("MAIL_TIMEOUT"), 10*time.Second),
		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		SendGridHost:   v.GetString("SENDGRID_HOST"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		SMTPUsername:   v.GetString("SMTP_USERNAME"),
		SMTPPassword:   v.GetString("SMTP_PASSWORD"),
		FromAddress:    v.GetString("MAIL_FROM_ADDRESS"),
		FromName:       v.GetString("MAIL_FROM_NAME"),
		SupportAddress: v.GetString("SUPPORT_MAILBOX"),
		SiteURL:        strings.TrimRight(v.GetString("SITE_URL"), "/"),
		BrandName:      v.GetString("BRAND_NAME"),
	}

	cfg.Notifications = NotificationConfig{
		Async:      v.GetBool("NOTIFICATIONS_ASYNC"),
		Workers:    v.GetInt("NOTIFICATIONS_WORKERS"),
		BufferSize: v.GetInt("NOTIFICATIONS_BUFFER"),
		MaxRetries: v.GetInt("NOTIFICATIONS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICATIONS_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Reminder = ReminderConfig{
		Enabled:   v.GetBool("ENABLE_REMINDERS"),
		Interval:  parseDuration(v.GetString("REMINDER_INTERVAL"), 24*time.Hour),
		Threshold: parseDuration(v.GetString("REMINDER_THRESHOLD"), 96*time.Hour),
		LockTTL:   parseDuration(v.GetString("REMINDER_LOCK_TTL"), 30*time.Minute),
	}

	cfg.Events = EventsConfig{
		AMQPURL:  v.GetString("AMQP_URL"),
		Exchange: v.GetString("AMQP_EXCHANGE"),
	}

	cfg.Links = LinksConfig{
		Secret:     v.GetString("LINK_SIGNING_SECRET"),
		ReceiptTTL: parseDuration(v.GetString("RECEIPT_LINK_TTL"), 30*24*time.Hour),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("PUBLIC_API_URL", "http://localhost:8080/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fixlab_academy")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "fixlab-academy-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("COURSE_CACHE_TTL", "10m")
	v.SetDefault("POST_CACHE_TTL", "5m")

	v.SetDefault("PAYMENT_PROVIDER", PaymentProviderPaystack)
	v.SetDefault("PAYMENT_CURRENCY", "NGN")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")
	v.SetDefault("PAYMENT_CALLBACK_URL", "http://localhost:3000/payment-success.html")
	v.SetDefault("PAYSTACK_SECRET_KEY", "")
	v.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	v.SetDefault("MIDTRANS_SERVER_KEY", "")
	v.SetDefault("MIDTRANS_PRODUCTION", false)

	v.SetDefault("MAIL_PROVIDER", MailProviderLog)
	v.SetDefault("MAIL_TIMEOUT", "10s")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("SENDGRID_HOST", "https://api.sendgrid.com")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM_ADDRESS", "noreply@fixlabtech.com")
	v.SetDefault("MAIL_FROM_NAME", "Fixlab Academy")
	v.SetDefault("SUPPORT_MAILBOX", "support@fixlabtech.com")
	v.SetDefault("SITE_URL", "https://www.fixlabtech.com")
	v.SetDefault("BRAND_NAME", "Fixlab Academy")

	v.SetDefault("NOTIFICATIONS_ASYNC", true)
	v.SetDefault("NOTIFICATIONS_WORKERS", 2)
	v.SetDefault("NOTIFICATIONS_BUFFER", 64)
	v.SetDefault("NOTIFICATIONS_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATIONS_RETRY_DELAY", "5s")

	v.SetDefault("ENABLE_REMINDERS", false)
	v.SetDefault("REMINDER_INTERVAL", "24h")
	v.SetDefault("REMINDER_THRESHOLD", "96h")
	v.SetDefault("REMINDER_LOCK_TTL", "30m")

	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "registrations")

	v.SetDefault("LINK_SIGNING_SECRET", "dev_link_secret")
	v.SetDefault("RECEIPT_LINK_TTL", "720h")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
