package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/repository"
	"github.com/noah-isme/fixlab-academy-api/internal/service"
	"github.com/noah-isme/fixlab-academy-api/pkg/cache"
	"github.com/noah-isme/fixlab-academy-api/pkg/config"
	"github.com/noah-isme/fixlab-academy-api/pkg/database"
	"github.com/noah-isme/fixlab-academy-api/pkg/events"
	"github.com/noah-isme/fixlab-academy-api/pkg/jobs"
	"github.com/noah-isme/fixlab-academy-api/pkg/linksign"
	"github.com/noah-isme/fixlab-academy-api/pkg/mailer"
	"github.com/noah-isme/fixlab-academy-api/pkg/payment"
	"github.com/noah-isme/fixlab-academy-api/pkg/validation"
)

// App owns every long-lived dependency of the API process.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Router *gin.Engine

	Registrations *service.RegistrationService
	Reminders     *service.ReminderService

	services  services
	db        *sqlx.DB
	redis     *redis.Client
	queue     *jobs.Queue
	publisher events.Publisher
	server    *http.Server
	cancel    context.CancelFunc
}

type services struct {
	metrics    *service.MetricsService
	health     *service.HealthService
	auth       *service.AuthService
	courses    *service.CourseService
	blog       *service.BlogService
	newsletter *service.NewsletterService
}

// New connects to backing services and assembles the HTTP router.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Config: cfg,
		Logger: logger,
		db:     db,
		redis:  redisClient,
		cancel: cancel,
	}

	if err := a.wire(ctx); err != nil {
		cancel()
		_ = db.Close()
		return nil, err
	}
	a.Router = a.routes()
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config
	validate := validation.New()

	courseRepo := repository.NewCourseRepository(a.db)
	registrationRepo := repository.NewRegistrationRepository(a.db)
	staffRepo := repository.NewStaffRepository(a.db)
	blogRepo := repository.NewBlogRepository(a.db)
	subscriberRepo := repository.NewSubscriberRepository(a.db)
	cacheRepo := repository.NewCacheRepository(a.redis, a.Logger)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CourseTTL, a.Logger, cfg.Cache.Enabled && a.redis != nil)

	sender, err := mailer.New(cfg.Mail, a.Logger)
	if err != nil {
		return fmt.Errorf("build mailer: %w", err)
	}
	notifications := service.NewNotificationService(sender, metrics, a.Logger)
	if cfg.Notifications.Async {
		a.queue = jobs.NewQueue("notifications", notifications.HandleJob, jobs.QueueConfig{
			Workers:      cfg.Notifications.Workers,
			BufferSize:   cfg.Notifications.BufferSize,
			MaxRetries:   cfg.Notifications.MaxRetries,
			RetryDelay:   cfg.Notifications.RetryDelay,
			OnDeadLetter: notifications.DeadLetter,
			Logger:       a.Logger,
		})
		a.queue.Start(ctx)
		notifications.UseQueue(a.queue)
	}

	a.publisher = events.Nop{}
	if cfg.Events.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, a.Logger)
		if err != nil {
			a.Logger.Warn("event broker unavailable, lifecycle events disabled", zap.Error(err))
		} else {
			a.publisher = publisher
		}
	}

	gateways := payment.NewRegistryFromConfig(cfg.Payment)
	if _, err := gateways.Get(cfg.Payment.Provider); err != nil {
		a.Logger.Warn("default payment gateway is not configured", zap.String("provider", cfg.Payment.Provider), zap.Strings("registered", gateways.Names()))
	}

	templates := service.NotificationTemplates{
		Brand:   cfg.Mail.BrandName,
		SiteURL: cfg.Mail.SiteURL,
		Support: cfg.Mail.SupportAddress,
		APIBase: cfg.PublicURL,
	}

	courses := service.NewCourseService(courseRepo, cacheSvc, cfg.Cache.CourseTTL, validate, a.Logger)

	a.Registrations = service.NewRegistrationService(service.RegistrationDeps{
		Store:     registrationRepo,
		Courses:   courses,
		Gateways:  gateways,
		Notifier:  notifications,
		Signer:    linksign.New(cfg.Links.Secret, cfg.Links.ReceiptTTL),
		Events:    a.publisher,
		Templates: templates,
		Metrics:   metrics,
		Validator: validate,
		Logger:    a.Logger,
	}, service.RegistrationConfig{
		Provider:       cfg.Payment.Provider,
		CallbackURL:    cfg.Payment.CallbackURL,
		Currency:       cfg.Payment.Currency,
		Brand:          cfg.Mail.BrandName,
		Support:        cfg.Mail.SupportAddress,
		ReceiptBaseURL: cfg.PublicURL + "/registrations",
	})

	a.Reminders = service.NewReminderService(registrationRepo, notifications, templates, cacheRepo, metrics, a.Logger, service.ReminderConfig{
		Interval:  cfg.Reminder.Interval,
		Threshold: cfg.Reminder.Threshold,
		LockTTL:   cfg.Reminder.LockTTL,
	})

	a.services = services{
		metrics: metrics,
		health:  service.NewHealthService(a.db, cacheRepo, 2*time.Second, a.Logger),
		auth: service.NewAuthService(staffRepo, validate, a.Logger, service.AuthConfig{
			Secret: cfg.JWT.Secret,
			Expiry: cfg.JWT.Expiration,
			Issuer: cfg.JWT.Issuer,
		}),
		courses:    courses,
		blog:       service.NewBlogService(blogRepo, subscriberRepo, notifications, templates, cacheSvc, cfg.Cache.PostTTL, validate, a.Logger),
		newsletter: service.NewNewsletterService(subscriberRepo, notifications, templates, validate, a.Logger),
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	return conf
}

// Run serves HTTP until Shutdown is called and starts the reminder sweeper when enabled.
func (a *App) Run() error {
	if a.Config.Reminder.Enabled {
		a.Reminders.Start(context.Background())
	}
	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.Logger.Info("server starting", zap.String("addr", a.server.Addr), zap.String("env", a.Config.Env))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, drains queued notifications and closes connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		a.Logger.Info("shutting down server")
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.Reminders != nil {
		a.Reminders.Stop()
	}
	if a.queue != nil {
		errs = append(errs, a.queue.Shutdown(ctx))
	}
	a.cancel()
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}
