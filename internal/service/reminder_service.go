package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
)

// DefaultReminderThreshold is how long a registration may stay pending before a reminder goes out.
const DefaultReminderThreshold = 4 * 24 * time.Hour

const reminderLockKey = "locks:reminder-sweep"

type stalePendingLister interface {
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.RegistrationDetail, error)
}

type distributedLock interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// ReminderConfig controls the periodic sweep.
type ReminderConfig struct {
	Interval  time.Duration
	Threshold time.Duration
	LockTTL   time.Duration
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Scanned    int       `json:"scanned"`
	Dispatched int       `json:"dispatched"`
	Failed     int       `json:"failed"`
	Cutoff     time.Time `json:"cutoff"`
	Skipped    bool      `json:"skipped,omitempty"`
}

// ReminderService nudges students whose registrations are still awaiting payment.
type ReminderService struct {
	store     stalePendingLister
	notifier  Notifier
	templates NotificationTemplates
	lock      distributedLock
	metrics   *MetricsService
	logger    *zap.Logger
	config    ReminderConfig
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReminderService constructs the sweeper. lock may be nil for single-instance deployments.
func NewReminderService(store stalePendingLister, notifier Notifier, templates NotificationTemplates, lock distributedLock, metrics *MetricsService, logger *zap.Logger, config ReminderConfig) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Threshold <= 0 {
		config.Threshold = DefaultReminderThreshold
	}
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Minute
	}
	return &ReminderService{
		store:     store,
		notifier:  notifier,
		templates: templates,
		lock:      lock,
		metrics:   metrics,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// SweepStalePending sends one reminder for each registration pending for longer than threshold.
// Registration state is never modified. A non-positive threshold uses the configured default.
func (s *ReminderService) SweepStalePending(ctx context.Context, threshold time.Duration) (*SweepResult, error) {
	if threshold <= 0 {
		threshold = s.config.Threshold
	}
	cutoff := s.now().UTC().Add(-threshold)
	rows, err := s.store.ListStalePending(ctx, cutoff)
	if err != nil {
		s.metrics.RecordSweep("error", 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending registrations")
	}

	result := &SweepResult{Scanned: len(rows), Cutoff: cutoff}
	for _, row := range rows {
		if err := s.notifier.Dispatch(ctx, s.templates.Reminder(row)); err != nil {
			result.Failed++
			s.logger.Warn("reminder not sent", zap.String("reference", row.PaymentReference), zap.Error(err))
			continue
		}
		result.Dispatched++
	}

	s.metrics.RecordSweep("ok", result.Dispatched)
	s.logger.Info("pending reminder sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("scanned", result.Scanned),
		zap.Int("dispatched", result.Dispatched),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// RunOnce sweeps with the configured threshold while holding the sweep lock.
// The result is marked Skipped when another instance holds the lock.
func (s *ReminderService) RunOnce(ctx context.Context) (*SweepResult, error) {
	if s.lock == nil {
		return s.SweepStalePending(ctx, s.config.Threshold)
	}
	token := uuid.NewString()
	acquired, err := s.lock.AcquireLock(ctx, reminderLockKey, token, s.config.LockTTL)
	if err != nil {
		s.metrics.RecordSweep("error", 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire sweep lock")
	}
	if !acquired {
		s.metrics.RecordSweep("skipped", 0)
		s.logger.Debug("reminder sweep skipped, lock held elsewhere")
		return &SweepResult{Skipped: true}, nil
	}
	defer func() {
		if err := s.lock.ReleaseLock(context.WithoutCancel(ctx), reminderLockKey, token); err != nil {
			s.logger.Warn("sweep lock release failed", zap.Error(err))
		}
	}()
	return s.SweepStalePending(ctx, s.config.Threshold)
}

// Start runs RunOnce every configured interval until Stop is called or ctx ends.
func (s *ReminderService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
	s.logger.Info("reminder sweeper started", zap.Duration("interval", s.config.Interval), zap.Duration("threshold", s.config.Threshold))
}

// Stop ends the periodic sweep and waits for an in-progress run.
func (s *ReminderService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("reminder sweeper stopped")
}

func (s *ReminderService) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("reminder sweep failed", zap.Error(err))
			}
		}
	}
}
