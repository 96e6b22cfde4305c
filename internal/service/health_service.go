package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Health states reported per dependency.
const (
	HealthOK       = "ok"
	HealthError    = "error"
	HealthDisabled = "disabled"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type cachePinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// HealthReport is the outcome of a health probe.
type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Healthy reports whether every dependency is usable.
func (r HealthReport) Healthy() bool {
	return r.Status == HealthOK
}

// HealthService probes the database and cache.
type HealthService struct {
	db      dbPinger
	cache   cachePinger
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthService constructs the probe. cache may be nil when caching is off.
func NewHealthService(db dbPinger, cache cachePinger, timeout time.Duration, logger *zap.Logger) *HealthService {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthService{db: db, cache: cache, timeout: timeout, logger: logger}
}

// Check pings each dependency. A disabled cache counts as healthy.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report := HealthReport{Status: HealthOK, Database: HealthOK, Cache: HealthOK}
	if s.db == nil {
		report.Database = HealthError
	} else if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("database health check failed", zap.Error(err))
		report.Database = HealthError
	}

	switch {
	case s.cache == nil || !s.cache.Enabled():
		report.Cache = HealthDisabled
	default:
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn("cache health check failed", zap.Error(err))
			report.Cache = HealthError
		}
	}

	if report.Database == HealthError || report.Cache == HealthError {
		report.Status = HealthError
	}
	return report
}
