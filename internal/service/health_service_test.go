package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingStub struct {
	err     error
	enabled bool
}

func (p pingStub) PingContext(ctx context.Context) error { return p.err }
func (p pingStub) Ping(ctx context.Context) error        { return p.err }
func (p pingStub) Enabled() bool                         { return p.enabled }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		db     dbPinger
		cache  cachePinger
		expect HealthReport
	}{
		{"all ok", pingStub{}, pingStub{enabled: true}, HealthReport{Status: HealthOK, Database: HealthOK, Cache: HealthOK}},
		{"cache disabled", pingStub{}, pingStub{}, HealthReport{Status: HealthOK, Database: HealthOK, Cache: HealthDisabled}},
		{"no cache", pingStub{}, nil, HealthReport{Status: HealthOK, Database: HealthOK, Cache: HealthDisabled}},
		{"db down", pingStub{err: errors.New("refused")}, pingStub{enabled: true}, HealthReport{Status: HealthError, Database: HealthError, Cache: HealthOK}},
		{"cache down", pingStub{}, pingStub{enabled: true, err: errors.New("refused")}, HealthReport{Status: HealthError, Database: HealthOK, Cache: HealthError}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewHealthService(tc.db, tc.cache, 0, nil)
			report := svc.Check(context.Background())
			assert.Equal(t, tc.expect, report)
			assert.Equal(t, tc.expect.Status == HealthOK, report.Healthy())
		})
	}
}
