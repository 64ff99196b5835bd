package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/session"
)

// Scheduler wraps robfig/cron around the periodic check cycle and the
// expired-session sweep.
type Scheduler struct {
	cron     *cron.Cron
	monitor  *Monitor
	registry *session.Registry
	interval time.Duration
	logger   *zap.Logger
}

func NewScheduler(m *Monitor, registry *session.Registry, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		monitor:  m,
		registry: registry,
		interval: interval,
		logger:   logger,
	}
}

// Start registers the cron entries and runs one check immediately so users
// do not wait a full interval after startup.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)

	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.monitor.RunCheck(ctx); err != nil {
			s.logger.Error("job check failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("scheduling job check: %w", err)
	}

	if s.registry != nil {
		if _, err := s.cron.AddFunc("@every 5m", func() {
			s.registry.SweepExpired()
		}); err != nil {
			return fmt.Errorf("scheduling session sweep: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))

	go func() {
		if err := s.monitor.RunCheck(ctx); err != nil {
			s.logger.Error("initial job check failed", zap.Error(err))
		}
	}()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}
