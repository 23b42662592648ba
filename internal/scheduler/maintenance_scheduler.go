package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// MaintenanceScheduler runs the nightly housekeeping jobs: rating
// reconciliation and the purge of abandoned anonymous carts.
type MaintenanceScheduler struct {
	cron       *cron.Cron
	reviewRepo repository.ReviewRepository
	cartRepo   repository.CartRepository
	cfg        config.SchedulerConfig
	now        func() time.Time
}

func NewMaintenanceScheduler(
	reviewRepo repository.ReviewRepository,
	cartRepo repository.CartRepository,
	cfg config.SchedulerConfig,
) *MaintenanceScheduler {
	if cfg.StaleCartAge <= 0 {
		cfg.StaleCartAge = 30 * 24 * time.Hour
	}
	return &MaintenanceScheduler{
		cron:       cron.New(),
		reviewRepo: reviewRepo,
		cartRepo:   cartRepo,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Start registers both jobs and starts the cron loop.
func (s *MaintenanceScheduler) Start() error {
	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{"rating reconciliation", s.cfg.RatingSchedule, s.ReconcileRatings},
		{"session cart purge", s.cfg.CartPurgeSchedule, s.PurgeStaleCarts},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.schedule, func() {
			logger.Info("Starting scheduled job", map[string]interface{}{"job": job.name})
			if err := job.run(context.Background()); err != nil {
				logger.Error("Scheduled job failed", err, map[string]interface{}{"job": job.name})
			}
		}); err != nil {
			logger.Error("Failed to add cron job", err, map[string]interface{}{
				"job":      job.name,
				"schedule": job.schedule,
			})
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started", map[string]interface{}{
		"rating_schedule":     s.cfg.RatingSchedule,
		"cart_purge_schedule": s.cfg.CartPurgeSchedule,
	})
	return nil
}

// Stop waits for running jobs to finish.
func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Maintenance scheduler stopped", nil)
}

// ReconcileRatings recomputes every product's rating and review count from
// its review rows.
func (s *MaintenanceScheduler) ReconcileRatings(ctx context.Context) error {
	fixed, err := s.reviewRepo.RecalculateAllRatings()
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Ratings reconciled", map[string]interface{}{
		"products_fixed": fixed,
	})
	return nil
}

// PurgeStaleCarts deletes anonymous carts untouched for longer than StaleCartAge.
func (s *MaintenanceScheduler) PurgeStaleCarts(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.StaleCartAge)
	deleted, err := s.cartRepo.DeleteStaleSessionCarts(cutoff)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Stale carts purged", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff,
	})
	return nil
}
