package core

// scheduler.go runs archive retention in the background.
//
// Disk archives grow with every upload. The retention job removes files
// older than the configured number of days. It runs once on start and then
// every CheckInterval until the context is cancelled. A failed run is logged
// and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"

	"github.com/halostats/uploadserver/internal/archive"
)

// RetentionConfig holds configuration for the retention scheduler.
type RetentionConfig struct {
	RetentionDays int           // Days to keep archived uploads; 0 keeps them forever
	CheckInterval time.Duration // How often to run (default: 24h)
}

// StartRetentionScheduler blocks, pruning old archives periodically, until
// ctx is cancelled. It returns immediately when retention is disabled or the
// archive store cannot prune.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	pruner, ok := s.archive.(archive.Pruner)
	if !ok {
		slog.Info("retention scheduler disabled: archive store does not support pruning")
		return
	}
	if cfg.RetentionDays <= 0 {
		slog.Info("retention scheduler disabled: retention is unlimited")
		return
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 24 * time.Hour
	}

	slog.Info("retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"check_interval", cfg.CheckInterval,
	)

	s.runRetentionJob(ctx, pruner, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, pruner, cfg)
		}
	}
}

// runRetentionJob performs one prune pass.
func (s *Service) runRetentionJob(ctx context.Context, pruner archive.Pruner, cfg RetentionConfig) {
	start := time.Now()
	cutoff := s.now().AddDate(0, 0, -cfg.RetentionDays)

	removed, err := pruner.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("retention prune failed", "error", err, "removed", removed)
		return
	}
	slog.Info("retention prune completed",
		"removed", removed,
		"cutoff", cutoff,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
