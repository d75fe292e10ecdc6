// Package janitor removes expired one-time tokens in the background.
// Expired rows are already invisible to reads, so the sweep is purely
// about keeping the table small.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/repository"
)

type Janitor struct {
	tokenRepo repository.TokenRepository
	logger    *slog.Logger
	schedule  cron.Schedule
}

// New parses expr as a standard cron expression (descriptors like
// "@every 10m" are accepted) and returns a janitor running on it.
func New(repo repository.TokenRepository, logger *slog.Logger, expr string) (*Janitor, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, err
	}
	return &Janitor{
		tokenRepo: repo,
		logger:    logger.With("component", "janitor"),
		schedule:  schedule,
	}, nil
}

// Start blocks until ctx is cancelled, purging on each scheduled tick.
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("janitor started")

	for {
		next := j.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info("janitor shut down")
			return
		case <-timer.C:
			j.purge(ctx)
		}
	}
}

func (j *Janitor) purge(ctx context.Context) {
	purged, err := j.tokenRepo.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("purge expired tokens", "error", err)
		return
	}
	if purged > 0 {
		metrics.TokensPurgedTotal.Add(float64(purged))
		j.logger.Info("purged expired tokens", "count", purged)
	}
}
