package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type resetTokenCleaner interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// Job drops password reset tokens whose expiry has passed. Lookups already
// ignore expired tokens; this keeps stale digests out of storage.
type Job struct {
	cleaner  resetTokenCleaner
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func New(cleaner resetTokenCleaner, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		cleaner:  cleaner,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.cleaner == nil {
		return nil
	}

	rows, err := j.cleaner.ClearExpiredResetTokens(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("clear expired reset tokens: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup expired reset tokens completed", zap.Int64("cleared", rows))
	}
	return nil
}

// Start runs the job every interval until ctx is cancelled.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("cleanup job failed", zap.Error(err))
			}
		}
	}
}
