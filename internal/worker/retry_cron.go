package worker

// retry_cron.go
// Background goroutine that periodically moves dead-lettered email jobs back
// to their queue once the SMTP circuit breaker lets traffic through again.

import (
	"context"
	"time"

	"minimercado/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 60 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the replay goroutine.
type RetryCronConfig struct {
	RDB      *redis.Client
	CB       *infra.CircuitBreaker
	Queue    string
	Interval time.Duration // zero means retryTickInterval
}

// StartRetryCron launches the replay loop. It respects ctx for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = retryTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				replayDLQ(ctx, cfg)
			}
		}
	}()
}

// replayDLQ re-enqueues up to retryBatchSize entries with a fresh attempt
// count. It does nothing while the breaker is open.
func replayDLQ(ctx context.Context, cfg RetryCronConfig) int {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	replayed := 0
	for i := 0; i < retryBatchSize; i++ {
		entry, err := PopDLQ(ctx, cfg.RDB, cfg.Queue)
		if err != nil {
			log.Error().Err(err).Str("queue", cfg.Queue).Msg("retry_cron: failed to read DLQ")
			break
		}
		if entry == nil {
			break
		}
		job := entry.Job
		job.Attempts = 0
		if err := push(ctx, cfg.RDB, cfg.Queue, job); err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("retry_cron: requeue failed")
			// put it back so it is not lost
			SendToDLQ(ctx, cfg.RDB, cfg.Queue, job, entry.Reason)
			break
		}
		replayed++
	}
	if replayed > 0 {
		log.Info().Int("count", replayed).Str("queue", cfg.Queue).Msg("retry_cron: jobs replayed from DLQ")
	}
	return replayed
}
