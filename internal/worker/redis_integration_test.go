//go:build integration

package worker

// Queue, DLQ and replay behaviour against a real Redis.
// Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"minimercado/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	c, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func popJob(t *testing.T, rdb *redis.Client, queue string) (string, Job) {
	t.Helper()
	raw, err := rdb.RPop(context.Background(), queue).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	return raw, job
}

func TestDispatcher_EnqueueTicket(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()
	email := "cli@mail.com"

	require.NoError(t, NewDispatcher(rdb).EnqueueTicket(ctx, 12, &email))

	_, job := popJob(t, rdb, QueueTicket)
	assert.Equal(t, JobTicket, job.Type)
	assert.NotEmpty(t, job.ID)
	assert.Zero(t, job.Attempts)

	var p TicketJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.EqualValues(t, 12, p.VentaID)
	require.NotNil(t, p.ClienteEmail)
	assert.Equal(t, email, *p.ClienteEmail)
}

func TestProcessJob_RetriesThenDeadLetters(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()
	calls := 0
	handlers := map[string]Handler{
		QueueEmail: func(context.Context, json.RawMessage) error {
			calls++
			return errors.New("smtp down")
		},
	}

	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.com"}))

	for i := 1; i < MaxAttempts; i++ {
		raw, _ := popJob(t, rdb, QueueEmail)
		processJob(ctx, rdb, QueueEmail, raw, handlers)

		_, requeued := popJob(t, rdb, QueueEmail)
		assert.Equal(t, i, requeued.Attempts)
		// push it back for the next round
		require.NoError(t, push(ctx, rdb, QueueEmail, requeued))
	}

	raw, _ := popJob(t, rdb, QueueEmail)
	processJob(ctx, rdb, QueueEmail, raw, handlers)
	assert.Equal(t, MaxAttempts, calls)

	n, err := rdb.LLen(ctx, QueueEmail).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	dlq, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dlq)

	entry, err := PopDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "smtp down", entry.Reason)
	assert.Equal(t, QueueEmail, entry.OriginalQueue)
	assert.Equal(t, MaxAttempts, entry.Job.Attempts)

	entry, err = PopDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestReplayDLQ(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	for i := 0; i < retryBatchSize+2; i++ {
		SendToDLQ(ctx, rdb, QueueEmail, Job{ID: "job", Type: JobEmail, Attempts: MaxAttempts}, "smtp down")
	}

	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1})
	_ = cb.Execute(func() error { return errors.New("boom") })
	require.Equal(t, infra.CBOpen, cb.State())

	cfg := RetryCronConfig{RDB: rdb, CB: cb, Queue: QueueEmail}
	assert.Zero(t, replayDLQ(ctx, cfg), "open breaker skips the tick")

	cfg.CB = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	assert.Equal(t, retryBatchSize, replayDLQ(ctx, cfg))

	_, job := popJob(t, rdb, QueueEmail)
	assert.Zero(t, job.Attempts)

	left, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 2, left)
}

func TestProcessJob_UnknownQueueAndBadEnvelope(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	processJob(ctx, rdb, QueueTicket, `{bad`, map[string]Handler{})
	processJob(ctx, rdb, QueueTicket, `{"id":"x","type":"ticket","payload":{}}`, map[string]Handler{})

	for _, q := range []string{QueueTicket, DLQPrefix + QueueTicket} {
		n, err := rdb.LLen(ctx, q).Result()
		require.NoError(t, err)
		assert.Zero(t, n, q)
	}
}
