package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/queue"
)

func setupTestQueue(t *testing.T) *SummaryQueue {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	client, err := NewClient(mr.Addr(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewSummaryQueue(client)
}

func newTestJob(playerID string) *queue.SummaryJob {
	return &queue.SummaryJob{
		JobID:      uuid.New().String(),
		PlayerID:   playerID,
		Lang:       lang.English,
		EnqueuedAt: time.Now(),
	}
}

func TestSummaryQueue_EnqueueDequeue(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, job, "empty queue dequeues nil")

	first := newTestJob("p1")
	second := newTestJob("p2")
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)

	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, first.JobID, job.JobID, "FIFO order")
	assert.Equal(t, "p1", job.PlayerID)
	assert.Equal(t, lang.English, job.Lang)

	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "p2", job.PlayerID)
}

func TestSummaryQueue_BlockingDequeue(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, newTestJob("p1")))

	job, err := q.BlockingDequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "p1", job.PlayerID)
}
