package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sunvale/sevendays/pkg/queue"
)

// summariesKey is the global list the worker consumes from.
const summariesKey = "summaries"

// SummaryQueue manages the queue of pending summary jobs.
type SummaryQueue struct {
	client *Client
}

func NewSummaryQueue(client *Client) *SummaryQueue {
	return &SummaryQueue{
		client: client,
	}
}

// Enqueue adds a summary job to the end of the queue.
func (q *SummaryQueue) Enqueue(ctx context.Context, job *queue.SummaryJob) error {
	data, err := job.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize summary job: %w", err)
	}
	if err := q.client.rdb.RPush(ctx, summariesKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue summary job: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next job. Returns nil when the queue
// is empty.
func (q *SummaryQueue) Dequeue(ctx context.Context) (*queue.SummaryJob, error) {
	result, err := q.client.rdb.LPop(ctx, summariesKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue summary job: %w", err)
	}
	job, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary job: %w", err)
	}
	return job, nil
}

// BlockingDequeue blocks until a job is available. A zero timeout waits
// forever.
func (q *SummaryQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*queue.SummaryJob, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, summariesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue summary job: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}
	job, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary job: %w", err)
	}
	return job, nil
}

// Depth returns the number of jobs waiting in the queue.
func (q *SummaryQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, summariesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}
