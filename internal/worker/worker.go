// Package worker generates final summaries for completed playthroughs
// in the background.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/internal/services/queue"
	"github.com/sunvale/sevendays/internal/storage"
	queuePkg "github.com/sunvale/sevendays/pkg/queue"
)

const (
	dequeueTimeout  = 5 * time.Second
	generateTimeout = 2 * time.Minute
	lockTTL         = 5 * time.Minute
)

// Worker consumes summary jobs and writes the generated summaries back
// to storage. Multiple workers may run; a per-player lock keeps one
// player's summary from being generated twice concurrently.
type Worker struct {
	id          string
	queue       *queue.SummaryQueue
	store       storage.Storage
	interview   services.InterviewBackend
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance.
func New(summaryQueue *queue.SummaryQueue, store storage.Storage, interview services.InterviewBackend, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       summaryQueue,
		store:       store,
		interview:   interview,
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing jobs from the queue.
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextJob(); err != nil {
				w.log.Error("Error processing job", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker.
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextJob pulls the next job from the queue and processes it.
func (w *Worker) processNextJob() error {
	job, err := w.queue.BlockingDequeue(w.ctx, dequeueTimeout)
	if err != nil {
		// Timeout or shutdown: the queue is just empty.
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("failed to dequeue job: %w", err)
	}
	if job == nil {
		return nil
	}

	w.log.Info("Received summary job",
		"worker_id", w.id,
		"job_id", job.JobID,
		"player_id", job.PlayerID,
	)

	locked, err := w.acquirePlayerLock(job.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to acquire player lock: %w", err)
	}
	if !locked {
		// Another worker has this player; re-queue and move on.
		w.log.Info("Player already locked, re-queueing job",
			"worker_id", w.id,
			"job_id", job.JobID,
			"player_id", job.PlayerID,
		)
		if err := w.queue.Enqueue(w.ctx, job); err != nil {
			return fmt.Errorf("failed to re-queue job: %w", err)
		}
		return nil
	}

	defer w.releasePlayerLock(job.PlayerID)
	return w.processJob(job)
}

func (w *Worker) acquirePlayerLock(playerID string) (bool, error) {
	lockKey := "summary-lock:" + playerID
	return w.redisClient.SetNX(w.ctx, lockKey, w.id, lockTTL).Result()
}

func (w *Worker) releasePlayerLock(playerID string) {
	lockKey := "summary-lock:" + playerID

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release player lock", "error", err, "player_id", playerID)
	}
}

// processJob generates and stores one player's summary. Jobs are
// idempotent: an existing summary short-circuits, and a backend failure
// degrades to the canned fallback rather than losing the playthrough.
func (w *Worker) processJob(job *queuePkg.SummaryJob) error {
	start := time.Now()

	existing, err := w.store.LoadSummary(w.ctx, job.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to check for existing summary: %w", err)
	}
	if existing != nil {
		w.log.Info("Summary already exists, skipping",
			"worker_id", w.id,
			"job_id", job.JobID,
			"player_id", job.PlayerID,
		)
		return nil
	}

	records, err := w.store.LoadMealRecords(w.ctx, job.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to load meal records: %w", err)
	}
	if len(records) == 0 {
		w.log.Warn("Summary job for player with no meal records",
			"job_id", job.JobID, "player_id", job.PlayerID)
	}

	req := services.SummaryRequest{
		PlayerID: job.PlayerID,
		Lang:     job.Lang,
		Records:  records,
	}

	genCtx, cancel := context.WithTimeout(w.ctx, generateTimeout)
	summary, err := w.interview.GenerateFinalSummary(genCtx, req)
	cancel()
	if err != nil {
		w.log.Warn("Summary generation failed, retrying once",
			"job_id", job.JobID, "player_id", job.PlayerID, "error", err)

		genCtx, cancel = context.WithTimeout(w.ctx, generateTimeout)
		summary, err = w.interview.GenerateFinalSummary(genCtx, req)
		cancel()
	}
	if err != nil {
		w.log.Error("Summary generation failed, storing fallback",
			"job_id", job.JobID, "player_id", job.PlayerID, "error", err)
		summary = services.FallbackSummary(job.Lang)
	}

	if err := w.store.SaveSummary(w.ctx, job.PlayerID, summary); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	w.log.Info("Summary job processed successfully",
		"worker_id", w.id,
		"job_id", job.JobID,
		"player_id", job.PlayerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
