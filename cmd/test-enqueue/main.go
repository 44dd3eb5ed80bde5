package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/queue"
)

// Enqueues a summary job for a test player so the worker can be
// exercised without playing through seven days.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	playerID := "test-player"
	if len(os.Args) > 1 {
		playerID = os.Args[1]
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}
	client := redis.NewClient(redisOpts)
	defer func() {
		_ = client.Close()
	}()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis successfully!")

	job := &queue.SummaryJob{
		JobID:      uuid.New().String(),
		PlayerID:   playerID,
		Lang:       lang.English,
		EnqueuedAt: time.Now(),
	}

	data, err := job.ToJSON()
	if err != nil {
		log.Fatal("Failed to marshal job:", err)
	}

	if err := client.RPush(ctx, "summaries", data).Err(); err != nil {
		log.Fatal("Failed to enqueue job:", err)
	}

	fmt.Printf("Enqueued summary job %s for player %s\n", job.JobID, job.PlayerID)

	depth, err := client.LLen(ctx, "summaries").Result()
	if err != nil {
		log.Fatal("Failed to get queue depth:", err)
	}

	fmt.Printf("Queue depth: %d jobs\n", depth)
	fmt.Println("Now start the worker to see it process the job:")
	fmt.Println("   go run cmd/worker/main.go")
}
