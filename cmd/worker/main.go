package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sunvale/sevendays/internal/config"
	"github.com/sunvale/sevendays/internal/logger"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/internal/services/queue"
	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Seven Days Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()
	summaryQueue := queue.NewSummaryQueue(queueClient)
	log.Info("Queue service initialized successfully")

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	if cfg.OpenAIAPIKey == "" {
		log.Error("OPENAI_API_KEY is required for the interview backend")
		os.Exit(1)
	}
	interview := services.NewOpenAIInterviewService(cfg.OpenAIAPIKey, cfg.InterviewModelName, log)
	log.Info("Interview backend initialized successfully", "model", cfg.InterviewModelName)

	w := worker.New(summaryQueue, store, interview, queueClient.GetRedisClient(), log, os.Getenv("WORKER_ID"))

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for jobs...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish the current job
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
