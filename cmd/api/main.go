package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sunvale/sevendays/internal/config"
	"github.com/sunvale/sevendays/internal/engine"
	"github.com/sunvale/sevendays/internal/handlers"
	"github.com/sunvale/sevendays/internal/logger"
	"github.com/sunvale/sevendays/internal/middleware"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/internal/services/queue"
	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/dialogue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Seven Days API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"persona_model", cfg.PersonaModelName,
		"interview_model", cfg.InterviewModelName)

	if cfg.AnthropicAPIKey == "" {
		log.Error("ANTHROPIC_API_KEY is required for the persona backend")
		os.Exit(1)
	}
	if cfg.OpenAIAPIKey == "" {
		log.Error("OPENAI_API_KEY is required for the interview backend")
		os.Exit(1)
	}
	persona := services.NewAnthropicPersonaService(cfg.AnthropicAPIKey, cfg.PersonaModelName, cfg.BackendTimeout, log)
	interview := services.NewOpenAIInterviewService(cfg.OpenAIAPIKey, cfg.InterviewModelName, log)

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
	log.Info("Storage connection established successfully",
		"npcs", store.Catalog().Len())

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	summaryQueue := queue.NewSummaryQueue(queueClient)

	eng := engine.New(store, persona, interview, summaryQueue, dialogue.Config{
		FreeChatTurnThreshold: cfg.FreeChatTurnThreshold,
		InterviewTurnCap:      cfg.InterviewTurnCap,
		MinContentAnswerLen:   cfg.MinContentAnswerLen,
		SubmitRetryLimit:      cfg.SubmitRetryLimit,
	}, cfg.BackendTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/dialogue", handlers.NewDialogueHandler(eng, log))
	progressHandler := handlers.NewProgressHandler(store, log)
	mux.Handle("/v1/progress", progressHandler)
	mux.Handle("/v1/progress/", progressHandler)
	mux.Handle("/v1/npcs", handlers.NewNPCHandler(store, log))
	mux.Handle("/v1/summary/", handlers.NewSummaryHandler(store, log))

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.BackendTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}
	if err := queueClient.Close(); err != nil {
		log.Error("Error closing queue client", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
