package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the environment-driven settings for the API server, the
// worker and the validate tool.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string
	DataDir  string

	// Persona backend (Anthropic Messages API).
	AnthropicAPIKey  string
	PersonaModelName string

	// Interview backend (OpenAI chat completions).
	OpenAIAPIKey       string
	InterviewModelName string

	// BackendTimeout bounds every AI backend call; on expiry the engine
	// proceeds with a fallback line.
	BackendTimeout time.Duration

	// Dialogue tuning. Heuristic thresholds, not invariants.
	FreeChatTurnThreshold int
	InterviewTurnCap      int
	MinContentAnswerLen   int
	SubmitRetryLimit      int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),
		DataDir:  getEnv("DATA_DIR", "./data"),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		PersonaModelName: getEnv("PERSONA_MODEL_NAME", "claude-sonnet-4-20250514"),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		InterviewModelName: getEnv("INTERVIEW_MODEL_NAME", "gpt-4o-mini"),
	}

	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.FreeChatTurnThreshold, err = getInt("FREECHAT_TURN_THRESHOLD", 3); err != nil {
		return nil, err
	}
	if cfg.InterviewTurnCap, err = getInt("INTERVIEW_TURN_CAP", 6); err != nil {
		return nil, err
	}
	if cfg.MinContentAnswerLen, err = getInt("MIN_CONTENT_ANSWER_LEN", 3); err != nil {
		return nil, err
	}
	if cfg.SubmitRetryLimit, err = getInt("SUBMIT_RETRY_LIMIT", 3); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
