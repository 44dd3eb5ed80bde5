package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sunvale/sevendays/pkg/chat"
	"github.com/sunvale/sevendays/pkg/prompts"
	"github.com/sunvale/sevendays/pkg/textfilter"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicTemperature = 0.7
	DefaultAnthropicMaxTokens   = 1024

	// personaHistoryLimit caps how much conversation is replayed per
	// persona turn.
	personaHistoryLimit = 12
)

// AnthropicPersonaService implements PersonaBackend on the Anthropic
// Messages API.
type AnthropicPersonaService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	filter     *textfilter.Filter
	logger     *slog.Logger
}

var _ PersonaBackend = (*AnthropicPersonaService)(nil)

type anthropicChatRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []chat.ChatMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicChatResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicPersonaService creates the persona backend adapter.
func NewAnthropicPersonaService(apiKey, modelName string, timeout time.Duration, logger *slog.Logger) *AnthropicPersonaService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnthropicPersonaService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		filter: textfilter.New(),
		logger: logger,
	}
}

// StartPersonaChat runs one in-character chat turn.
func (a *AnthropicPersonaService) StartPersonaChat(ctx context.Context, req PersonaRequest) (*PersonaResponse, error) {
	token := req.SessionToken
	if token == "" {
		token = uuid.New().String()
	}

	messages := make([]chat.ChatMessage, 0, personaHistoryLimit+1)
	for _, m := range req.Transcript.Tail(personaHistoryLimit) {
		if m.Role == chat.ChatRoleSystem {
			continue
		}
		messages = append(messages, m)
	}
	if req.Greeting {
		messages = append(messages, chat.ChatMessage{
			Role:    chat.ChatRoleUser,
			Content: prompts.GreetingCue(req.Lang),
		})
	} else {
		messages = append(messages, chat.ChatMessage{
			Role:    chat.ChatRoleUser,
			Content: req.Message,
		})
	}

	temperature := DefaultAnthropicTemperature
	body, err := json.Marshal(anthropicChatRequest{
		Model:       a.modelName,
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		System:      prompts.PersonaSystem(req.NPC, req.Lang),
		Messages:    messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal persona request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL+"/messages", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create persona request: %w", err)
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: persona request failed: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read persona response: %v", ErrBackendUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: persona API status %d: %s", ErrBackendUnavailable, resp.StatusCode, string(respBody))
	}

	var parsed anthropicChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse persona response: %v", ErrBackendUnavailable, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: persona API error: %s", ErrBackendUnavailable, parsed.Error.Message)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	reply := strings.TrimSpace(text.String())
	if reply == "" {
		return nil, fmt.Errorf("%w: persona API returned no text", ErrBackendUnavailable)
	}

	return &PersonaResponse{Text: a.filter.Clean(reply), SessionToken: token}, nil
}
