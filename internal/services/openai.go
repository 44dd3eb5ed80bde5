package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sunvale/sevendays/pkg/chat"
	"github.com/sunvale/sevendays/pkg/prompts"
	"github.com/sunvale/sevendays/pkg/textfilter"
)

const (
	interviewHistoryLimit = 16
	interviewMaxTokens    = 512
	summaryMaxTokens      = 2048
)

// OpenAIInterviewService implements InterviewBackend on the OpenAI
// chat-completions API.
type OpenAIInterviewService struct {
	client    *openai.Client
	modelName string
	filter    *textfilter.Filter
	logger    *slog.Logger
}

var _ InterviewBackend = (*OpenAIInterviewService)(nil)

// NewOpenAIInterviewService creates the interview backend adapter.
func NewOpenAIInterviewService(apiKey, modelName string, logger *slog.Logger) *OpenAIInterviewService {
	return &OpenAIInterviewService{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		filter:    textfilter.New(),
		logger:    logger,
	}
}

// StartInterview runs one free-form interview turn with full context.
func (o *OpenAIInterviewService) StartInterview(ctx context.Context, req InterviewRequest) (*InterviewResponse, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompts.InterviewSystem(req.NPC, req.MealType, req.FixedAnswers, req.Lang)},
	}
	for _, m := range req.Transcript.Tail(interviewHistoryLimit) {
		role := openai.ChatMessageRoleUser
		if m.Role == chat.ChatRoleAgent {
			role = openai.ChatMessageRoleAssistant
		} else if m.Role == chat.ChatRoleSystem {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserMessage,
	})

	completion, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.modelName,
		MaxTokens: interviewMaxTokens,
		Messages:  messages,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: interview completion failed: %v", ErrBackendUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: interview API returned no choices", ErrBackendUnavailable)
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	isComplete := strings.Contains(text, prompts.InterviewDoneMarker)
	text = strings.TrimSpace(strings.ReplaceAll(text, prompts.InterviewDoneMarker, ""))
	if text == "" {
		return nil, fmt.Errorf("%w: interview API returned no text", ErrBackendUnavailable)
	}

	return &InterviewResponse{Text: o.filter.Clean(text), IsComplete: isComplete}, nil
}

// GenerateFinalSummary produces the end-of-game artifacts from the full
// meal diary.
func (o *OpenAIInterviewService) GenerateFinalSummary(ctx context.Context, req SummaryRequest) (*Summary, error) {
	diary, err := json.Marshal(req.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meal diary: %w", err)
	}

	completion, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.modelName,
		MaxTokens: summaryMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.SummarySystem(req.Lang)},
			{Role: openai.ChatMessageRoleUser, Content: string(diary)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: summary completion failed: %v", ErrBackendUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: summary API returned no choices", ErrBackendUnavailable)
	}

	raw := completion.Choices[0].Message.Content
	var summary Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		// Unstructured output still beats losing the content.
		o.logger.Warn("summary response was not valid JSON, keeping raw text", "error", err)
		return &Summary{Letter: strings.TrimSpace(raw)}, nil
	}
	return &summary, nil
}
