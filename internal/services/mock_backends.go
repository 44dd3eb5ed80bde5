package services

import (
	"context"
	"sync"
)

// MockPersonaBackend is a test double for PersonaBackend.
type MockPersonaBackend struct {
	StartPersonaChatFunc func(ctx context.Context, req PersonaRequest) (*PersonaResponse, error)

	mu    sync.Mutex
	Calls []PersonaRequest
}

var _ PersonaBackend = (*MockPersonaBackend)(nil)

// NewMockPersonaBackend creates a persona mock that echoes by default.
func NewMockPersonaBackend() *MockPersonaBackend {
	return &MockPersonaBackend{}
}

func (m *MockPersonaBackend) StartPersonaChat(ctx context.Context, req PersonaRequest) (*PersonaResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	fn := m.StartPersonaChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	token := req.SessionToken
	if token == "" {
		token = "mock-token"
	}
	return &PersonaResponse{Text: "Well met, traveler.", SessionToken: token}, nil
}

// CallCount returns how many persona turns were requested.
func (m *MockPersonaBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// SetError makes every call fail with err.
func (m *MockPersonaBackend) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartPersonaChatFunc = func(context.Context, PersonaRequest) (*PersonaResponse, error) {
		return nil, err
	}
}

// SetReply makes every call return the given text.
func (m *MockPersonaBackend) SetReply(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartPersonaChatFunc = func(_ context.Context, req PersonaRequest) (*PersonaResponse, error) {
		token := req.SessionToken
		if token == "" {
			token = "mock-token"
		}
		return &PersonaResponse{Text: text, SessionToken: token}, nil
	}
}

// MockInterviewBackend is a test double for InterviewBackend.
type MockInterviewBackend struct {
	StartInterviewFunc       func(ctx context.Context, req InterviewRequest) (*InterviewResponse, error)
	GenerateFinalSummaryFunc func(ctx context.Context, req SummaryRequest) (*Summary, error)

	mu             sync.Mutex
	InterviewCalls []InterviewRequest
	SummaryCalls   []SummaryRequest
}

var _ InterviewBackend = (*MockInterviewBackend)(nil)

// NewMockInterviewBackend creates an interview mock that keeps asking
// by default.
func NewMockInterviewBackend() *MockInterviewBackend {
	return &MockInterviewBackend{}
}

func (m *MockInterviewBackend) StartInterview(ctx context.Context, req InterviewRequest) (*InterviewResponse, error) {
	m.mu.Lock()
	m.InterviewCalls = append(m.InterviewCalls, req)
	fn := m.StartInterviewFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &InterviewResponse{Text: "Mm. And what else?"}, nil
}

func (m *MockInterviewBackend) GenerateFinalSummary(ctx context.Context, req SummaryRequest) (*Summary, error) {
	m.mu.Lock()
	m.SummaryCalls = append(m.SummaryCalls, req)
	fn := m.GenerateFinalSummaryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &Summary{
		Letter:          "A letter.",
		SevenDaySummary: "Seven days of meals.",
		HealthNotes:     "Eat greens.",
		Recipe:          "Congee.",
	}, nil
}

// InterviewCallCount returns how many interview turns were requested.
func (m *MockInterviewBackend) InterviewCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.InterviewCalls)
}

// SetInterviewError makes every interview call fail with err.
func (m *MockInterviewBackend) SetInterviewError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartInterviewFunc = func(context.Context, InterviewRequest) (*InterviewResponse, error) {
		return nil, err
	}
}

// SetInterviewReply makes every interview call return the given reply.
func (m *MockInterviewBackend) SetInterviewReply(text string, complete bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartInterviewFunc = func(context.Context, InterviewRequest) (*InterviewResponse, error) {
		return &InterviewResponse{Text: text, IsComplete: complete}, nil
	}
}
