package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockClient is an in-process stand-in for a generation provider. Without
// scripted responses it produces deterministic canned output, which keeps the
// full pipeline usable in mock mode and in tests.
type MockClient struct {
	mu        sync.Mutex
	calls     []CompletionRequest
	responses []mockResponse
}

type mockResponse struct {
	text string
	err  error
}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Enqueue scripts the next response text.
func (m *MockClient) Enqueue(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{text: text})
}

// EnqueueError scripts the next call to fail.
func (m *MockClient) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{err: err})
}

// Calls returns a copy of every request seen so far.
func (m *MockClient) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete records the request and returns the next scripted response, or a
// canned one derived from the prompt.
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	if len(m.responses) > 0 {
		next := m.responses[0]
		m.responses = m.responses[1:]
		m.mu.Unlock()
		return next.text, next.err
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.cannedResponse(req.Prompt), nil
}

// cannedResponse keeps mock mode coherent: routing prompts get a category
// word, everything else gets a short mock answer.
func (m *MockClient) cannedResponse(prompt string) string {
	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "query router") {
		switch {
		case containsAny(lower, "price", "pricing", "cost", "invoice", "refund", "payment", "subscription", "plan"):
			return "billing"
		case containsAny(lower, "privacy", "gdpr", "cookie", "terms", "compliance", "legal"):
			return "policy"
		default:
			return "technical"
		}
	}
	return fmt.Sprintf("[MOCK] Here is what I found for your question: %s", firstLine(prompt))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 100 {
		s = s[:100] + "..."
	}
	return s
}
