package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/adapter/llm"
	"github.com/xiaot623/helpdesk/internal/domain"
)

func TestClassifyValidLabels(t *testing.T) {
	cases := []struct {
		label string
		want  domain.Category
	}{
		{"billing", domain.CategoryBilling},
		{"technical", domain.CategoryTechnical},
		{"policy", domain.CategoryPolicy},
		{" Billing \n", domain.CategoryBilling},
		{"POLICY", domain.CategoryPolicy},
	}
	for _, tc := range cases {
		mock := llm.NewMockClient()
		mock.Enqueue(tc.label)
		c := New(mock, zap.NewNop(), nil)

		got := c.Classify(context.Background(), "some question")
		if got != tc.want {
			t.Fatalf("Classify with label %q = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestClassifyUnparseableDefaultsToTechnical(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Enqueue("I think this is probably a billing question")
	c := New(mock, zap.NewNop(), nil)

	if got := c.Classify(context.Background(), "question"); got != domain.CategoryTechnical {
		t.Fatalf("unparseable label routed to %q, want technical", got)
	}
}

func TestClassifyErrorDefaultsToTechnical(t *testing.T) {
	mock := llm.NewMockClient()
	mock.EnqueueError(errors.New("provider unavailable"))
	c := New(mock, zap.NewNop(), nil)

	if got := c.Classify(context.Background(), "question"); got != domain.CategoryTechnical {
		t.Fatalf("failed classification routed to %q, want technical", got)
	}
}

func TestClassifyRequestShape(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Enqueue("policy")
	c := New(mock, zap.NewNop(), nil)

	c.Classify(context.Background(), "what are my GDPR rights?")

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	req := calls[0]
	if req.Temperature != 0 {
		t.Fatalf("classification temperature = %v, want 0", req.Temperature)
	}
	if req.MaxTokens != classificationMaxTokens {
		t.Fatalf("classification max tokens = %d, want %d", req.MaxTokens, classificationMaxTokens)
	}
	if !strings.Contains(req.Prompt, "what are my GDPR rights?") {
		t.Fatal("prompt missing user message")
	}
	if !strings.Contains(req.Prompt, "Respond with ONLY ONE WORD") {
		t.Fatal("prompt missing single-word instruction")
	}
}
