// Package classify routes free-text queries to one of the three support
// categories using a remote single-label classification call.
package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/adapter/llm"
	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/observability"
)

// routingPrompt instructs the model to answer with exactly one lowercase
// category word.
const routingPrompt = `You are a customer service query router. Analyze the user's message and classify it into ONE of these categories:

1. BILLING - Questions about:
   - Pricing plans and costs
   - Invoices and charges
   - Payment terms and methods
   - Refunds and cancellations
   - Subscription upgrades or downgrades

2. TECHNICAL - Questions about:
   - Login or access issues
   - Performance or speed problems
   - API integration errors
   - Mobile app problems
   - Bug reports or technical troubleshooting
   - How-to guides for technical features

3. POLICY - Questions about:
   - Terms of Service
   - Privacy Policy
   - Data protection and GDPR
   - Cookie policies
   - Acceptable use policies
   - Legal compliance

Respond with ONLY ONE WORD: billing, technical, or policy

User message: %s

Category:`

const classificationMaxTokens = 10

// Classifier maps message text to a category, defaulting to technical on
// any provider failure or unparseable label so every turn gets a route.
type Classifier struct {
	client  llm.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New creates a Classifier over the given routing client.
func New(client llm.Client, logger *zap.Logger, metrics *observability.Metrics) *Classifier {
	return &Classifier{client: client, logger: logger, metrics: metrics}
}

// Classify resolves the category for the raw message text. It never fails.
func (c *Classifier) Classify(ctx context.Context, message string) domain.Category {
	label, err := c.client.Complete(ctx, llm.CompletionRequest{
		Prompt:      fmt.Sprintf(routingPrompt, message),
		Temperature: 0,
		MaxTokens:   classificationMaxTokens,
	})
	if err != nil {
		c.logger.Warn("classification call failed, defaulting to technical", zap.Error(err))
		c.metrics.ClassifierFallback()
		return domain.CategoryTechnical
	}

	category, ok := domain.ParseCategory(label)
	if !ok {
		c.logger.Warn("unclear routing decision, defaulting to technical",
			zap.String("label", label))
		c.metrics.ClassifierFallback()
		return domain.CategoryTechnical
	}
	return category
}
