package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/adapter/llm"
	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/repository"
)

// TurnRequest is one submitted user message, optionally bound to an
// existing session.
type TurnRequest struct {
	SessionID string
	Message   string
}

const (
	turnStatusCompleted = "completed"
	turnStatusFailed    = "failed"

	maxGenerateAttempts = 3
	streamBufferSize    = 32
)

// StartTurn validates the input, resolves the session, and runs the turn
// pipeline in the background. Events arrive on the returned channel in
// strict order: start, agent, tokens, then exactly one of complete/error.
// The channel is closed after the terminal event. Validation failures are
// returned synchronously and create no session.
func (s *Service) StartTurn(ctx context.Context, req TurnRequest) (<-chan domain.StreamEvent, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	sess, _, release := s.sessions.Checkout(req.SessionID)

	events := make(chan domain.StreamEvent, streamBufferSize)
	go s.runTurn(ctx, sess, release, req.Message, events)
	return events, nil
}

func (s *Service) runTurn(ctx context.Context, sess *domain.Session, release func(), message string, events chan<- domain.StreamEvent) {
	start := time.Now()
	streamDone := s.metrics.StreamStarted()

	released := false
	releaseSession := func() {
		if !released {
			released = true
			release()
		}
	}

	defer close(events)
	defer streamDone()
	defer releaseSession()
	defer func() {
		// Unexpected faults become a single error event; the stream never
		// ends without a terminal event.
		if r := recover(); r != nil {
			s.logger.Error("turn failed with internal error",
				zap.String("session_id", sess.ID), zap.Any("panic", r))
			s.emit(ctx, events, domain.NewErrorEvent(genericErrorMessage))
		}
	}()

	s.emit(ctx, events, domain.NewStartEvent(sess.ID))
	s.logger.Info("processing turn",
		zap.String("session_id", sess.ID), zap.Int("message_len", len(message)))

	sess.PendingInput = message
	sess.Append(domain.NewUserMessage(message))

	// Classification sees the raw input, not the retrieval-augmented prompt.
	category := s.classifier.Classify(ctx, message)
	s.emit(ctx, events, domain.NewAgentEvent(category))

	status := turnStatusCompleted
	var text string

	bundle, err := s.retriever.Retrieve(ctx, category, message, sess.BillingCache)
	if err != nil {
		s.logger.Error("context retrieval failed", zap.Error(err))
		text = fallbackResponses[category]
		status = turnStatusFailed
	} else {
		if bundle.CacheArtifact != nil {
			sess.SetBillingCache(*bundle.CacheArtifact)
			s.logger.Info("cached general billing context",
				zap.String("session_id", sess.ID))
		}

		text, err = s.generate(ctx, category, bundle.FormattedText, message)
		if err != nil {
			s.logger.Error("generation failed, recording fallback response",
				zap.String("category", string(category)), zap.Error(err))
			text = fallbackResponses[category]
			status = turnStatusFailed
		}
	}

	sess.Append(domain.NewAssistantMessage(text, category))
	sess.ActiveCategory = category
	sess.PendingInput = ""

	// Session mutation is complete; the next turn for this session may
	// proceed while we stream.
	releaseSession()

	s.recordTranscript(sess.ID, category, status, message, text, time.Since(start))

	s.streamTokens(ctx, events, text)
	s.emit(ctx, events, domain.NewCompleteEvent(sess.ID, category))
	s.metrics.ObserveTurn(category, status, time.Since(start))
}

// generate invokes the generation capability with the category's prompt and
// output cap, retrying transient rate-limiting failures with exponential
// backoff.
func (s *Service) generate(ctx context.Context, category domain.Category, contextText, question string) (string, error) {
	req := llm.CompletionRequest{
		Prompt:      buildPrompt(category, contextText, question),
		Temperature: generationTemperature,
		MaxTokens:   maxOutputTokens[category],
	}

	delay := s.config.RetryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		text, err := s.generator.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !llm.IsRateLimited(err) || attempt == maxGenerateAttempts {
			break
		}

		s.logger.Warn("rate limit hit, retrying generation",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxGenerateAttempts),
			zap.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return "", lastErr
}

// streamTokens splits the response into word-granularity increments and
// paces them onto the stream. The first word is bare; every later word is
// prefixed with a single space so increments concatenate to the response.
func (s *Service) streamTokens(ctx context.Context, events chan<- domain.StreamEvent, text string) {
	words := strings.Fields(text)
	for i, word := range words {
		token := word
		if i > 0 {
			token = " " + word
		}
		if !s.emit(ctx, events, domain.NewTokenEvent(token)) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.StreamDelay):
		}
	}
}

// emit delivers one event, giving up when the caller has gone away.
func (s *Service) emit(ctx context.Context, events chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Service) recordTranscript(sessionID string, category domain.Category, status, question, answer string, latency time.Duration) {
	if s.transcripts == nil {
		return
	}
	turn := &repository.Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Category:  category,
		Status:    status,
		Question:  question,
		Answer:    answer,
		LatencyMs: latency.Milliseconds(),
		CreatedAt: time.Now(),
	}
	// Transcript storage failure must not block the turn.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.transcripts.RecordTurn(ctx, turn); err != nil {
		s.logger.Warn("failed to record turn transcript",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}
