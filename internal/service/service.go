// Package service drives a turn through the full pipeline: classify the
// message, assemble context with the category's strategy, generate the
// response, persist it on the session, and stream it back to the caller.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/adapter/llm"
	"github.com/xiaot623/helpdesk/internal/classify"
	"github.com/xiaot623/helpdesk/internal/config"
	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/observability"
	"github.com/xiaot623/helpdesk/internal/repository"
	"github.com/xiaot623/helpdesk/internal/retrieval"
	"github.com/xiaot623/helpdesk/internal/session"
)

// ErrTranscriptsDisabled is returned when transcript reads are requested but
// no transcript store is configured.
var ErrTranscriptsDisabled = errors.New("transcript store is not configured")

// Service owns the turn pipeline and the session table.
type Service struct {
	sessions    *session.Manager
	retriever   *retrieval.Retriever
	classifier  *classify.Classifier
	generator   llm.Client
	transcripts *repository.TranscriptStore // nil disables transcript recording
	config      *config.Config
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// New wires the service's dependencies.
func New(
	sessions *session.Manager,
	retriever *retrieval.Retriever,
	classifier *classify.Classifier,
	generator llm.Client,
	transcripts *repository.TranscriptStore,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		sessions:    sessions,
		retriever:   retriever,
		classifier:  classifier,
		generator:   generator,
		transcripts: transcripts,
		config:      cfg,
		logger:      logger,
		metrics:     metrics,
	}
}

// SessionInfo is the read-only introspection view of a session.
type SessionInfo struct {
	SessionID        string          `json:"session_id"`
	MessageCount     int             `json:"message_count"`
	CurrentAgent     domain.Category `json:"current_agent,omitempty"`
	HasCachedBilling bool            `json:"has_cached_billing"`
	Metadata         map[string]any  `json:"metadata"`
}

// GetSessionInfo returns the introspection view for a live session. The read
// is taken as a snapshot under the session's turn lock so it never races an
// in-flight turn.
func (s *Service) GetSessionInfo(id string) (*SessionInfo, error) {
	snap, ok := s.sessions.Snapshot(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &SessionInfo{
		SessionID:        snap.ID,
		MessageCount:     snap.MessageCount,
		CurrentAgent:     snap.ActiveCategory,
		HasCachedBilling: snap.HasBillingCache,
		Metadata:         snap.Metadata,
	}, nil
}

// DeleteSession removes a session; a later read or delete of the same id
// behaves as not found.
func (s *Service) DeleteSession(id string) error {
	if !s.sessions.Delete(id) {
		return domain.ErrNotFound
	}
	s.logger.Info("deleted session", zap.String("session_id", id))
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Count()
}

// SessionTurns reads the recorded transcript for a session.
func (s *Service) SessionTurns(ctx context.Context, sessionID string, limit int) ([]repository.Turn, error) {
	if s.transcripts == nil {
		return nil, ErrTranscriptsDisabled
	}
	return s.transcripts.ListTurns(ctx, sessionID, limit)
}
