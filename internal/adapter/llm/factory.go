package llm

import (
	"os"

	"go.uber.org/zap"

	"github.com/xiaot623/helpdesk/internal/config"
)

const (
	// EnvHelpdeskMode is the environment variable name for mode selection.
	EnvHelpdeskMode = "HELPDESK_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewGenerator creates the response-generation client based on HELPDESK_MODE.
// If HELPDESK_MODE=MOCK, returns a MockClient; otherwise the OpenAI client.
func NewGenerator(cfg *config.Config, logger *zap.Logger) Client {
	if os.Getenv(EnvHelpdeskMode) == ModeMock {
		logger.Info("HELPDESK_MODE=MOCK detected, using mock generation client")
		return NewMockClient()
	}
	return NewOpenAIClient("", cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)
}

// NewRouter creates the classification client: the router endpoint when
// configured, latching to the generation provider on first failure.
func NewRouter(cfg *config.Config, logger *zap.Logger) Client {
	if os.Getenv(EnvHelpdeskMode) == ModeMock {
		logger.Info("HELPDESK_MODE=MOCK detected, using mock routing client")
		return NewMockClient()
	}

	fallback := NewOpenAIClient("", cfg.OpenAIAPIKey, cfg.RouterModel, cfg.LLMTimeout)
	var preferred Client
	if cfg.RouterBaseURL != "" {
		preferred = NewOpenAIClient(cfg.RouterBaseURL, cfg.RouterAPIKey, cfg.RouterModel, cfg.LLMTimeout)
	}
	return NewRoutingClient(preferred, fallback, logger)
}
