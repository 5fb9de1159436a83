// Package v1 provides the public HTTP handlers for the orchestrator.
package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/service"
)

// ServiceName identifies the process in health and root responses.
const ServiceName = "helpdesk-orchestrator"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)

	e.GET("/sessions/:session_id", h.GetSession)
	e.DELETE("/sessions/:session_id", h.DeleteSession)
	e.GET("/v1/sessions/:session_id/turns", h.GetSessionTurns)

	e.GET("/health", h.Health)
	e.GET("/", h.Root)
}

// Health returns process status and the count of live sessions.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"timestamp":       time.Now().Format(time.RFC3339),
		"service":         ServiceName,
		"agents":          domain.Categories,
		"sessions_active": h.service.SessionCount(),
	})
}

// Root returns API information.
// GET /
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service": ServiceName,
		"version": "1.0.0",
		"status":  "operational",
		"endpoints": map[string]string{
			"chat":     "/chat (POST)",
			"ws_chat":  "/ws/chat (GET)",
			"health":   "/health (GET)",
			"sessions": "/sessions/{session_id} (GET, DELETE)",
			"turns":    "/v1/sessions/{session_id}/turns (GET)",
			"metrics":  "/metrics (GET)",
		},
		"agents": []map[string]string{
			{"name": "billing", "strategy": "hybrid cache+lookup"},
			{"name": "technical", "strategy": "pure lookup"},
			{"name": "policy", "strategy": "pure cache"},
		},
	})
}
