package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/service"
)

// ChatRequest is the turn submission payload.
type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id"`
}

// Chat submits one turn and streams the response as Server-Sent Events.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	ctx := c.Request().Context()
	events, err := h.service.StartTurn(ctx, service.TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to start turn"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming not supported")
	}

	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data); err != nil {
			// Client went away; the producer notices via the request context.
			return nil
		}
		flusher.Flush()
	}
	return nil
}
