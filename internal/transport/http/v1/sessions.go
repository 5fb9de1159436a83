package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/service"
)

// GetSession returns the read-only introspection view of a session.
// GET /sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	info, err := h.service.GetSessionInfo(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, info)
}

// DeleteSession removes a session.
// DELETE /sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	if err := h.service.DeleteSession(sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}

// GetSessionTurns returns the recorded transcript for a session.
// GET /v1/sessions/:session_id/turns
func (h *Handler) GetSessionTurns(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	turns, err := h.service.SessionTurns(c.Request().Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, service.ErrTranscriptsDisabled) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "transcript store is disabled"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"turns": turns})
}
