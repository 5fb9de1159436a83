// Package ws delivers the turn event stream over a WebSocket connection as
// an alternative to SSE. The event sequence and payloads are identical.
package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/helpdesk/internal/domain"
	"github.com/xiaot623/helpdesk/internal/service"
)

const writeTimeout = 10 * time.Second

// turnRequest is the single message a client sends after connecting.
type turnRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Handler upgrades connections and bridges the turn stream onto them.
type Handler struct {
	service  *service.Service
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/chat", h.HandleChat)
}

// HandleChat upgrades the connection, reads one turn request, and writes the
// ordered event sequence before closing.
func (h *Handler) HandleChat(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	var req turnRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeEvent(conn, domain.NewErrorEvent("invalid request payload"))
		return nil
	}

	events, err := h.service.StartTurn(c.Request().Context(), service.TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			h.writeEvent(conn, domain.NewErrorEvent(err.Error()))
		} else {
			h.writeEvent(conn, domain.NewErrorEvent("failed to start turn"))
		}
		return nil
	}

	for ev := range events {
		if err := h.writeEvent(conn, ev); err != nil {
			// Consumer went away; the producer notices via the request context.
			return nil
		}
	}

	deadline := time.Now().Add(writeTimeout)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return nil
}

func (h *Handler) writeEvent(conn *websocket.Conn, ev domain.StreamEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(ev)
}
