// Package http provides the HTTP server for the helpdesk orchestrator.
package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xiaot623/helpdesk/internal/service"
	v1 "github.com/xiaot623/helpdesk/internal/transport/http/v1"
	"github.com/xiaot623/helpdesk/internal/transport/ws"
)

// requestValidator adapts go-playground/validator to echo's Validator.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsHandler := ws.NewHandler(svc)

	// Register routes
	v1Handler.RegisterRoutes(e)
	wsHandler.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
