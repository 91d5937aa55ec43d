// Package v1 provides the public HTTP API of the scheduler.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/service"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Sessions
	e.POST("/api/session", h.CreateSession)
	e.GET("/api/session", h.GetSession)
	e.POST("/api/session/join", h.JoinSession)
	e.GET("/api/session/participants", h.ListParticipants)

	// Scheduling
	e.POST("/api/chat", h.Chat)
	e.GET("/api/session/proposals", h.ListProposals)
	e.POST("/api/session/finalize", h.Finalize)

	// Operators
	e.GET("/api/admin", h.Admin)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}
	return nil
}

func queryCode(c echo.Context) (string, error) {
	code := c.QueryParam("code")
	if code == "" {
		return "", domain.NewValidationError("code", "is required")
	}
	return code, nil
}

func respond(c echo.Context, status int, v any, err error) error {
	if err != nil {
		return httperror.JSON(c, err)
	}
	return c.JSON(status, v)
}
