// Package internalapi is the operation surface of the session actors. Every
// route addresses one actor instance by session code and runs inside that
// instance's critical section.
package internalapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// Handler routes internal requests to actor instances.
type Handler struct {
	namespace *actor.Namespace
}

// NewHandler creates a new internal API handler.
func NewHandler(namespace *actor.Namespace) *Handler {
	return &Handler{
		namespace: namespace,
	}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/sessions/:code")

	// Session lifecycle
	g.POST("/session", h.CreateSession)
	g.GET("/session", h.GetSession)
	g.POST("/session/join", h.JoinSession)
	g.GET("/session/participants", h.ListParticipants)

	// Conversation
	g.POST("/participant/:user_id", h.AppendMessage)
	g.GET("/participant/:user_id/history", h.GetHistory)

	// Proposals
	g.POST("/analyze", h.RecordProposals)
	g.GET("/proposals", h.ListProposals)
	g.POST("/finalize", h.Finalize)
}

// do runs fn on the instance named by the :code parameter and maps errors.
func (h *Handler) do(c echo.Context, fn func(ctx context.Context, s *actor.Scheduler) error) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return httperror.JSON(c, domain.NewValidationError("sessionCode", "is required"))
	}
	ctx := c.Request().Context()
	err := h.namespace.Do(ctx, code, func(s *actor.Scheduler) error {
		return fn(ctx, s)
	})
	if err != nil {
		if c.Response().Committed {
			return err
		}
		return httperror.JSON(c, err)
	}
	return nil
}

// userID returns the :user_id parameter, rejecting blank values. Echo
// matches on the raw path when the request carries one, leaving the
// parameter escaped.
func userID(c echo.Context) (string, error) {
	id := c.Param("user_id")
	if c.Request().URL.RawPath != "" {
		unescaped, err := url.PathUnescape(id)
		if err != nil {
			return "", domain.NewValidationError("userId", "is not a valid path segment")
		}
		id = unescaped
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.NewValidationError("userId", "is required")
	}
	return id, nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return domain.NewValidationError("body", "invalid request body")
	}
	return nil
}
