package internalapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// AppendMessage appends a message to a participant's history.
// POST /sessions/:code/participant/:user_id
func (h *Handler) AppendMessage(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return httperror.JSON(c, err)
	}
	var req domain.AppendMessageRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		msg, err := s.AppendMessage(ctx, id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, msg)
	})
}

// GetHistory returns a participant's conversation.
// GET /sessions/:code/participant/:user_id/history
func (h *Handler) GetHistory(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return httperror.JSON(c, err)
	}
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		history, err := s.GetHistory(ctx, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, history)
	})
}
