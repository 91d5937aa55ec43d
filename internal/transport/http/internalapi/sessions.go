package internalapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// CreateSession creates the session of an instance.
// POST /sessions/:code/session
func (h *Handler) CreateSession(c echo.Context) error {
	var req domain.CreateSessionRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		session, err := s.CreateSession(ctx, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, session)
	})
}

// GetSession returns the session record.
// GET /sessions/:code/session
func (h *Handler) GetSession(c echo.Context) error {
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		session, err := s.GetSession(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, session)
	})
}

// JoinSession adds a participant.
// POST /sessions/:code/session/join
func (h *Handler) JoinSession(c echo.Context) error {
	var req domain.JoinSessionRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		participant, err := s.JoinSession(ctx, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, participant)
	})
}

// ListParticipants returns every participant.
// GET /sessions/:code/session/participants
func (h *Handler) ListParticipants(c echo.Context) error {
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		participants, err := s.ListParticipants(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, participants)
	})
}
