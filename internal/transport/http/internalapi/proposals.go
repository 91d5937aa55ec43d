package internalapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// RecordProposals replaces the proposals and moves the session to analyzing.
// POST /sessions/:code/analyze
func (h *Handler) RecordProposals(c echo.Context) error {
	var req domain.RecordProposalsRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		session, err := s.RecordProposals(ctx, req.Proposals)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, session)
	})
}

// ListProposals returns the current proposals.
// GET /sessions/:code/proposals
func (h *Handler) ListProposals(c echo.Context) error {
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		proposals, err := s.ListProposals(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, proposals)
	})
}

// Finalize fixes the meeting time.
// POST /sessions/:code/finalize
func (h *Handler) Finalize(c echo.Context) error {
	var req domain.FinalizeRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	return h.do(c, func(ctx context.Context, s *actor.Scheduler) error {
		session, err := s.Finalize(ctx, req.ProposalID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, session)
	})
}
