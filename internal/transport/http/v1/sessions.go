package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// CreateSession handles POST /api/session.
func (h *Handler) CreateSession(c echo.Context) error {
	var req domain.CreateSessionRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	session, err := h.service.CreateSession(c.Request().Context(), req)
	return respond(c, http.StatusCreated, session, err)
}

// GetSession handles GET /api/session?code=.
func (h *Handler) GetSession(c echo.Context) error {
	code, err := queryCode(c)
	if err != nil {
		return httperror.JSON(c, err)
	}
	session, err := h.service.GetSession(c.Request().Context(), code)
	return respond(c, http.StatusOK, session, err)
}

// JoinSession handles POST /api/session/join.
func (h *Handler) JoinSession(c echo.Context) error {
	var req domain.JoinSessionRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	resp, err := h.service.JoinSession(c.Request().Context(), req)
	return respond(c, http.StatusOK, resp, err)
}

// ListParticipants handles GET /api/session/participants?code=.
func (h *Handler) ListParticipants(c echo.Context) error {
	code, err := queryCode(c)
	if err != nil {
		return httperror.JSON(c, err)
	}
	participants, err := h.service.ListParticipants(c.Request().Context(), code)
	return respond(c, http.StatusOK, participants, err)
}

// ListProposals handles GET /api/session/proposals?code=.
func (h *Handler) ListProposals(c echo.Context) error {
	code, err := queryCode(c)
	if err != nil {
		return httperror.JSON(c, err)
	}
	proposals, err := h.service.ListProposals(c.Request().Context(), code)
	return respond(c, http.StatusOK, proposals, err)
}

// Finalize handles POST /api/session/finalize.
func (h *Handler) Finalize(c echo.Context) error {
	var req domain.FinalizeRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	session, err := h.service.Finalize(c.Request().Context(), req)
	return respond(c, http.StatusOK, session, err)
}

// Admin handles GET /api/admin?code=. It returns the full session record.
func (h *Handler) Admin(c echo.Context) error {
	code, err := queryCode(c)
	if err != nil {
		return httperror.JSON(c, err)
	}
	view, err := h.service.Admin(c.Request().Context(), code)
	return respond(c, http.StatusOK, view, err)
}
