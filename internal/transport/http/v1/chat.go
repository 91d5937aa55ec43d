package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// Chat handles POST /api/chat: one conversational turn with the assistant.
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := bind(c, &req); err != nil {
		return httperror.JSON(c, err)
	}
	resp, err := h.service.Chat(c.Request().Context(), req)
	return respond(c, http.StatusOK, resp, err)
}
