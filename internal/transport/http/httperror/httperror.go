// Package httperror maps domain errors onto HTTP responses for both servers.
package httperror

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

// Body is the JSON error document.
type Body struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status returns the HTTP status for err.
func Status(err error) int {
	var verr *domain.ValidationError
	var uerr *domain.UpstreamError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrProposalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.As(err, &uerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes err with its mapped status.
func JSON(c echo.Context, err error) error {
	status := Status(err)
	body := Body{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.FieldErrors
	}
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return c.JSON(status, body)
}

// Handler is an echo.HTTPErrorHandler rendering every error as a JSON body.
// Unmatched routes become 404 {"error":"not found"}.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		switch {
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			he.Code = http.StatusNotFound
			msg = "not found"
		case he.Internal != nil:
			msg = he.Internal.Error()
		default:
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		if writeErr := c.JSON(he.Code, Body{Error: msg}); writeErr != nil {
			c.Logger().Error(writeErr)
		}
		return
	}

	if writeErr := JSON(c, err); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

// FromResponse rebuilds a domain error from a status code and error body
// returned by the internal server.
func FromResponse(status int, body Body) error {
	switch status {
	case http.StatusBadRequest:
		verr := &domain.ValidationError{}
		for field, msg := range body.Fields {
			verr.Add(field, msg)
		}
		if !verr.HasErrors() {
			verr.Add("request", body.Error)
		}
		return verr
	case http.StatusNotFound:
		switch body.Error {
		case domain.ErrParticipantNotFound.Error():
			return domain.ErrParticipantNotFound
		case domain.ErrProposalNotFound.Error():
			return domain.ErrProposalNotFound
		default:
			return domain.ErrSessionNotFound
		}
	case http.StatusConflict:
		if body.Error == domain.ErrSessionExists.Error() {
			return domain.ErrSessionExists
		}
		return &wrapped{sentinel: domain.ErrInvalidTransition, msg: body.Error}
	default:
		return &wrapped{msg: body.Error, status: status}
	}
}

// wrapped carries the remote message while still matching the sentinel.
type wrapped struct {
	sentinel error
	msg      string
	status   int
}

func (w *wrapped) Error() string {
	if w.msg == "" && w.status != 0 {
		return http.StatusText(w.status)
	}
	return w.msg
}

func (w *wrapped) Unwrap() error {
	return w.sentinel
}
