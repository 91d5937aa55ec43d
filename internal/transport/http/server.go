// Package http provides the HTTP servers of the scheduler.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/service"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/internalapi"
	v1 "github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/v1"
)

// NewExternalServer creates and configures the external-facing HTTP server.
// This server handles the public session, chat and admin API.
func NewExternalServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperror.Handler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	// Handlers
	v1Handler := v1.NewHandler(svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}

// NewInternalServer creates and configures the internal-facing HTTP server.
// This server exposes the session actors to the orchestration layer.
func NewInternalServer(namespace *actor.Namespace) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperror.Handler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Handlers
	internalHandler := internalapi.NewHandler(namespace)

	// Register Routes
	internalHandler.RegisterRoutes(e)

	return e
}
