package http

import (
	"context"

	"tradequote_backend/platform/config"
	"tradequote_backend/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP server configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health checks are reported by name on the health endpoint. A failing
	// check degrades the report but never fails the endpoint: the pipeline is
	// designed to answer even with its optional collaborators down.
	Health map[string]HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
