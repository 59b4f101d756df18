// Package quote provides the quote generation bounded context.
package quote

import (
	"context"

	"tradequote_backend/internal/catalog/client"
	apphttp "tradequote_backend/internal/http"
	"tradequote_backend/internal/quote/handler"
	"tradequote_backend/internal/quote/service"
	"tradequote_backend/platform/ai/textgen"
	"tradequote_backend/platform/logger"
	"tradequote_backend/platform/validator"
)

// Searcher is the catalog dependency of the quote pipeline. Nil disables
// product search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]client.Product, error)
}

// Module wires the quote pipeline behind its HTTP endpoints.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the quote module.
func NewModule(ai textgen.Completer, catalog Searcher, params service.Params, validate *validator.Validator, log *logger.Logger) *Module {
	var searcher service.Searcher
	if catalog != nil {
		searcher = catalog
	}
	svc := service.New(ai, searcher, params, log)
	return &Module{handler: handler.New(svc, validate, log)}
}

// Name implements the http.Module interface.
func (m *Module) Name() string {
	return "quote"
}

// RegisterRoutes mounts the quote endpoints on /api/v1.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/quotes/generate", m.handler.Generate)
}
