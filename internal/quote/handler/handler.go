// Package handler exposes the quote module's HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradequote_backend/internal/quote/transport"
	"tradequote_backend/platform/httpkit"
	"tradequote_backend/platform/logger"
	"tradequote_backend/platform/validator"
)

// Generator is the quote service as seen by the HTTP layer.
type Generator interface {
	Generate(ctx context.Context, req transport.GenerateQuoteRequest) (transport.QuoteResponse, error)
}

// Handler handles quote generation requests.
type Handler struct {
	service  Generator
	validate *validator.Validator
	log      *logger.Logger
}

// New creates a quote handler.
func New(service Generator, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, validate: validate, log: log}
}

// Generate handles POST /quotes/generate. Input rejection happens here, before
// any pipeline work: a request that fails binding, tag validation or the
// blank-description check never reaches the service.
func (h *Handler) Generate(c *gin.Context) {
	var req transport.GenerateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		httpkit.Error(c, http.StatusBadRequest, "jobDescription is required", nil)
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		h.log.WithContext(c.Request.Context()).Error("quote generation failed", "error", err)
		return
	}

	httpkit.OK(c, resp)
}
