package http

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"bankfacts/internal/dataprocessing"
	"bankfacts/internal/errors"
)

// PipelineRunner is the service surface the pipeline handler needs. Defined
// here so handler tests can substitute a fake.
type PipelineRunner interface {
	Run(ctx context.Context) (*dataprocessing.RunResult, error)
	Latest() (*dataprocessing.RunResult, bool)
}

// PipelineHandler handles pipeline-related HTTP requests
type PipelineHandler struct {
	service PipelineRunner
	logger  *slog.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(service PipelineRunner, logger *slog.Logger) *PipelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "pipeline")),
	}
}

// Run handles POST /api/v1/pipeline/run
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Insights handles GET /api/v1/insights
func (h *PipelineHandler) Insights(w http.ResponseWriter, r *http.Request) {
	result, ok := h.service.Latest()
	if !ok {
		render.Render(w, r, errors.NewErrorResponse(errors.ErrNoRunYet))
		return
	}
	render.JSON(w, r, result.Insights)
}

// MonthlySummary handles GET /api/v1/insights/monthly
func (h *PipelineHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	result, ok := h.service.Latest()
	if !ok {
		render.Render(w, r, errors.NewErrorResponse(errors.ErrNoRunYet))
		return
	}
	render.JSON(w, r, result.Insights.Monthly)
}

// HighValueCustomers handles GET /api/v1/insights/high-value-customers
func (h *PipelineHandler) HighValueCustomers(w http.ResponseWriter, r *http.Request) {
	result, ok := h.service.Latest()
	if !ok {
		render.Render(w, r, errors.NewErrorResponse(errors.ErrNoRunYet))
		return
	}
	render.JSON(w, r, result.Insights.HighValue)
}

// CategoryAnalysis handles GET /api/v1/insights/categories
func (h *PipelineHandler) CategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	result, ok := h.service.Latest()
	if !ok {
		render.Render(w, r, errors.NewErrorResponse(errors.ErrNoRunYet))
		return
	}
	render.JSON(w, r, result.Insights.Categories)
}

func (h *PipelineHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "pipeline request failed",
		slog.String("error", err.Error()))

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		render.Render(w, r, errors.NewErrorResponse(errors.FromAppError(appErr)))
		return
	}
	render.Render(w, r, errors.NewErrorResponse(errors.ErrInternalServer))
}
