package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the API router: run trigger, insight reads, health and
// Prometheus metrics.
func NewRouter(service PipelineRunner, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	health := NewHealthHandler()
	pipeline := NewPipelineHandler(service, logger)

	r.Get("/api/health", health.HealthCheck)
	r.Get("/api/version", health.Version)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pipeline/run", pipeline.Run)
		r.Get("/insights", pipeline.Insights)
		r.Get("/insights/monthly", pipeline.MonthlySummary)
		r.Get("/insights/high-value-customers", pipeline.HighValueCustomers)
		r.Get("/insights/categories", pipeline.CategoryAnalysis)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger logs each request through slog with method, path, status and
// duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)))
		})
	}
}
