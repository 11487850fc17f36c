package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "fundingdash/internal/errors"
	"fundingdash/internal/services"
)

// HealthHandler serves the probe and version endpoints.
type HealthHandler struct {
	service      *services.HealthService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.HealthService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *HealthHandler {
	return &HealthHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "health")),
		errorHandler: errorHandler,
	}
}

// Routes returns the probe routes, mounted at /api/health.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)
	r.Get("/data", h.DataStatus)
	return r
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.HealthCheck(r.Context()))
}

// ReadinessCheck answers 503 until the funding data is loaded, so load
// balancers hold traffic while a bad input file keeps the table empty.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.LivenessCheck(r.Context()))
}

// DataStatus reports the source file, row count, load time and reload count.
func (h *HealthHandler) DataStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := h.service.DataStatus()
	if !ok {
		h.errorHandler.HandleError(w, r, apperrors.ErrServiceUnavailable)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   status,
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
