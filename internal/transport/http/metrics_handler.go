package http

import (
	"net/http"

	apierrors "fundingdash/internal/errors"
)

// MetricsHandler serves the Prometheus scrape endpoint
type MetricsHandler struct {
	prom         http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. prom may be nil when the
// Prometheus exporter is disabled.
func NewMetricsHandler(prom http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{prom: prom, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.prom == nil {
		h.errorHandler.HandleError(w, r, apierrors.MetricsDisabledError())
		return
	}
	h.prom.ServeHTTP(w, r)
}
