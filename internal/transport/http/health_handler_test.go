package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "fundingdash/internal/errors"
	"fundingdash/internal/services"
	"fundingdash/internal/shared/testutil"
)

type staticStatus services.DataStatus

func (s staticStatus) Status() services.DataStatus { return services.DataStatus(s) }

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loaded := staticStatus{Loaded: true, Source: "funding.csv", Rows: 8, LoadedAt: time.Now()}

	tests := []struct {
		name           string
		data           services.DataStatusProvider
		handler        func(*HealthHandler) http.HandlerFunc
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "health",
			data:           loaded,
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, "v1.0.0-test", body["version"])
			},
		},
		{
			name:           "ready",
			data:           loaded,
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ready", body["status"])
			},
		},
		{
			name:           "not ready before data loads",
			data:           staticStatus{},
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_ready", body["status"])
			},
		},
		{
			name:           "live",
			data:           staticStatus{},
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "alive", body["status"])
				assert.Contains(t, body, "runtime")
			},
		},
		{
			name:           "version",
			data:           loaded,
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.Version },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "v1.0.0-test", body["version"])
				assert.Equal(t, "2026-01-01T00:00:00Z", body["build_time"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewHealthService("v1.0.0-test", "2026-01-01T00:00:00Z", tt.data, logger)
			h := NewHealthHandler(svc, logger, apierrors.NewErrorHandler(logger, false))

			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}

func TestHealthHandler_Routes(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	loaded := staticStatus{Loaded: true, Source: "funding.csv", Rows: 8, LoadedAt: time.Now(), Reloads: 2}

	t.Run("data status", func(t *testing.T) {
		svc := services.NewHealthService("v1", "", loaded, logger)
		routes := NewHealthHandler(svc, logger, errorHandler).Routes()

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status string              `json:"status"`
			Data   services.DataStatus `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, 8, body.Data.Rows)
		assert.Equal(t, "funding.csv", body.Data.Source)
		assert.Equal(t, 2, body.Data.Reloads)
	})

	t.Run("no data service", func(t *testing.T) {
		svc := services.NewHealthService("v1", "", nil, logger)
		routes := NewHealthHandler(svc, logger, errorHandler).Routes()

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("root probe", func(t *testing.T) {
		svc := services.NewHealthService("v1", "", loaded, logger)
		routes := NewHealthHandler(svc, logger, errorHandler).Routes()

		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("delegates to exporter", func(t *testing.T) {
		prom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# HELP dashboard_queries_total\n"))
		})
		h := NewMetricsHandler(prom, nil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "dashboard_queries_total")
	})

	t.Run("disabled exporter", func(t *testing.T) {
		h := NewMetricsHandler(nil, apierrors.NewErrorHandler(logger, false))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})
}
