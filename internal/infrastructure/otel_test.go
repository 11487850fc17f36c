package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_PrometheusMetrics(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordPreparation(ctx, "test.csv", 10*time.Millisecond, 3, nil)
	metrics.RecordImputed(ctx, "City_Location", 2)
	metrics.RecordQuery(ctx, "summary")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "preparation_runs_total")
	assert.Contains(t, body, "preparation_cells_imputed_total")
	assert.Contains(t, body, "dashboard_queries_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestInitializeOTel_Tracing(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.MetricExporter = "none"
	var traces bytes.Buffer
	cfg.TraceWriter = &traces

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	span.End()
	require.NoError(t, providers.TracerProvider.ForceFlush(context.Background()))
	assert.Contains(t, traces.String(), `"Name": "op"`)
}

func TestNewResource(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.DataSource = "startup_funding.csv"

	res := newResource(cfg)

	v, ok := res.Set().Value("fundingdash.data.source")
	require.True(t, ok)
	assert.Equal(t, "startup_funding.csv", v.AsString())
	v, ok = res.Set().Value("service.version")
	require.True(t, ok)
	assert.Equal(t, "dev", v.AsString())
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.MetricExporter = "statsd"

	_, err := InitializeOTel(cfg, quietLogger())
	assert.Error(t, err)
}

func TestBusinessMetrics_NilReceiver(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordPreparation(context.Background(), "x", time.Second, 1, nil)
		m.RecordPreparationStep(context.Background(), "load", time.Second)
		m.RecordImputed(context.Background(), "c", 1)
		m.RecordUnparsed(context.Background(), "c", 1)
		m.RecordQuery(context.Background(), "q")
	})
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
