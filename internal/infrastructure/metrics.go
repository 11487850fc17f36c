package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Preparation metrics
	PreparationRunsTotal metric.Int64Counter
	PreparationDuration  metric.Float64Histogram
	PreparationStepTime  metric.Float64Histogram
	RowsLoaded           metric.Int64Counter
	CellsImputed         metric.Int64Counter
	ValuesUnparsed       metric.Int64Counter

	// Query metrics
	QueriesTotal metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.PreparationRunsTotal, err = meter.Int64Counter(
		"preparation_runs_total",
		metric.WithDescription("Total number of cleaning pipeline runs"),
	); err != nil {
		return nil, err
	}

	if m.PreparationDuration, err = meter.Float64Histogram(
		"preparation_duration_seconds",
		metric.WithDescription("Cleaning pipeline duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.PreparationStepTime, err = meter.Float64Histogram(
		"preparation_step_duration_seconds",
		metric.WithDescription("Cleaning step duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.RowsLoaded, err = meter.Int64Counter(
		"preparation_rows_loaded_total",
		metric.WithDescription("Total number of funding rows read from input"),
	); err != nil {
		return nil, err
	}

	if m.CellsImputed, err = meter.Int64Counter(
		"preparation_cells_imputed_total",
		metric.WithDescription("Total number of missing cells replaced by imputation"),
	); err != nil {
		return nil, err
	}

	if m.ValuesUnparsed, err = meter.Int64Counter(
		"preparation_values_unparsed_total",
		metric.WithDescription("Total number of amount or date values that failed to parse"),
	); err != nil {
		return nil, err
	}

	if m.QueriesTotal, err = meter.Int64Counter(
		"dashboard_queries_total",
		metric.WithDescription("Total number of dashboard queries served"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPreparation records one pipeline run.
func (m *BusinessMetrics) RecordPreparation(ctx context.Context, source string, duration time.Duration, rows int, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	)

	m.PreparationRunsTotal.Add(ctx, 1, attrs)
	m.PreparationDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("source", source)))
	}
}

// RecordPreparationStep records the duration of one cleaning step.
func (m *BusinessMetrics) RecordPreparationStep(ctx context.Context, step string, duration time.Duration) {
	if m == nil {
		return
	}
	m.PreparationStepTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("step", step)))
}

// RecordImputed records cells filled in one column.
func (m *BusinessMetrics) RecordImputed(ctx context.Context, column string, cells int) {
	if m == nil || cells == 0 {
		return
	}
	m.CellsImputed.Add(ctx, int64(cells), metric.WithAttributes(attribute.String("column", column)))
}

// RecordUnparsed records values of one column that became missing during parsing.
func (m *BusinessMetrics) RecordUnparsed(ctx context.Context, column string, values int) {
	if m == nil || values == 0 {
		return
	}
	m.ValuesUnparsed.Add(ctx, int64(values), metric.WithAttributes(attribute.String("column", column)))
}

// RecordQuery records one dashboard query.
func (m *BusinessMetrics) RecordQuery(ctx context.Context, query string) {
	if m == nil {
		return
	}
	m.QueriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", query)))
}

// RecordHTTPRequest records one served HTTP request.
func (m *BusinessMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// AddActiveRequests moves the in-flight request gauge by delta.
func (m *BusinessMetrics) AddActiveRequests(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, delta)
}
