package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"fundingdash/internal/infrastructure"
)

// DataStatusProvider reports the state of the loaded funding data.
type DataStatusProvider interface {
	Status() DataStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	data      DataStatusProvider
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. data may be nil, in which case
// the service never reports ready.
func NewHealthService(version, buildTime string, data DataStatusProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "health_service"))

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		data:      data,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once funding data has been prepared.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	data := hs.checkDataHealth()
	status.Services["data"] = data
	if data.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.String("reason", data.Message))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

// DataStatus returns the loaded data description. ok is false when no data
// service is configured.
func (hs *HealthService) DataStatus() (status DataStatus, ok bool) {
	if hs.data == nil {
		return DataStatus{}, false
	}
	return hs.data.Status(), true
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.data == nil {
		return ServiceHealth{Status: "not_ready", Message: "data service not configured"}
	}
	st := hs.data.Status()
	if !st.Loaded {
		return ServiceHealth{Status: "not_ready", Message: "funding data not loaded"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d records from %s", st.Rows, st.Source),
		Uptime:  time.Since(st.LoadedAt).Round(time.Second).String(),
	}
}
