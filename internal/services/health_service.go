package services

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"leadscope/pkg/contracts"
)

// ClientCounter reports connected websocket listeners.
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version       contracts.VersionInfo
	hub           ClientCounter
	aiConfigured  bool
	sheetsEnabled bool
	startTime     time.Time
	logger        *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]any           `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Service health states. A disabled optional dependency does not make the
// service unready.
const (
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusDisabled = "disabled"
)

// NewHealthService creates a health service. hub may be nil.
func NewHealthService(version contracts.VersionInfo, hub ClientCounter, aiConfigured, sheetsEnabled bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:       version,
		hub:           hub,
		aiConfigured:  aiConfigured,
		sheetsEnabled: sheetsEnabled,
		startTime:     time.Now(),
		logger:        logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "performing health check",
		slog.Duration("uptime", time.Since(hs.startTime)))
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version.Version,
	}
}

// ReadinessCheck reports each dependency. The service is ready when the
// classifier is configured.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version.Version,
		Services: map[string]ServiceHealth{
			"classifier": hs.checkClassifier(),
			"websocket":  hs.checkWebSocket(),
			"sheets":     hs.checkSheets(),
		},
	}
	for name, service := range status.Services {
		if service.Status == StatusNotReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "dependency not ready",
				slog.String("dependency", name),
				slog.String("message", service.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version.Version,
		Runtime: map[string]any{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]any {
	result := map[string]any{
		"version":      hs.version.Version,
		"api_version":  hs.version.APIVersion,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.version.BuildTime != "" {
		result["build_time"] = hs.version.BuildTime
	}
	if hs.version.GitCommit != "" {
		result["git_commit"] = hs.version.GitCommit
	}
	return result
}

func (hs *HealthService) checkClassifier() ServiceHealth {
	if !hs.aiConfigured {
		return ServiceHealth{Status: StatusNotReady, Message: "GEMINI_API_KEY is not set"}
	}
	return ServiceHealth{Status: StatusReady}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: StatusDisabled}
	}
	return ServiceHealth{Status: StatusReady, Message: pluralClients(hs.hub.ClientCount())}
}

func (hs *HealthService) checkSheets() ServiceHealth {
	if !hs.sheetsEnabled {
		return ServiceHealth{Status: StatusDisabled, Message: "no spreadsheet configured"}
	}
	return ServiceHealth{Status: StatusReady}
}

func pluralClients(n int) string {
	if n == 1 {
		return "1 client connected"
	}
	return strconv.Itoa(n) + " clients connected"
}
