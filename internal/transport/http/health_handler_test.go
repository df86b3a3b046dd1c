package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscope/internal/services"
	"leadscope/pkg/contracts"
)

func TestHealthHandler(t *testing.T) {
	version := contracts.VersionInfo{Version: "1.2.3", APIVersion: "v1"}

	tests := []struct {
		name           string
		aiConfigured   bool
		handlerFunc    func(h *HealthHandler) http.HandlerFunc
		expectedStatus int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:           "greeting",
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.Greet },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				assert.Equal(t, "Hello World!", string(body))
			},
		},
		{
			name:           "health",
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var status services.HealthStatus
				require.NoError(t, json.Unmarshal(body, &status))
				assert.Equal(t, "ok", status.Status)
				assert.Equal(t, "1.2.3", status.Version)
			},
		},
		{
			name:           "ready",
			aiConfigured:   true,
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var status services.HealthStatus
				require.NoError(t, json.Unmarshal(body, &status))
				assert.Equal(t, services.StatusReady, status.Status)
				assert.Equal(t, services.StatusDisabled, status.Services["sheets"].Status)
			},
		},
		{
			name:           "not ready without api key",
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, body []byte) {
				var status services.HealthStatus
				require.NoError(t, json.Unmarshal(body, &status))
				assert.Equal(t, services.StatusNotReady, status.Status)
				assert.Equal(t, services.StatusNotReady, status.Services["classifier"].Status)
			},
		},
		{
			name:           "live",
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `"status":"alive"`)
				assert.Contains(t, string(body), `"goroutines"`)
			},
		},
		{
			name:           "version",
			handlerFunc:    func(h *HealthHandler) http.HandlerFunc { return h.Version },
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var info map[string]any
				require.NoError(t, json.Unmarshal(body, &info))
				assert.Equal(t, "1.2.3", info["version"])
				assert.Equal(t, "v1", info["api_version"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewHealthService(version, nil, tt.aiConfigured, false, testLogger())
			h := NewHealthHandler(svc, testLogger())

			rec := httptest.NewRecorder()
			tt.handlerFunc(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.checkResponse(t, rec.Body.Bytes())
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	t.Run("exposition", func(t *testing.T) {
		exposition := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("http_requests_total 1\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exposition, testErrorHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http_requests_total 1\n", rec.Body.String())
	})

	t.Run("no exporter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, testErrorHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
