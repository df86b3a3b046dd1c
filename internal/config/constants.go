package config

// Application constants
const (
	AppName = "leadscope"

	HealthEndpoint    = "/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
