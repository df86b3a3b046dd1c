// Package app provides application initialization and lifecycle management
// for the leadscope service. It wires configuration, logging, telemetry, the
// services and the HTTP router together, and owns graceful shutdown.
//
// # Initialization Flow
//
//	1. Load configuration from .env, an optional YAML file and the environment
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Create the model client and Sheets publisher when credentials exist
//	4. Build the services and the websocket hub
//	5. Set up handlers and middleware
//	6. Start the HTTP server
//
// A missing GEMINI_API_KEY or spreadsheet id disables the dependent features;
// /health/ready reports them.
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
