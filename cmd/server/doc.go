// Package main is the entry point for the NexusOS desktop backend.
//
// The server owns every desktop session's window set and serves it to the
// web client over REST and WebSocket.
//
// Commands:
//   - serve: run the HTTP API, the /stream WebSocket and, when
//     GRPC_ENABLED is set, the gRPC health endpoint
//   - apps: print the application catalogue
//   - health: probe a running server's gRPC health endpoint
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./nexus serve --port 8000
//
//	# Development mode (colored logs, debug level)
//	./nexus serve --dev
//
//	# Custom catalogue
//	APPS_MANIFEST=apps.yaml ./nexus apps
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
