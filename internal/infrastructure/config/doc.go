// Package config provides 12-factor configuration management for the NexusOS backend.
//
// Configuration is loaded from environment variables with defaults.
// CLI flags can override the server address and log mode.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, GRPC_ADDR, GRPC_ENABLED
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - VIEWPORT_WIDTH, VIEWPORT_HEIGHT, DOCK_RESERVE
//   - APPS_MANIFEST, GATE_PASSWORDS, STORAGE_PATH, SETTINGS_PATH
//   - ASSISTANT_API_KEY, ASSISTANT_MODEL, ASSISTANT_BASE_URL, ASSISTANT_TIMEOUT
package config
