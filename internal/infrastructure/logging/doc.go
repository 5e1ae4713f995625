// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Session tokens never reach the log in full; ForSession and Redact keep
// only a short prefix.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.ForSession(token).Debug("Window opened", zap.String("app_id", appID))
package logging
