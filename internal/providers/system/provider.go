package system

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

const maxLogs = 1000

// Sessions counts live desktop sessions
type Sessions interface {
	Count() int
}

// Provider implements system information for the desktop shell: the dock
// clock, the date widget and a log sink for window content
type Provider struct {
	startTime time.Time
	logs      *LogBuffer
	sessions  Sessions
	logger    *zap.Logger
	now       func() time.Time
}

// NewProvider creates a system provider
func NewProvider(sessions Sessions, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		startTime: time.Now(),
		logs:      NewLogBuffer(maxLogs),
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "system",
		Name:        "System Service",
		Description: "Clock, runtime information and logging for the desktop shell",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"info",
			"clock",
			"logging",
		},
		Tools: []types.Tool{
			{
				ID:          "system.info",
				Name:        "System Info",
				Description: "Get runtime information",
				Returns:     "object",
			},
			{
				ID:          "system.time",
				Name:        "Current Time",
				Description: "Get the clock and date shown by the dock",
				Returns:     "object",
			},
			{
				ID:          "system.log",
				Name:        "Log Message",
				Description: "Log a message to system logs",
				Parameters: []types.Parameter{
					{Name: "message", Type: "string", Description: "Log message", Required: true},
					{Name: "level", Type: "string", Description: "Log level (info/warn/error)", Required: false},
				},
				Returns: "boolean",
			},
			{
				ID:          "system.logs",
				Name:        "Get Logs",
				Description: "Retrieve recent system logs, newest first",
				Parameters: []types.Parameter{
					{Name: "limit", Type: "number", Description: "Number of logs to retrieve", Required: false},
					{Name: "level", Type: "string", Description: "Filter by log level", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "system.ping",
				Name:        "Ping",
				Description: "Test service availability",
				Returns:     "object",
			},
		},
	}
}

// Execute runs a system operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "system.info":
		return s.info()
	case "system.time":
		return s.currentTime()
	case "system.log":
		return s.log(params, appCtx)
	case "system.logs":
		return s.getLogs(params)
	case "system.ping":
		return service.Success(map[string]interface{}{
			"pong":      true,
			"timestamp": s.now().Unix(),
		}), nil
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (s *Provider) info() (*types.Result, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	data := map[string]interface{}{
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"cpus":           runtime.NumCPU(),
		"goroutines":     runtime.NumGoroutine(),
		"memory_alloc":   m.Alloc / 1024 / 1024, // MB
		"memory_sys":     m.Sys / 1024 / 1024,   // MB
		"uptime_seconds": s.now().Sub(s.startTime).Seconds(),
	}
	if s.sessions != nil {
		data["sessions"] = s.sessions.Count()
	}
	return service.Success(data), nil
}

func (s *Provider) currentTime() (*types.Result, error) {
	now := s.now()
	return service.Success(map[string]interface{}{
		"timestamp": now.Unix(),
		"iso":       now.Format(time.RFC3339),
		"clock":     now.Format("15:04"),
		"date":      now.Format("Jan 2"),
		"day":       now.Day(),
		"weekday":   now.Weekday().String(),
		"month":     now.Month().String(),
	}), nil
}

func (s *Provider) log(params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	message, ok := service.String(params, "message")
	if !ok || message == "" {
		return service.Failure("message required"), nil
	}

	level := "info"
	if l, ok := service.String(params, "level"); ok && l != "" {
		level = l
	}

	entry := &LogEntry{
		Timestamp: s.now(),
		Level:     level,
		Message:   message,
	}
	if ctx != nil {
		if ctx.AppID != nil {
			entry.AppID = *ctx.AppID
		}
		if ctx.WindowID != nil {
			entry.WindowID = *ctx.WindowID
		}
	}
	s.logs.Add(entry)

	fields := []zap.Field{
		zap.String("app_id", entry.AppID),
		zap.String("window_id", entry.WindowID),
	}
	switch level {
	case "error":
		s.logger.Error(message, fields...)
	case "warn":
		s.logger.Warn(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}

	return service.Success(map[string]interface{}{"logged": true}), nil
}

func (s *Provider) getLogs(params map[string]interface{}) (*types.Result, error) {
	limit := 100
	if l, ok := params["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	levelFilter, _ := service.String(params, "level")
	logs := s.logs.Recent(limit, levelFilter)

	return service.Success(map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	}), nil
}
