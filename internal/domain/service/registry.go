package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

var (
	// ErrServiceNotFound means no provider is registered under the tool's service id
	ErrServiceNotFound = errors.New("service not found")
	// ErrInvalidToolID means a tool id is not of the form "service.tool"
	ErrInvalidToolID = errors.New("invalid tool ID format")
)

// Provider is a collaborator that window content may call.
// The window manager never does.
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Registry manages service discovery and execution
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewRegistry creates a new service registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		providers: make(map[string]Provider),
		logger:    logger,
	}
}

// WithMetrics adds metrics tracking to service calls
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[def.ID]; exists {
		return fmt.Errorf("service already registered: %s", def.ID)
	}
	r.providers[def.ID] = provider
	return nil
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[serviceID]
	return p, ok
}

// List returns registered services sorted by id, optionally filtered by category
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]types.Service, 0, len(r.providers))
	for _, p := range r.providers {
		def := p.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// ParseToolID splits "service.tool" into its service id
func ParseToolID(toolID string) (string, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok || serviceID == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidToolID, toolID)
	}
	return serviceID, nil
}

// Execute runs a service tool. Failures inside the provider come back as
// an unsuccessful Result; routing failures come back as errors.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, err := ParseToolID(toolID)
	if err != nil {
		return Failure(err.Error()), err
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
		return Failure(err.Error()), err
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	timer := monitoring.NewTimer(r.metrics, serviceID, toolID)
	result, err := provider.Execute(ctx, toolID, params, appCtx)

	status := "success"
	switch {
	case err != nil:
		status = "error"
		r.logger.Error("Service call failed",
			zap.String("tool_id", toolID),
			zap.Error(err),
		)
	case result == nil || !result.Success:
		status = "failure"
	}
	timer.Stop(status)

	return result, err
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var totalTools int
	categories := make(map[string]int)

	services := r.List(nil)
	for _, def := range services {
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
	}

	return map[string]interface{}{
		"total_services": len(services),
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

// Success builds a successful result
func Success(data map[string]interface{}) *types.Result {
	return &types.Result{Success: true, Data: data}
}

// Failure builds an unsuccessful result
func Failure(message string) *types.Result {
	msg := message
	return &types.Result{Success: false, Error: &msg}
}

// String reads a string parameter
func String(params map[string]interface{}, key string) (string, bool) {
	v, ok := params[key].(string)
	return v, ok
}

// Path reads a path parameter: a list of ids from the tree root
func Path(params map[string]interface{}, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return []string{}, nil
	}

	switch v := raw.(type) {
	case []string:
		return append([]string{}, v...), nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", key, i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a list of ids", key)
	}
}
