package settings

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Provider exposes system settings to the settings window
type Provider struct {
	store *Store
}

// NewProvider creates a settings provider
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "settings",
		Name:        "Settings Service",
		Description: "System configuration edited by the settings window",
		Category:    types.CategorySettings,
		Capabilities: []string{
			"get",
			"update",
			"reset",
		},
		Tools: []types.Tool{
			{
				ID:          "settings.get",
				Name:        "Get Settings",
				Description: "Read the current system configuration",
				Returns:     "object",
			},
			{
				ID:          "settings.update",
				Name:        "Update Settings",
				Description: "Merge a partial configuration",
				Parameters: []types.Parameter{
					{Name: "wifi", Type: "boolean", Description: "Wireless enabled"},
					{Name: "bluetooth", Type: "boolean", Description: "Bluetooth enabled"},
					{Name: "display_res", Type: "number", Description: "Display resolution option"},
					{Name: "volume", Type: "number", Description: "Volume 0-100"},
					{Name: "is_muted", Type: "boolean", Description: "Audio muted"},
					{Name: "security", Type: "boolean", Description: "Firewall enabled"},
					{Name: "performance", Type: "number", Description: "Performance profile option"},
					{Name: "language", Type: "number", Description: "Language option"},
					{Name: "theme", Type: "number", Description: "Theme option"},
					{Name: "account", Type: "string", Description: "Account display name"},
				},
				Returns: "object",
			},
			{
				ID:          "settings.reset",
				Name:        "Reset Settings",
				Description: "Restore factory settings",
				Returns:     "object",
			},
		},
	}
}

// Execute runs a settings operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "settings.get":
		return service.Success(map[string]interface{}{"config": p.store.Get()}), nil

	case "settings.update":
		patch, err := ParsePatch(params)
		if err != nil {
			return service.Failure(err.Error()), nil
		}
		cfg, err := p.store.Update(patch)
		if err != nil {
			return service.Failure(err.Error()), nil
		}
		return service.Success(map[string]interface{}{"config": cfg}), nil

	case "settings.reset":
		cfg, err := p.store.Reset()
		if err != nil {
			return service.Failure(err.Error()), nil
		}
		return service.Success(map[string]interface{}{"config": cfg}), nil

	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}
