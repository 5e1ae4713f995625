package assistant

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Provider exposes the assistant to the chat window
type Provider struct {
	client *Client
}

// NewProvider creates an assistant provider
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "assistant",
		Name:        "Nexus AI",
		Description: "Conversational assistant behind the chat window",
		Category:    types.CategoryAI,
		Capabilities: []string{
			"chat",
		},
		Tools: []types.Tool{
			{
				ID:          "assistant.request",
				Name:        "Ask",
				Description: "Send a prompt and receive a text reply",
				Parameters: []types.Parameter{
					{Name: "prompt", Type: "string", Description: "User message", Required: true},
					{Name: "model", Type: "string", Description: "Model override", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "assistant.status",
				Name:        "Status",
				Description: "Report whether the assistant is configured and reachable",
				Returns:     "object",
			},
		},
	}
}

// Execute runs an assistant operation. Upstream failures become a reply
// text, never an error.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "assistant.request":
		prompt, ok := service.String(params, "prompt")
		if !ok || prompt == "" {
			return service.Failure("prompt required"), nil
		}
		model, _ := service.String(params, "model")
		return service.Success(map[string]interface{}{
			"reply": p.client.Request(ctx, prompt, model),
		}), nil

	case "assistant.status":
		return service.Success(map[string]interface{}{
			"configured": p.client.Configured(),
			"breaker":    p.client.BreakerState().String(),
			"model":      p.client.cfg.Model,
		}), nil

	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}
